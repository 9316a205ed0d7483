package queue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Record is the persisted form of an operation.
type Record struct {
	ID         string         `json:"operation_id"`
	Payload    map[string]any `json:"payload,omitempty"`
	Attachment any            `json:"attachment,omitempty"`
}

// Codec converts between records and the stored blob.
//
// Both directions are lossy by contract: Encode returns a usable blob
// together with an error describing entries that were degraded or skipped,
// and Decode returns every entry it could read together with an error
// describing the ones it dropped. A nil blob from Encode means nothing
// could be written.
type Codec interface {
	Encode(records []Record) ([]byte, error)
	Decode(blob []byte) ([]Record, error)
}

// JSONCodec stores the queue as a JSON array of objects.
//
// Payload and attachment values go through encoding/json, so numbers come
// back as float64 and custom types come back as maps.
type JSONCodec struct{}

func (JSONCodec) Encode(records []Record) ([]byte, error) {
	entries := make([]json.RawMessage, 0, len(records))
	var errs []error

	for i, rec := range records {
		raw, err := json.Marshal(rec)
		if err != nil && rec.Attachment != nil {
			errs = append(errs, fmt.Errorf("%w: entry %d (%s): %v", ErrAttachmentDropped, i, rec.ID, err))
			rec.Attachment = nil
			raw, err = json.Marshal(rec)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: entry %d (%s): %v", ErrEntrySkipped, i, rec.ID, err))
			continue
		}
		entries = append(entries, raw)
	}

	blob, err := json.Marshal(entries)
	if err != nil {
		return nil, errors.Join(ErrEncodeQueue, err)
	}
	return blob, errors.Join(errs...)
}

func (JSONCodec) Decode(blob []byte) ([]Record, error) {
	if len(bytes.TrimSpace(blob)) == 0 {
		return nil, nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(blob, &entries); err != nil {
		return nil, errors.Join(ErrMalformedQueue, err)
	}

	records := make([]Record, 0, len(entries))
	var errs []error
	for i, raw := range entries {
		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			errs = append(errs, fmt.Errorf("%w: entry %d: %v", ErrEntryInvalid, i, err))
			continue
		}
		if rec.ID == "" {
			errs = append(errs, fmt.Errorf("%w: entry %d: missing operation_id", ErrEntryInvalid, i))
			continue
		}
		records = append(records, rec)
	}
	return records, errors.Join(errs...)
}
