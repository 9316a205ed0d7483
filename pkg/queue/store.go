package queue

import "slices"

// operations is the ordered queue, oldest first. It is only touched from the
// scheduling goroutine.
type operations []*Operation

func (ops *operations) append(op *Operation) {
	*ops = append(*ops, op)
}

// indexOf finds an instance by pointer.
func (ops operations) indexOf(op *Operation) int {
	return slices.Index(ops, op)
}

// match finds op by pointer, falling back to structural equality. Among
// structural matches the tail wins, then the oldest.
func (ops operations) match(op *Operation) int {
	if i := ops.indexOf(op); i >= 0 {
		return i
	}
	if n := len(ops); n > 0 && ops[n-1].Equal(op) {
		return n - 1
	}
	return slices.IndexFunc(ops, op.Equal)
}

func (ops *operations) removeAt(i int) *Operation {
	op := (*ops)[i]
	*ops = slices.Delete(*ops, i, i+1)
	return op
}

// removeInstance removes exactly this instance; structurally equal
// duplicates are left alone.
func (ops *operations) removeInstance(op *Operation) bool {
	i := ops.indexOf(op)
	if i < 0 {
		return false
	}
	ops.removeAt(i)
	return true
}

// remove removes at most one operation matching op. Returns the removed
// instance or nil.
func (ops *operations) remove(op *Operation) *Operation {
	i := ops.match(op)
	if i < 0 {
		return nil
	}
	return ops.removeAt(i)
}

func (ops operations) records() []Record {
	records := make([]Record, len(ops))
	for i, op := range ops {
		records[i] = Record{
			ID:         op.id,
			Payload:    op.payload,
			Attachment: op.attachment,
		}
	}
	return records
}

func (ops operations) snapshots() []Snapshot {
	snaps := make([]Snapshot, len(ops))
	for i, op := range ops {
		snaps[i] = op.snapshot()
	}
	return snaps
}

func operationsFromRecords(records []Record) operations {
	ops := make(operations, 0, len(records))
	for _, rec := range records {
		ops = append(ops, NewOperation(rec.ID, rec.Payload, rec.Attachment))
	}
	return ops
}

// encodeOperations returns the blob even when some entries were degraded;
// the error then describes what was lost.
func encodeOperations(codec Codec, ops operations) ([]byte, error) {
	return codec.Encode(ops.records())
}

// decodeOperations returns every operation that could be decoded; the error
// describes dropped entries. All restored operations are Ready.
func decodeOperations(codec Codec, blob []byte) (operations, error) {
	records, err := codec.Decode(blob)
	return operationsFromRecords(records), err
}
