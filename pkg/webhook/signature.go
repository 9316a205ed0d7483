package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Signature headers set on every signed request.
const (
	HeaderSignature = "X-Offlineq-Signature"
	HeaderTimestamp = "X-Offlineq-Timestamp"
	HeaderKey       = "X-Offlineq-Key"
)

// Sign returns the hex HMAC-SHA256 of "<timestamp>.<body>".
func Sign(secret string, timestamp int64, body []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(h, "%d.", timestamp)
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// Verify checks the signature headers of a received request against body.
// A positive maxAge rejects timestamps older than maxAge or more than a
// minute in the future.
func Verify(secret string, header http.Header, body []byte, maxAge time.Duration, now time.Time) error {
	if secret == "" {
		return ErrSecretRequired
	}

	signature := header.Get(HeaderSignature)
	rawTimestamp := header.Get(HeaderTimestamp)
	if signature == "" || rawTimestamp == "" {
		return ErrSignatureMissing
	}
	timestamp, err := strconv.ParseInt(rawTimestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: invalid timestamp %q", ErrSignatureMissing, rawTimestamp)
	}

	if maxAge > 0 {
		age := now.Sub(time.Unix(timestamp, 0))
		if age > maxAge || age < -time.Minute {
			return fmt.Errorf("%w: %v", ErrSignatureExpired, age)
		}
	}

	expected := Sign(secret, timestamp, body)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrSignatureInvalid
	}
	return nil
}
