package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

var (
	ErrMissingSignature = errors.New("missing webhook signature")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// VerifySignature checks the HMAC-SHA256 of the raw request body against the
// caller-supplied header. The header may carry the bare lowercase hex digest
// or the GitHub-style "sha256=<hex>" form. Comparison is constant-time.
//
// An empty secret disables verification entirely; that is a deliberate
// fallback for environments without a configured secret and the caller is
// expected to log it.
func VerifySignature(rawBody []byte, header, secret string) error {
	if secret == "" {
		return nil
	}
	if header == "" {
		return ErrMissingSignature
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))

	got := strings.TrimPrefix(header, "sha256=")
	if !hmac.Equal([]byte(got), []byte(expected)) {
		return ErrInvalidSignature
	}
	return nil
}
