package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func hmacHex(secret, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature_ValidDigest(t *testing.T) {
	body := `{"transactionId":"KKI123","status":"SUCCESS"}`
	secret := "s3cret"

	require.NoError(t, VerifySignature([]byte(body), hmacHex(secret, body), secret))
}

func TestVerifySignature_Sha256Prefix(t *testing.T) {
	body := `{"transactionId":"KKI123"}`
	secret := "s3cret"

	require.NoError(t, VerifySignature([]byte(body), "sha256="+hmacHex(secret, body), secret))
}

func TestVerifySignature_TamperedBody(t *testing.T) {
	secret := "s3cret"
	sig := hmacHex(secret, `{"amount":50000}`)

	err := VerifySignature([]byte(`{"amount":99999}`), sig, secret)
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifySignature_WrongSecret(t *testing.T) {
	body := `{"amount":50000}`
	err := VerifySignature([]byte(body), hmacHex("other", body), "s3cret")
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifySignature_MissingHeader(t *testing.T) {
	err := VerifySignature([]byte("{}"), "", "s3cret")
	require.ErrorIs(t, err, ErrMissingSignature)
}

// An empty secret skips verification entirely. This is the documented
// dev-environment bypass and must keep working, signed or not.
func TestVerifySignature_EmptySecretSkips(t *testing.T) {
	require.NoError(t, VerifySignature([]byte("anything"), "", ""))
	require.NoError(t, VerifySignature([]byte("anything"), "garbage-signature", ""))
}
