package ingest

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// signaturePrefix is the scheme tag carried in X-Webhook-Signature.
const signaturePrefix = "sha256="

// validSignature reports whether header matches the HMAC-SHA256 of body
// under secret. Comparison is constant-time.
func validSignature(secret string, body []byte, header string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	want := signaturePrefix + hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(strings.TrimSpace(header)), []byte(want))
}
