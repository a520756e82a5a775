// Package proof builds the PASSWORD_CLAIM_SIGNATURE (and, by the same
// construction, DEVICE_PASSWORD_CLAIM_SIGNATURE) the remote identity
// service expects as proof the client derived the correct SRP session key.
package proof

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"time"
)

// Build returns the base64-encoded HMAC-SHA256 digest of
// utf8(realmID) || utf8(identifier) || secretBlock || utf8(Timestamp(ts))
// keyed by the 16-byte HKDF session key, plus the timestamp string used
// (the caller must echo it back verbatim as the TIMESTAMP parameter).
func Build(hkdfKey []byte, realmID, identifier string, secretBlock []byte, ts time.Time) (signature, timestamp string) {
	timestamp = Timestamp(ts)

	mac := hmac.New(sha256.New, hkdfKey)
	mac.Write([]byte(realmID))
	mac.Write([]byte(identifier))
	mac.Write(secretBlock)
	mac.Write([]byte(timestamp))

	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), timestamp
}
