package cogauth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// computeSecretHash calculates the SECRET_HASH parameter required by the
// identity service when the app client has a client secret configured.
// Formula: Base64(HMAC_SHA256(clientSecret, username + clientID)).
func computeSecretHash(username, clientID, clientSecret string) string {
	mac := hmac.New(sha256.New, []byte(clientSecret))
	mac.Write([]byte(username + clientID))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
