package utils

import (
	"crypto/sha256"
	"encoding/base64"
)

// HashToken derives the stable identifier under which a token is tracked in
// the revocation store. The raw token string never touches Redis.
func HashToken(raw string) string {
	hasher := sha256.New()
	hasher.Write([]byte(raw))
	return base64.URLEncoding.EncodeToString(hasher.Sum(nil))
}
