package security

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashToken : в хранилище refresh-токенов лежит только sha256 от строки токена
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
