package provider

import (
	"crypto/hmac"
	"crypto/sha256"
)

// Sign HMAC-SHA256 от сырого тела запроса.
func Sign(secret, body []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return mac.Sum(nil)
}

// VerifySignature сравнение в постоянное время.
func VerifySignature(secret, body, signature []byte) bool {
	if len(secret) == 0 || len(signature) == 0 {
		return false
	}
	return hmac.Equal(Sign(secret, body), signature)
}
