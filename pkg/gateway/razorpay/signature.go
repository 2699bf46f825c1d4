package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// PaymentSignature is hex(HMAC-SHA256(secret, orderId + "|" + paymentId)).
func PaymentSignature(secret, orderId, paymentId string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderId + "|" + paymentId))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyPaymentSignature compares in constant time.
func VerifyPaymentSignature(secret, orderId, paymentId, signature string) bool {
	expected := PaymentSignature(secret, orderId, paymentId)
	return hmac.Equal([]byte(expected), []byte(signature))
}
