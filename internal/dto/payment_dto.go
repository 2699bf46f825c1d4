package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateOrderRequest struct {
	Plan   string     `json:"plan" validate:"required,oneof=pro ultra"`
	Email  string     `json:"email" validate:"required,email"`
	UserId *uuid.UUID `json:"userId,omitempty"`
}

type CreateOrderResponse struct {
	OrderId  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyId    string `json:"keyId"`
}

// VerifyPaymentRequest uses the field names the checkout widget posts back.
type VerifyPaymentRequest struct {
	OrderId   string `json:"razorpay_order_id"`
	PaymentId string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

type VerifyPaymentResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Plan    string `json:"plan"`
}

type PromoteOrderResponse struct {
	OrderId  string     `json:"orderId"`
	Plan     string     `json:"plan"`
	Promoted bool       `json:"promoted"`
	At       *time.Time `json:"promotedAt,omitempty"`
}

type OrderHistoryItem struct {
	OrderId    string     `json:"orderId"`
	Plan       string     `json:"plan"`
	Amount     int64      `json:"amount"`
	Currency   string     `json:"currency"`
	Status     string     `json:"status"`
	PaymentId  string     `json:"paymentId,omitempty"`
	PromotedAt *time.Time `json:"promotedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// PromotionRetryMessage is the payload of the promotion retry topic.
type PromotionRetryMessage struct {
	GatewayOrderId string `json:"gatewayOrderId"`
	Attempt        int    `json:"attempt"`
}
