package domain

import "time"

// VerificationCode is the pending one-time code for a phone number.
// PK: phone_number. Only the bcrypt hash of the code is stored.
// ExpiresAtMillis decides validity; ExpiresAt is the same instant rounded up
// to whole seconds for DynamoDB TTL.
type VerificationCode struct {
	PhoneNumber     string `json:"phone_number" dynamodbav:"phone_number"`
	CodeHash        string `json:"code_hash" dynamodbav:"code_hash"`
	ExpiresAtMillis int64  `json:"expires_at_ms" dynamodbav:"expires_at_ms"`
	ExpiresAt       int64  `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
}

// NewVerificationCode builds a pending code that stops being valid after expiresAt.
func NewVerificationCode(phone, codeHash string, expiresAt time.Time) *VerificationCode {
	ms := expiresAt.UnixMilli()
	return &VerificationCode{
		PhoneNumber:     phone,
		CodeHash:        codeHash,
		ExpiresAtMillis: ms,
		ExpiresAt:       (ms + 999) / 1000,
	}
}

// Expired reports whether now is past the expiry instant. The expiry
// millisecond itself still counts as valid.
func (v *VerificationCode) Expired(now time.Time) bool {
	return now.UnixMilli() > v.ExpiresAtMillis
}
