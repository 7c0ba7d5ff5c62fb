package domain

import "time"

// User is keyed by ID; PhoneNumber is unique and resolved through the
// phone_number-index GSI. Admin status is never stored here.
type User struct {
	ID          string    `json:"id" dynamodbav:"user_id"`
	PhoneNumber string    `json:"phoneNumber" dynamodbav:"phone_number"`
	Name        string    `json:"name,omitempty" dynamodbav:"name,omitempty"`
	IsNewUser   bool      `json:"isNewUser" dynamodbav:"is_new_user"`
	IsAgent     bool      `json:"isAgent" dynamodbav:"is_agent"`
	IsApproved  bool      `json:"isApproved" dynamodbav:"is_approved"`
	CreatedAt   time.Time `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" dynamodbav:"updated_at"`
}

// IsApprovedAgent reports whether the user may use agent-only routes.
func (u *User) IsApprovedAgent() bool {
	return u.IsAgent && u.IsApproved
}

type SendVerificationRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
}

type VerifyCodeRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	Code        string `json:"code" validate:"required"`
	Agent       Flag   `json:"agent"`
}

type CompleteRegistrationRequest struct {
	UserID  string `json:"userId" validate:"required"`
	Name    string `json:"name" validate:"required"`
	IsAgent *bool  `json:"isAgent"`
}

type AdminAuthRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	Code        string `json:"code" validate:"required"`
}

type SetAgentRoleRequest struct {
	IsAgent *bool `json:"isAgent" validate:"required"`
}
