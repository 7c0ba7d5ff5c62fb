package domain

import (
	"fmt"
	"time"
)

// RequestStatus is the lifecycle state of an estate request.
type RequestStatus string

const (
	StatusPending    RequestStatus = "pending"
	StatusInProgress RequestStatus = "in_progress"
	StatusCompleted  RequestStatus = "completed"
)

// ParseRequestStatus returns the status named by s, or an ErrBadRequest-wrapped
// error when s is not one of the known values.
func ParseRequestStatus(s string) (RequestStatus, error) {
	switch st := RequestStatus(s); st {
	case StatusPending, StatusInProgress, StatusCompleted:
		return st, nil
	}
	return "", fmt.Errorf("valid status is required (pending, in_progress, completed): %w", ErrBadRequest)
}

type EstateRequest struct {
	ID                     string        `json:"id" dynamodbav:"request_id"`
	OwnerID                string        `json:"userId" dynamodbav:"owner_id"`
	PropertyType           string        `json:"propertyType" dynamodbav:"property_type"`
	Location               string        `json:"location" dynamodbav:"location"`
	Budget                 string        `json:"budget" dynamodbav:"budget"`
	Bedrooms               string        `json:"bedrooms,omitempty" dynamodbav:"bedrooms,omitempty"`
	Bathrooms              string        `json:"bathrooms,omitempty" dynamodbav:"bathrooms,omitempty"`
	Surface                string        `json:"surface,omitempty" dynamodbav:"surface,omitempty"`
	District               string        `json:"district,omitempty" dynamodbav:"district,omitempty"`
	AdditionalRequirements string        `json:"additionalRequirements,omitempty" dynamodbav:"additional_requirements,omitempty"`
	Status                 RequestStatus `json:"status" dynamodbav:"status"`
	CreatedAt              time.Time     `json:"createdAt" dynamodbav:"created_at"`
}

// RequestWithSubmitter is the agent view of a request, carrying the
// submitter's contact details.
type RequestWithSubmitter struct {
	EstateRequest
	UserPhoneNumber string `json:"userPhoneNumber,omitempty"`
	UserName        string `json:"userName,omitempty"`
}

type CreateEstateRequest struct {
	PropertyType           string `json:"propertyType" validate:"required"`
	Location               string `json:"location" validate:"required"`
	Budget                 string `json:"budget" validate:"required"`
	Bedrooms               string `json:"bedrooms"`
	Bathrooms              string `json:"bathrooms"`
	Surface                string `json:"surface"`
	District               string `json:"district"`
	AdditionalRequirements string `json:"additionalRequirements"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}
