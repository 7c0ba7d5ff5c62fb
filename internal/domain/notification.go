package domain

import "time"

const NotificationAgentViewedRequest = "agent_viewed_request"

type Notification struct {
	ID               string    `json:"id" dynamodbav:"notification_id"`
	Type             string    `json:"type" dynamodbav:"type"`
	RequestID        string    `json:"requestId" dynamodbav:"request_id"`
	AgentID          string    `json:"agentId" dynamodbav:"agent_id"`
	AgentName        string    `json:"agentName,omitempty" dynamodbav:"agent_name,omitempty"`
	AgentPhoneNumber string    `json:"agentPhoneNumber,omitempty" dynamodbav:"agent_phone_number,omitempty"`
	Message          string    `json:"message" dynamodbav:"message"`
	IsRead           bool      `json:"isRead" dynamodbav:"is_read"`
	CreatedAt        time.Time `json:"createdAt" dynamodbav:"created_at"`
}
