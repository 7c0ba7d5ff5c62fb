package dynamo

// DynamoDB attribute names used in keys and expressions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldUserID      = "user_id"
	fieldPhoneNumber = "phone_number"
	fieldIsAgent     = "is_agent"
	fieldIsApproved  = "is_approved"
	fieldUpdatedAt   = "updated_at"

	fieldRequestID = "request_id"
	fieldOwnerID   = "owner_id"
	fieldStatus    = "status"
	fieldCreatedAt = "created_at"

	fieldNotificationID = "notification_id"
	fieldIsRead         = "is_read"

	fieldCodeHash  = "code_hash"
	fieldExpiresAt = "expires_at"
)

// Index names created by Bootstrap.
const (
	indexUserPhone      = "phone_number-index"
	indexRequestOwner   = "owner_id-created_at-index"
	indexNotificationTS = "type-created_at-index"
)
