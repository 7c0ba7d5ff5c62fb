package dynamo

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/estate-leads-api/internal/domain"
)

// NotificationRepo provides typed DynamoDB operations for the notifications table.
// All notifications are admin-facing, so listings query the type-created_at GSI
// instead of a per-user index.
type NotificationRepo struct {
	client    API
	tableName string
}

func NewNotificationRepo(client API, tableName string) *NotificationRepo {
	return &NotificationRepo{client: client, tableName: tableName}
}

func (r *NotificationRepo) Put(ctx context.Context, n *domain.Notification) error {
	item, err := attributevalue.MarshalMap(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *NotificationRepo) Get(ctx context.Context, notificationID string) (*domain.Notification, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldNotificationID, notificationID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("notification not found: %w", domain.ErrNotFound)
	}
	var n domain.Notification
	if err := attributevalue.UnmarshalMap(out.Item, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// ListAll returns every notification, newest first.
func (r *NotificationRepo) ListAll(ctx context.Context) ([]domain.Notification, error) {
	items, err := queryAll(ctx, r.client, r.byTypeQuery(false))
	if err != nil {
		return nil, err
	}
	return unmarshalNotifications(items)
}

// ListUnread returns notifications with is_read=false, newest first.
func (r *NotificationRepo) ListUnread(ctx context.Context) ([]domain.Notification, error) {
	items, err := queryAll(ctx, r.client, r.byTypeQuery(true))
	if err != nil {
		return nil, err
	}
	return unmarshalNotifications(items)
}

// CountUnread counts unread notifications without fetching them.
func (r *NotificationRepo) CountUnread(ctx context.Context) (int, error) {
	input := r.byTypeQuery(true)
	input.Select = types.SelectCount
	total := 0
	p := dynamodb.NewQueryPaginator(r.client, input)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return 0, err
		}
		total += int(page.Count)
	}
	return total, nil
}

func (r *NotificationRepo) MarkAsRead(ctx context.Context, notificationID string) (*domain.Notification, error) {
	ue, err := buildUpdateExpr(map[string]interface{}{fieldIsRead: true})
	if err != nil {
		return nil, err
	}
	ue.Names["#pk"] = fieldNotificationID
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldNotificationID, notificationID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(#pk)"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionFailed(err) {
			return nil, fmt.Errorf("notification not found: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	var n domain.Notification
	if err := attributevalue.UnmarshalMap(out.Attributes, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// MarkAllAsRead flips every unread notification. DynamoDB has no multi-item
// update, so each item is written individually.
func (r *NotificationRepo) MarkAllAsRead(ctx context.Context) (int, error) {
	unread, err := r.ListUnread(ctx)
	if err != nil {
		return 0, err
	}
	for i, n := range unread {
		if _, err := r.MarkAsRead(ctx, n.ID); err != nil {
			return i, err
		}
	}
	return len(unread), nil
}

func (r *NotificationRepo) byTypeQuery(unreadOnly bool) *dynamodb.QueryInput {
	input := &dynamodb.QueryInput{
		TableName:                aws.String(r.tableName),
		IndexName:                aws.String(indexNotificationTS),
		KeyConditionExpression:   aws.String("#t = :t"),
		ExpressionAttributeNames: map[string]string{"#t": "type"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t": &types.AttributeValueMemberS{Value: domain.NotificationAgentViewedRequest},
		},
		ScanIndexForward: aws.Bool(false),
	}
	if unreadOnly {
		input.FilterExpression = aws.String("#r = :f")
		input.ExpressionAttributeNames["#r"] = fieldIsRead
		input.ExpressionAttributeValues[":f"] = &types.AttributeValueMemberBOOL{Value: false}
	}
	return input
}

func unmarshalNotifications(items []map[string]types.AttributeValue) ([]domain.Notification, error) {
	notifications := []domain.Notification{}
	if err := attributevalue.UnmarshalListOfMaps(items, &notifications); err != nil {
		return nil, err
	}
	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})
	return notifications, nil
}
