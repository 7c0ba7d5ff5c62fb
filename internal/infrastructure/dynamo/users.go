package dynamo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/estate-leads-api/internal/domain"
)

// UserRepo provides typed DynamoDB operations for the users table.
// A GSI cannot enforce unique values, so every user also owns a claim item
// (PK: phone_number) in phonesTable written in the same transaction.
type UserRepo struct {
	client      API
	tableName   string
	phonesTable string
}

func NewUserRepo(client API, tableName, phonesTable string) *UserRepo {
	return &UserRepo{client: client, tableName: tableName, phonesTable: phonesTable}
}

// Put creates a user. It fails with domain.ErrConflict when the ID exists or
// the phone number is already claimed by another user.
func (r *UserRepo) Put(ctx context.Context, u *domain.User) error {
	item, err := attributevalue.MarshalMap(u)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName:                aws.String(r.tableName),
				Item:                     item,
				ConditionExpression:      aws.String("attribute_not_exists(#pk)"),
				ExpressionAttributeNames: map[string]string{"#pk": fieldUserID},
			}},
			{Put: &types.Put{
				TableName: aws.String(r.phonesTable),
				Item: map[string]types.AttributeValue{
					fieldPhoneNumber: &types.AttributeValueMemberS{Value: u.PhoneNumber},
					fieldUserID:      &types.AttributeValueMemberS{Value: u.ID},
				},
				ConditionExpression:      aws.String("attribute_not_exists(#pk)"),
				ExpressionAttributeNames: map[string]string{"#pk": fieldPhoneNumber},
			}},
		},
	})
	if err != nil {
		if isTransactConditionFailed(err) {
			return fmt.Errorf("phone number already registered: %w", domain.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *UserRepo) Get(ctx context.Context, userID string) (*domain.User, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldUserID, userID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	var u domain.User
	if err := attributevalue.UnmarshalMap(out.Item, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(indexUserPhone),
		KeyConditionExpression:    aws.String("#a = :v"),
		ExpressionAttributeNames:  map[string]string{"#a": fieldPhoneNumber},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: phone}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	var u domain.User
	if err := attributevalue.UnmarshalMap(out.Items[0], &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Update applies a partial update and returns the stored user afterwards.
// Missing users yield domain.ErrNotFound instead of an upsert.
func (r *UserRepo) Update(ctx context.Context, userID string, updates map[string]interface{}) (*domain.User, error) {
	updates[fieldUpdatedAt] = time.Now().UTC()
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return nil, err
	}
	ue.Names["#pk"] = fieldUserID
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldUserID, userID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(#pk)"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionFailed(err) {
			return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	var u domain.User
	if err := attributevalue.UnmarshalMap(out.Attributes, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ListAll returns every user, newest first.
func (r *UserRepo) ListAll(ctx context.Context) ([]domain.User, error) {
	return r.scanUsers(ctx, &dynamodb.ScanInput{TableName: aws.String(r.tableName)})
}

// ListPendingAgents returns users who asked for agent status and still await approval.
func (r *UserRepo) ListPendingAgents(ctx context.Context) ([]domain.User, error) {
	return r.scanUsers(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(r.tableName),
		FilterExpression: aws.String("#ag = :t AND #ap = :f"),
		ExpressionAttributeNames: map[string]string{
			"#ag": fieldIsAgent,
			"#ap": fieldIsApproved,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t": &types.AttributeValueMemberBOOL{Value: true},
			":f": &types.AttributeValueMemberBOOL{Value: false},
		},
	})
}

func (r *UserRepo) scanUsers(ctx context.Context, input *dynamodb.ScanInput) ([]domain.User, error) {
	items, err := scanAll(ctx, r.client, input)
	if err != nil {
		return nil, err
	}
	users := []domain.User{}
	if err := attributevalue.UnmarshalListOfMaps(items, &users); err != nil {
		return nil, err
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return users, nil
}
