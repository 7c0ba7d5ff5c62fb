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

// RequestRepo provides typed DynamoDB operations for the estate_requests table.
type RequestRepo struct {
	client    API
	tableName string
}

func NewRequestRepo(client API, tableName string) *RequestRepo {
	return &RequestRepo{client: client, tableName: tableName}
}

func (r *RequestRepo) Put(ctx context.Context, req *domain.EstateRequest) error {
	item, err := attributevalue.MarshalMap(req)
	if err != nil {
		return fmt.Errorf("marshal estate request: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *RequestRepo) Get(ctx context.Context, requestID string) (*domain.EstateRequest, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldRequestID, requestID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("request not found: %w", domain.ErrNotFound)
	}
	var req domain.EstateRequest
	if err := attributevalue.UnmarshalMap(out.Item, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// ListAll returns every request, newest first.
func (r *RequestRepo) ListAll(ctx context.Context) ([]domain.EstateRequest, error) {
	items, err := scanAll(ctx, r.client, &dynamodb.ScanInput{TableName: aws.String(r.tableName)})
	if err != nil {
		return nil, err
	}
	return unmarshalRequests(items)
}

// ListByOwner queries the owner_id-created_at GSI, newest first.
func (r *RequestRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.EstateRequest, error) {
	items, err := queryAll(ctx, r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(indexRequestOwner),
		KeyConditionExpression:    aws.String("#o = :o"),
		ExpressionAttributeNames:  map[string]string{"#o": fieldOwnerID},
		ExpressionAttributeValues: map[string]types.AttributeValue{":o": &types.AttributeValueMemberS{Value: ownerID}},
		ScanIndexForward:          aws.Bool(false),
	})
	if err != nil {
		return nil, err
	}
	return unmarshalRequests(items)
}

func (r *RequestRepo) UpdateStatus(ctx context.Context, requestID string, status domain.RequestStatus) (*domain.EstateRequest, error) {
	ue, err := buildUpdateExpr(map[string]interface{}{fieldStatus: status})
	if err != nil {
		return nil, err
	}
	ue.Names["#pk"] = fieldRequestID
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldRequestID, requestID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(#pk)"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionFailed(err) {
			return nil, fmt.Errorf("request not found: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	var req domain.EstateRequest
	if err := attributevalue.UnmarshalMap(out.Attributes, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// Delete permanently removes a request. Requests are never soft-deleted.
func (r *RequestRepo) Delete(ctx context.Context, requestID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                aws.String(r.tableName),
		Key:                      strKey(fieldRequestID, requestID),
		ConditionExpression:      aws.String("attribute_exists(#pk)"),
		ExpressionAttributeNames: map[string]string{"#pk": fieldRequestID},
	})
	if isConditionFailed(err) {
		return fmt.Errorf("request not found: %w", domain.ErrNotFound)
	}
	return err
}

func unmarshalRequests(items []map[string]types.AttributeValue) ([]domain.EstateRequest, error) {
	reqs := []domain.EstateRequest{}
	if err := attributevalue.UnmarshalListOfMaps(items, &reqs); err != nil {
		return nil, err
	}
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].CreatedAt.After(reqs[j].CreatedAt) })
	return reqs, nil
}
