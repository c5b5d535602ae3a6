package moviequeue

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const defaultLedgerTTL = 7 * 24 * time.Hour

// DynamoAPI is the subset of the DynamoDB client used by DynamoLedger.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoLedger records processed message ids in a DynamoDB table keyed by
// "id". Entries carry a "ttl" attribute so the table can expire them.
type DynamoLedger struct {
	Dynamo DynamoAPI
	Table  string

	// TTL defaults to seven days, longer than any SQS retention period.
	TTL time.Duration
	Now func() time.Time
}

type processedMessage struct {
	ID          string `dynamodbav:"id"`
	ProcessedAt string `dynamodbav:"processed_at"`
	TTL         int64  `dynamodbav:"ttl"`
}

func (l *DynamoLedger) Seen(ctx context.Context, messageID string) (bool, error) {
	result, err := l.Dynamo.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(l.Table),
		ConsistentRead: aws.Bool(true),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: messageID},
		},
	})
	if err != nil {
		return false, fmt.Errorf("get item: %w", err)
	}

	return result.Item != nil, nil
}

func (l *DynamoLedger) Mark(ctx context.Context, messageID string) error {
	now := time.Now()
	if l.Now != nil {
		now = l.Now()
	}
	ttl := l.TTL
	if ttl == 0 {
		ttl = defaultLedgerTTL
	}

	av, err := attributevalue.MarshalMap(processedMessage{
		ID:          messageID,
		ProcessedAt: now.UTC().Format(time.RFC3339),
		TTL:         now.Add(ttl).Unix(),
	})
	if err != nil {
		return fmt.Errorf("marshal processed message: %w", err)
	}

	if _, err := l.Dynamo.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(l.Table),
		Item:      av,
	}); err != nil {
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}
