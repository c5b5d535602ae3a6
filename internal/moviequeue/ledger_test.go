package moviequeue

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type fakeDynamo struct {
	items map[string]map[string]types.AttributeValue
}

func (f *fakeDynamo) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	id := params.Key["id"].(*types.AttributeValueMemberS).Value
	return &dynamodb.GetItemOutput{Item: f.items[aws.ToString(params.TableName)+"/"+id]}, nil
}

func (f *fakeDynamo) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	id := params.Item["id"].(*types.AttributeValueMemberS).Value
	f.items[aws.ToString(params.TableName)+"/"+id] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func TestDynamoLedger(t *testing.T) {
	now := time.Date(2026, time.October, 17, 9, 0, 0, 0, time.UTC)
	fake := &fakeDynamo{items: map[string]map[string]types.AttributeValue{}}
	l := &DynamoLedger{
		Dynamo: fake,
		Table:  "processed",
		Now:    func() time.Time { return now },
	}
	ctx := context.Background()

	seen, err := l.Seen(ctx, "m1")
	if err != nil || seen {
		t.Fatalf("Seen(m1) before Mark = %v, %v; want false, nil", seen, err)
	}

	if err := l.Mark(ctx, "m1"); err != nil {
		t.Fatalf("Mark(m1) error: %s", err)
	}

	seen, err = l.Seen(ctx, "m1")
	if err != nil || !seen {
		t.Fatalf("Seen(m1) after Mark = %v, %v; want true, nil", seen, err)
	}

	var rec processedMessage
	if err := attributevalue.UnmarshalMap(fake.items["processed/m1"], &rec); err != nil {
		t.Fatalf("unmarshal stored item: %s", err)
	}
	want := processedMessage{
		ID:          "m1",
		ProcessedAt: "2026-10-17T09:00:00Z",
		TTL:         now.Add(defaultLedgerTTL).Unix(),
	}
	if rec != want {
		t.Errorf("stored %+v, want %+v", rec, want)
	}
}
