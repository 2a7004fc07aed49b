package kvstore

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDynamo understands exactly the expressions DynamoDBStore sends
type fakeDynamo struct {
	mu    sync.Mutex
	items map[string]dynamoItem
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: map[string]dynamoItem{}}
}

func keyOf(m map[string]types.AttributeValue) string {
	return m["key"].(*types.AttributeValueMemberS).Value
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	item, ok := f.items[keyOf(in.Key)]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, err
	}
	return &dynamodb.GetItemOutput{Item: av}, nil
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var item dynamoItem
	if err := attributevalue.UnmarshalMap(in.Item, &item); err != nil {
		return nil, err
	}
	existing, exists := f.items[item.Key]

	switch aws.ToString(in.ConditionExpression) {
	case "attribute_not_exists(#k)":
		if exists {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("exists")}
		}
	case "#ver = :expected":
		expected, _ := strconv.ParseInt(in.ExpressionAttributeValues[":expected"].(*types.AttributeValueMemberN).Value, 10, 64)
		if !exists || existing.Version != expected {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("version mismatch")}
		}
	}
	f.items[item.Key] = item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := keyOf(in.Key)
	item := f.items[key]
	item.Key = key
	item.Value = in.ExpressionAttributeValues[":val"].(*types.AttributeValueMemberS).Value
	item.Version++
	f.items[key] = item
	return &dynamodb.UpdateItemOutput{}, nil
}

func (f *fakeDynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.items, keyOf(in.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	prefix := in.ExpressionAttributeValues[":prefix"].(*types.AttributeValueMemberS).Value
	out := &dynamodb.ScanOutput{}
	for k, item := range f.items {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		av, err := attributevalue.MarshalMap(item)
		if err != nil {
			return nil, err
		}
		out.Items = append(out.Items, av)
	}
	return out, nil
}
