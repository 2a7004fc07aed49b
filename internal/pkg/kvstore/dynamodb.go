package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoDBAPI is the subset of the DynamoDB client used by DynamoDBStore
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// DynamoDBConfig holds table settings for the dynamodb backend
type DynamoDBConfig struct {
	Table    string
	Region   string
	Endpoint string
}

// dynamoItem is the table row; version drives optimistic updates
type dynamoItem struct {
	Key     string `dynamodbav:"key"`
	Value   string `dynamodbav:"value"`
	Version int64  `dynamodbav:"version"`
}

// DynamoDBStore stores each key as one item of a table with a string hash key "key"
type DynamoDBStore struct {
	client DynamoDBAPI
	table  string
}

// NewDynamoDBStore loads the default AWS credential chain and creates the client
func NewDynamoDBStore(ctx context.Context, cfg DynamoDBConfig) (*DynamoDBStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewDynamoDBStoreWithClient(client, cfg.Table), nil
}

// NewDynamoDBStoreWithClient wraps an existing client
func NewDynamoDBStoreWithClient(client DynamoDBAPI, table string) *DynamoDBStore {
	return &DynamoDBStore{client: client, table: table}
}

func (d *DynamoDBStore) keyAttr(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"key": &types.AttributeValueMemberS{Value: key},
	}
}

func (d *DynamoDBStore) load(ctx context.Context, key string) (*dynamoItem, error) {
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(d.table),
		Key:            d.keyAttr(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb get %s: %w", key, err)
	}
	if out.Item == nil {
		return nil, nil
	}

	var item dynamoItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("dynamodb decode %s: %w", key, err)
	}
	return &item, nil
}

func (d *DynamoDBStore) Get(ctx context.Context, key string) ([]byte, error) {
	item, err := d.load(ctx, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	return []byte(item.Value), nil
}

// Set bumps the version so that in-flight optimistic updates notice the write
func (d *DynamoDBStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := d.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(d.table),
		Key:              d.keyAttr(key),
		UpdateExpression: aws.String("SET #val = :val ADD #ver :one"),
		ExpressionAttributeNames: map[string]string{
			"#val": "value",
			"#ver": "version",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":val": &types.AttributeValueMemberS{Value: string(value)},
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
	})
	if err != nil {
		return fmt.Errorf("dynamodb set %s: %w", key, err)
	}
	return nil
}

func (d *DynamoDBStore) Delete(ctx context.Context, key string) error {
	_, err := d.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(d.table),
		Key:       d.keyAttr(key),
	})
	if err != nil {
		return fmt.Errorf("dynamodb delete %s: %w", key, err)
	}
	return nil
}

func (d *DynamoDBStore) GetByPrefix(ctx context.Context, prefix string) ([]Entry, error) {
	paginator := dynamodb.NewScanPaginator(d.client, &dynamodb.ScanInput{
		TableName:                aws.String(d.table),
		FilterExpression:         aws.String("begins_with(#k, :prefix)"),
		ExpressionAttributeNames: map[string]string{"#k": "key"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":prefix": &types.AttributeValueMemberS{Value: prefix},
		},
	})

	entries := []Entry{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("dynamodb scan %s: %w", prefix, err)
		}

		var items []dynamoItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("dynamodb decode scan page: %w", err)
		}
		for _, item := range items {
			entries = append(entries, Entry{Key: item.Key, Value: []byte(item.Value)})
		}
	}
	sortEntries(entries)
	return entries, nil
}

// Update is a compare-and-swap on the version attribute, retried on conflict
func (d *DynamoDBStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		item, err := d.load(ctx, key)
		if err != nil {
			return err
		}

		var current []byte
		var version int64
		if item != nil {
			current, version = []byte(item.Value), item.Version
		}

		next, err := fn(current, item != nil)
		if errors.Is(err, ErrSkipWrite) {
			return nil
		}
		if err != nil {
			return err
		}

		av, err := attributevalue.MarshalMap(dynamoItem{Key: key, Value: string(next), Version: version + 1})
		if err != nil {
			return fmt.Errorf("dynamodb encode %s: %w", key, err)
		}

		input := &dynamodb.PutItemInput{
			TableName:                aws.String(d.table),
			Item:                     av,
			ExpressionAttributeNames: map[string]string{"#k": "key"},
		}
		if item == nil {
			input.ConditionExpression = aws.String("attribute_not_exists(#k)")
		} else {
			input.ConditionExpression = aws.String("#ver = :expected")
			input.ExpressionAttributeNames = map[string]string{"#ver": "version"}
			input.ExpressionAttributeValues = map[string]types.AttributeValue{
				":expected": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", version)},
			}
		}

		_, err = d.client.PutItem(ctx, input)
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			continue
		}
		if err != nil {
			return fmt.Errorf("dynamodb put %s: %w", key, err)
		}
		return nil
	}
	return fmt.Errorf("dynamodb update %s: %w", key, ErrConflict)
}

func (d *DynamoDBStore) Ping(ctx context.Context) error {
	_, err := d.load(ctx, "__ping__")
	return err
}

func (d *DynamoDBStore) Close() error { return nil }
