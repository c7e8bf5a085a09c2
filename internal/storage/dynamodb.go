package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/rs/zerolog"

	"github.com/robertomistatas/centralteleoperadores/backend/internal/types"
)

// Dataset kinds stored under the table's partition key
const (
	kindCallBatch     = "call_batch"
	kindAssignmentSet = "assignment_set"
)

// Dataset payloads are stored as a single JSON blob per version: the engine
// always replaces a dataset wholesale, so item-level access buys nothing.
func marshalJSON(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode dataset payload: %w", err)
	}
	return data, nil
}

func unmarshalJSON(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode dataset payload: %w", err)
	}
	return nil
}

// DynamoDBStore implements Store using AWS DynamoDB. Dataset versions are
// keyed by kind and upload timestamp; the latest item per kind wins.
type DynamoDBStore struct {
	client *dynamodb.Client
	config DynamoConfig
	logger zerolog.Logger
}

// NewDynamoDBStore creates a new DynamoDB store
func NewDynamoDBStore(ctx context.Context, cfg DynamoConfig, logger zerolog.Logger) (*DynamoDBStore, error) {
	var client *dynamodb.Client

	if cfg.Mode == DynamoModeLocal {
		// For local mode, build the client directly without LoadDefaultConfig.
		// LoadDefaultConfig probes the EC2 IMDS endpoint which hangs when
		// static credentials are intended.
		client = dynamodb.New(dynamodb.Options{
			Region:       cfg.Region,
			BaseEndpoint: aws.String(cfg.Endpoint),
			Credentials:  credentials.NewStaticCredentialsProvider("local", "local", ""),
		})
	} else {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		client = dynamodb.NewFromConfig(awsCfg)
	}

	store := &DynamoDBStore{
		client: client,
		config: cfg,
		logger: logger,
	}

	if cfg.Mode == DynamoModeLocal {
		if err := CreateTablesIfNotExist(ctx, client, cfg, logger); err != nil {
			return nil, err
		}
	}

	logger.Info().
		Str("mode", string(cfg.Mode)).
		Str("region", cfg.Region).
		Msg("DynamoDB store initialized")

	return store, nil
}

// datasetItem is the stored row shape shared by both dataset kinds
type datasetItem struct {
	Kind       string `dynamodbav:"Kind"`
	UploadedAt string `dynamodbav:"UploadedAt"`
	Payload    []byte `dynamodbav:"Payload"`
}

func (s *DynamoDBStore) putDataset(ctx context.Context, kind, uploadedAt string, payload []byte) error {
	item, err := attributevalue.MarshalMap(datasetItem{
		Kind:       kind,
		UploadedAt: uploadedAt,
		Payload:    payload,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", kind, err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.config.DatasetsTable),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", kind, err)
	}
	return nil
}

func (s *DynamoDBStore) latestDataset(ctx context.Context, kind string) ([]byte, error) {
	keyCond := expression.Key("Kind").Equal(expression.Value(kind))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	result, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(s.config.DatasetsTable),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(false), // newest first
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", kind, err)
	}
	if len(result.Items) == 0 {
		return nil, nil
	}

	var item datasetItem
	if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", kind, err)
	}
	return item.Payload, nil
}

func (s *DynamoDBStore) SaveCallBatch(ctx context.Context, batch types.CallBatch) error {
	data, err := marshalJSON(batch)
	if err != nil {
		return err
	}
	return s.putDataset(ctx, kindCallBatch, batch.UploadedAt, data)
}

func (s *DynamoDBStore) LatestCallBatch(ctx context.Context) (*types.CallBatch, error) {
	payload, err := s.latestDataset(ctx, kindCallBatch)
	if err != nil || payload == nil {
		return nil, err
	}
	var batch types.CallBatch
	if err := unmarshalJSON(payload, &batch); err != nil {
		return nil, err
	}
	return &batch, nil
}

func (s *DynamoDBStore) SaveAssignmentSet(ctx context.Context, set types.AssignmentSet) error {
	data, err := marshalJSON(set)
	if err != nil {
		return err
	}
	return s.putDataset(ctx, kindAssignmentSet, set.UploadedAt, data)
}

func (s *DynamoDBStore) LatestAssignmentSet(ctx context.Context) (*types.AssignmentSet, error) {
	payload, err := s.latestDataset(ctx, kindAssignmentSet)
	if err != nil || payload == nil {
		return nil, err
	}
	var set types.AssignmentSet
	if err := unmarshalJSON(payload, &set); err != nil {
		return nil, err
	}
	return &set, nil
}
