package dynamodb

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/zeebo/errs"

	"github.com/devsquad/momo-sms-etl/internal/logging"
	"github.com/devsquad/momo-sms-etl/internal/types"
	"github.com/devsquad/momo-sms-etl/internal/util/slices"
)

var dynamodbErr = errs.Class("dynamodb")

const (
	keyAttribute = "transaction_id"

	// BatchWriteItem accepts at most 25 put requests per call.
	batchSize = 25

	maxUnprocessedRetries = 5
)

type dynamoClient interface {
	BatchWriteItem(context.Context, *dynamodb.BatchWriteItemInput, ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	GetItem(context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Scan(context.Context, *dynamodb.ScanInput, ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Client stores transaction records in a table whose partition key is
// transaction_id.
type Client struct {
	DynamoDBClient dynamoClient
	Table          string

	// RetryDelay is the pause before resending unprocessed items, doubled on
	// every attempt.
	RetryDelay time.Duration
}

func NewDynamoDBClient(ctx context.Context, region, table string) (Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return Client{}, dynamodbErr.Wrap(err)
	}

	return Client{
		DynamoDBClient: dynamodb.NewFromConfig(cfg),
		Table:          table,
		RetryDelay:     100 * time.Millisecond,
	}, nil
}

func (c Client) dynamodb() (dynamoClient, error) {
	if c.DynamoDBClient == nil {
		return nil, errs.New("there is no DynamoDBClient defined")
	}

	if c.Table == "" {
		return nil, errs.New("table name cannot be empty")
	}

	return c.DynamoDBClient, nil
}

// PutRecords writes every record, overwriting items with the same id. When
// ids repeat within records the last one wins.
func (c Client) PutRecords(ctx context.Context, records []types.TransactionRecord) (err error) {
	defer func() {
		err = dynamodbErr.Wrap(err)
	}()

	log := logging.FromContext(ctx)

	dynamo, err := c.dynamodb()
	if err != nil {
		return err
	}

	unique := dedupeByID(records)
	if dup := len(records) - len(unique); dup > 0 {
		log.Warn("duplicated transaction ids, keeping the last record of each",
			logging.Int("duplicates", dup),
		)
	}

	batches, err := slices.Chunk(batchSize, unique)
	if err != nil {
		return err
	}

	for _, batch := range batches {
		requests := make([]ddbtypes.WriteRequest, 0, len(batch))
		for _, r := range batch {
			item, err := attributevalue.MarshalMap(r)
			if err != nil {
				return errs.New("could not marshal record [%s]: %w", r.TransactionID, err)
			}

			requests = append(requests, ddbtypes.WriteRequest{
				PutRequest: &ddbtypes.PutRequest{Item: item},
			})
		}

		if err := c.batchWrite(ctx, dynamo, requests); err != nil {
			return err
		}
	}

	log.Debug("records stored in dynamodb",
		logging.String("table", c.Table),
		logging.Int("records", len(unique)),
	)

	return nil
}

func (c Client) batchWrite(ctx context.Context, dynamo dynamoClient, requests []ddbtypes.WriteRequest) error {
	delay := c.RetryDelay

	for attempt := 0; ; attempt++ {
		res, err := dynamo.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]ddbtypes.WriteRequest{
				c.Table: requests,
			},
		})
		if err != nil {
			return errs.Wrap(err)
		}

		requests = res.UnprocessedItems[c.Table]
		if len(requests) == 0 {
			return nil
		}

		if attempt == maxUnprocessedRetries {
			return errs.New("%d items still unprocessed after %d retries", len(requests), attempt)
		}

		select {
		case <-ctx.Done():
			return errs.Wrap(ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
	}
}

func dedupeByID(records []types.TransactionRecord) []types.TransactionRecord {
	last := make(map[string]int, len(records))
	for i, r := range records {
		last[r.TransactionID] = i
	}

	unique := make([]types.TransactionRecord, 0, len(last))
	for i, r := range records {
		if last[r.TransactionID] == i {
			unique = append(unique, r)
		}
	}

	return unique
}

func (c Client) GetRecord(ctx context.Context, id string) (_ types.TransactionRecord, found bool, err error) {
	defer func() {
		err = dynamodbErr.Wrap(err)
	}()

	dynamo, err := c.dynamodb()
	if err != nil {
		return types.TransactionRecord{}, false, err
	}

	key, err := attributevalue.MarshalMap(map[string]any{
		keyAttribute: id,
	})
	if err != nil {
		return types.TransactionRecord{}, false, errs.Wrap(err)
	}

	res, err := dynamo.GetItem(ctx, &dynamodb.GetItemInput{
		Key:       key,
		TableName: aws.String(c.Table),
	})
	if err != nil {
		return types.TransactionRecord{}, false, errs.New(
			"could not get item with id [%s] from dynamodb table [%s]: %w",
			id, c.Table, err,
		)
	}

	if len(res.Item) == 0 {
		return types.TransactionRecord{}, false, nil
	}

	var r types.TransactionRecord
	if err := attributevalue.UnmarshalMap(res.Item, &r); err != nil {
		return types.TransactionRecord{}, false, errs.Wrap(err)
	}

	return r, true, nil
}

// Scan returns every stored record, following pagination.
func (c Client) Scan(ctx context.Context) (_ []types.TransactionRecord, err error) {
	defer func() {
		err = dynamodbErr.Wrap(err)
	}()

	dynamo, err := c.dynamodb()
	if err != nil {
		return nil, err
	}

	var (
		records  []types.TransactionRecord
		startKey map[string]ddbtypes.AttributeValue
	)
	for {
		res, err := dynamo.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(c.Table),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, errs.Wrap(err)
		}

		var page []types.TransactionRecord
		if err := attributevalue.UnmarshalListOfMaps(res.Items, &page); err != nil {
			return nil, errs.Wrap(err)
		}
		records = append(records, page...)

		if len(res.LastEvaluatedKey) == 0 {
			return records, nil
		}
		startKey = res.LastEvaluatedKey
	}
}
