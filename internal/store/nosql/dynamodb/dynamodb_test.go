package dynamodb

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devsquad/momo-sms-etl/internal/types"
	"github.com/devsquad/momo-sms-etl/internal/types/optional"
)

const testTable = "momo-transactions"

// fakeDynamo keeps items by transaction_id and can hold back the last item of
// the first few batches to exercise the unprocessed items path.
type fakeDynamo struct {
	items        map[string]map[string]ddbtypes.AttributeValue
	batchCalls   int
	holdBack     int
	batchSizes   []int
	scanPageSize int
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: make(map[string]map[string]ddbtypes.AttributeValue)}
}

func keyOf(item map[string]ddbtypes.AttributeValue) string {
	return item[keyAttribute].(*ddbtypes.AttributeValueMemberS).Value
}

func (f *fakeDynamo) BatchWriteItem(_ context.Context, in *dynamodb.BatchWriteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	f.batchCalls++

	reqs := in.RequestItems[testTable]
	f.batchSizes = append(f.batchSizes, len(reqs))

	seen := make(map[string]bool)
	for _, r := range reqs {
		k := keyOf(r.PutRequest.Item)
		if seen[k] {
			return nil, fmt.Errorf("ValidationException: duplicated key %s", k)
		}
		seen[k] = true
	}

	out := &dynamodb.BatchWriteItemOutput{}
	if f.holdBack > 0 && len(reqs) > 0 {
		f.holdBack--
		out.UnprocessedItems = map[string][]ddbtypes.WriteRequest{
			testTable: reqs[len(reqs)-1:],
		}
		reqs = reqs[:len(reqs)-1]
	}

	for _, r := range reqs {
		f.items[keyOf(r.PutRequest.Item)] = r.PutRequest.Item
	}

	return out, nil
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return &dynamodb.GetItemOutput{Item: f.items[keyOf(in.Key)]}, nil
}

func (f *fakeDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	keys := make([]string, 0, len(f.items))
	for k := range f.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	start := 0
	if in.ExclusiveStartKey != nil {
		start = sort.SearchStrings(keys, keyOf(in.ExclusiveStartKey)) + 1
	}

	end := len(keys)
	if f.scanPageSize > 0 {
		end = min(start+f.scanPageSize, len(keys))
	}

	out := &dynamodb.ScanOutput{}
	for _, k := range keys[start:end] {
		out.Items = append(out.Items, f.items[k])
	}
	if end < len(keys) {
		out.LastEvaluatedKey = f.items[keys[end-1]]
	}

	return out, nil
}

func generateRecords(n int) []types.TransactionRecord {
	records := make([]types.TransactionRecord, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, types.TransactionRecord{
			RawDate:       optional.Some("1715351458724"),
			Body:          fmt.Sprintf("TxId: %05d.", i),
			TransactionID: fmt.Sprintf("%05d", i),
			Amount:        optional.Some(float64(i) * 100),
			Sender:        optional.Some("John Doe"),
		})
	}

	return records
}

func Test_PutRecordsInBatches(t *testing.T) {
	fake := newFakeDynamo()
	c := Client{DynamoDBClient: fake, Table: testTable}

	require.NoError(t, c.PutRecords(context.Background(), generateRecords(60)))

	assert.Equal(t, []int{25, 25, 10}, fake.batchSizes)
	assert.Len(t, fake.items, 60)
}

func Test_PutRecordsRetriesUnprocessedItems(t *testing.T) {
	fake := newFakeDynamo()
	fake.holdBack = 2
	c := Client{DynamoDBClient: fake, Table: testTable}

	require.NoError(t, c.PutRecords(context.Background(), generateRecords(30)))

	assert.Len(t, fake.items, 30)
	assert.Equal(t, 4, fake.batchCalls)
}

func Test_PutRecordsGivesUpOnPersistentlyUnprocessedItems(t *testing.T) {
	fake := newFakeDynamo()
	fake.holdBack = 1000
	c := Client{DynamoDBClient: fake, Table: testTable}

	err := c.PutRecords(context.Background(), generateRecords(3))
	assert.Error(t, err)
	assert.True(t, dynamodbErr.Has(err))
}

func Test_PutRecordsKeepsLastOfDuplicatedIDs(t *testing.T) {
	fake := newFakeDynamo()
	c := Client{DynamoDBClient: fake, Table: testTable}

	records := generateRecords(2)
	dup := records[0]
	dup.Amount = optional.Some(42.0)
	records = append(records, dup)

	require.NoError(t, c.PutRecords(context.Background(), records))

	got, found, err := c.GetRecord(context.Background(), dup.TransactionID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, optional.Some(42.0), got.Amount)
}

func Test_GetRecord(t *testing.T) {
	fake := newFakeDynamo()
	c := Client{DynamoDBClient: fake, Table: testTable}

	records := generateRecords(3)
	require.NoError(t, c.PutRecords(context.Background(), records))

	got, found, err := c.GetRecord(context.Background(), "00001")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, records[1].TransactionID, got.TransactionID)
	assert.Equal(t, records[1].Amount, got.Amount)
	assert.Equal(t, records[1].Sender, got.Sender)
	assert.False(t, got.Receiver.Resolved())

	_, found, err = c.GetRecord(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func Test_ScanFollowsPages(t *testing.T) {
	fake := newFakeDynamo()
	fake.scanPageSize = 4
	c := Client{DynamoDBClient: fake, Table: testTable}

	require.NoError(t, c.PutRecords(context.Background(), generateRecords(10)))

	got, err := c.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 10)
	assert.Equal(t, "00000", got[0].TransactionID)
	assert.Equal(t, "00009", got[9].TransactionID)
}

func Test_ClientWithoutConfiguration(t *testing.T) {
	err := Client{Table: testTable}.PutRecords(context.Background(), generateRecords(1))
	assert.Error(t, err)

	_, err = Client{DynamoDBClient: newFakeDynamo()}.Scan(context.Background())
	assert.Error(t, err)
}
