package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devsquad/momo-sms-etl/internal/types/optional"
)

func Test_TransactionRecordJSON(t *testing.T) {
	r := TransactionRecord{
		SMSID:         0,
		RawAddress:    optional.Some("M-Money"),
		RawDate:       optional.Some("1715351458724"),
		Body:          "body",
		TransactionID: "12345",
		Amount:        optional.Some(2000.0),
		Sender:        optional.Some("John Doe"),
		TxTimestamp:   optional.Some("2024-01-01T10:00:00"),
	}

	raw, err := json.Marshal(r)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"sms_id": 0,
		"raw_address": "M-Money",
		"raw_date": "1715351458724",
		"readable_date": null,
		"service_center": null,
		"body": "body",
		"contact_name": null,
		"transaction_id": "12345",
		"amount": 2000,
		"sender": "John Doe",
		"receiver": null,
		"tx_timestamp": "2024-01-01T10:00:00"
	}`, string(raw))
}

func Test_IsGeneratedID(t *testing.T) {
	assert.True(t, TransactionRecord{TransactionID: "GEN-1715351458724-1"}.IsGeneratedID())
	assert.False(t, TransactionRecord{TransactionID: "76662021700"}.IsGeneratedID())
}

func Test_RunSummaryString(t *testing.T) {
	s := RunSummary{
		Status:    Success,
		Date:      time.Date(2024, 5, 10, 16, 30, 0, 0, time.UTC),
		Records:   12,
		Generated: 3,
	}

	assert.Equal(t, "2024-05-10 || wrote 12 records (3 generated ids) || success", s.String())
	assert.Equal(t, "unknown", RunStatus(9).String())

	s.Status = Failed
	assert.Equal(t, "2024-05-10 || could not write 12 records (3 generated ids) || failed", s.String())
}
