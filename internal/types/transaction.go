package types

import (
	"strings"

	"github.com/devsquad/momo-sms-etl/internal/types/optional"
)

// GeneratedIDPrefix marks transaction ids synthesized for messages that carry
// no id of their own.
const GeneratedIDPrefix = "GEN-"

// TransactionRecord is the source metadata of one message merged with what
// was extracted from its body. TransactionID is never empty.
type TransactionRecord struct {
	SMSID         int64                  `json:"sms_id" dynamodbav:"sms_id"`
	RawAddress    optional.Value[string] `json:"raw_address" dynamodbav:"raw_address"`
	RawDate       optional.Value[string] `json:"raw_date" dynamodbav:"raw_date"`
	ReadableDate  optional.Value[string] `json:"readable_date" dynamodbav:"readable_date"`
	ServiceCenter optional.Value[string] `json:"service_center" dynamodbav:"service_center"`
	Body          string                 `json:"body" dynamodbav:"body"`
	ContactName   optional.Value[string] `json:"contact_name" dynamodbav:"contact_name"`

	TransactionID string                  `json:"transaction_id" dynamodbav:"transaction_id"`
	Amount        optional.Value[float64] `json:"amount" dynamodbav:"amount"`
	Sender        optional.Value[string]  `json:"sender" dynamodbav:"sender"`
	Receiver      optional.Value[string]  `json:"receiver" dynamodbav:"receiver"`
	TxTimestamp   optional.Value[string]  `json:"tx_timestamp" dynamodbav:"tx_timestamp"`
}

func (r TransactionRecord) IsGeneratedID() bool {
	return strings.HasPrefix(r.TransactionID, GeneratedIDPrefix)
}

func CountGenerated(records []TransactionRecord) int {
	n := 0
	for _, r := range records {
		if r.IsGeneratedID() {
			n++
		}
	}

	return n
}
