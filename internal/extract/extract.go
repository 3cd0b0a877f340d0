package extract

import (
	"time"

	"github.com/devsquad/momo-sms-etl/internal/types/optional"
)

// Fields is what a single message body yields. Every field is independent
// of the others and may be unresolved.
type Fields struct {
	TransactionID optional.Value[string]
	Amount        optional.Value[float64]
	Sender        optional.Value[string]
	Receiver      optional.Value[string]
	Timestamp     optional.Value[time.Time]
}

// FormattedTimestamp is the timestamp in TimestampLayout.
func (f Fields) FormattedTimestamp() optional.Value[string] {
	t, ok := f.Timestamp.Get()
	if !ok {
		return optional.None[string]()
	}

	return optional.Some(t.Format(TimestampLayout))
}

type Extractor struct {
	TransactionID Chain[string]
	Amount        Chain[float64]
	Sender        Chain[string]
	Receiver      Chain[string]
	Timestamp     Chain[time.Time]
}

// New returns an extractor for the RWF mobile money templates.
func New() Extractor {
	return Extractor{
		TransactionID: transactionIDRules,
		Amount:        amountRules,
		Sender:        senderRules,
		Receiver:      receiverRules,
		Timestamp:     timestampRules,
	}
}

func (e Extractor) Extract(body string) Fields {
	return Fields{
		TransactionID: e.TransactionID.Resolve(body),
		Amount:        e.Amount.Resolve(body),
		Sender:        e.Sender.Resolve(body),
		Receiver:      e.Receiver.Resolve(body),
		Timestamp:     e.Timestamp.Resolve(body),
	}
}

var defaultExtractor = New()

func Extract(body string) Fields {
	return defaultExtractor.Extract(body)
}

// FallbackAmount is the first numeral in body, with no currency marker
// required.
func FallbackAmount(body string) optional.Value[float64] {
	return fallbackAmountRule.Resolve(body)
}
