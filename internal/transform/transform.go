package transform

import (
	"context"
	"strconv"

	"github.com/zeebo/errs"

	"github.com/devsquad/momo-sms-etl/internal/extract"
	"github.com/devsquad/momo-sms-etl/internal/logging"
	"github.com/devsquad/momo-sms-etl/internal/sms/smstypes"
	"github.com/devsquad/momo-sms-etl/internal/types"
	"github.com/devsquad/momo-sms-etl/pkg/pipe"
)

var transformErr = errs.Class("transform")

type extractor interface {
	Extract(body string) extract.Fields
}

// Transformer turns raw messages into transaction records, one record per
// message, in input order.
type Transformer struct {
	Extractor extractor

	// Workers above one extract messages concurrently. The output is the same
	// as with a single worker.
	Workers int
}

func (t *Transformer) extractor() extractor {
	if t.Extractor == nil {
		t.Extractor = extract.New()
	}

	return t.Extractor
}

func (t *Transformer) Transform(
	ctx context.Context,
	msgs []smstypes.RawMessage,
) (_ []types.TransactionRecord, err error) {
	defer func() {
		err = transformErr.Wrap(err)
	}()

	log := logging.FromContext(ctx)

	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err)
	}

	var records []types.TransactionRecord
	if t.Workers > 1 && len(msgs) > 1 {
		records, err = t.transformConcurrently(ctx, msgs)
	} else {
		records, err = t.transformSequentially(ctx, msgs)
	}
	if err != nil {
		return nil, err
	}

	log.Info("transformed messages",
		logging.Int("records", len(records)),
		logging.Int("generated_ids", types.CountGenerated(records)),
		logging.Int("workers", max(t.Workers, 1)),
	)

	return records, nil
}

func (t *Transformer) transformSequentially(
	ctx context.Context,
	msgs []smstypes.RawMessage,
) ([]types.TransactionRecord, error) {
	ext := t.extractor()

	records := make([]types.TransactionRecord, 0, len(msgs))
	for _, m := range msgs {
		if err := ctx.Err(); err != nil {
			return nil, errs.Wrap(err)
		}

		records = append(records, BuildRecord(ext, m, len(records)+1))
	}

	return records, nil
}

func (t *Transformer) transformConcurrently(
	ctx context.Context,
	msgs []smstypes.RawMessage,
) ([]types.TransactionRecord, error) {
	ext := t.extractor()
	done := ctx.Done()

	indexed := pipe.Generate(done, msgs)
	built := pipe.ConcurrentMap(done, t.Workers, indexed,
		func(m pipe.Indexed[smstypes.RawMessage]) pipe.Indexed[types.TransactionRecord] {
			return pipe.Indexed[types.TransactionRecord]{
				Index: m.Index,
				Value: BuildRecord(ext, m.Value, m.Index+1),
			}
		},
	)

	records, ok := pipe.CollectIndexed(done, len(msgs), built)
	if !ok {
		if err := ctx.Err(); err != nil {
			return nil, errs.Wrap(err)
		}
		return nil, errs.New("collected fewer records than messages")
	}

	return records, nil
}

// BuildRecord merges the metadata of msg with what ext extracts from its body.
// position is the 1-based place the record takes in the output and only
// matters when a transaction id has to be generated.
func BuildRecord(ext extractor, msg smstypes.RawMessage, position int) types.TransactionRecord {
	fields := ext.Extract(msg.Body)

	r := types.TransactionRecord{
		SMSID:         msg.Protocol,
		RawAddress:    msg.Address,
		RawDate:       msg.Date,
		ReadableDate:  msg.ReadableDate,
		ServiceCenter: msg.ServiceCenter,
		Body:          msg.Body,
		ContactName:   msg.ContactName,

		Amount:      fields.Amount,
		Sender:      fields.Sender,
		Receiver:    fields.Receiver,
		TxTimestamp: fields.FormattedTimestamp(),
	}

	id, ok := fields.TransactionID.Get()
	if !ok || id == "" {
		// a message without a date attribute gets GEN--<position>
		id = GenerateID(msg.Date.OrElse(""), position)
	}
	r.TransactionID = id

	if !r.Amount.Resolved() {
		r.Amount = extract.FallbackAmount(msg.Body)
	}

	return r
}

// GenerateID is stable for a given input, but only unique within one batch.
func GenerateID(rawDate string, position int) string {
	return types.GeneratedIDPrefix + rawDate + "-" + strconv.Itoa(position)
}
