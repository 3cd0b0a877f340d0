package ingest

import (
	"context"
	"time"

	"github.com/zeebo/errs"

	"github.com/devsquad/momo-sms-etl/internal/config"
	"github.com/devsquad/momo-sms-etl/internal/external/twilio"
	"github.com/devsquad/momo-sms-etl/internal/extract"
	"github.com/devsquad/momo-sms-etl/internal/services/notificationserv"
	"github.com/devsquad/momo-sms-etl/internal/sms/smstypes"
	"github.com/devsquad/momo-sms-etl/internal/store/nosql/dynamodb"
	"github.com/devsquad/momo-sms-etl/internal/transform"
	"github.com/devsquad/momo-sms-etl/internal/types"
)

type transformer interface {
	Transform(ctx context.Context, msgs []smstypes.RawMessage) ([]types.TransactionRecord, error)
}

type recordStore interface {
	PutRecords(ctx context.Context, records []types.TransactionRecord) error
}

type notifier interface {
	NotifyRun(ctx context.Context, summary types.RunSummary) error
}

// Dependencies left nil are skipped, except Transformer.
type Dependencies struct {
	Transformer transformer
	RecordStore recordStore
	Notifier    notifier
	Now         func() time.Time
}

func (i *Ingest) configure(ctx context.Context) error {
	var genErr error

	i.configOnce.Do(func() {
		if i.Deps == nil {
			i.Deps, genErr = getDependencies(ctx, i.Config)
		}
	})

	if genErr != nil {
		return genErr
	}

	if i.Deps == nil || i.Deps.Transformer == nil {
		return errs.New("dependencies are not configured")
	}

	return nil
}

func getDependencies(ctx context.Context, cfg config.Config) (*Dependencies, error) {
	deps := &Dependencies{
		Transformer: &transform.Transformer{
			Extractor: &extract.CachedExtractor{},
			Workers:   cfg.Workers,
		},
		Now: time.Now,
	}

	if cfg.DynamoDB.Enabled() {
		client, err := dynamodb.NewDynamoDBClient(ctx, cfg.DynamoDB.Region, cfg.DynamoDB.Table)
		if err != nil {
			return nil, err
		}
		deps.RecordStore = client
	}

	if cfg.Twilio.Enabled() {
		deps.Notifier = &notificationserv.NotificationService{
			SMSClient: &twilio.Client{
				AccountSid: cfg.Twilio.AccountSid,
				Token:      cfg.Twilio.AuthToken,
			},
			FromNumber: cfg.Twilio.FromNumber,
			ToNumber:   cfg.Twilio.ToNumber,
		}
	}

	return deps, nil
}
