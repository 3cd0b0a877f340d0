package ingest

import (
	"context"
	"sync"
	"time"

	"github.com/zeebo/errs"

	"github.com/devsquad/momo-sms-etl/internal/config"
	"github.com/devsquad/momo-sms-etl/internal/logging"
	"github.com/devsquad/momo-sms-etl/internal/sms"
	"github.com/devsquad/momo-sms-etl/internal/sms/smstypes"
	"github.com/devsquad/momo-sms-etl/internal/store/jsonfile"
	"github.com/devsquad/momo-sms-etl/internal/types"
)

var ingestErr = errs.Class("ingest")

// Ingest runs one batch: read a backup, transform it and hand the records to
// the configured sinks.
type Ingest struct {
	Config config.Config
	DryRun bool

	// Deps is built from Config on first use when left nil.
	Deps *Dependencies

	configOnce sync.Once
}

// Run processes the backup document at inputPath.
func (i *Ingest) Run(ctx context.Context, inputPath string) (_ []types.TransactionRecord, err error) {
	log := logging.FromContext(ctx).With(logging.String("input", inputPath))
	ctx = log.GetContext(ctx)

	msgs, err := sms.ReadBackupFile(inputPath)
	if err != nil {
		return nil, ingestErr.Wrap(err)
	}

	log.Info("read backup", logging.Int("messages", len(msgs)))

	return i.Process(ctx, msgs)
}

// Process transforms msgs and writes the records. A failed transform writes
// nothing.
func (i *Ingest) Process(ctx context.Context, msgs []smstypes.RawMessage) (_ []types.TransactionRecord, err error) {
	defer func() {
		err = ingestErr.Wrap(err)
	}()

	log := logging.FromContext(ctx)

	if err := i.configure(ctx); err != nil {
		return nil, err
	}

	records, err := i.Deps.Transformer.Transform(ctx, msgs)
	if err != nil {
		return nil, err
	}

	if i.DryRun {
		log.Info("not writing records because of dryrun", logging.Int("records", len(records)))
		return records, nil
	}

	if err := i.write(ctx, records); err != nil {
		i.notify(ctx, types.Failed, records)
		return nil, err
	}

	i.notify(ctx, types.Success, records)

	return records, nil
}

func (i *Ingest) write(ctx context.Context, records []types.TransactionRecord) error {
	log := logging.FromContext(ctx)

	if out := i.Config.Output; out != "" {
		if err := jsonfile.Write(out, records); err != nil {
			return err
		}
		log.Info("wrote records", logging.Int("records", len(records)), logging.String("output", out))
	}

	if i.Deps.RecordStore != nil {
		if err := i.Deps.RecordStore.PutRecords(ctx, records); err != nil {
			return err
		}
		log.Info("stored records in dynamodb", logging.Int("records", len(records)))
	}

	return nil
}

// notify failures are logged only, they never change the outcome of a run.
func (i *Ingest) notify(ctx context.Context, status types.RunStatus, records []types.TransactionRecord) {
	if i.Deps.Notifier == nil {
		return
	}

	log := logging.FromContext(ctx)

	now := time.Now
	if i.Deps.Now != nil {
		now = i.Deps.Now
	}

	summary := types.RunSummary{
		Status:    status,
		Date:      now(),
		Records:   len(records),
		Generated: types.CountGenerated(records),
	}

	if err := i.Deps.Notifier.NotifyRun(ctx, summary); err != nil {
		log.Error("could not notify run summary", logging.Error(err))
	}
}
