package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/zeebo/errs"

	"github.com/devsquad/momo-sms-etl/internal/config"
	"github.com/devsquad/momo-sms-etl/internal/ingest"
	"github.com/devsquad/momo-sms-etl/internal/logging"
	"github.com/devsquad/momo-sms-etl/internal/sms"
	"github.com/devsquad/momo-sms-etl/internal/types"
)

const versionFile = "version"

// Event carries the backup document inline.
type Event struct {
	Document string `json:"document"`
}

type Response struct {
	Count   int                       `json:"count"`
	Records []types.TransactionRecord `json:"records"`
}

func getVersion() string {
	raw, err := os.ReadFile(versionFile)
	if err != nil {
		return "dev"
	}
	return strings.TrimSpace(string(raw))
}

func HandleRequest(ctx context.Context, event Event) (Response, error) {
	log := logging.New().With(logging.String("version", getVersion()))
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load(config.DefaultConfigFile)
	if err != nil {
		return Response{}, err
	}
	// the lambda filesystem is read-only, records go back in the response
	cfg.Output = ""

	if strings.TrimSpace(event.Document) == "" {
		return Response{}, errs.New("event carries no document")
	}

	msgs, err := sms.ReadBackup(strings.NewReader(event.Document))
	if err != nil {
		return Response{}, err
	}

	const awsLambdaTimeout = 140 * time.Second
	ctx, cancel := context.WithTimeout(log.GetContext(ctx), awsLambdaTimeout)
	defer cancel()

	in := ingest.Ingest{Config: cfg}

	records, err := in.Process(ctx, msgs)
	if err != nil {
		log.Error("failed to process document", logging.Error(err))
		return Response{}, err
	}

	return Response{
		Count:   len(records),
		Records: records,
	}, nil
}

func main() {
	lambda.Start(HandleRequest)
}
