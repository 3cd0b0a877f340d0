package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/devsquad/momo-sms-etl/internal/config"
	"github.com/devsquad/momo-sms-etl/internal/logging"
	"github.com/devsquad/momo-sms-etl/internal/store/nosql/dynamodb"
)

func main() {
	configFile := flag.String("config", config.DefaultConfigFile, "optional JSON config file")
	table := flag.String("table", "", "DynamoDB table to read from, overrides the config")
	id := flag.String("id", "", "transaction id to get, scans the whole table when empty")
	flag.Parse()

	log := logging.New()
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatal("failed to load config", logging.Error(err))
	}
	if *table != "" {
		cfg.DynamoDB.Table = *table
	}

	ctx := log.GetContext(context.Background())
	client, err := dynamodb.NewDynamoDBClient(ctx, cfg.DynamoDB.Region, cfg.DynamoDB.Table)
	if err != nil {
		log.Fatal("could not create dynamodb client", logging.Error(err))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if *id != "" {
		record, found, err := client.GetRecord(ctx, *id)
		if err != nil {
			log.Fatal("could not get record", logging.Error(err))
		}
		if !found {
			log.Fatal("record not found", logging.String("id", *id))
		}
		_ = enc.Encode(record)
		return
	}

	records, err := client.Scan(ctx)
	if err != nil {
		log.Fatal("could not scan table", logging.Error(err))
	}

	log.Info("scanned table",
		logging.String("table", cfg.DynamoDB.Table),
		logging.Int("records", len(records)),
	)
	_ = enc.Encode(records)
}
