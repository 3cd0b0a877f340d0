package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/devsquad/momo-sms-etl/internal/config"
	"github.com/devsquad/momo-sms-etl/internal/ingest"
	"github.com/devsquad/momo-sms-etl/internal/logging"
)

var GitCommit string

func version() string {
	if len(GitCommit) >= 7 {
		return GitCommit[:7]
	}
	return "dev"
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] input.xml [output.json]\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	configFile := flag.String("config", config.DefaultConfigFile, "optional JSON config file")
	workers := flag.Int("workers", 0, "extraction workers, overrides the config when set")
	execute := flag.Bool("execute", false, "write records to the configured sinks")
	timeout := flag.Uint("timeout", 0, "timeout in seconds for the run to cancel")
	flag.Usage = usage
	flag.Parse()

	log := logging.New().With(logging.String("version", version()))
	defer func() { _ = log.Sync() }()

	if flag.NArg() < 1 || flag.NArg() > 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatal("failed to load config", logging.Error(err))
	}

	if flag.NArg() == 2 {
		cfg.Output = flag.Arg(1)
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}

	ctx := log.GetContext(context.Background())
	if *timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(*timeout)*time.Second)
		defer cancel()
	}

	in := ingest.Ingest{
		Config: cfg,
		DryRun: !*execute,
	}

	start := time.Now()
	records, err := in.Run(ctx, flag.Arg(0))
	if err != nil {
		log.Fatal("failed to run ingest", logging.Error(err))
	}

	log.Info("finished",
		logging.Int("records", len(records)),
		logging.Bool("dryrun", in.DryRun),
		logging.Duration("elapsed", time.Since(start)),
	)
}
