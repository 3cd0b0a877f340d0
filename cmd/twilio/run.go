package main

import (
	"context"
	"flag"
	"time"

	"github.com/devsquad/momo-sms-etl/internal/config"
	"github.com/devsquad/momo-sms-etl/internal/external/twilio"
	"github.com/devsquad/momo-sms-etl/internal/logging"
	"github.com/devsquad/momo-sms-etl/internal/services/notificationserv"
	"github.com/devsquad/momo-sms-etl/internal/types"
)

// Sends a sample run summary to check the Twilio settings.
func main() {
	configFile := flag.String("config", config.DefaultConfigFile, "optional JSON config file")
	to := flag.String("to", "", "number to send the summary to, overrides the config")
	flag.Parse()

	log := logging.New()
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatal("failed to load config", logging.Error(err))
	}
	if *to != "" {
		cfg.Twilio.ToNumber = *to
	}
	if !cfg.Twilio.Enabled() {
		log.Fatal("twilio is not configured")
	}

	notif := notificationserv.NotificationService{
		SMSClient: &twilio.Client{
			AccountSid: cfg.Twilio.AccountSid,
			Token:      cfg.Twilio.AuthToken,
		},
		FromNumber: cfg.Twilio.FromNumber,
		ToNumber:   cfg.Twilio.ToNumber,
	}

	ctx := log.GetContext(context.Background())
	err = notif.NotifyRun(ctx, types.RunSummary{
		Status: types.Success,
		Date:   time.Now(),
	})
	if err != nil {
		log.Fatal("could not send summary", logging.Error(err))
	}

	log.Info("summary sent", logging.String("to_number", cfg.Twilio.ToNumber))
}
