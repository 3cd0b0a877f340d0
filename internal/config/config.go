package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/zeebo/errs"
)

var configErr = errs.Class("config")

const (
	DefaultConfigFile = "config.json"
	DefaultOutput     = "data/transactions.json"
	DefaultRegion     = "us-east-1"
)

type Config struct {
	Output   string   `json:"output"`
	Workers  int      `json:"workers"`
	DynamoDB DynamoDB `json:"dynamodb"`
	Twilio   Twilio   `json:"twilio"`
}

type DynamoDB struct {
	Table  string `json:"table"`
	Region string `json:"region"`
}

func (d DynamoDB) Enabled() bool {
	return d.Table != ""
}

type Twilio struct {
	AccountSid string `json:"twilio-account-sid"`
	AuthToken  string `json:"twilio-auth-token"`
	FromNumber string `json:"twilio-from-number"`
	ToNumber   string `json:"twilio-to-number"`
}

func (t Twilio) Enabled() bool {
	return t.AccountSid != "" && t.AuthToken != "" && t.FromNumber != "" && t.ToNumber != ""
}

func defaults() Config {
	return Config{
		Output:  DefaultOutput,
		Workers: 1,
		DynamoDB: DynamoDB{
			Region: DefaultRegion,
		},
	}
}

// Load reads the JSON file at path when it exists, then a .env file when it
// exists, and lets environment variables override both.
func Load(path string) (_ Config, err error) {
	defer func() {
		err = configErr.Wrap(err)
	}()

	cfg := defaults()

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Config{}, errs.Wrap(err)
	default:
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return Config{}, errs.New("invalid config file %q: %w", path, err)
		}
	}

	// .env is optional, variables already set in the environment win
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, errs.New("invalid .env file: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	setString("MOMO_OUTPUT", &cfg.Output)
	setString("MOMO_DYNAMODB_TABLE", &cfg.DynamoDB.Table)
	setString("MOMO_AWS_REGION", &cfg.DynamoDB.Region)
	setString("TWILIO_ACCOUNT_SID", &cfg.Twilio.AccountSid)
	setString("TWILIO_AUTH_TOKEN", &cfg.Twilio.AuthToken)
	setString("TWILIO_FROM_NUMBER", &cfg.Twilio.FromNumber)
	setString("TWILIO_TO_NUMBER", &cfg.Twilio.ToNumber)

	if v, ok := os.LookupEnv("MOMO_WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errs.New("MOMO_WORKERS %q is not an integer", v)
		}
		cfg.Workers = n
	}

	return nil
}
