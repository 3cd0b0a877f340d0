package types

import (
	"fmt"
	"time"
)

type RunStatus uint8

const (
	Success RunStatus = iota
	Failed
)

func (s RunStatus) String() string {
	switch s {
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// RunSummary is what gets reported once a batch finishes.
type RunSummary struct {
	Status    RunStatus
	Date      time.Time
	Records   int
	Generated int
}

const (
	summaryFormat = `%s || %s %d records (%d generated ids) || %s`
	dateFormat    = "2006-01-02"
)

func (s RunSummary) String() string {
	verb := "wrote"
	if s.Status == Failed {
		verb = "could not write"
	}

	return fmt.Sprintf(summaryFormat,
		s.Date.Format(dateFormat),
		verb,
		s.Records,
		s.Generated,
		s.Status,
	)
}
