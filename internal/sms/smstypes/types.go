package smstypes

import "github.com/devsquad/momo-sms-etl/internal/types/optional"

// RawMessage is one <sms> element of a backup. Attributes missing from the
// element are unresolved, as opposed to present and empty.
type RawMessage struct {
	Address       optional.Value[string]
	Date          optional.Value[string]
	ReadableDate  optional.Value[string]
	ServiceCenter optional.Value[string]
	ContactName   optional.Value[string]
	Body          string
	Protocol      int64
}
