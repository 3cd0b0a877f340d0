package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/zeebo/errs"
)

const (
	valueGroup = "value"

	// TimestampLayout is the normalized form of a transaction timestamp.
	TimestampLayout = "2006-01-02T15:04:05"

	bodyTimestampLayout = "2006-01-02 15:04:05"
)

// numeral is digits with optional ',' or '.' groups of three and an optional
// fraction. The leading non-digit keeps a match from starting inside another
// number; punctuation is fine, bodies often run sentences together.
const numeral = `(?:^|\D)(?P<value>\d+(?:[,.]\d{3})*(?:\.\d+)?)`

var (
	transactionIDRegexp = regexp.MustCompile(
		`(?i)(?:TxId|Financial Transaction Id)[:\s]*(?P<value>[A-Za-z0-9-]+)`,
	)
	currencyAmountRegexp = regexp.MustCompile(`(?i)` + numeral + `\s*RWF`)
	bareAmountRegexp     = regexp.MustCompile(numeral)
	senderRegexp         = regexp.MustCompile(
		`(?i)\bfrom\s+(?P<value>[A-Za-z0-9 .'-]+?)\s*(?:\(|\bon\b|\bTxId\b|\bhas\b|\bto\b)`,
	)
	receiverRegexp = regexp.MustCompile(
		`(?i)\bto\s+(?P<value>[A-Za-z0-9 .'-]+?)\s*(?:\d+|\(|\bhas\b|\bat\b)`,
	)
	timestampRegexp = regexp.MustCompile(
		`(?P<date>\d{4}-\d{2}-\d{2})\s+(?P<time>\d{2}:\d{2}:\d{2})`,
	)
)

var transactionIDRules = Chain[string]{
	{
		Name:   "labeled-id",
		Regexp: transactionIDRegexp,
		Build:  buildTransactionID,
	},
}

var amountRules = Chain[float64]{
	{
		Name:    "currency-marked",
		Regexp:  currencyAmountRegexp,
		Prepare: stripCommas,
		Build:   buildAmount,
	},
	fallbackAmountRule,
}

// fallbackAmountRule accepts any numeral, phone number fragments included.
var fallbackAmountRule = Rule[float64]{
	Name:   "first-numeral",
	Regexp: bareAmountRegexp,
	Build:  buildAmount,
}

var senderRules = Chain[string]{
	{
		Name:   "from-party",
		Regexp: senderRegexp,
		Build:  buildParty,
	},
}

var receiverRules = Chain[string]{
	{
		Name:   "to-party",
		Regexp: receiverRegexp,
		Build:  buildParty,
	},
}

var timestampRules = Chain[time.Time]{
	{
		Name:   "body-datetime",
		Regexp: timestampRegexp,
		Build:  buildTimestamp,
	},
}

func stripCommas(s string) string {
	return strings.ReplaceAll(s, ",", "")
}

func buildTransactionID(fields map[string]string) (string, error) {
	id := strings.TrimRight(strings.TrimSpace(fields[valueGroup]), ".")
	if id == "" {
		return "", errs.New("empty transaction id")
	}

	return id, nil
}

// parseNumeral reads commas as thousands separators. A single '.' is the
// decimal point; several of them can only be thousands separators.
func parseNumeral(s string) (float64, error) {
	s = stripCommas(s)
	if strings.Count(s, ".") > 1 {
		s = strings.ReplaceAll(s, ".", "")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errs.Wrap(err)
	}

	return v, nil
}

func buildAmount(fields map[string]string) (float64, error) {
	return parseNumeral(fields[valueGroup])
}

func buildParty(fields map[string]string) (string, error) {
	party := strings.TrimSpace(fields[valueGroup])
	if party == "" {
		return "", errs.New("empty party name")
	}

	return party, nil
}

func buildTimestamp(fields map[string]string) (time.Time, error) {
	t, err := time.Parse(bodyTimestampLayout, fields["date"]+" "+fields["time"])
	if err != nil {
		return time.Time{}, errs.Wrap(err)
	}

	return t, nil
}
