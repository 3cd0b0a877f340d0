package extract

import (
	"regexp"

	"github.com/devsquad/momo-sms-etl/internal/types/optional"
	"github.com/devsquad/momo-sms-etl/internal/util/utilregexp"
)

// Rule resolves one field from a message body: a pattern plus the step that
// builds the value out of the pattern's named groups.
type Rule[T any] struct {
	Name   string
	Regexp *regexp.Regexp

	// Prepare rewrites the body before matching. Nil leaves it untouched.
	Prepare func(string) string
	Build   func(fields map[string]string) (T, error)
}

// Resolve is unresolved when the pattern does not match or Build fails.
func (r Rule[T]) Resolve(body string) optional.Value[T] {
	text := body
	if r.Prepare != nil {
		text = r.Prepare(body)
	}

	fields, ok := utilregexp.Submatches(r.Regexp, text)
	if !ok {
		return optional.None[T]()
	}

	v, err := r.Build(fields)
	if err != nil {
		return optional.None[T]()
	}

	return optional.Some(v)
}

// Chain is the precedence list of rules for one field; the first rule that
// resolves wins.
type Chain[T any] []Rule[T]

func (c Chain[T]) Resolve(body string) optional.Value[T] {
	v, _ := c.ResolveRule(body)
	return v
}

// ResolveRule also reports which rule resolved the value, empty when none did.
func (c Chain[T]) ResolveRule(body string) (optional.Value[T], string) {
	for _, r := range c {
		if v := r.Resolve(body); v.Resolved() {
			return v, r.Name
		}
	}

	return optional.None[T](), ""
}
