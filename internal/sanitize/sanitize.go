// Package sanitize strips markup from user-supplied profile text before it
// is stored. Names and phone numbers are plain text; any HTML a client
// submits is removed rather than escaped.
package sanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

// PlainText removes every HTML element from input, collapses runs of
// whitespace, and trims the result. Entities escaped by the policy are
// decoded again since the value is stored and served as JSON text.
func PlainText(input string) string {
	if input == "" {
		return ""
	}
	stripped := html.UnescapeString(getPolicy().Sanitize(input))
	return strings.Join(strings.Fields(stripped), " ")
}
