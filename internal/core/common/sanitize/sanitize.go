// Package sanitize cleans user-supplied free text before it is stored.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ugc   = bluemonday.UGCPolicy()
	plain = bluemonday.StrictPolicy()
)

// RichText keeps basic formatting markup and drops scripts, handlers and
// unsafe URLs.
func RichText(s string) string {
	return strings.TrimSpace(ugc.Sanitize(s))
}

// PlainText strips every tag.
func PlainText(s string) string {
	return strings.TrimSpace(plain.Sanitize(s))
}
