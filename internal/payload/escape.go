package payload

import (
	"net/url"
	"strings"
)

// PercentEncode escapes every byte of s except ALPHA, DIGIT and "-_.~" as
// %XX with uppercase hex. Spaces become %20, never "+".
func PercentEncode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
