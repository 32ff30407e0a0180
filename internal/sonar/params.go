package sonar

import (
	"net/url"
	"strconv"
	"strings"
)

// MaxPageSize is the server's hard cap on results per page.
const MaxPageSize = 20

// checkPage validates pagination bounds before any network call. Values
// outside range are rejected, not clamped, so pagination bugs surface at the
// caller.
func checkPage(page, pageSize int) error {
	if page < 1 {
		return errValidation("page must be >= 1, got %d", page)
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		return errValidation("page_size must be between 1 and %d, got %d", MaxPageSize, pageSize)
	}
	return nil
}

// splitList turns a comma-separated filter string into a clean token list.
// Tokens are whitespace-trimmed and empty tokens dropped. An empty input
// yields nil so "no filter" stays distinguishable from an empty filter.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// setList sets a comma-joined list parameter, omitting it entirely when the
// filter is empty. The server rejects empty string values on list params.
func setList(params url.Values, key, filter string) {
	if toks := splitList(filter); len(toks) > 0 {
		params.Set(key, strings.Join(toks, ","))
	}
}

// setPage sets the server's p/ps pagination parameters.
func setPage(params url.Values, page, pageSize int) {
	params.Set("p", strconv.Itoa(page))
	params.Set("ps", strconv.Itoa(pageSize))
}

// setBool sets a tristate boolean parameter; nil means unset.
func setBool(params url.Values, key string, v *bool) {
	if v != nil {
		params.Set(key, strconv.FormatBool(*v))
	}
}

// setInt sets an optional positive integer parameter; nil means unset.
func setInt(params url.Values, key string, v *int) {
	if v != nil {
		params.Set(key, strconv.Itoa(*v))
	}
}
