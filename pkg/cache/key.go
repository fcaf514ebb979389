package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Key identifies one api-football request: an endpoint path plus its query
// parameters. Two keys with the same semantic parameters produce identical
// output regardless of map insertion order or numeric vs. string values.
type Key struct {
	// Endpoint is the api-football resource path (e.g. "teams", "players/squads")
	Endpoint string

	// Params are the raw query parameters. Nil, empty-string and empty-pointer
	// values are dropped during normalization.
	Params map[string]any
}

// Normalized returns the cleaned parameter set: empty values removed, every
// value stringified.
func (k Key) Normalized() map[string]string {
	out := make(map[string]string, len(k.Params))
	for key, value := range k.Params {
		s, ok := paramString(value)
		if !ok || s == "" {
			continue
		}
		out[key] = s
	}
	return out
}

// sortedKeys returns the normalized parameter names in lexicographic order.
func sortedKeys(params map[string]string) []string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// QueryString returns the canonical query string with keys sorted
// lexicographically and empty values omitted.
func (k Key) QueryString() string {
	params := k.Normalized()
	values := url.Values{}
	for _, key := range sortedKeys(params) {
		values.Set(key, params[key])
	}
	return values.Encode()
}

// URL builds the full request URL against the given base.
func (k Key) URL(base string) string {
	endpoint := strings.TrimLeft(k.Endpoint, "/")
	query := k.QueryString()
	if query == "" {
		return strings.TrimRight(base, "/") + "/" + endpoint
	}
	return strings.TrimRight(base, "/") + "/" + endpoint + "?" + query
}

// String generates a deterministic cache key string.
// Format: football:endpoint:param1=val1:param2=val2
//
// Example:
//
//	football:players/squads:team=33
func (k Key) String() string {
	parts := []string{"football"}

	endpoint := strings.Trim(k.Endpoint, "/")
	if endpoint != "" {
		parts = append(parts, endpoint)
	}

	params := k.Normalized()
	for _, key := range sortedKeys(params) {
		parts = append(parts, fmt.Sprintf("%s=%s", key, params[key]))
	}

	return strings.Join(parts, ":")
}

// paramString converts a parameter value to its canonical string form.
// Numeric ids and their string representations normalize identically.
func paramString(v any) (string, bool) {
	switch value := v.(type) {
	case nil:
		return "", false
	case string:
		return value, true
	case int:
		return strconv.Itoa(value), true
	case int64:
		return strconv.FormatInt(value, 10), true
	case *int:
		if value == nil {
			return "", false
		}
		return strconv.Itoa(*value), true
	case bool:
		return strconv.FormatBool(value), true
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64), true
	case fmt.Stringer:
		return value.String(), true
	default:
		return fmt.Sprint(value), true
	}
}
