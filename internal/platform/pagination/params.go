package pagination

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultLimit defines the fallback page size when the client omits limit.
	DefaultLimit = 10
	// DefaultMaxLimit caps the supported page size to prevent unbounded queries.
	DefaultMaxLimit = 100
)

// Params bundles offset pagination values extracted from a request.
type Params struct {
	Page  int
	Limit int
}

// Options control how Parse resolves defaults for a given handler layer.
type Options struct {
	DefaultLimit int
	MaxLimit     int
}

// FromRequest parses the supported query parameters from the supplied request.
func FromRequest(r *http.Request, opts Options) Params {
	if r == nil {
		return Parse(url.Values{}, opts)
	}
	return Parse(r.URL.Query(), opts)
}

// Parse consumes the provided query values and returns the normalised Params.
// Absent, unparsable, or non-positive values fall back to their defaults and
// the limit is capped; malformed input never raises an error.
func Parse(values url.Values, opts Options) Params {
	defaultLimit := opts.DefaultLimit
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	maxLimit := opts.MaxLimit
	if maxLimit <= 0 {
		maxLimit = DefaultMaxLimit
	}
	if defaultLimit > maxLimit {
		defaultLimit = maxLimit
	}
	if values == nil {
		values = url.Values{}
	}

	page := positiveInt(values.Get("page"), 1)
	limit := positiveInt(values.Get("limit"), defaultLimit)
	if limit > maxLimit {
		limit = maxLimit
	}

	return Params{Page: page, Limit: limit}
}

// Skip converts the page number into the offset handed to the store.
func (p Params) Skip() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

func positiveInt(raw string, fallback int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
