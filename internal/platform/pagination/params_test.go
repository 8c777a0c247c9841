package pagination

import (
	"net/url"
	"testing"
)

func TestParseDefaults(t *testing.T) {
	params := Parse(url.Values{}, Options{})
	if params.Page != 1 {
		t.Fatalf("expected default page 1, got %d", params.Page)
	}
	if params.Limit != DefaultLimit {
		t.Fatalf("expected default limit %d, got %d", DefaultLimit, params.Limit)
	}
}

func TestParseMalformedValues(t *testing.T) {
	cases := []struct {
		name      string
		page      string
		limit     string
		wantPage  int
		wantLimit int
	}{
		{"non numeric", "abc", "xyz", 1, DefaultLimit},
		{"negative", "-3", "-5", 1, DefaultLimit},
		{"zero", "0", "0", 1, DefaultLimit},
		{"valid", "4", "25", 4, 25},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			values := url.Values{"page": {tc.page}, "limit": {tc.limit}}
			params := Parse(values, Options{})
			if params.Page != tc.wantPage || params.Limit != tc.wantLimit {
				t.Fatalf("got page=%d limit=%d, want page=%d limit=%d", params.Page, params.Limit, tc.wantPage, tc.wantLimit)
			}
		})
	}
}

func TestParseLimitCap(t *testing.T) {
	values := url.Values{"limit": {"500"}}
	params := Parse(values, Options{})
	if params.Limit != DefaultMaxLimit {
		t.Fatalf("expected limit capped at %d, got %d", DefaultMaxLimit, params.Limit)
	}

	params = Parse(values, Options{MaxLimit: 40})
	if params.Limit != 40 {
		t.Fatalf("expected custom cap 40, got %d", params.Limit)
	}
}

func TestSkip(t *testing.T) {
	cases := []struct {
		page, limit, want int
	}{
		{1, 10, 0},
		{2, 10, 10},
		{5, 25, 100},
	}
	for _, tc := range cases {
		params := Params{Page: tc.page, Limit: tc.limit}
		if got := params.Skip(); got != tc.want {
			t.Fatalf("page %d limit %d: skip %d, want %d", tc.page, tc.limit, got, tc.want)
		}
	}
}
