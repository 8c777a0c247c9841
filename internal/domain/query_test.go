package domain

import (
	"testing"
	"time"
)

func lookupMap(fields map[string]any) FieldLookup {
	return func(field string) (any, bool) {
		value, ok := fields[field]
		return value, ok
	}
}

func TestRangeClauseSalePriceFallback(t *testing.T) {
	clause := RangeClause{Field: "salePrice", FallbackField: "finalPrice", Min: float64(400000)}

	t.Run("final price used when sale price absent", func(t *testing.T) {
		if !MatchClause(clause, lookupMap(map[string]any{"finalPrice": float64(500000)})) {
			t.Fatalf("expected variation without salePrice to match on finalPrice")
		}
	})

	t.Run("sale price wins even when lower", func(t *testing.T) {
		fields := map[string]any{
			"salePrice":  float64(100000),
			"finalPrice": float64(500000),
		}
		if MatchClause(clause, lookupMap(fields)) {
			t.Fatalf("expected salePrice to take precedence over finalPrice")
		}
	})

	t.Run("both fields absent never matches", func(t *testing.T) {
		if MatchClause(clause, lookupMap(map[string]any{})) {
			t.Fatalf("expected no match when neither price field present")
		}
	})
}

func TestRangeClauseBounds(t *testing.T) {
	clause := RangeClause{Field: "price", Min: float64(100), Max: float64(200)}

	cases := []struct {
		name  string
		value float64
		want  bool
	}{
		{"below min", 99, false},
		{"at min", 100, true},
		{"inside", 150, true},
		{"at max", 200, true},
		{"above max", 201, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MatchClause(clause, lookupMap(map[string]any{"price": tc.value}))
			if got != tc.want {
				t.Fatalf("value %v: got %v, want %v", tc.value, got, tc.want)
			}
		})
	}
}

func TestRangeClauseExclusiveMin(t *testing.T) {
	clause := RangeClause{Field: "discount", Min: float64(0), MinExclusive: true}
	if MatchClause(clause, lookupMap(map[string]any{"discount": float64(0)})) {
		t.Fatalf("exclusive bound must reject the bound value itself")
	}
	if !MatchClause(clause, lookupMap(map[string]any{"discount": float64(1)})) {
		t.Fatalf("expected value above exclusive bound to match")
	}
}

func TestRangeClauseTimeBounds(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	start := RangeClause{Field: "startTime", Max: now}
	end := RangeClause{Field: "endTime", Min: now}

	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)

	if !MatchClause(start, lookupMap(map[string]any{"startTime": yesterday})) {
		t.Fatalf("window opened yesterday should satisfy start<=now")
	}
	if !MatchClause(end, lookupMap(map[string]any{"endTime": tomorrow})) {
		t.Fatalf("window closing tomorrow should satisfy end>=now")
	}
	if MatchClause(end, lookupMap(map[string]any{"endTime": yesterday})) {
		t.Fatalf("window closed yesterday must not satisfy end>=now")
	}
}

func TestPatternClauseSubstringFolding(t *testing.T) {
	clause := NewSubstringClause("colorName", "ĐỎ")
	if !MatchClause(clause, lookupMap(map[string]any{"colorName": "Ghế màu đỏ tươi"})) {
		t.Fatalf("expected case-folded substring match")
	}
	if MatchClause(clause, lookupMap(map[string]any{"colorName": "xanh lá"})) {
		t.Fatalf("expected non-matching color to fail")
	}
}

func TestEqualityAndMembershipClauses(t *testing.T) {
	eq := EqualityClause{Field: "isDeleted", Value: false}
	if !MatchClause(eq, lookupMap(map[string]any{"isDeleted": false})) {
		t.Fatalf("expected equality match")
	}
	if MatchClause(eq, lookupMap(map[string]any{"isDeleted": true})) {
		t.Fatalf("expected equality mismatch")
	}

	member := SetMembershipClause{Field: FieldID, Values: []string{"p1", "p2"}}
	if !MatchClause(member, lookupMap(map[string]any{FieldID: "p2"})) {
		t.Fatalf("expected membership match")
	}
	if MatchClause(member, lookupMap(map[string]any{FieldID: "p3"})) {
		t.Fatalf("expected membership mismatch")
	}
}

func TestPredicateConjunction(t *testing.T) {
	predicate := Predicate{
		EqualityClause{Field: "status", Value: "active"},
		RangeClause{Field: "price", Min: float64(100)},
	}
	if !predicate.Matches(lookupMap(map[string]any{"status": "active", "price": float64(150)})) {
		t.Fatalf("expected conjunction to match")
	}
	if predicate.Matches(lookupMap(map[string]any{"status": "hidden", "price": float64(150)})) {
		t.Fatalf("one failing clause must fail the conjunction")
	}
}

func TestNewPageInfo(t *testing.T) {
	cases := []struct {
		name      string
		limit     int
		total     int64
		wantPages int64
	}{
		{"exact multiple", 10, 30, 3},
		{"remainder rounds up", 10, 31, 4},
		{"zero total", 10, 0, 0},
		{"single partial page", 10, 2, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			info := NewPageInfo(1, tc.limit, tc.total)
			if info.TotalPages != tc.wantPages {
				t.Fatalf("total %d limit %d: got %d pages, want %d", tc.total, tc.limit, info.TotalPages, tc.wantPages)
			}
		})
	}
}

func TestFlashSaleActiveAt(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)

	active := FlashSale{DiscountedPrice: 100000, Start: yesterday, End: tomorrow}
	if !active.ActiveAt(now) {
		t.Fatalf("sale spanning now should be active")
	}

	expired := FlashSale{DiscountedPrice: 100000, Start: yesterday.Add(-24 * time.Hour), End: yesterday}
	if expired.ActiveAt(now) {
		t.Fatalf("sale that ended yesterday must be inactive")
	}

	zeroDiscount := FlashSale{DiscountedPrice: 0, Start: yesterday, End: tomorrow}
	if zeroDiscount.ActiveAt(now) {
		t.Fatalf("non-positive discount disables the sale")
	}

	boundary := FlashSale{DiscountedPrice: 1, Start: now, End: now}
	if !boundary.ActiveAt(now) {
		t.Fatalf("window bounds are inclusive")
	}
}
