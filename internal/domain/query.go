package domain

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// Clause is one predicate over a single filterable dimension. Clauses in a
// Predicate combine conjunctively; a clause may itself encode a disjunction
// (range fallback, membership set).
//
// Keeping the clauses typed and store-agnostic lets the repositories decide
// per clause whether the backing store can index it or whether it has to be
// evaluated application-side.
type Clause interface {
	clause()
}

// FieldID addresses the entity identifier in clauses. Stores translate it
// to their own document-id sentinel when compiling the predicate.
const FieldID = "id"

// EqualityClause requires an exact field value.
type EqualityClause struct {
	Field string
	Value any
}

// SetMembershipClause requires the field value to be one of Values.
type SetMembershipClause struct {
	Field  string
	Values []string
}

// PatternClause requires a string field to either contain Substring
// (case-folded) or match Expr when set. Document stores without substring
// predicates evaluate this clause application-side.
type PatternClause struct {
	Field     string
	Substring string
	Expr      *regexp.Regexp
}

// RangeClause restricts a numeric or timestamp field to a bound. When
// FallbackField is set it is consulted for documents whose primary field is
// absent, so `salePrice` wins over `finalPrice` whenever it is present.
type RangeClause struct {
	Field         string
	FallbackField string
	Min           any
	Max           any
	MinExclusive  bool
}

func (EqualityClause) clause()      {}
func (SetMembershipClause) clause() {}
func (PatternClause) clause()       {}
func (RangeClause) clause()         {}

// Predicate is a conjunction of clauses.
type Predicate []Clause

// FieldLookup resolves a document field by name. The second return reports
// presence; absent and null fields both report false.
type FieldLookup func(field string) (any, bool)

var foldCaser = cases.Fold()

// Fold lowercases and case-folds a string for caseless comparison.
func Fold(value string) string {
	return foldCaser.String(strings.TrimSpace(value))
}

// NewSubstringClause builds a case-insensitive substring clause.
func NewSubstringClause(field, value string) PatternClause {
	return PatternClause{Field: field, Substring: Fold(value)}
}

// Matches evaluates the full conjunction against a document.
func (p Predicate) Matches(lookup FieldLookup) bool {
	for _, clause := range p {
		if !MatchClause(clause, lookup) {
			return false
		}
	}
	return true
}

// MatchClause evaluates a single clause against a document.
func MatchClause(clause Clause, lookup FieldLookup) bool {
	if lookup == nil {
		return false
	}
	switch c := clause.(type) {
	case EqualityClause:
		value, ok := lookup(c.Field)
		if !ok {
			return false
		}
		return equalValues(value, c.Value)
	case SetMembershipClause:
		value, ok := lookup(c.Field)
		if !ok {
			return false
		}
		text, ok := value.(string)
		if !ok {
			return false
		}
		for _, candidate := range c.Values {
			if candidate == text {
				return true
			}
		}
		return false
	case PatternClause:
		value, ok := lookup(c.Field)
		if !ok {
			return false
		}
		text, ok := value.(string)
		if !ok {
			return false
		}
		if c.Expr != nil {
			return c.Expr.MatchString(text)
		}
		if c.Substring == "" {
			return true
		}
		return strings.Contains(Fold(text), c.Substring)
	case RangeClause:
		value, ok := lookup(c.Field)
		if !ok && c.FallbackField != "" {
			value, ok = lookup(c.FallbackField)
		}
		if !ok {
			return false
		}
		return matchRange(value, c)
	}
	return false
}

func matchRange(value any, c RangeClause) bool {
	if c.Min != nil {
		cmp, ok := compareValues(value, c.Min)
		if !ok {
			return false
		}
		if cmp < 0 || (cmp == 0 && c.MinExclusive) {
			return false
		}
	}
	if c.Max != nil {
		cmp, ok := compareValues(value, c.Max)
		if !ok || cmp > 0 {
			return false
		}
	}
	return true
}

func compareValues(value, bound any) (int, bool) {
	if boundTime, ok := bound.(time.Time); ok {
		valueTime, ok := value.(time.Time)
		if !ok {
			return 0, false
		}
		switch {
		case valueTime.Before(boundTime):
			return -1, true
		case valueTime.After(boundTime):
			return 1, true
		}
		return 0, true
	}

	boundNum, ok := asFloat(bound)
	if !ok {
		return 0, false
	}
	valueNum, ok := asFloat(value)
	if !ok {
		return 0, false
	}
	switch {
	case valueNum < boundNum:
		return -1, true
	case valueNum > boundNum:
		return 1, true
	}
	return 0, true
}

func equalValues(value, expected any) bool {
	if expectedNum, ok := asFloat(expected); ok {
		valueNum, ok := asFloat(value)
		return ok && valueNum == expectedNum
	}
	return value == expected
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}
