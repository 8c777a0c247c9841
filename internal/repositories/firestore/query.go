package firestore

import (
	"cloud.google.com/go/firestore"

	domain "github.com/noithatviet/api/internal/domain"
)

// maxDisjunctionValues is Firestore's cap on values in a single `in` filter.
const maxDisjunctionValues = 30

// queryPlan partitions a predicate into the part Firestore can index and the
// residual evaluated application-side.
//
// Equality clauses always push down. At most one membership clause pushes
// down per query; its value set is chunked to the disjunction cap, so a plan
// with more than one chunk requires merging result sets in memory. Pattern
// and range clauses never push down: Firestore has no substring predicate,
// and the fallback-field range semantics cannot be expressed as a single
// indexed filter.
type queryPlan struct {
	equalities  []domain.EqualityClause
	memberField string
	chunks      [][]string
	residual    domain.Predicate
}

func planPredicate(predicate domain.Predicate) queryPlan {
	var plan queryPlan
	for _, clause := range predicate {
		switch c := clause.(type) {
		case domain.EqualityClause:
			plan.equalities = append(plan.equalities, c)
		case domain.SetMembershipClause:
			if plan.memberField == "" && len(c.Values) > 0 {
				plan.memberField = c.Field
				plan.chunks = chunkValues(c.Values, maxDisjunctionValues)
				continue
			}
			plan.residual = append(plan.residual, c)
		default:
			plan.residual = append(plan.residual, clause)
		}
	}
	return plan
}

// indexed reports whether a single Firestore query covers the whole
// predicate, making Offset/Limit paging and aggregation counts safe.
func (p queryPlan) indexed() bool {
	return len(p.residual) == 0 && len(p.chunks) <= 1
}

// apply attaches the pushed-down filters for one membership chunk. A nil
// chunk applies only the equality filters.
func (p queryPlan) apply(query firestore.Query, chunk []string) firestore.Query {
	for _, eq := range p.equalities {
		query = query.Where(fieldPath(eq.Field), "==", eq.Value)
	}
	if len(chunk) > 0 {
		values := make([]any, len(chunk))
		for i, v := range chunk {
			values[i] = v
		}
		query = query.Where(fieldPath(p.memberField), "in", values)
	}
	return query
}

func fieldPath(field string) string {
	if field == domain.FieldID {
		return firestore.DocumentID
	}
	return field
}

func chunkValues(values []string, size int) [][]string {
	if size <= 0 || len(values) == 0 {
		return nil
	}
	chunks := make([][]string, 0, (len(values)+size-1)/size)
	for start := 0; start < len(values); start += size {
		end := start + size
		if end > len(values) {
			end = len(values)
		}
		chunks = append(chunks, values[start:end])
	}
	return chunks
}
