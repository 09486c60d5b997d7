package postservice

import (
	"fmt"
	"strings"
)

// predicate is a single SQL condition with one bound argument. expr holds a
// %d verb that is replaced by the argument's placeholder number.
type predicate struct {
	expr string
	arg  any
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// predicates lists the conditions for every non-empty filter field, in a fixed order.
func (f PostFilter) predicates() []predicate {
	var preds []predicate

	if f.Status != "" {
		preds = append(preds, predicate{expr: "p.status = $%d", arg: f.Status})
	}

	if f.CategoryID != "" {
		preds = append(preds, predicate{expr: "p.category_id = $%d", arg: f.CategoryID})
	}

	if f.AuthorID != "" {
		preds = append(preds, predicate{expr: "p.author_id = $%d", arg: f.AuthorID})
	}

	if f.Search != "" {
		preds = append(preds, predicate{expr: "p.title ILIKE $%d", arg: "%" + likeEscaper.Replace(f.Search) + "%"})
	}

	return preds
}

// whereClause joins preds with AND. Placeholders are numbered from 1.
func whereClause(preds []predicate) (string, []any) {
	if len(preds) == 0 {
		return "", nil
	}

	clauses := make([]string, len(preds))
	args := make([]any, len(preds))
	for i, p := range preds {
		clauses[i] = fmt.Sprintf(p.expr, i+1)
		args[i] = p.arg
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

// normalize applies the default limit and clamps a negative offset.
func (f *PostFilter) normalize() {
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}

	if f.Offset < 0 {
		f.Offset = 0
	}
}
