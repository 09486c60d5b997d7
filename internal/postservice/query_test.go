package postservice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWhereClause(t *testing.T) {
	testCases := []struct {
		name         string
		filter       PostFilter
		expectedSQL  string
		expectedArgs []any
	}{
		{
			name:        "no filters",
			filter:      PostFilter{},
			expectedSQL: "",
		},
		{
			name:         "status only",
			filter:       PostFilter{Status: "published"},
			expectedSQL:  "WHERE p.status = $1",
			expectedArgs: []any{"published"},
		},
		{
			name:         "category and author",
			filter:       PostFilter{CategoryID: "cat-1", AuthorID: "user-1"},
			expectedSQL:  "WHERE p.category_id = $1 AND p.author_id = $2",
			expectedArgs: []any{"cat-1", "user-1"},
		},
		{
			name:         "all filters keep a fixed order",
			filter:       PostFilter{Search: "go", AuthorID: "user-1", CategoryID: "cat-1", Status: "draft"},
			expectedSQL:  "WHERE p.status = $1 AND p.category_id = $2 AND p.author_id = $3 AND p.title ILIKE $4",
			expectedArgs: []any{"draft", "cat-1", "user-1", "%go%"},
		},
		{
			name:         "search escapes like wildcards",
			filter:       PostFilter{Search: `100%_off\`},
			expectedSQL:  "WHERE p.title ILIKE $1",
			expectedArgs: []any{`%100\%\_off\\%`},
		},
		{
			name:         "limit and offset are not predicates",
			filter:       PostFilter{Limit: 10, Offset: 20},
			expectedSQL:  "",
			expectedArgs: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sql, args := whereClause(tc.filter.predicates())
			assert.Equal(t, tc.expectedSQL, sql)
			assert.Equal(t, tc.expectedArgs, args)
		})
	}
}

func TestNormalizeFilter(t *testing.T) {
	testCases := []struct {
		name           string
		filter         PostFilter
		expectedLimit  int
		expectedOffset int
	}{
		{name: "zero values", filter: PostFilter{}, expectedLimit: DefaultLimit, expectedOffset: 0},
		{name: "negative limit", filter: PostFilter{Limit: -5}, expectedLimit: DefaultLimit, expectedOffset: 0},
		{name: "negative offset", filter: PostFilter{Limit: 10, Offset: -1}, expectedLimit: 10, expectedOffset: 0},
		{name: "explicit values", filter: PostFilter{Limit: 20, Offset: 40}, expectedLimit: 20, expectedOffset: 40},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := tc.filter
			f.normalize()
			assert.Equal(t, tc.expectedLimit, f.Limit)
			assert.Equal(t, tc.expectedOffset, f.Offset)
		})
	}
}
