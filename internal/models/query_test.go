package models

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestParseListQueryPageDefaults(t *testing.T) {
	tests := []struct {
		name string
		page string
		want int
	}{
		{"missing", "", 1},
		{"zero", "0", 1},
		{"negative", "-3", 1},
		{"non-numeric", "abc", 1},
		{"valid", "4", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := url.Values{}
			if tt.page != "" {
				values.Set("page", tt.page)
			}
			q := ParseListQuery(values)
			assert.Equal(t, tt.want, q.Page)
			assert.GreaterOrEqual(t, q.Skip(), int64(0))
		})
	}
}

func TestParseListQuerySkip(t *testing.T) {
	q := ParseListQuery(url.Values{"page": {"3"}})
	assert.Equal(t, int64(ResultsPerPage*2), q.Skip())

	q = ParseListQuery(url.Values{})
	assert.Equal(t, int64(0), q.Skip())
}

func TestParseListQueryRangeSuffixes(t *testing.T) {
	values := url.Values{
		"price_gte": {"100"},
		"price_lt":  {"500"},
		"stock_gt":  {"0"},
	}
	q := ParseListQuery(values)

	price, ok := q.Filters["price"].(bson.M)
	require.True(t, ok, "price should be a range condition")
	assert.Equal(t, float64(100), price["$gte"])
	assert.Equal(t, float64(500), price["$lt"])
	assert.NotContains(t, price, "$gt", "price_gte must not be parsed as price_gt")

	stock, ok := q.Filters["stock"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, float64(0), stock["$gt"])
}

func TestParseListQueryEqualityAndReservedKeys(t *testing.T) {
	values := url.Values{
		"category": {"books"},
		"keyword":  {"lamp"},
		"page":     {"2"},
		"limit":    {"50"},
	}
	q := ParseListQuery(values)

	assert.Equal(t, "books", q.Filters["category"])
	assert.NotContains(t, q.Filters, "keyword")
	assert.NotContains(t, q.Filters, "page")
	assert.NotContains(t, q.Filters, "limit")
	assert.Equal(t, "lamp", q.Keyword)
}

func TestListQueryFilterKeyword(t *testing.T) {
	q := ListQuery{Keyword: "desk", Filters: bson.M{"price": bson.M{"$lt": 200.0}}}
	filter := q.Filter()

	name, ok := filter["name"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, "desk", name["$regex"])
	assert.Equal(t, "i", name["$options"])
	assert.Equal(t, bson.M{"$lt": 200.0}, filter["price"])

	// No keyword, no name condition.
	filter = ListQuery{Filters: bson.M{}}.Filter()
	assert.NotContains(t, filter, "name")
}
