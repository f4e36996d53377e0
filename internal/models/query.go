package models

import (
	"net/url"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// ResultsPerPage is the fixed catalog page size.
const ResultsPerPage = 8

// rangeSuffixes maps key suffixes to Mongo comparison operators. Longer
// suffixes first so price_gte is not split as price_gt + "e".
var rangeSuffixes = []struct {
	suffix string
	op     string
}{
	{"_gte", "$gte"},
	{"_lte", "$lte"},
	{"_gt", "$gt"},
	{"_lt", "$lt"},
}

// ListQuery is a catalog listing plan: optional keyword search, a
// conjunction of field filters, and a page number.
type ListQuery struct {
	Keyword string
	Page    int
	Filters bson.M
}

// ParseListQuery builds a ListQuery from URL query parameters. The keyword,
// page, and limit keys are reserved; every other key becomes a filter.
// Keys carrying a _gt/_gte/_lt/_lte suffix become range conditions on the
// base field, bare keys become equality matches. A missing, zero, or
// non-numeric page means page 1.
func ParseListQuery(values url.Values) ListQuery {
	page, err := strconv.Atoi(values.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	filters := bson.M{}
	for key, vals := range values {
		if key == "keyword" || key == "page" || key == "limit" {
			continue
		}
		if len(vals) == 0 || vals[0] == "" {
			continue
		}
		field, op := splitRangeKey(key)
		value := parseFilterValue(vals[0])
		if op == "" {
			filters[field] = value
			continue
		}
		cond, ok := filters[field].(bson.M)
		if !ok {
			cond = bson.M{}
			filters[field] = cond
		}
		cond[op] = value
	}

	return ListQuery{
		Keyword: values.Get("keyword"),
		Page:    page,
		Filters: filters,
	}
}

func splitRangeKey(key string) (field, op string) {
	for _, rs := range rangeSuffixes {
		if strings.HasSuffix(key, rs.suffix) && len(key) > len(rs.suffix) {
			return strings.TrimSuffix(key, rs.suffix), rs.op
		}
	}
	return key, ""
}

// parseFilterValue keeps numeric comparisons numeric; everything else
// filters as a plain string.
func parseFilterValue(raw string) interface{} {
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}

// Filter produces the Mongo filter document: the range conjunction plus a
// case-insensitive substring match on name when a keyword is present.
func (q ListQuery) Filter() bson.M {
	filter := bson.M{}
	for field, cond := range q.Filters {
		filter[field] = cond
	}
	if q.Keyword != "" {
		filter["name"] = bson.M{"$regex": q.Keyword, "$options": "i"}
	}
	return filter
}

// Skip is the number of documents to skip for the requested page.
func (q ListQuery) Skip() int64 {
	return int64(ResultsPerPage * (q.Page - 1))
}
