package fleetapi

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Query builds request parameters the way the fleet API expects them.
// Nil and empty values are dropped, "q" is trimmed, slices become repeated keys.
type Query struct {
	values url.Values
}

func NewQuery() *Query {
	return &Query{values: url.Values{}}
}

func (q *Query) String(key, value string) *Query {
	if key == "q" {
		value = strings.TrimSpace(value)
	}
	if value == "" {
		return q
	}
	q.values.Set(key, value)
	return q
}

func (q *Query) Int(key string, value int) *Query {
	q.values.Set(key, strconv.Itoa(value))
	return q
}

func (q *Query) Int64Ptr(key string, value *int64) *Query {
	if value == nil {
		return q
	}
	q.values.Set(key, strconv.FormatInt(*value, 10))
	return q
}

func (q *Query) Bool(key string, value bool) *Query {
	q.values.Set(key, strconv.FormatBool(value))
	return q
}

func (q *Query) Time(key string, value *time.Time) *Query {
	if value == nil || value.IsZero() {
		return q
	}
	q.values.Set(key, value.UTC().Format(time.RFC3339))
	return q
}

// Strings appends one value per item, skipping empty items.
func (q *Query) Strings(key string, items []string) *Query {
	for _, item := range items {
		if item == "" {
			continue
		}
		q.values.Add(key, item)
	}
	return q
}

// IDs sets a comma-joined id list.
func (q *Query) IDs(key string, ids []int64) *Query {
	if len(ids) == 0 {
		return q
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	q.values.Set(key, strings.Join(parts, ","))
	return q
}

// Page sets page, size and sort.
func (q *Query) Page(number, size int, sort []string) *Query {
	return q.Int("page", number).Int("size", size).Strings("sort", sort)
}

func (q *Query) Values() url.Values {
	return q.values
}

func (q *Query) Encode() string {
	return q.values.Encode()
}
