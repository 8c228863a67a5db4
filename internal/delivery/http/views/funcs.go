package views

import (
	"fmt"
	"html/template"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"fleet-console/internal/domain/account"
	"fleet-console/pkg/utils"
)

const (
	dateTimeLayout = "2006-01-02 15:04"
	dateLayout     = "2006-01-02"
	placeholder    = "-"
)

// Link is a navigation entry shown to the roles listed.
type Link struct {
	Label string
	Href  string
	Roles []account.Role
}

var links = []Link{
	{Label: "Transports", Href: "/transports", Roles: []account.Role{account.RoleDispatcher}},
	{Label: "Assets", Href: "/assets", Roles: []account.Role{account.RoleDispatcher}},
	{Label: "Drivers", Href: "/drivers-manage", Roles: []account.Role{account.RoleDispatcher}},
	{Label: "Cargo", Href: "/cargos", Roles: []account.Role{account.RoleDispatcher, account.RoleAdmin}},
	{Label: "Locations", Href: "/locations", Roles: []account.Role{account.RoleDispatcher, account.RoleAdmin}},
	{Label: "Work log", Href: "/worklog", Roles: []account.Role{account.RoleDispatcher, account.RoleAdmin, account.RoleDriver}},
	{Label: "Users & accounts", Href: "/users", Roles: []account.Role{account.RoleAdmin}},
	{Label: "My transports", Href: "/drivers", Roles: []account.Role{account.RoleDriver}},
}

// Menu lists the sections the principal may open. The account page is
// always last.
func Menu(me *account.Me) []Link {
	var out []Link
	for _, l := range links {
		if me.HasAnyRole(l.Roles...) {
			out = append(out, l)
		}
	}
	return append(out, Link{Label: "My account", Href: "/account"})
}

func Funcs() template.FuncMap {
	return template.FuncMap{
		"datetime": formatDateTime,
		"date":     formatDate,
		"inputdt":  inputDateTime,
		"text":     text,
		"num":      number,
		"link":     link,
		"add":      func(a, b int) int { return a + b },
		"has":      has,
		"label":    label,
		"dict":     dict,
		"sortlink": sortLink,
		"sortmark": sortMark,
	}
}

func formatDateTime(v any) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return placeholder
		}
		return t.In(time.Local).Format(dateTimeLayout)
	case *time.Time:
		if t == nil {
			return placeholder
		}
		return formatDateTime(*t)
	}
	return placeholder
}

// formatDate accepts times and "YYYY-MM-DD..." strings.
func formatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return placeholder
		}
		return t.In(time.Local).Format(dateLayout)
	case *time.Time:
		if t == nil {
			return placeholder
		}
		return formatDate(*t)
	case *string:
		if t == nil {
			return placeholder
		}
		return formatDate(*t)
	case string:
		if len(t) >= len(dateLayout) {
			return t[:len(dateLayout)]
		}
		if t == "" {
			return placeholder
		}
		return t
	}
	return placeholder
}

func inputDateTime(t *time.Time) string {
	return utils.FormatDateTime(t)
}

// text dereferences optional strings and shows a dash for blanks.
func text(v any) string {
	var s string
	switch t := v.(type) {
	case nil:
	case *string:
		if t != nil {
			s = *t
		}
	case string:
		s = t
	case fmt.Stringer:
		s = t.String()
	default:
		s = str(v)
	}
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}

func number(v any) string {
	switch n := v.(type) {
	case *float64:
		if n == nil {
			return placeholder
		}
		return strconv.FormatFloat(*n, 'f', -1, 64)
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case *int64:
		if n == nil {
			return placeholder
		}
		return strconv.FormatInt(*n, 10)
	case *int:
		if n == nil {
			return placeholder
		}
		return strconv.Itoa(*n)
	}
	if s := str(v); s != "" {
		return s
	}
	return placeholder
}

// link builds path?key=value&... from alternating pairs. Blank and zero
// values are left out.
func link(path string, pairs ...any) template.URL {
	q := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		key := str(pairs[i])
		value := str(pairs[i+1])
		if key == "" || value == "" || value == "0" {
			continue
		}
		q.Set(key, value)
	}
	if len(q) == 0 {
		return template.URL(path)
	}
	return template.URL(path + "?" + q.Encode())
}

// sortLink toggles a column: ascending first, descending when it is
// already the ascending sort key.
func sortLink(path, key, current, dir string, pairs ...any) template.URL {
	next := "asc"
	if key == current && dir != "desc" {
		next = "desc"
	}
	return link(path, append([]any{"sort", key, "dir", next}, pairs...)...)
}

func sortMark(key, current, dir string) string {
	switch {
	case key != current:
		return ""
	case dir == "desc":
		return " \u25bc"
	}
	return " \u25b2"
}

func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	out := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
		}
		out[key] = pairs[i+1]
	}
	return out, nil
}

func has(list []string, v any) bool {
	want := str(v)
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

// label turns an enum value such as IN_PROGRESS into "In progress".
func label(v any) string {
	s := strings.ToLower(strings.ReplaceAll(str(v), "_", " "))
	if s == "" {
		return placeholder
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// str formats v, following pointers. Nil yields "".
func str(v any) string {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ""
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return ""
	}
	return fmt.Sprint(rv.Interface())
}
