package transport

import (
	"regexp"
	"strconv"
	"strings"

	domainTransport "fleet-console/internal/domain/transport"
)

// Search is the filter typed into the transport list search box.
type Search struct {
	Status    domainTransport.Status
	DriverID  *int64
	VehicleID *int64
	Q         string
}

var (
	prefixRe = regexp.MustCompile(`(?i)^([a-z]+)\s*[:=]\s*(.+)$`)
	digitsRe = regexp.MustCompile(`^\d+$`)
	statusRe = regexp.MustCompile(`[\s-]+`)
)

// ParseSearch understands a bare status ("in progress"), "d:12" / "driver=12",
// "v:3" / "vehicle=3" and "s:planned". Anything else is free text.
func ParseSearch(raw string) Search {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Search{}
	}

	if st, ok := asStatus(text); ok {
		return Search{Status: st}
	}

	if m := prefixRe.FindStringSubmatch(text); m != nil {
		key := strings.ToLower(m[1])
		value := strings.TrimSpace(m[2])

		switch key {
		case "d", "driver", "driverid":
			if id, ok := asID(value); ok {
				return Search{DriverID: &id}
			}
			return Search{Q: value}
		case "v", "vehicle", "vehicleid":
			if id, ok := asID(value); ok {
				return Search{VehicleID: &id}
			}
			return Search{Q: value}
		case "s", "status":
			if st, ok := asStatus(value); ok {
				return Search{Status: st}
			}
			return Search{Q: value}
		}
	}

	return Search{Q: text}
}

func asStatus(s string) (domainTransport.Status, bool) {
	st := domainTransport.Status(statusRe.ReplaceAllString(strings.ToUpper(s), "_"))
	return st, st.Valid()
}

func asID(s string) (int64, bool) {
	if !digitsRe.MatchString(s) {
		return 0, false
	}
	id, err := strconv.ParseInt(s, 10, 64)
	return id, err == nil && id > 0
}
