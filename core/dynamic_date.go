package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// dateLayouts maps the format keywords accepted in archive prefixes to Go
// time layouts. Unknown keywords fall back to the day layout.
var dateLayouts = map[string]string{
	"day":      "2006-01-02",
	"month":    "2006-01",
	"year":     "2006",
	"datetime": "2006-01-02 15:04:05",
}

// ParseDynamicDate expands a "$date:format:unit:offset" expression against
// the given base time, e.g. "$date:month:month:-1" for last month's archive
// segment. Strings without the "$date:" prefix pass through unchanged.
func ParseDynamicDate(expression string, baseTime time.Time) (string, error) {
	if !strings.HasPrefix(expression, "$date:") {
		return expression, nil
	}

	parts := strings.Split(expression, ":")
	if len(parts) < 4 {
		return "", fmt.Errorf("invalid dynamic date format: %s", expression)
	}
	format, unit := parts[1], parts[2]

	offset, err := strconv.Atoi(parts[3])
	if err != nil {
		return "", fmt.Errorf("invalid offset in dynamic date: %s", expression)
	}

	var target time.Time
	switch unit {
	case "day":
		target = baseTime.AddDate(0, 0, offset)
	case "month":
		target = baseTime.AddDate(0, offset, 0)
	case "year":
		target = baseTime.AddDate(offset, 0, 0)
	default:
		return "", fmt.Errorf("unsupported unit in dynamic date: %s", unit)
	}

	layout, ok := dateLayouts[format]
	if !ok {
		layout = dateLayouts["day"]
	}
	return target.Format(layout), nil
}
