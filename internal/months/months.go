// Package months holds the Spanish calendar tables used by the dashboard.
package months

import (
	"strings"
	"time"
)

var names = [12]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

var byKey = map[string]time.Month{
	"enero":      time.January,
	"febrero":    time.February,
	"marzo":      time.March,
	"abril":      time.April,
	"mayo":       time.May,
	"junio":      time.June,
	"julio":      time.July,
	"agosto":     time.August,
	"septiembre": time.September,
	"octubre":    time.October,
	"noviembre":  time.November,
	"diciembre":  time.December,
}

// Name returns the capitalized Spanish name of m, or "" when m is out of range.
func Name(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return names[m-1]
}

// Parse resolves a Spanish month key ("enero".."diciembre"). Case and
// surrounding spaces are ignored.
func Parse(key string) (time.Month, bool) {
	m, ok := byKey[strings.ToLower(strings.TrimSpace(key))]
	return m, ok
}

// Range returns the half-open interval [start, end) covering month m of year in loc.
func Range(year int, m time.Month, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, m, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}
