// Package timeutil formats timestamps for API responses.
package timeutil

import (
	"sync"
	"time"
)

const (
	// ISOLayout is RFC3339 with millisecond precision.
	ISOLayout = "2006-01-02T15:04:05.000Z07:00"
	// BeijingLayout is the wall-clock layout used for Beijing time fields.
	BeijingLayout = "2006-01-02 15:04:05"
)

var (
	beijingOnce sync.Once
	beijing     *time.Location
)

// Beijing returns the Asia/Shanghai location, or a fixed UTC+8 zone when the
// tz database is unavailable.
func Beijing() *time.Location {
	beijingOnce.Do(func() {
		loc, err := time.LoadLocation("Asia/Shanghai")
		if err != nil {
			loc = time.FixedZone("CST", 8*60*60)
		}
		beijing = loc
	})
	return beijing
}

// FormatISO formats t in UTC.
func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// FormatBeijing formats t as Beijing wall-clock time.
func FormatBeijing(t time.Time) string {
	return t.In(Beijing()).Format(BeijingLayout)
}
