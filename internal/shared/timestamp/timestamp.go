// Package timestamp formats the compact local timestamps embedded in cache backups,
// snapshot exports and diff reports.
package timestamp

import "time"

// Layout is the YYYYMMDDHHMMSS layout used in every generated filename.
const Layout = "20060102150405"

// Clock returns the current time. Components take a Clock so tests can pin filenames.
type Clock func() time.Time

// Now is the default Clock (local time).
func Now() time.Time {
	return time.Now()
}

// Format renders t with Layout.
func Format(t time.Time) string {
	return t.Format(Layout)
}
