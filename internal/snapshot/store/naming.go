package store

import (
	"regexp"
	"strings"
	"time"

	"github.com/alexanderjulianmartinez/datasnap/internal/snapshot"
)

const (
	filePrefix = "Snap__"
	fileExt    = ".snap"
	timeLayout = "20060102T150405.000000000Z"
)

// Snap__<capture time>__<source>__<id prefix>.snap
var namePattern = regexp.MustCompile(`^Snap__(\d{8}T\d{6}\.\d{9}Z)__(.+)__([0-9a-f]{8})\.snap$`)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// FileName returns the file name a snapshot is persisted under. The capture time
// leads so that names sort chronologically.
func FileName(m snapshot.Meta) string {
	src := unsafeChars.ReplaceAllString(m.Source, "-")
	src = strings.Trim(src, ".")
	if src == "" {
		src = "unnamed"
	}
	return filePrefix + m.CapturedAt.UTC().Format(timeLayout) + "__" + src + "__" +
		m.ID.String()[:8] + fileExt
}

// parseName extracts the capture time and source from a conforming file name.
func parseName(name string) (capturedAt time.Time, source string, ok bool) {
	m := namePattern.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, "", false
	}
	ts, err := time.Parse(timeLayout, m[1])
	if err != nil {
		return time.Time{}, "", false
	}
	return ts, m[2], true
}

// IsSnapshotFile reports whether name follows the snapshot naming convention.
func IsSnapshotFile(name string) bool {
	_, _, ok := parseName(name)
	return ok
}
