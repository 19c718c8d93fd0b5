// Package naming derives the per-run identifier of a persisted artifact:
// a file path, a cache key, a table name or a routing key.
package naming

import (
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
)

// FileExt is the extension of files written by the file sink.
const FileExt = ".json"

// Resolve joins base and now formatted with the strftime pattern using "_".
// An empty pattern returns base unchanged.
func Resolve(base, pattern string, now time.Time) string {
	if pattern == "" {
		return base
	}
	return base + "_" + strftime.Format(pattern, now)
}

// FileName is Resolve for the file sink: the extension is moved after the
// date suffix and appended when missing.
func FileName(base, pattern string, now time.Time) string {
	name := base
	if pattern != "" {
		name = Resolve(strings.TrimSuffix(base, FileExt), pattern, now)
	}
	if !strings.HasSuffix(name, FileExt) {
		name += FileExt
	}
	return name
}
