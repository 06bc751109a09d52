package batch

import (
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Enumerate walks sourceDir and returns the relative paths of regular files
// matching the include patterns and not matching the exclude patterns,
// sorted lexicographically for deterministic processing order. Patterns use
// doublestar syntax ("**/*.png"); no include patterns means every file
// matches. Returned paths use forward slashes.
func Enumerate(sourceDir string, includes, excludes []string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if matchAny(includes, rel, true) && !matchAny(excludes, rel, false) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// matchAny reports whether rel matches any of the patterns; an empty pattern
// list yields emptyResult. Patterns are validated at config time, so match
// errors cannot occur here.
func matchAny(patterns []string, rel string, emptyResult bool) bool {
	if len(patterns) == 0 {
		return emptyResult
	}
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
