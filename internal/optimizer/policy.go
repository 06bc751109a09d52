package optimizer

import (
	"os"
	"path/filepath"
	"strings"
)

// Decision classifies what should happen to one candidate file.
type Decision int

const (
	SkipUnsupported Decision = iota
	SkipUpToDate
	SkipEmpty
	CopyOnly
	Transform
)

// Reason returns the human-readable skip reason for skip decisions, and ""
// for CopyOnly and Transform.
func (d Decision) Reason() string {
	switch d {
	case SkipUnsupported:
		return "file type is unsupported"
	case SkipUpToDate:
		return "output file is newer"
	case SkipEmpty:
		return "file is completely empty"
	}
	return ""
}

// Raster formats the optimizer accepts as input (lowercase, with dot).
var supportedExts = map[string]bool{
	".gif":  true,
	".bmp":  true,
	".png":  true,
	".pnm":  true,
	".tif":  true,
	".tiff": true,
}

// Classify applies the per-file rules in order; the first match wins.
// transform is false when the mode forbids optimization or the optimizer
// turned out to be unavailable, in which case eligible files are copied.
// The up-to-date rule makes repeated runs against unchanged input a no-op.
func Classify(task Task, transform bool) Decision {
	if !supportedExts[strings.ToLower(filepath.Ext(task.RelPath))] {
		return SkipUnsupported
	}
	if out, err := os.Stat(task.OutputPath); err == nil && out.ModTime().After(task.ModTime) {
		return SkipUpToDate
	}
	if task.Size == 0 {
		return SkipEmpty
	}
	if !transform {
		return CopyOnly
	}
	return Transform
}
