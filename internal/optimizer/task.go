package optimizer

import (
	"io/fs"
	"path/filepath"
	"regexp"
	"time"
)

// Task is one input file under consideration, with its resolved output path.
type Task struct {
	InputPath  string
	RelPath    string
	OutputPath string
	ModTime    time.Time
	Size       int64
}

var extPattern = regexp.MustCompile(`\.[a-zA-Z]+$`)

// OutputName normalizes a relative input name to the optimizer's native
// format: the final alphabetic extension is replaced with ".png". Names
// without such an extension are returned unchanged.
func OutputName(rel string) string {
	return extPattern.ReplaceAllString(rel, ".png")
}

// NewTask builds the Task for one candidate file. rel is the path relative
// to sourceDir, as produced by the enumerator.
func NewTask(sourceDir, destDir, rel string, info fs.FileInfo) Task {
	return Task{
		InputPath:  filepath.Join(sourceDir, rel),
		RelPath:    rel,
		OutputPath: filepath.Join(destDir, OutputName(rel)),
		ModTime:    info.ModTime(),
		Size:       info.Size(),
	}
}
