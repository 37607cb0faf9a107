package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/penwyp/go-time-tracer/internal/core/constants"
	"github.com/penwyp/go-time-tracer/internal/util"
)

// FileScanner finds source log files below a set of roots.
type FileScanner struct {
	ext string
}

// NewFileScanner creates a scanner matching ext case-insensitively. An empty
// ext matches the default source extension.
func NewFileScanner(ext string) *FileScanner {
	if ext == "" {
		ext = constants.SourceExtension
	}
	return &FileScanner{ext: strings.ToLower(ext)}
}

// Scan walks each root and returns the matching files, sorted and
// deduplicated. A root that is a file is returned as given regardless of its
// extension. Unreadable roots are returned as well so the parser reports them.
func (s *FileScanner) Scan(roots ...string) ([]string, error) {
	start := time.Now()
	seen := make(map[string]struct{})
	var files []string
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}

	dirCount, totalCount := 0, 0
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			add(root)
			continue
		}

		util.LogDebugf("Start scanning directory: %s", root)
		err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				util.LogDebugf("Skip file (error): %s - %v", path, err)
				return nil
			}
			if info.IsDir() {
				dirCount++
				return nil
			}
			totalCount++
			if s.Match(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	util.LogDebugf("File scan completed: duration %v, scanned %d directories, %d files, found %d source files",
		time.Since(start), dirCount, totalCount, len(files))
	return files, nil
}

// Match reports whether path has the scanner's extension.
func (s *FileScanner) Match(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), s.ext)
}
