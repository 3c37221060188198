package scanner

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/penwyp/go-enroll-stats/internal/util"
)

// ErrEmptyFile is returned by LastLine for a file with no content.
var ErrEmptyFile = errors.New("file is empty")

// FileScanner lists the regular files directly inside one directory.
type FileScanner struct {
	baseDir string
	suffix  string
}

// NewFileScanner creates a FileScanner accepting every regular file in baseDir.
func NewFileScanner(baseDir string) *FileScanner {
	return &FileScanner{baseDir: baseDir}
}

// WithSuffix restricts the scan to names ending in suffix (case-insensitive).
func (s *FileScanner) WithSuffix(suffix string) *FileScanner {
	s.suffix = strings.ToLower(suffix)
	return s
}

// BaseDir returns the scanned directory.
func (s *FileScanner) BaseDir() string {
	return s.baseDir
}

// Scan returns the paths of regular files in the directory, in directory
// listing order. Subdirectories are not descended into. Symlinks count when
// they resolve to a regular file. An unreadable directory is an error.
func (s *FileScanner) Scan() ([]string, error) {
	start := time.Now()

	util.LogDebug("Start scanning directory", util.F("dir", s.baseDir))

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", s.baseDir, err)
	}

	files := make([]string, 0, len(entries))
	dirCount := 0
	for _, entry := range entries {
		path := filepath.Join(s.baseDir, entry.Name())

		if !s.isRegular(path, entry) {
			if entry.IsDir() {
				dirCount++
			}
			continue
		}
		if s.suffix != "" && !strings.HasSuffix(strings.ToLower(entry.Name()), s.suffix) {
			continue
		}
		files = append(files, path)
	}

	util.LogDebug("File scan completed",
		util.F("dir", s.baseDir),
		util.F("duration", util.FormatDuration(time.Since(start))),
		util.F("entries", len(entries)),
		util.F("subdirs", dirCount),
		util.F("files", len(files)))

	return files, nil
}

func (s *FileScanner) isRegular(path string, entry os.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		util.LogDebug("Skip dangling symlink", util.F("path", path), util.F("error", err))
		return false
	}
	return info.Mode().IsRegular()
}

// LastLine reads path in full and returns its final line without the line
// terminator. A trailing newline does not produce an extra empty line.
func LastLine(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	sc := bufio.NewScanner(file)
	sc.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	last := ""
	lines := 0
	for sc.Scan() {
		last = sc.Text()
		lines++
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	if lines == 0 {
		return "", ErrEmptyFile
	}
	return strings.TrimSuffix(last, "\r"), nil
}
