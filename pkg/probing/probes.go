// Package probing reads raw host sources: pseudo-filesystem files and
// directories, kernel control endpoints, native structures and command
// output. Readers never interpret content.
package probing

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"HostFacts/pkg/failure"
)

// FS locates the pseudo-filesystems. Tests point the roots at synthetic
// trees.
type FS struct {
	ProcRoot string
	SysRoot  string
	EtcRoot  string
}

// DefaultFS returns the live host roots.
func DefaultFS() FS {
	return FS{ProcRoot: "/proc", SysRoot: "/sys", EtcRoot: "/etc"}
}

// Proc joins elem under the proc root.
func (f FS) Proc(elem ...string) string {
	return filepath.Join(append([]string{f.ProcRoot}, elem...)...)
}

// Sys joins elem under the sys root.
func (f FS) Sys(elem ...string) string {
	return filepath.Join(append([]string{f.SysRoot}, elem...)...)
}

// Etc joins elem under the etc root.
func (f FS) Etc(elem ...string) string {
	return filepath.Join(append([]string{f.EtcRoot}, elem...)...)
}

// ReadFile returns the full content of path.
func (f FS) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", failure.Unavailable("read", path, err)
	}
	return string(data), nil
}

// ReadTrimmed returns the content of a single-value file without
// surrounding whitespace.
func (f FS) ReadTrimmed(path string) (string, error) {
	v, err := f.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(v), nil
}

// ReadLines reads a file into lines.
func (f FS) ReadLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, failure.Unavailable("read", path, err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, failure.Unavailable("read", path, err)
	}
	return lines, nil
}

// ListDir returns the entry names of a directory in the order the OS
// reports them. os.ReadDir is avoided because it sorts.
func (f FS) ListDir(path string) ([]string, error) {
	dir, err := os.Open(path)
	if err != nil {
		return nil, failure.Unavailable("list", path, err)
	}
	defer dir.Close()

	names, err := dir.Readdirnames(-1)
	if err != nil {
		return nil, failure.Unavailable("list", path, err)
	}
	return names, nil
}

// Exists checks if a path exists
func (f FS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir checks if a path is a directory
func (f FS) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
