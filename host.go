// Package hostfs contains the contract of the host storage API that the
// filesystem adapter runs on.
//
// A Host is synchronous and path based: every primitive takes an absolute host
// path (or a descriptor returned by Open) and blocks until done. Failures are
// reported as *HostError values tagged with a symbolic POSIX code, or with no
// code at all when the host itself misbehaved.
package hostfs

import (
	"fmt"
	"time"

	"github.com/brettbedarf/hostfs/flags"
)

// Host is the storage API consumed by the adapter.
type Host interface {
	Stat(path string) (*Stat, error)
	Mkdir(path string, recursive bool) error
	Rmdir(path string, recursive bool) error
	Unlink(path string) error
	Rename(oldPath, newPath string) error
	// Readdir lists entry names without "." and "..".
	Readdir(path string) ([]string, error)
	// WriteFile creates or replaces path with data.
	WriteFile(path string, data []byte) error
	Truncate(path string, length int64) error

	// Open returns a host descriptor for path.
	Open(path string, mode flags.OpenMode) (int, error)
	Close(fd int) error
	// Read reads up to len(p) bytes at position. A short count at end of file
	// is not an error.
	Read(fd int, p []byte, position int64) (int, error)
	// Write writes p at position. Descriptors opened in an append mode write
	// at the end of the file regardless of position.
	Write(fd int, p []byte, position int64) (int, error)

	// Symlink and Readlink are optional capabilities; hosts without them
	// fail with ENOSYS.
	Symlink(oldPath, newPath string) error
	Readlink(path string) (string, error)
}

// Utimer is implemented by hosts that can change timestamps.
type Utimer interface {
	Utime(path string, atime, mtime time.Time) error
}

// Stat is the host's view of an entry.
type Stat struct {
	// Mode carries POSIX type and permission bits (S_IFDIR|0755 etc.).
	Mode             uint32
	Size             int64
	LastAccessedTime time.Time
	LastModifiedTime time.Time
}

// HostError is a failed host call.
type HostError struct {
	Op   string
	Path string
	// Code is a symbolic POSIX name such as "ENOENT", or "" when unknown.
	Code string
	Err  error
}

func (e *HostError) Error() string {
	msg := e.Op
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Code != "" {
		msg += " [" + e.Code + "]"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *HostError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the symbolic tag used for errno translation.
func (e *HostError) ErrorCode() string {
	return e.Code
}

// NewHostError builds a HostError with a formatted message and no wrapped error.
func NewHostError(op, path, code, format string, args ...any) *HostError {
	return &HostError{Op: op, Path: path, Code: code, Err: fmt.Errorf(format, args...)}
}
