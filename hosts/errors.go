package hosts

import (
	"errors"
	"io/fs"
	"syscall"

	"github.com/brettbedarf/hostfs"
	"github.com/go-git/go-billy/v5"
	"github.com/spf13/afero"
	"golang.org/x/sys/unix"
)

// Symbolic codes produced by hosts for failures they detect themselves.
const (
	codeNotExist = "ENOENT"
	codeExist    = "EEXIST"
	codeAccess   = "EACCES"
	codeBadFD    = "EBADF"
	codeInvalid  = "EINVAL"
	codeNotDir   = "ENOTDIR"
	codeIsDir    = "EISDIR"
	codeNotEmpty = "ENOTEMPTY"
	codeNoSys    = "ENOSYS"
)

// errorCode extracts a symbolic POSIX name from err. OS errnos keep their
// own name; io/fs sentinels and the backends' "unsupported" errors map to the
// nearest code. Anything else has no code.
func errorCode(err error) string {
	var se syscall.Errno
	if errors.As(err, &se) {
		return unix.ErrnoName(se)
	}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return codeNotExist
	case errors.Is(err, fs.ErrExist):
		return codeExist
	case errors.Is(err, fs.ErrPermission):
		return codeAccess
	case errors.Is(err, fs.ErrClosed):
		return codeBadFD
	case errors.Is(err, fs.ErrInvalid):
		return codeInvalid
	case errors.Is(err, billy.ErrNotSupported),
		errors.Is(err, afero.ErrNoSymlink),
		errors.Is(err, afero.ErrNoReadlink):
		return codeNoSys
	}
	return ""
}

// wrap tags err for op on path. A nil err stays nil.
func wrap(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var he *hostfs.HostError
	if errors.As(err, &he) {
		return err
	}
	return &hostfs.HostError{Op: op, Path: path, Code: errorCode(err), Err: err}
}

func coded(op, path, code string) error {
	return hostfs.NewHostError(op, path, code, "%s", code)
}
