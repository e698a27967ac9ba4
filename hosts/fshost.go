// Package hosts provides hostfs.Host implementations backed by Go file
// system libraries, plus a registry to pick one by name.
package hosts

import (
	"io/fs"
	"os"
	"time"

	"github.com/brettbedarf/hostfs"
	"github.com/brettbedarf/hostfs/flags"
	"github.com/brettbedarf/hostfs/internal/util"
)

// backend is the file system surface an FSHost drives. Adapters exist for
// go-billy and afero.
type backend interface {
	Lstat(name string) (fs.FileInfo, error)
	MkdirAll(name string, perm os.FileMode) error
	Remove(name string) error
	RemoveAll(name string) error
	Rename(oldName, newName string) error
	ReadDir(name string) ([]fs.FileInfo, error)
	OpenFile(name string, flag int, perm os.FileMode) (file, error)
	Symlink(target, link string) error
	Readlink(name string) (string, error)
	Chtimes(name string, atime, mtime time.Time) error
}

// FSHost implements hostfs.Host over a Go file system. Paths are absolute
// host paths and are passed to the backend as is, so the backend decides
// where they physically live.
type FSHost struct {
	kind string
	b    backend
	fds  *fdTable
}

var (
	_ hostfs.Host   = (*FSHost)(nil)
	_ hostfs.Utimer = (*FSHost)(nil)
)

func newFSHost(kind string, b backend) *FSHost {
	return &FSHost{kind: kind, b: b, fds: newFDTable()}
}

// Kind returns the registry name the host was built for.
func (h *FSHost) Kind() string { return h.kind }

// OpenFDs returns the number of descriptors currently open.
func (h *FSHost) OpenFDs() int { return h.fds.open() }

func (h *FSHost) Stat(p string) (*hostfs.Stat, error) {
	fi, err := h.b.Lstat(p)
	if err != nil {
		return nil, wrap("stat", p, err)
	}
	return toStat(fi), nil
}

// Mkdir creates p. A recursive mkdir of an existing directory succeeds.
func (h *FSHost) Mkdir(p string, recursive bool) error {
	if fi, err := h.b.Lstat(p); err == nil {
		if recursive && fi.IsDir() {
			return nil
		}
		return coded("mkdir", p, codeExist)
	}
	if !recursive {
		if err := h.checkParent("mkdir", p); err != nil {
			return err
		}
	}
	return wrap("mkdir", p, h.b.MkdirAll(p, defaultPerm))
}

// Rmdir removes the directory p; only a recursive rmdir removes contents.
func (h *FSHost) Rmdir(p string, recursive bool) error {
	fi, err := h.b.Lstat(p)
	if err != nil {
		return wrap("rmdir", p, err)
	}
	if !fi.IsDir() {
		return coded("rmdir", p, codeNotDir)
	}
	if recursive {
		return wrap("rmdir", p, h.b.RemoveAll(p))
	}
	entries, err := h.b.ReadDir(p)
	if err != nil {
		return wrap("rmdir", p, err)
	}
	if len(entries) > 0 {
		return coded("rmdir", p, codeNotEmpty)
	}
	return wrap("rmdir", p, h.b.Remove(p))
}

func (h *FSHost) Unlink(p string) error {
	fi, err := h.b.Lstat(p)
	if err != nil {
		return wrap("unlink", p, err)
	}
	if fi.IsDir() {
		return coded("unlink", p, codeIsDir)
	}
	return wrap("unlink", p, h.b.Remove(p))
}

func (h *FSHost) Rename(oldPath, newPath string) error {
	if _, err := h.b.Lstat(oldPath); err != nil {
		return wrap("rename", oldPath, err)
	}
	if err := h.checkParent("rename", newPath); err != nil {
		return err
	}
	return wrap("rename", oldPath, h.b.Rename(oldPath, newPath))
}

func (h *FSHost) Readdir(p string) ([]string, error) {
	fi, err := h.b.Lstat(p)
	if err != nil {
		return nil, wrap("readdir", p, err)
	}
	if !fi.IsDir() {
		return nil, coded("readdir", p, codeNotDir)
	}
	infos, err := h.b.ReadDir(p)
	if err != nil {
		return nil, wrap("readdir", p, err)
	}
	return names(infos), nil
}

func (h *FSHost) WriteFile(p string, data []byte) error {
	if err := h.checkParent("writeFile", p); err != nil {
		return err
	}
	f, err := h.b.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, defaultPerm)
	if err != nil {
		return wrap("writeFile", p, err)
	}
	_, werr := f.Write(data)
	cerr := f.Close()
	if werr != nil {
		return wrap("writeFile", p, werr)
	}
	return wrap("writeFile", p, cerr)
}

func (h *FSHost) Truncate(p string, length int64) error {
	fi, err := h.b.Lstat(p)
	if err != nil {
		return wrap("truncate", p, err)
	}
	if fi.IsDir() {
		return coded("truncate", p, codeIsDir)
	}
	f, err := h.b.OpenFile(p, os.O_WRONLY, 0)
	if err != nil {
		return wrap("truncate", p, err)
	}
	terr := f.Truncate(length)
	cerr := f.Close()
	if terr != nil {
		return wrap("truncate", p, terr)
	}
	return wrap("truncate", p, cerr)
}

func (h *FSHost) Open(p string, mode flags.OpenMode) (int, error) {
	if !mode.Valid() {
		return -1, coded("open", p, codeInvalid)
	}
	flag := mode.OSFlags()
	if flag&os.O_CREATE != 0 {
		if err := h.checkParent("open", p); err != nil {
			return -1, err
		}
	}
	f, err := h.b.OpenFile(p, flag, defaultPerm)
	if err != nil {
		return -1, wrap("open", p, err)
	}
	fd := h.fds.add(&handle{f: f, path: p, append: mode.IsAppend()})

	logger := util.GetLogger("Host.Open")
	logger.Trace().Str("host", h.kind).Str("path", p).Int("fd", fd).Str("mode", string(mode)).Msg("Opened")
	return fd, nil
}

func (h *FSHost) Close(fd int) error {
	return h.fds.close(fd)
}

func (h *FSHost) Read(fd int, p []byte, position int64) (int, error) {
	return h.fds.read(fd, p, position)
}

func (h *FSHost) Write(fd int, p []byte, position int64) (int, error) {
	return h.fds.write(fd, p, position)
}

func (h *FSHost) Symlink(oldPath, newPath string) error {
	if err := h.checkParent("symlink", newPath); err != nil {
		return err
	}
	return wrap("symlink", newPath, h.b.Symlink(oldPath, newPath))
}

func (h *FSHost) Readlink(p string) (string, error) {
	target, err := h.b.Readlink(p)
	if err != nil {
		return "", wrap("readlink", p, err)
	}
	return target, nil
}

func (h *FSHost) Utime(p string, atime, mtime time.Time) error {
	return wrap("utime", p, h.b.Chtimes(p, atime, mtime))
}

// checkParent fails unless the parent of p is an existing directory. Some
// backends create missing parents implicitly; hosts must not.
func (h *FSHost) checkParent(op, p string) error {
	dir := parentOf(p)
	fi, err := h.b.Lstat(dir)
	if err != nil {
		return wrap(op, dir, err)
	}
	if !fi.IsDir() {
		return coded(op, dir, codeNotDir)
	}
	return nil
}
