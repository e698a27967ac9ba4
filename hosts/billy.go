package hosts

import (
	"io/fs"
	"os"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	butil "github.com/go-git/go-billy/v5/util"
)

// Registry names of the go-billy hosts.
const (
	BillyOSType  = "billy-os"
	BillyMemType = "billy-mem"
)

// NewBillyHost returns a host over any billy.Filesystem.
func NewBillyHost(bfs billy.Filesystem) *FSHost {
	return newFSHost("billy", billyBackend{bfs})
}

// NewBillyOS returns a host whose absolute paths live under dir on disk.
func NewBillyOS(dir string) *FSHost {
	h := NewBillyHost(osfs.New(dir))
	h.kind = BillyOSType
	return h
}

// NewBillyMem returns an empty in-memory host.
func NewBillyMem() *FSHost {
	h := NewBillyHost(memfs.New())
	h.kind = BillyMemType
	return h
}

type billyBackend struct {
	fs billy.Filesystem
}

func (b billyBackend) Lstat(name string) (fs.FileInfo, error) {
	return b.fs.Lstat(name)
}

func (b billyBackend) MkdirAll(name string, perm os.FileMode) error {
	return b.fs.MkdirAll(name, perm)
}

func (b billyBackend) Remove(name string) error {
	return b.fs.Remove(name)
}

func (b billyBackend) RemoveAll(name string) error {
	return butil.RemoveAll(b.fs, name)
}

func (b billyBackend) Rename(oldName, newName string) error {
	return b.fs.Rename(oldName, newName)
}

func (b billyBackend) ReadDir(name string) ([]fs.FileInfo, error) {
	return b.fs.ReadDir(name)
}

func (b billyBackend) OpenFile(name string, flag int, perm os.FileMode) (file, error) {
	f, err := b.fs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (b billyBackend) Symlink(target, link string) error {
	return b.fs.Symlink(target, link)
}

func (b billyBackend) Readlink(name string) (string, error) {
	return b.fs.Readlink(name)
}

// Chtimes needs the optional billy.Change capability.
func (b billyBackend) Chtimes(name string, atime, mtime time.Time) error {
	c, ok := b.fs.(billy.Change)
	if !ok {
		return billy.ErrNotSupported
	}
	return c.Chtimes(name, atime, mtime)
}
