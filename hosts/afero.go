package hosts

import (
	"io/fs"
	"os"
	"time"

	"github.com/spf13/afero"
)

// Registry names of the afero hosts.
const (
	AferoOSType  = "afero-os"
	AferoMemType = "afero-mem"
)

// NewAferoHost returns a host over any afero.Fs.
func NewAferoHost(afs afero.Fs) *FSHost {
	return newFSHost("afero", aferoBackend{afs})
}

// NewAferoOS returns a host whose absolute paths live under dir on disk.
func NewAferoOS(dir string) *FSHost {
	h := NewAferoHost(afero.NewBasePathFs(afero.NewOsFs(), dir))
	h.kind = AferoOSType
	return h
}

// NewAferoMem returns an empty in-memory host. It has no symlink support.
func NewAferoMem() *FSHost {
	h := NewAferoHost(afero.NewMemMapFs())
	h.kind = AferoMemType
	return h
}

type aferoBackend struct {
	fs afero.Fs
}

func (a aferoBackend) Lstat(name string) (fs.FileInfo, error) {
	if l, ok := a.fs.(afero.Lstater); ok {
		fi, _, err := l.LstatIfPossible(name)
		return fi, err
	}
	return a.fs.Stat(name)
}

func (a aferoBackend) MkdirAll(name string, perm os.FileMode) error {
	return a.fs.MkdirAll(name, perm)
}

func (a aferoBackend) Remove(name string) error {
	return a.fs.Remove(name)
}

func (a aferoBackend) RemoveAll(name string) error {
	return a.fs.RemoveAll(name)
}

func (a aferoBackend) Rename(oldName, newName string) error {
	return a.fs.Rename(oldName, newName)
}

func (a aferoBackend) ReadDir(name string) ([]fs.FileInfo, error) {
	return afero.ReadDir(a.fs, name)
}

func (a aferoBackend) OpenFile(name string, flag int, perm os.FileMode) (file, error) {
	f, err := a.fs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (a aferoBackend) Symlink(target, link string) error {
	l, ok := a.fs.(afero.Linker)
	if !ok {
		return afero.ErrNoSymlink
	}
	return l.SymlinkIfPossible(target, link)
}

func (a aferoBackend) Readlink(name string) (string, error) {
	l, ok := a.fs.(afero.LinkReader)
	if !ok {
		return "", afero.ErrNoReadlink
	}
	return l.ReadlinkIfPossible(name)
}

func (a aferoBackend) Chtimes(name string, atime, mtime time.Time) error {
	return a.fs.Chtimes(name, atime, mtime)
}
