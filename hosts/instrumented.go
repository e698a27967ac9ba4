package hosts

import (
	"time"

	"github.com/brettbedarf/hostfs"
	"github.com/brettbedarf/hostfs/errno"
	"github.com/brettbedarf/hostfs/flags"
	"github.com/brettbedarf/hostfs/metrics"
)

// Instrumented wraps a host and records every call on m. It always
// implements hostfs.Utimer and reports ENOSYS when the wrapped host does not.
type Instrumented struct {
	host hostfs.Host
	m    *metrics.Metrics
}

var (
	_ hostfs.Host   = (*Instrumented)(nil)
	_ hostfs.Utimer = (*Instrumented)(nil)
)

// Instrument wraps h. A nil m returns h unchanged.
func Instrument(h hostfs.Host, m *metrics.Metrics) hostfs.Host {
	if m == nil {
		return h
	}
	return &Instrumented{host: h, m: m}
}

// Unwrap returns the wrapped host.
func (i *Instrumented) Unwrap() hostfs.Host { return i.host }

func (i *Instrumented) observe(op string, start time.Time, err error) {
	i.m.ObserveCall(op, time.Since(start), err)
}

func (i *Instrumented) Stat(p string) (*hostfs.Stat, error) {
	start := time.Now()
	st, err := i.host.Stat(p)
	i.observe("stat", start, err)
	return st, err
}

func (i *Instrumented) Mkdir(p string, recursive bool) error {
	start := time.Now()
	err := i.host.Mkdir(p, recursive)
	i.observe("mkdir", start, err)
	return err
}

func (i *Instrumented) Rmdir(p string, recursive bool) error {
	start := time.Now()
	err := i.host.Rmdir(p, recursive)
	i.observe("rmdir", start, err)
	return err
}

func (i *Instrumented) Unlink(p string) error {
	start := time.Now()
	err := i.host.Unlink(p)
	i.observe("unlink", start, err)
	return err
}

func (i *Instrumented) Rename(oldPath, newPath string) error {
	start := time.Now()
	err := i.host.Rename(oldPath, newPath)
	i.observe("rename", start, err)
	return err
}

func (i *Instrumented) Readdir(p string) ([]string, error) {
	start := time.Now()
	names, err := i.host.Readdir(p)
	i.observe("readdir", start, err)
	return names, err
}

func (i *Instrumented) WriteFile(p string, data []byte) error {
	start := time.Now()
	err := i.host.WriteFile(p, data)
	i.observe("writeFile", start, err)
	if err == nil {
		i.m.ObserveWrite(len(data))
	}
	return err
}

func (i *Instrumented) Truncate(p string, length int64) error {
	start := time.Now()
	err := i.host.Truncate(p, length)
	i.observe("truncate", start, err)
	return err
}

func (i *Instrumented) Open(p string, mode flags.OpenMode) (int, error) {
	start := time.Now()
	fd, err := i.host.Open(p, mode)
	i.observe("open", start, err)
	if err == nil {
		i.m.DescriptorOpened()
	}
	return fd, err
}

func (i *Instrumented) Close(fd int) error {
	start := time.Now()
	err := i.host.Close(fd)
	i.observe("close", start, err)
	if err == nil {
		i.m.DescriptorClosed()
	}
	return err
}

func (i *Instrumented) Read(fd int, p []byte, position int64) (int, error) {
	start := time.Now()
	n, err := i.host.Read(fd, p, position)
	i.observe("read", start, err)
	i.m.ObserveRead(n)
	return n, err
}

func (i *Instrumented) Write(fd int, p []byte, position int64) (int, error) {
	start := time.Now()
	n, err := i.host.Write(fd, p, position)
	i.observe("write", start, err)
	i.m.ObserveWrite(n)
	return n, err
}

func (i *Instrumented) Symlink(oldPath, newPath string) error {
	start := time.Now()
	err := i.host.Symlink(oldPath, newPath)
	i.observe("symlink", start, err)
	return err
}

func (i *Instrumented) Readlink(p string) (string, error) {
	start := time.Now()
	target, err := i.host.Readlink(p)
	i.observe("readlink", start, err)
	return target, err
}

func (i *Instrumented) Utime(p string, atime, mtime time.Time) error {
	u, ok := i.host.(hostfs.Utimer)
	if !ok {
		return coded("utime", p, errno.ENOSYS.Name())
	}
	start := time.Now()
	err := u.Utime(p, atime, mtime)
	i.observe("utime", start, err)
	return err
}
