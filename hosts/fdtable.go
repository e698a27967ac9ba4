package hosts

import (
	"errors"
	"io"
	"strconv"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v4"
)

// file is the part of a backend file handle the descriptor table needs.
// Both billy.File and afero.File satisfy it.
type file interface {
	io.ReaderAt
	io.Writer
	io.Seeker
	io.Closer
	Truncate(size int64) error
}

type handle struct {
	f      file
	path   string
	append bool
}

// fdTable hands out integer descriptors for open backend files.
// Descriptors are never reused within a table.
type fdTable struct {
	files  *xsync.Map[int, *handle]
	lastFD atomic.Int64
}

func newFDTable() *fdTable {
	return &fdTable{files: xsync.NewMap[int, *handle]()}
}

func (t *fdTable) add(h *handle) int {
	fd := int(t.lastFD.Add(1))
	t.files.Store(fd, h)
	return fd
}

func (t *fdTable) get(op string, fd int) (*handle, error) {
	h, ok := t.files.Load(fd)
	if !ok {
		return nil, coded(op, "fd "+strconv.Itoa(fd), codeBadFD)
	}
	return h, nil
}

// open returns how many descriptors are currently open.
func (t *fdTable) open() int {
	return t.files.Size()
}

func (t *fdTable) close(fd int) error {
	h, ok := t.files.LoadAndDelete(fd)
	if !ok {
		return coded("close", "fd "+strconv.Itoa(fd), codeBadFD)
	}
	return wrap("close", h.path, h.f.Close())
}

func (t *fdTable) read(fd int, p []byte, position int64) (int, error) {
	h, err := t.get("read", fd)
	if err != nil {
		return 0, err
	}
	n, err := h.f.ReadAt(p, position)
	if errors.Is(err, io.EOF) {
		err = nil
	}
	return n, wrap("read", h.path, err)
}

func (t *fdTable) write(fd int, p []byte, position int64) (int, error) {
	h, err := t.get("write", fd)
	if err != nil {
		return 0, err
	}
	if h.append {
		if _, err := h.f.Seek(0, io.SeekEnd); err != nil {
			return 0, wrap("write", h.path, err)
		}
		n, err := h.f.Write(p)
		return n, wrap("write", h.path, err)
	}
	if wa, ok := h.f.(io.WriterAt); ok {
		n, err := wa.WriteAt(p, position)
		return n, wrap("write", h.path, err)
	}
	if _, err := h.f.Seek(position, io.SeekStart); err != nil {
		return 0, wrap("write", h.path, err)
	}
	n, err := h.f.Write(p)
	return n, wrap("write", h.path, err)
}
