package fuse

import (
	"syscall"

	"github.com/brettbedarf/hostfs/filesystem"
	"github.com/brettbedarf/hostfs/internal/util"
	"github.com/hanwen/go-fuse/v2/fuse"
)

const (
	seekData = 3
	seekHole = 4
)

func (r *FuseRaw) addHandle(s *filesystem.Stream) uint64 {
	fh := r.lastFh.Add(1)
	r.handles.Store(fh, s)
	return fh
}

func (r *FuseRaw) Open(cancel <-chan struct{}, input *fuse.OpenIn, out *fuse.OpenOut) fuse.Status {
	logger := util.GetLogger("Fuse.Open")
	logger.Trace().Uint64("node", input.NodeId).Uint32("flags", input.Flags).Msg("Open called")

	return r.run(cancel, func() fuse.Status {
		n, ok := r.node(input.NodeId)
		if !ok {
			return fuse.ENOENT
		}
		if n.IsDir() {
			return fuse.Status(syscall.EISDIR)
		}
		s, err := r.fs.OpenStream(n, input.Flags)
		if err != nil {
			return toStatus("Open", err)
		}
		out.Fh = r.addHandle(s)
		return fuse.OK
	})
}

// Create makes the file and opens it in one request. O_EXCL is dropped on the
// open because the file now exists by construction.
func (r *FuseRaw) Create(cancel <-chan struct{}, input *fuse.CreateIn, name string, out *fuse.CreateOut) fuse.Status {
	return r.run(cancel, func() fuse.Status {
		parent, ok := r.node(input.NodeId)
		if !ok {
			return fuse.ENOENT
		}
		n, err := r.fs.Mknod(parent, name, syscall.S_IFREG|(input.Mode&^input.Umask), 0)
		if err != nil {
			return toStatus("Create", err)
		}
		s, err := r.fs.OpenStream(n, input.Flags&^syscall.O_EXCL)
		if err != nil {
			return toStatus("Create", err)
		}

		r.forgetName(input.NodeId, name)
		if st := r.reply(parent, n, &out.EntryOut); !st.Ok() {
			r.fs.Close(s)
			return st
		}
		// reply may have kept an older node for this name; the stream
		// resolves to the same host path either way.
		out.OpenOut.Fh = r.addHandle(s)
		return fuse.OK
	})
}

func (r *FuseRaw) stream(fh uint64) (*filesystem.Stream, bool) {
	return r.handles.Load(fh)
}

func (r *FuseRaw) Read(cancel <-chan struct{}, input *fuse.ReadIn, buf []byte) (fuse.ReadResult, fuse.Status) {
	var n int
	st := r.run(cancel, func() fuse.Status {
		s, ok := r.stream(input.Fh)
		if !ok {
			return fuse.Status(syscall.EBADF)
		}
		size := min(int(input.Size), len(buf))
		var err error
		if n, err = r.fs.Read(s, buf, 0, size, int64(input.Offset)); err != nil {
			return toStatus("Read", err)
		}
		s.Position = int64(input.Offset) + int64(n)
		return fuse.OK
	})
	if !st.Ok() {
		return nil, st
	}
	return fuse.ReadResultData(buf[:n]), fuse.OK
}

func (r *FuseRaw) Write(cancel <-chan struct{}, input *fuse.WriteIn, data []byte) (uint32, fuse.Status) {
	var n int
	st := r.run(cancel, func() fuse.Status {
		s, ok := r.stream(input.Fh)
		if !ok {
			return fuse.Status(syscall.EBADF)
		}
		var err error
		if n, err = r.fs.Write(s, data, 0, len(data), int64(input.Offset)); err != nil {
			return toStatus("Write", err)
		}
		s.Position = int64(input.Offset) + int64(n)
		return fuse.OK
	})
	return uint32(n), st
}

// Lseek answers SEEK_DATA and SEEK_HOLE as for a file without holes.
func (r *FuseRaw) Lseek(cancel <-chan struct{}, input *fuse.LseekIn, out *fuse.LseekOut) fuse.Status {
	return r.run(cancel, func() fuse.Status {
		s, ok := r.stream(input.Fh)
		if !ok {
			return fuse.Status(syscall.EBADF)
		}
		switch input.Whence {
		case seekData:
			out.Offset = input.Offset
			return fuse.OK
		case seekHole:
			a := r.fs.Getattr(s.Node())
			if a == nil {
				return fuse.EIO
			}
			out.Offset = uint64(a.Size)
			return fuse.OK
		}
		pos, err := r.fs.Llseek(s, int64(input.Offset), int(input.Whence))
		if err != nil {
			return toStatus("Lseek", err)
		}
		out.Offset = uint64(pos)
		return fuse.OK
	})
}

// Flush and Fsync have nothing to do: every write already reached the host.
func (r *FuseRaw) Flush(cancel <-chan struct{}, input *fuse.FlushIn) fuse.Status {
	return fuse.OK
}

func (r *FuseRaw) Fsync(cancel <-chan struct{}, input *fuse.FsyncIn) fuse.Status {
	return fuse.OK
}

// Release closes the stream. It must run even after the queue stops so host
// descriptors are not leaked; then it closes inline.
func (r *FuseRaw) Release(cancel <-chan struct{}, input *fuse.ReleaseIn) {
	s, ok := r.handles.LoadAndDelete(input.Fh)
	if !ok {
		return
	}
	if st := r.run(nil, func() fuse.Status {
		r.fs.Close(s)
		return fuse.OK
	}); !st.Ok() {
		logger := util.GetLogger("Fuse.Release")
		logger.Debug().Uint64("fh", input.Fh).Msg("Queue stopped, closing inline")
		r.fs.Close(s)
	}
}
