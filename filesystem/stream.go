package filesystem

import (
	"github.com/brettbedarf/hostfs/errno"
	"github.com/brettbedarf/hostfs/flags"
	"github.com/brettbedarf/hostfs/internal/util"
)

// Stream is an open file description: a node, its open flags, the current
// position and, once opened, the host descriptor.
type Stream struct {
	node *Node
	// Flags are the POSIX open flags the stream was opened with.
	Flags uint32
	// Position is the current offset, maintained by the caller across
	// reads and writes and updated by Llseek.
	Position int64

	fd   int
	open bool
}

// NewStream returns an unopened stream on n.
func NewStream(n *Node, flags uint32) *Stream {
	return &Stream{node: n, Flags: flags, fd: -1}
}

func (s *Stream) Node() *Node  { return s.node }
func (s *Stream) FD() int      { return s.fd }
func (s *Stream) IsOpen() bool { return s.open }

// OpenStream creates a stream on node and opens it through the node's stream
// operations.
func (fs *FileSystem) OpenStream(node *Node, flags uint32) (*Stream, error) {
	s := NewStream(node, flags)
	if err := node.streamOps.Open(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Open opens the host file behind s. Directories need no host descriptor.
func (fs *FileSystem) Open(s *Stream) error {
	if s.open {
		return errnoErr("open", s.node.Path(), errno.EINVAL)
	}
	if s.node.IsDir() {
		s.open = true
		return nil
	}

	p := fs.Resolve(s.node)
	mode := flags.Encode(s.Flags)
	fd, err := fs.host.Open(p, mode)
	if err != nil {
		return fail("open", p, err)
	}
	s.fd = fd
	s.open = true

	logger := util.GetLogger("FS.Open")
	logger.Trace().Str("path", p).Int("fd", fd).Str("mode", string(mode)).Msg("Opened")
	return nil
}

// Close releases the host descriptor, if any. Closing twice is a no-op and
// host failures are not reported.
func (fs *FileSystem) Close(s *Stream) {
	if !s.open {
		return
	}
	s.open = false
	if s.fd < 0 {
		return
	}
	fd := s.fd
	s.fd = -1
	if err := fs.host.Close(fd); err != nil {
		logger := util.GetLogger("FS.Close")
		logger.Debug().Err(err).Int("fd", fd).Msg("Host close failed, ignoring")
	}
}

// Read reads up to length bytes at position into buf[offset:]. Only the bytes
// actually read are written into buf.
func (fs *FileSystem) Read(s *Stream, buf []byte, offset, length int, position int64) (int, error) {
	if err := checkIO("read", s, buf, offset, length, position); err != nil {
		return 0, err
	}
	if length == 0 {
		return 0, nil
	}
	tmp := make([]byte, length)
	n, err := fs.host.Read(s.fd, tmp, position)
	if err != nil {
		return 0, fail("read", s.node.Path(), err)
	}
	n = min(n, length)
	copy(buf[offset:], tmp[:n])
	return n, nil
}

// Write writes buf[offset:offset+length] at position.
func (fs *FileSystem) Write(s *Stream, buf []byte, offset, length int, position int64) (int, error) {
	if err := checkIO("write", s, buf, offset, length, position); err != nil {
		return 0, err
	}
	if length == 0 {
		return 0, nil
	}
	n, err := fs.host.Write(s.fd, buf[offset:offset+length], position)
	if err != nil {
		return 0, fail("write", s.node.Path(), err)
	}
	return n, nil
}

// Llseek computes a new position for s and stores it. Seeking from the end
// of a regular file asks the host for the current size.
func (fs *FileSystem) Llseek(s *Stream, offset int64, whence int) (int64, error) {
	if !s.open {
		return 0, errnoErr("llseek", s.node.Path(), errno.EBADF)
	}

	pos := offset
	switch whence {
	case SeekSet:
	case SeekCur:
		pos += s.Position
	case SeekEnd:
		if s.node.IsFile() {
			p := fs.Resolve(s.node)
			st, err := fs.host.Stat(p)
			if err != nil {
				return 0, fail("llseek", p, err)
			}
			pos += st.Size
		}
	default:
		return 0, errnoErr("llseek", s.node.Path(), errno.EINVAL)
	}
	if pos < 0 {
		return 0, errnoErr("llseek", s.node.Path(), errno.EINVAL)
	}
	s.Position = pos
	return pos, nil
}

func checkIO(op string, s *Stream, buf []byte, offset, length int, position int64) error {
	switch {
	case !s.open || s.fd < 0:
		return errnoErr(op, s.node.Path(), errno.EBADF)
	case offset < 0 || length < 0 || offset+length > len(buf) || position < 0:
		return errnoErr(op, s.node.Path(), errno.EINVAL)
	}
	return nil
}
