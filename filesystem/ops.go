package filesystem

// NodeOps are the metadata and tree operations dispatched on a node.
type NodeOps interface {
	Getattr(n *Node) *Attr
	Setattr(n *Node, attr *SetAttr) error
	Lookup(parent *Node, name string) (*Node, error)
	Mknod(parent *Node, name string, mode, dev uint32) (*Node, error)
	Rename(old *Node, newDir *Node, newName string) error
	Unlink(parent *Node, name string) error
	Rmdir(parent *Node, name string) error
	Readdir(n *Node) ([]string, error)
	Symlink(parent *Node, newName, oldPath string) error
	Readlink(n *Node) (string, error)
}

// StreamOps are the I/O operations dispatched on an open stream.
type StreamOps interface {
	Open(s *Stream) error
	Close(s *Stream)
	Read(s *Stream, buf []byte, offset, length int, position int64) (int, error)
	Write(s *Stream, buf []byte, offset, length int, position int64) (int, error)
	Llseek(s *Stream, offset int64, whence int) (int64, error)
}

var (
	_ NodeOps   = (*FileSystem)(nil)
	_ StreamOps = (*FileSystem)(nil)
)
