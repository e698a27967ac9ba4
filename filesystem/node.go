package filesystem

import (
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// Node is one entry of the in-memory tree: a file, directory or symlink.
//
// The root is its own parent, which terminates every parent walk. The type
// bits of mode are fixed at creation; only permission bits may change later.
type Node struct {
	name   string
	parent *Node
	mount  *Mount
	mode   uint32
	id     uint64 // reported as ino
	rdev   uint32

	// Operation tables attached by the adapter at creation.
	nodeOps   NodeOps
	streamOps StreamOps
}

// Mount is the root of a tree plus the host segment it lives under.
// There is one Mount per FileSystem and it lives as long as the process.
type Mount struct {
	// ID identifies the mount in log lines.
	ID string
	// Root is the path segment, under the host's persistent-data root,
	// where this mount's files physically live.
	Root string

	root   *Node
	lastID atomic.Uint64 // last node id handed out; root is 1
}

func newMount(root string) *Mount {
	return &Mount{ID: uuid.NewString(), Root: root}
}

// newNode constructs a node and links it to parent. A nil parent makes the
// node the mount's root.
func (m *Mount) newNode(parent *Node, name string, mode, rdev uint32) *Node {
	n := &Node{
		name:  name,
		mount: m,
		mode:  mode,
		id:    m.lastID.Add(1),
		rdev:  rdev,
	}
	if parent == nil {
		n.parent = n
		m.root = n
	} else {
		n.parent = parent
	}
	return n
}

// RootNode returns the mount's root, or nil before the mount is set up.
func (m *Mount) RootNode() *Node {
	return m.root
}

func (n *Node) Name() string     { return n.name }
func (n *Node) Parent() *Node    { return n.parent }
func (n *Node) Mount() *Mount    { return n.mount }
func (n *Node) Mode() uint32     { return n.mode }
func (n *Node) ID() uint64       { return n.id }
func (n *Node) Rdev() uint32     { return n.rdev }
func (n *Node) IsRoot() bool     { return n.parent == n }
func (n *Node) IsDir() bool      { return IsDir(n.mode) }
func (n *Node) IsFile() bool     { return IsFile(n.mode) }
func (n *Node) IsLink() bool     { return IsLink(n.mode) }
func (n *Node) NodeOps() NodeOps { return n.nodeOps }

// StreamOps returns the stream operations used for files opened on n.
func (n *Node) StreamOps() StreamOps { return n.streamOps }

// Reparent moves n under p. The adapter's Rename only renames the node; the
// tree owner calls Reparent when a rename crosses directories.
func (n *Node) Reparent(p *Node) {
	if n.IsRoot() || p == nil {
		return
	}
	n.parent = p
}

// Path returns the mount-relative path of n, "/" for the root.
func (n *Node) Path() string {
	var parts []string
	for cur := n; !cur.IsRoot(); cur = cur.parent {
		parts = append(parts, cur.name)
	}
	var b strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		b.WriteByte('/')
		b.WriteString(parts[i])
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}
