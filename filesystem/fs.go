package filesystem

import (
	"path"
	"slices"
	"strings"

	"github.com/brettbedarf/hostfs"
	"github.com/brettbedarf/hostfs/config"
	"github.com/brettbedarf/hostfs/errno"
	"github.com/brettbedarf/hostfs/internal/util"
)

// FileSystem adapts POSIX node and stream operations onto a Host.
//
// It is synchronous and keeps no locks: callers that receive requests
// concurrently must serialize them (see the fuse package). Nothing is cached;
// every operation round-trips to the host.
type FileSystem struct {
	cfg   *config.Config
	host  hostfs.Host
	mount *Mount
}

// NewFS creates an adapter over host. Call [FileSystem.Mount] before use.
func NewFS(cfg *config.Config, host hostfs.Host) *FileSystem {
	if cfg == nil {
		cfg = config.NewConfig(nil)
	}
	return &FileSystem{cfg: cfg, host: host}
}

// Host returns the underlying host.
func (fs *FileSystem) Host() hostfs.Host {
	return fs.host
}

// Mount sets up the mount and returns its root node. The backing directory
// is created when the host does not report it; a failed existence check is
// not an error and neither is losing a creation race. Calling Mount again
// returns the same root.
func (fs *FileSystem) Mount() (*Node, error) {
	logger := util.GetLogger("FS.Mount")

	if fs.mount != nil {
		return fs.mount.root, nil
	}
	m := newMount(fs.cfg.MountRoot)
	fs.mount = m
	root, err := fs.CreateNode(nil, "/", RootMode, 0)
	if err != nil {
		fs.mount = nil
		return nil, err
	}

	p := fs.Resolve(root)
	if _, err := fs.host.Stat(p); err != nil {
		logger.Debug().Err(err).Str("path", p).Msg("Backing directory missing, creating it")
		if err := fs.host.Mkdir(p, true); err != nil {
			if tr := errno.Translate(err); tr != errno.EEXIST {
				fs.mount = nil
				return nil, fail("mount", p, err)
			}
		}
	}

	logger.Info().Str("mount", m.ID).Str("path", p).Msg("Mounted")
	return root, nil
}

// Root returns the mount's root node, or nil before Mount.
func (fs *FileSystem) Root() *Node {
	if fs.mount == nil {
		return nil
	}
	return fs.mount.root
}

// Resolve returns the absolute host path backing n. It walks parents up to
// the root, prefixes the mount's root segment and the host's persistent-data
// root, and never touches the host.
func (fs *FileSystem) Resolve(n *Node) string {
	var parts []string
	for n.parent != n {
		parts = append(parts, n.name)
		n = n.parent
	}
	parts = append(parts, n.mount.Root)
	slices.Reverse(parts)
	return path.Join(fs.cfg.UserDataPath, fs.cfg.PersistentRoot, strings.Join(parts, "/"))
}

// ResolveChild returns the host path of name under parent; the child need
// not exist in memory.
func (fs *FileSystem) ResolveChild(parent *Node, name string) string {
	return path.Join(fs.Resolve(parent), name)
}

// CreateNode builds a node of exactly one of the directory, file or symlink
// types and attaches this adapter's operation tables to it. A mode with no
// execute bits gets all three. A nil parent creates the mount's root.
func (fs *FileSystem) CreateNode(parent *Node, name string, mode, dev uint32) (*Node, error) {
	if !IsDir(mode) && !IsFile(mode) && !IsLink(mode) {
		return nil, errnoErr("createNode", name, errno.EINVAL)
	}
	if mode&execBits == 0 {
		mode |= execBits
	}
	m := fs.mount
	if parent != nil {
		m = parent.mount
	}
	node := m.newNode(parent, name, mode, dev)
	node.nodeOps = fs
	node.streamOps = fs
	return node, nil
}
