package filesystem

import (
	"github.com/brettbedarf/hostfs"
	"github.com/brettbedarf/hostfs/errno"
	"github.com/brettbedarf/hostfs/internal/util"
)

// Getattr stats the host entry behind n.
//
// A failed stat yields nil rather than an error: callers that poll attributes
// speculatively must treat nil as "attributes unavailable", not as proof that
// the entry is gone.
func (fs *FileSystem) Getattr(n *Node) *Attr {
	p := fs.Resolve(n)
	st, err := fs.host.Stat(p)
	if err != nil {
		logger := util.GetLogger("FS.Getattr")
		logger.Debug().Err(err).Str("path", p).Msg("Stat failed, attributes unavailable")
		return nil
	}
	return &Attr{
		Dev:     DefaultDev,
		Ino:     n.id,
		Mode:    st.Mode,
		Nlink:   1,
		Rdev:    n.rdev,
		Size:    st.Size,
		Atime:   st.LastAccessedTime,
		Mtime:   st.LastModifiedTime,
		Ctime:   st.LastModifiedTime, // host has no separate change time
		Blksize: BlockSize,
		Blocks:  blocks(st.Size),
	}
}

// Setattr applies every requested change in the order mode, times, size and
// stops at the first failure. Mode only updates the in-memory node.
func (fs *FileSystem) Setattr(n *Node, attr *SetAttr) error {
	if attr == nil {
		return nil
	}
	p := fs.Resolve(n)

	if attr.Mode != nil {
		n.mode = n.mode&TypeMask | *attr.Mode&^TypeMask
	}
	if attr.Atime != nil || attr.Mtime != nil {
		u, ok := fs.host.(hostfs.Utimer)
		if !ok {
			return errnoErr("utime", p, errno.ENOSYS)
		}
		atime, mtime := attr.times()
		if err := u.Utime(p, atime, mtime); err != nil {
			return fail("utime", p, err)
		}
	}
	if attr.Size != nil {
		if *attr.Size < 0 {
			return errnoErr("truncate", p, errno.EINVAL)
		}
		if err := fs.host.Truncate(p, *attr.Size); err != nil {
			return fail("truncate", p, err)
		}
	}
	return nil
}

// Lookup finds name under parent on the host. Any stat failure is reported as
// ENOENT: absence is the only outcome a tree walker understands.
func (fs *FileSystem) Lookup(parent *Node, name string) (*Node, error) {
	p := fs.ResolveChild(parent, name)
	st, err := fs.host.Stat(p)
	if err != nil {
		logger := util.GetLogger("FS.Lookup")
		logger.Trace().Err(err).Str("path", p).Msg("Lookup miss")
		return nil, errnoErr("lookup", p, errno.ENOENT)
	}
	return fs.CreateNode(parent, name, st.Mode, 0)
}

// Mknod creates name under parent in memory and then on the host: a
// directory via recursive mkdir, anything else as an empty file.
func (fs *FileSystem) Mknod(parent *Node, name string, mode, dev uint32) (*Node, error) {
	node, err := fs.CreateNode(parent, name, mode, dev)
	if err != nil {
		return nil, err
	}
	p := fs.Resolve(node)
	if node.IsDir() {
		err = fs.host.Mkdir(p, true)
	} else {
		err = fs.host.WriteFile(p, nil)
	}
	if err != nil {
		return nil, fail("mknod", p, err)
	}

	logger := util.GetLogger("FS.Mknod")
	logger.Debug().Str("path", p).Uint64("ino", node.id).Msgf("Created node with mode %#o", node.mode)
	return node, nil
}

// Rename moves old to newName under newDir on the host and renames the
// in-memory node. The parent link is left alone; see [Node.Reparent].
func (fs *FileSystem) Rename(old *Node, newDir *Node, newName string) error {
	oldPath := fs.Resolve(old)
	newPath := fs.ResolveChild(newDir, newName)
	if err := fs.host.Rename(oldPath, newPath); err != nil {
		return fail("rename", oldPath, err)
	}
	old.name = newName
	return nil
}

func (fs *FileSystem) Unlink(parent *Node, name string) error {
	p := fs.ResolveChild(parent, name)
	if err := fs.host.Unlink(p); err != nil {
		return fail("unlink", p, err)
	}
	return nil
}

// Rmdir removes an empty directory.
func (fs *FileSystem) Rmdir(parent *Node, name string) error {
	p := fs.ResolveChild(parent, name)
	if err := fs.host.Rmdir(p, false); err != nil {
		return fail("rmdir", p, err)
	}
	return nil
}

// Readdir returns the host's listing of n in host order.
func (fs *FileSystem) Readdir(n *Node) ([]string, error) {
	p := fs.Resolve(n)
	names, err := fs.host.Readdir(p)
	if err != nil {
		return nil, fail("readdir", p, err)
	}
	return names, nil
}

// Symlink creates newName under parent pointing at oldPath. Not every host
// supports links.
func (fs *FileSystem) Symlink(parent *Node, newName, oldPath string) error {
	p := fs.ResolveChild(parent, newName)
	if err := fs.host.Symlink(oldPath, p); err != nil {
		return fail("symlink", p, err)
	}
	return nil
}

func (fs *FileSystem) Readlink(n *Node) (string, error) {
	p := fs.Resolve(n)
	target, err := fs.host.Readlink(p)
	if err != nil {
		return "", fail("readlink", p, err)
	}
	return target, nil
}
