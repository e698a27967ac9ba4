package fuse

import (
	"sync/atomic"
	"syscall"

	"github.com/brettbedarf/hostfs/filesystem"
	"github.com/brettbedarf/hostfs/internal/util"
	"github.com/hanwen/go-fuse/v2/fuse"
)

// entry is a node the kernel holds references to.
type entry struct {
	node    *filesystem.Node
	lookups atomic.Int64
}

// unknownIno is reported in readdir for children the kernel has not looked
// up yet. Zero would hide the entry from readdir(3).
const unknownIno = 0xffffffff

type childKey struct {
	parent uint64
	name   string
}

func (r *FuseRaw) node(id uint64) (*filesystem.Node, bool) {
	e, ok := r.nodes.Load(id)
	if !ok {
		return nil, false
	}
	return e.node, true
}

// remember registers n as parent's child and counts one kernel reference.
// A known child of the same type keeps its ID so the kernel sees a stable
// inode; the fresh node is dropped.
func (r *FuseRaw) remember(parent *filesystem.Node, n *filesystem.Node) *filesystem.Node {
	key := childKey{parent.ID(), n.Name()}
	if id, ok := r.names.Load(key); ok {
		if e, ok := r.nodes.Load(id); ok && e.node.Mode()&filesystem.TypeMask == n.Mode()&filesystem.TypeMask {
			e.lookups.Add(1)
			return e.node
		}
	}
	e := &entry{node: n}
	e.lookups.Store(1)
	r.nodes.Store(n.ID(), e)
	r.names.Store(key, n.ID())
	return n
}

func (r *FuseRaw) forgetName(parent uint64, name string) {
	r.names.Delete(childKey{parent, name})
}

// Forget drops kernel references. No I/O happens here.
func (r *FuseRaw) Forget(nodeid, nlookup uint64) {
	if nodeid == fuse.FUSE_ROOT_ID {
		return
	}
	e, ok := r.nodes.Load(nodeid)
	if !ok {
		return
	}
	if e.lookups.Add(-int64(nlookup)) > 0 {
		return
	}
	r.nodes.Delete(nodeid)
	key := childKey{e.node.Parent().ID(), e.node.Name()}
	if id, ok := r.names.Load(key); ok && id == nodeid {
		r.names.Delete(key)
	}
}

// Lookup is called by the kernel when the VFS wants to know
// about a file inside a directory.
func (r *FuseRaw) Lookup(cancel <-chan struct{}, header *fuse.InHeader, name string, out *fuse.EntryOut) fuse.Status {
	logger := util.GetLogger("Fuse.Lookup")
	logger.Trace().Uint64("parent", header.NodeId).Str("name", name).Msg("Lookup called")

	return r.run(cancel, func() fuse.Status {
		parent, ok := r.node(header.NodeId)
		if !ok {
			return fuse.ENOENT
		}
		n, err := r.fs.Lookup(parent, name)
		if err != nil {
			return toStatus("Lookup", err)
		}
		return r.reply(parent, n, out)
	})
}

// reply stats n and fills out. A node that cannot be stat'ed right after
// creation or lookup is reported missing.
func (r *FuseRaw) reply(parent, n *filesystem.Node, out *fuse.EntryOut) fuse.Status {
	a := r.fs.Getattr(n)
	if a == nil {
		return fuse.ENOENT
	}
	n = r.remember(parent, n)
	a.Ino = n.ID()
	r.fillEntry(n, a, out)
	return fuse.OK
}

func (r *FuseRaw) GetAttr(cancel <-chan struct{}, input *fuse.GetAttrIn, out *fuse.AttrOut) fuse.Status {
	return r.run(cancel, func() fuse.Status {
		n, ok := r.node(input.NodeId)
		if !ok {
			return fuse.ENOENT
		}
		return r.attr(n, out)
	})
}

func (r *FuseRaw) attr(n *filesystem.Node, out *fuse.AttrOut) fuse.Status {
	a := r.fs.Getattr(n)
	if a == nil {
		return fuse.ENOENT
	}
	fillAttr(a, &out.Attr)
	out.SetTimeout(r.attrTimeout)
	return fuse.OK
}

func (r *FuseRaw) SetAttr(cancel <-chan struct{}, input *fuse.SetAttrIn, out *fuse.AttrOut) fuse.Status {
	return r.run(cancel, func() fuse.Status {
		n, ok := r.node(input.NodeId)
		if !ok {
			return fuse.ENOENT
		}

		var sa filesystem.SetAttr
		if mode, ok := input.GetMode(); ok {
			sa.Mode = &mode
		}
		if atime, ok := input.GetATime(); ok {
			sa.Atime = &atime
		}
		if mtime, ok := input.GetMTime(); ok {
			sa.Mtime = &mtime
		}
		if size, ok := input.GetSize(); ok {
			s := int64(size)
			sa.Size = &s
		}
		if err := r.fs.Setattr(n, &sa); err != nil {
			return toStatus("SetAttr", err)
		}
		return r.attr(n, out)
	})
}

func (r *FuseRaw) Mknod(cancel <-chan struct{}, input *fuse.MknodIn, name string, out *fuse.EntryOut) fuse.Status {
	return r.create(cancel, input.NodeId, name, input.Mode&^input.Umask, input.Rdev, out)
}

func (r *FuseRaw) Mkdir(cancel <-chan struct{}, input *fuse.MkdirIn, name string, out *fuse.EntryOut) fuse.Status {
	return r.create(cancel, input.NodeId, name, syscall.S_IFDIR|(input.Mode&^input.Umask), 0, out)
}

func (r *FuseRaw) create(cancel <-chan struct{}, parentID uint64, name string, mode, rdev uint32, out *fuse.EntryOut) fuse.Status {
	return r.run(cancel, func() fuse.Status {
		parent, ok := r.node(parentID)
		if !ok {
			return fuse.ENOENT
		}
		n, err := r.fs.Mknod(parent, name, mode, rdev)
		if err != nil {
			return toStatus("Mknod", err)
		}
		r.forgetName(parentID, name)
		return r.reply(parent, n, out)
	})
}

func (r *FuseRaw) Unlink(cancel <-chan struct{}, header *fuse.InHeader, name string) fuse.Status {
	return r.run(cancel, func() fuse.Status {
		parent, ok := r.node(header.NodeId)
		if !ok {
			return fuse.ENOENT
		}
		if err := r.fs.Unlink(parent, name); err != nil {
			return toStatus("Unlink", err)
		}
		r.forgetName(header.NodeId, name)
		return fuse.OK
	})
}

func (r *FuseRaw) Rmdir(cancel <-chan struct{}, header *fuse.InHeader, name string) fuse.Status {
	return r.run(cancel, func() fuse.Status {
		parent, ok := r.node(header.NodeId)
		if !ok {
			return fuse.ENOENT
		}
		if err := r.fs.Rmdir(parent, name); err != nil {
			return toStatus("Rmdir", err)
		}
		r.forgetName(header.NodeId, name)
		return fuse.OK
	})
}

// Rename renames on the host, then moves the kernel's known node, if any,
// under its new parent and name.
func (r *FuseRaw) Rename(cancel <-chan struct{}, input *fuse.RenameIn, oldName string, newName string) fuse.Status {
	return r.run(cancel, func() fuse.Status {
		oldParent, ok := r.node(input.NodeId)
		if !ok {
			return fuse.ENOENT
		}
		newParent, ok := r.node(input.Newdir)
		if !ok {
			return fuse.ENOENT
		}

		oldKey := childKey{input.NodeId, oldName}
		var n *filesystem.Node
		if id, ok := r.names.Load(oldKey); ok {
			n, _ = r.node(id)
		}
		if n == nil {
			// The kernel renames only what it has looked up, but the entry may
			// have been forgotten since.
			var err error
			if n, err = r.fs.Lookup(oldParent, oldName); err != nil {
				return toStatus("Rename", err)
			}
		}

		if err := r.fs.Rename(n, newParent, newName); err != nil {
			return toStatus("Rename", err)
		}
		n.Reparent(newParent)

		r.names.Delete(oldKey)
		r.names.Store(childKey{input.Newdir, newName}, n.ID())
		return fuse.OK
	})
}

func (r *FuseRaw) Symlink(cancel <-chan struct{}, header *fuse.InHeader, pointedTo string, linkName string, out *fuse.EntryOut) fuse.Status {
	return r.run(cancel, func() fuse.Status {
		parent, ok := r.node(header.NodeId)
		if !ok {
			return fuse.ENOENT
		}
		if err := r.fs.Symlink(parent, linkName, pointedTo); err != nil {
			return toStatus("Symlink", err)
		}
		n, err := r.fs.Lookup(parent, linkName)
		if err != nil {
			return toStatus("Symlink", err)
		}
		return r.reply(parent, n, out)
	})
}

func (r *FuseRaw) Readlink(cancel <-chan struct{}, header *fuse.InHeader) ([]byte, fuse.Status) {
	var target string
	st := r.run(cancel, func() fuse.Status {
		n, ok := r.node(header.NodeId)
		if !ok {
			return fuse.ENOENT
		}
		var err error
		if target, err = r.fs.Readlink(n); err != nil {
			return toStatus("Readlink", err)
		}
		return fuse.OK
	})
	if !st.Ok() {
		return nil, st
	}
	return []byte(target), fuse.OK
}

// OpenDir needs no handle: every ReadDir lists the host directory afresh.
func (r *FuseRaw) OpenDir(cancel <-chan struct{}, input *fuse.OpenIn, out *fuse.OpenOut) fuse.Status {
	return r.run(cancel, func() fuse.Status {
		n, ok := r.node(input.NodeId)
		if !ok {
			return fuse.ENOENT
		}
		if !n.IsDir() {
			return fuse.Status(syscall.ENOTDIR)
		}
		return fuse.OK
	})
}

// ReadDir lists "." and ".." followed by the host entries, starting at the
// kernel's offset. Entry types are left unknown; the kernel stats as needed.
func (r *FuseRaw) ReadDir(cancel <-chan struct{}, input *fuse.ReadIn, out *fuse.DirEntryList) fuse.Status {
	return r.run(cancel, func() fuse.Status {
		n, ok := r.node(input.NodeId)
		if !ok {
			return fuse.ENOENT
		}
		names, err := r.fs.Readdir(n)
		if err != nil {
			return toStatus("ReadDir", err)
		}

		entries := make([]fuse.DirEntry, 0, len(names)+2)
		entries = append(entries,
			fuse.DirEntry{Name: ".", Mode: syscall.S_IFDIR, Ino: n.ID()},
			fuse.DirEntry{Name: "..", Mode: syscall.S_IFDIR, Ino: n.Parent().ID()},
		)
		for _, name := range names {
			ino := uint64(unknownIno)
			if id, ok := r.names.Load(childKey{n.ID(), name}); ok {
				ino = id
			}
			entries = append(entries, fuse.DirEntry{Name: name, Ino: ino})
		}

		for i := int(input.Offset); i < len(entries); i++ {
			if !out.AddDirEntry(entries[i]) {
				break
			}
		}
		return fuse.OK
	})
}

func (r *FuseRaw) ReleaseDir(input *fuse.ReleaseIn) {}
