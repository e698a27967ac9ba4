package fuse

import (
	"syscall"
	"testing"

	"github.com/brettbedarf/hostfs/config"
	"github.com/brettbedarf/hostfs/filesystem"
	"github.com/brettbedarf/hostfs/hosts"
	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRaw returns a bridge over an in-memory host. No kernel mount is
// involved; requests are made by calling the protocol methods directly.
func newTestRaw(t *testing.T) (*FuseRaw, *filesystem.FileSystem) {
	t.Helper()
	cfg := config.NewConfig(nil)
	fs := filesystem.NewFS(cfg, hosts.NewBillyMem())
	_, err := fs.Mount()
	require.NoError(t, err)

	r := NewFuseRaw(cfg, fs)
	t.Cleanup(r.Close)
	return r, fs
}

func header(id uint64) fuse.InHeader {
	return fuse.InHeader{NodeId: id}
}

func mkdir(t *testing.T, r *FuseRaw, parent uint64, name string) uint64 {
	t.Helper()
	var out fuse.EntryOut
	st := r.Mkdir(nil, &fuse.MkdirIn{InHeader: header(parent), Mode: 0o755}, name, &out)
	require.Equal(t, fuse.OK, st)
	return out.NodeId
}

func create(t *testing.T, r *FuseRaw, parent uint64, name string) (node, fh uint64) {
	t.Helper()
	var out fuse.CreateOut
	in := &fuse.CreateIn{InHeader: header(parent), Flags: syscall.O_RDWR | syscall.O_CREAT | syscall.O_EXCL, Mode: 0o644}
	st := r.Create(nil, in, name, &out)
	require.Equal(t, fuse.OK, st)
	return out.NodeId, out.Fh
}

func TestFuseRaw_LookupMissing(t *testing.T) {
	t.Parallel()
	r, _ := newTestRaw(t)

	var out fuse.EntryOut
	assert.Equal(t, fuse.ENOENT, r.Lookup(nil, &fuse.InHeader{NodeId: fuse.FUSE_ROOT_ID}, "nope", &out))
	assert.Equal(t, fuse.ENOENT, r.Lookup(nil, &fuse.InHeader{NodeId: 99}, "nope", &out), "unknown parent")
}

func TestFuseRaw_MkdirLookup(t *testing.T) {
	t.Parallel()
	r, _ := newTestRaw(t)

	id := mkdir(t, r, fuse.FUSE_ROOT_ID, "d")
	assert.NotEqual(t, uint64(fuse.FUSE_ROOT_ID), id)

	var out fuse.EntryOut
	require.Equal(t, fuse.OK, r.Lookup(nil, &fuse.InHeader{NodeId: fuse.FUSE_ROOT_ID}, "d", &out))
	assert.Equal(t, id, out.NodeId, "lookup of a known child keeps its inode")
	assert.Equal(t, uint32(syscall.S_IFDIR), out.Attr.Mode&syscall.S_IFMT)

	node, fh := create(t, r, fuse.FUSE_ROOT_ID, "f")
	r.Release(nil, &fuse.ReleaseIn{InHeader: header(node), Fh: fh})
	var e fuse.EntryOut
	st := r.Mkdir(nil, &fuse.MkdirIn{InHeader: header(fuse.FUSE_ROOT_ID), Mode: 0o755}, "f", &e)
	assert.Equal(t, fuse.Status(syscall.EEXIST), st, "a file is in the way")
}

func TestFuseRaw_CreateWriteRead(t *testing.T) {
	t.Parallel()
	r, _ := newTestRaw(t)

	dir := mkdir(t, r, fuse.FUSE_ROOT_ID, "d")
	node, fh := create(t, r, dir, "f")

	n, st := r.Write(nil, &fuse.WriteIn{InHeader: header(node), Fh: fh, Offset: 0}, []byte("hello world"))
	require.Equal(t, fuse.OK, st)
	assert.Equal(t, uint32(11), n)

	buf := make([]byte, 64)
	res, st := r.Read(nil, &fuse.ReadIn{InHeader: header(node), Fh: fh, Offset: 6, Size: 5}, buf)
	require.Equal(t, fuse.OK, st)
	data, st := res.Bytes(nil)
	require.Equal(t, fuse.OK, st)
	assert.Equal(t, "world", string(data))

	var attr fuse.AttrOut
	require.Equal(t, fuse.OK, r.GetAttr(nil, &fuse.GetAttrIn{InHeader: header(node)}, &attr))
	assert.Equal(t, uint64(11), attr.Size)
	assert.Equal(t, uint32(syscall.S_IFREG), attr.Mode&syscall.S_IFMT)

	r.Release(nil, &fuse.ReleaseIn{InHeader: header(node), Fh: fh})
	_, st = r.Read(nil, &fuse.ReadIn{InHeader: header(node), Fh: fh, Size: 5}, buf)
	assert.Equal(t, fuse.Status(syscall.EBADF), st)
}

func TestFuseRaw_OpenTruncate(t *testing.T) {
	t.Parallel()
	r, _ := newTestRaw(t)

	node, fh := create(t, r, fuse.FUSE_ROOT_ID, "f")
	_, st := r.Write(nil, &fuse.WriteIn{InHeader: header(node), Fh: fh}, []byte("abc"))
	require.Equal(t, fuse.OK, st)
	r.Release(nil, &fuse.ReleaseIn{InHeader: header(node), Fh: fh})

	var out fuse.OpenOut
	require.Equal(t, fuse.OK, r.Open(nil, &fuse.OpenIn{InHeader: header(node), Flags: syscall.O_WRONLY | syscall.O_TRUNC}, &out))
	assert.NotEqual(t, fh, out.Fh, "handles are not reused")
	r.Release(nil, &fuse.ReleaseIn{InHeader: header(node), Fh: out.Fh})

	var attr fuse.AttrOut
	require.Equal(t, fuse.OK, r.GetAttr(nil, &fuse.GetAttrIn{InHeader: header(node)}, &attr))
	assert.Zero(t, attr.Size)

	assert.Equal(t, fuse.Status(syscall.EISDIR), r.Open(nil, &fuse.OpenIn{InHeader: header(fuse.FUSE_ROOT_ID)}, &out))
}

func TestFuseRaw_Lseek(t *testing.T) {
	t.Parallel()
	r, _ := newTestRaw(t)

	node, fh := create(t, r, fuse.FUSE_ROOT_ID, "f")
	_, st := r.Write(nil, &fuse.WriteIn{InHeader: header(node), Fh: fh}, make([]byte, 100))
	require.Equal(t, fuse.OK, st)

	tests := []struct {
		desc   string
		offset int64
		whence uint32
		want   uint64
		status fuse.Status
	}{
		{"end", -10, filesystem.SeekEnd, 90, fuse.OK},
		{"set", 5, filesystem.SeekSet, 5, fuse.OK},
		{"data", 7, seekData, 7, fuse.OK},
		{"hole", 0, seekHole, 100, fuse.OK},
		{"negative", -1, filesystem.SeekSet, 0, fuse.EINVAL},
	}
	for _, tt := range tests {
		var out fuse.LseekOut
		in := &fuse.LseekIn{InHeader: header(node), Fh: fh, Offset: uint64(tt.offset), Whence: tt.whence}
		assert.Equal(t, tt.status, r.Lseek(nil, in, &out), tt.desc)
		if tt.status.Ok() {
			assert.Equal(t, tt.want, out.Offset, tt.desc)
		}
	}
}

func TestFuseRaw_RenameUnlinkRmdir(t *testing.T) {
	t.Parallel()
	r, fs := newTestRaw(t)

	a := mkdir(t, r, fuse.FUSE_ROOT_ID, "a")
	b := mkdir(t, r, fuse.FUSE_ROOT_ID, "b")
	node, fh := create(t, r, a, "f")
	r.Release(nil, &fuse.ReleaseIn{InHeader: header(node), Fh: fh})

	assert.Equal(t, fuse.Status(syscall.ENOTEMPTY), r.Rmdir(nil, &fuse.InHeader{NodeId: fuse.FUSE_ROOT_ID}, "a"))

	require.Equal(t, fuse.OK, r.Rename(nil, &fuse.RenameIn{InHeader: header(a), Newdir: b}, "f", "g"))

	moved, ok := r.node(node)
	require.True(t, ok)
	assert.Equal(t, "/b/g", moved.Path())
	assert.Equal(t, "/usr/data/b/g", fs.Resolve(moved))

	var out fuse.EntryOut
	assert.Equal(t, fuse.ENOENT, r.Lookup(nil, &fuse.InHeader{NodeId: a}, "f", &out))
	require.Equal(t, fuse.OK, r.Lookup(nil, &fuse.InHeader{NodeId: b}, "g", &out))
	assert.Equal(t, node, out.NodeId)

	require.Equal(t, fuse.OK, r.Unlink(nil, &fuse.InHeader{NodeId: b}, "g"))
	assert.Equal(t, fuse.ENOENT, r.Unlink(nil, &fuse.InHeader{NodeId: b}, "g"))
	require.Equal(t, fuse.OK, r.Rmdir(nil, &fuse.InHeader{NodeId: fuse.FUSE_ROOT_ID}, "a"))
}

func TestFuseRaw_SetAttr(t *testing.T) {
	t.Parallel()
	r, _ := newTestRaw(t)

	node, fh := create(t, r, fuse.FUSE_ROOT_ID, "f")
	_, st := r.Write(nil, &fuse.WriteIn{InHeader: header(node), Fh: fh}, []byte("0123456789"))
	require.Equal(t, fuse.OK, st)

	in := &fuse.SetAttrIn{}
	in.NodeId = node
	in.Valid = fuse.FATTR_SIZE
	in.Size = 4
	var out fuse.AttrOut
	require.Equal(t, fuse.OK, r.SetAttr(nil, in, &out))
	assert.Equal(t, uint64(4), out.Size)
}

func TestFuseRaw_Forget(t *testing.T) {
	t.Parallel()
	r, _ := newTestRaw(t)

	id := mkdir(t, r, fuse.FUSE_ROOT_ID, "d")
	var out fuse.EntryOut
	require.Equal(t, fuse.OK, r.Lookup(nil, &fuse.InHeader{NodeId: fuse.FUSE_ROOT_ID}, "d", &out))

	r.Forget(id, 1)
	_, ok := r.node(id)
	assert.True(t, ok, "one reference remains")

	r.Forget(id, 1)
	_, ok = r.node(id)
	assert.False(t, ok)

	r.Forget(fuse.FUSE_ROOT_ID, 100)
	_, ok = r.node(fuse.FUSE_ROOT_ID)
	assert.True(t, ok, "root is never forgotten")
}

func TestFuseRaw_Symlink(t *testing.T) {
	t.Parallel()
	r, _ := newTestRaw(t)

	var out fuse.EntryOut
	require.Equal(t, fuse.OK, r.Symlink(nil, &fuse.InHeader{NodeId: fuse.FUSE_ROOT_ID}, "/usr/data/target", "link", &out))
	assert.Equal(t, uint32(syscall.S_IFLNK), out.Attr.Mode&syscall.S_IFMT)

	target, st := r.Readlink(nil, &fuse.InHeader{NodeId: out.NodeId})
	require.Equal(t, fuse.OK, st)
	assert.Equal(t, "/usr/data/target", string(target))
}

func TestFuseRaw_Closed(t *testing.T) {
	t.Parallel()
	r, _ := newTestRaw(t)
	node, fh := create(t, r, fuse.FUSE_ROOT_ID, "f")

	r.Close()

	var out fuse.AttrOut
	assert.Equal(t, fuse.Status(syscall.ESHUTDOWN), r.GetAttr(nil, &fuse.GetAttrIn{InHeader: header(node)}, &out))

	r.Release(nil, &fuse.ReleaseIn{InHeader: header(node), Fh: fh})
	_, ok := r.handles.Load(fh)
	assert.False(t, ok, "release still drops the handle")
}
