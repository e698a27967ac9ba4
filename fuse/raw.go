// Package fuse serves a filesystem.FileSystem over the kernel FUSE protocol.
//
// The kernel sends requests concurrently; the adapter is single threaded. Every
// request that touches the adapter is funneled through one queue worker.
package fuse

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/brettbedarf/hostfs/config"
	"github.com/brettbedarf/hostfs/filesystem"
	"github.com/brettbedarf/hostfs/internal/queue"
	"github.com/brettbedarf/hostfs/internal/util"
	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/puzpuzpuz/xsync/v4"
)

// FuseRaw implements the low-level FUSE wire protocol
// It serves as protocol adapter between the FUSE and the host filesystem adapter
// See https://www.man7.org/linux//man-pages/man4/fuse.4.html
type FuseRaw struct {
	fuse.RawFileSystem
	fs *filesystem.FileSystem
	q  *queue.Queue

	// Kernel node IDs are the adapter's node IDs; the root is ID 1, which is
	// also fuse.FUSE_ROOT_ID.
	nodes *xsync.Map[uint64, *entry]
	names *xsync.Map[childKey, uint64]

	handles *xsync.Map[uint64, *filesystem.Stream]
	lastFh  atomic.Uint64

	attrTimeout  time.Duration
	entryTimeout time.Duration
	server       *fuse.Server
}

// NewFuseRaw builds the bridge for fs. fs must already be mounted.
func NewFuseRaw(cfg *config.Config, fs *filesystem.FileSystem) *FuseRaw {
	r := &FuseRaw{
		RawFileSystem: fuse.NewDefaultRawFileSystem(),
		fs:            fs,
		q:             queue.New(cfg.QueueDepth),
		nodes:         xsync.NewMap[uint64, *entry](),
		names:         xsync.NewMap[childKey, uint64](),
		handles:       xsync.NewMap[uint64, *filesystem.Stream](),
		attrTimeout:   seconds(cfg.AttrTimeout),
		entryTimeout:  seconds(cfg.EntryTimeout),
	}
	if root := fs.Root(); root != nil {
		r.nodes.Store(root.ID(), &entry{node: root})
	}
	return r
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func (r *FuseRaw) Init(s *fuse.Server) {
	logger := util.GetLogger("Fuse.Init")
	logger.Debug().Msg("FUSE initialized")
	r.server = s
}

func (r *FuseRaw) OnUnmount() {
	logger := util.GetLogger("Fuse.OnUnmount")
	logger.Info().Msg("FUSE unmounted")
}

func (r *FuseRaw) String() string {
	return "hostfs"
}

// Close stops the request queue. Requests arriving afterwards fail with
// ESHUTDOWN.
func (r *FuseRaw) Close() {
	r.q.Stop()
}

// Access called when the kernel wants to know if the user has permission to access the node.
// Permissions are not enforced.
func (r *FuseRaw) Access(cancel <-chan struct{}, input *fuse.AccessIn) fuse.Status {
	return fuse.OK
}

// StatFs reports fixed values; the host has no notion of capacity.
func (r *FuseRaw) StatFs(cancel <-chan struct{}, input *fuse.InHeader, out *fuse.StatfsOut) fuse.Status {
	out.Bsize = filesystem.BlockSize
	out.Frsize = filesystem.BlockSize
	out.NameLen = 255
	return fuse.OK
}

// run executes fn on the queue worker. cancel aborts the request while it is
// still waiting for the worker.
func (r *FuseRaw) run(cancel <-chan struct{}, fn func() fuse.Status) fuse.Status {
	ctx, stop := cancelContext(cancel)
	defer stop()

	var st fuse.Status
	if err := r.q.Do(ctx, func() { st = fn() }); err != nil {
		return queueStatus(err)
	}
	return st
}

func cancelContext(cancel <-chan struct{}) (context.Context, context.CancelFunc) {
	ctx, stop := context.WithCancel(context.Background())
	if cancel != nil {
		go func() {
			select {
			case <-cancel:
				stop()
			case <-ctx.Done():
			}
		}()
	}
	return ctx, stop
}

func (r *FuseRaw) fillEntry(n *filesystem.Node, a *filesystem.Attr, out *fuse.EntryOut) {
	out.NodeId = n.ID()
	out.Generation = 1
	fillAttr(a, &out.Attr)
	out.SetEntryTimeout(r.entryTimeout)
	out.SetAttrTimeout(r.attrTimeout)
}

func fillAttr(a *filesystem.Attr, out *fuse.Attr) {
	out.Ino = a.Ino
	out.Size = uint64(a.Size)
	out.Blocks = uint64(a.Blocks) * (filesystem.BlockSize / 512)
	out.Mode = a.Mode
	out.Nlink = a.Nlink
	out.Owner = fuse.Owner{Uid: a.Uid, Gid: a.Gid}
	out.Rdev = a.Rdev
	out.Blksize = uint32(a.Blksize)
	out.SetTimes(&a.Atime, &a.Mtime, &a.Ctime)
}
