package fuse

import (
	"context"
	"errors"
	"syscall"

	"github.com/brettbedarf/hostfs/errno"
	"github.com/brettbedarf/hostfs/internal/queue"
	"github.com/brettbedarf/hostfs/internal/util"
	"github.com/hanwen/go-fuse/v2/fuse"
	"golang.org/x/sys/unix"
)

// kernelErrnos maps POSIX names to this kernel's errno numbers. The adapter's
// numbering is the calling runtime's and differs from the kernel's.
var kernelErrnos = func() map[string]syscall.Errno {
	m := make(map[string]syscall.Errno)
	for i := 1; i < 256; i++ {
		e := syscall.Errno(i)
		name := unix.ErrnoName(e)
		if name == "" {
			continue
		}
		if _, ok := m[name]; !ok {
			m[name] = e
		}
	}
	return m
}()

// toStatus converts an adapter error into a FUSE status. Errors that carry
// no errno become EIO.
func toStatus(op string, err error) fuse.Status {
	if err == nil {
		return fuse.OK
	}
	if e, ok := errno.From(err); ok {
		if ke, ok := kernelErrnos[e.Name()]; ok {
			return fuse.Status(ke)
		}
	}

	logger := util.GetLogger("Fuse." + op)
	logger.Error().Err(err).Msg("Untranslatable failure, reporting EIO")
	return fuse.EIO
}

// queueStatus reports why a request never reached the adapter.
func queueStatus(err error) fuse.Status {
	switch {
	case errors.Is(err, context.Canceled):
		return fuse.Status(syscall.EINTR)
	case errors.Is(err, queue.ErrStopped):
		return fuse.Status(syscall.ESHUTDOWN)
	}
	return fuse.EIO
}
