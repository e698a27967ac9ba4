// Package server wires a host, the VFS adapter and the FUSE bridge into a
// mountable filesystem.
package server

import (
	"fmt"

	"github.com/brettbedarf/hostfs/config"
	"github.com/brettbedarf/hostfs/filesystem"
	wfuse "github.com/brettbedarf/hostfs/fuse"
	"github.com/brettbedarf/hostfs/hosts"
	"github.com/brettbedarf/hostfs/internal/util"
	"github.com/brettbedarf/hostfs/metrics"
	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/prometheus/client_golang/prometheus"
)

// HostFs contains the core filesystem state and operations with abstractions
// over the underlying FUSE wire protocol implementation
type HostFs struct {
	*filesystem.FileSystem
	cfg    *config.Config
	raw    *wfuse.FuseRaw
	server *fuse.Server
}

// Option customizes New.
type Option func(*options)

type options struct {
	registry *hosts.Registry
	metrics  prometheus.Registerer
}

// WithRegistry builds the host from r instead of the built-in hosts.
func WithRegistry(r *hosts.Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithMetrics records host calls on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) { o.metrics = reg }
}

// New creates a HostFs instance given your config. The host named by
// cfg.HostType is built and the mount's backing directory is set up, but
// nothing is mounted in the kernel until Serve.
func New(cfg *config.Config, opts ...Option) (*HostFs, error) {
	logger := util.GetLogger("Server.New")

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.registry == nil {
		o.registry = hosts.NewRegistry()
		hosts.RegisterBuiltins(o.registry)
	}

	host, err := o.registry.NewHost(cfg)
	if err != nil {
		return nil, fmt.Errorf("build host: %w", err)
	}
	host = hosts.Instrument(host, metrics.New(o.metrics))

	fs := filesystem.NewFS(cfg, host)
	if _, err := fs.Mount(); err != nil {
		return nil, fmt.Errorf("mount adapter: %w", err)
	}
	logger.Debug().Str("host", cfg.HostType).Str("dir", cfg.HostDir).Msg("Host ready")

	return &HostFs{
		FileSystem: fs,
		cfg:        cfg,
		raw:        wfuse.NewFuseRaw(cfg, fs),
	}, nil
}

// Serve mounts and serves the filesystem at the given mountPoint.
func (fs *HostFs) Serve(mountPoint string) error {
	opts := fs.cfg.MountOptions
	slogger := util.NewLogLogger("FuseServer", util.TraceLevel)
	srv, err := fuse.NewServer(fs.raw, mountPoint, &fuse.MountOptions{
		Name:   opts.Name,
		FsName: opts.FsName,
		Debug:  opts.Debug || fs.cfg.LogLvl == util.TraceLevel,
		Logger: slogger,
	})
	if err != nil {
		return err
	}
	fs.server = srv

	go srv.Serve()
	return srv.WaitMount()
}

func (fs *HostFs) ServeAsync(mountPoint string) <-chan error {
	done := make(chan error, 1)

	go func() {
		done <- fs.Serve(mountPoint)
		close(done)
	}()

	return done
}

// Unmount cleanly unmounts the filesystem and stops the request queue.
func (fs *HostFs) Unmount() error {
	if fs.server == nil {
		fs.raw.Close()
		return nil
	}
	err := fs.server.Unmount()
	fs.raw.Close()
	return err
}
