package main

import (
	"errors"
	"flag"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/brettbedarf/hostfs/config"
	"github.com/brettbedarf/hostfs/hosts"
	"github.com/brettbedarf/hostfs/internal/util"
	"github.com/brettbedarf/hostfs/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Parse command line arguments
	var (
		configPath  string
		verbose     int
		umount      bool
		hostType    string
		hostDir     string
		mountRoot   string
		metricsAddr string
	)
	flag.StringVar(&configPath, "config", "", "Path to a yaml or json config file")
	flag.StringVar(&configPath, "c", "", "--config (shorthand)")
	flag.BoolVar(&umount, "umount", false,
		"Unmount the fs first if needed before mounting again. Useful for debuggers that don't exit properly.")
	flag.BoolVar(&umount, "u", false, "--umount (shorthand)")
	flag.IntVar(&verbose, "verbose", config.InfoVerbose, "Log verbosity level between 1 (error) and 5 (trace). Default is 3 (info).")
	flag.IntVar(&verbose, "v", config.InfoVerbose, "--verbose (shorthand)")
	flag.StringVar(&hostType, "host", config.DefaultHostType,
		"Host backend: "+hosts.BillyOSType+", "+hosts.BillyMemType+", "+hosts.AferoOSType+" or "+hosts.AferoMemType)
	flag.StringVar(&hostDir, "host-dir", config.DefaultHostDir, "Base directory of OS-backed hosts")
	flag.StringVar(&mountRoot, "mount-root", config.DefaultMountRoot, "Segment under the persistent root holding this mount's files")
	flag.StringVar(&metricsAddr, "metrics-addr", config.DefaultMetricsAddr, "Serve Prometheus metrics on this address, e.g. :9100")
	flag.Parse()

	// Config file first, then any flag given explicitly on the command line
	cfg := config.NewDefaultConfig()
	if configPath != "" {
		fileCfg, err := config.NewConfigFromFile(configPath)
		if err != nil {
			util.InitializeLogger(util.InfoLevel)
			util.GetLogger("main").Fatal().Err(err).Str("config", configPath).Msg("Failed to load config file")
		}
		cfg = fileCfg
	}
	cfg.Merge(flagOverride(verbose, hostType, hostDir, mountRoot, metricsAddr))

	util.InitializeLogger(cfg.LogLvl)
	logger := util.GetLogger("main")

	mnt := flag.Arg(0)
	logger.Info().Str("host", cfg.HostType).Str("hostDir", cfg.HostDir).Str("mnt", mnt).Msg("HostFS server initializing")
	// Check if mount point is provided
	if mnt == "" {
		logger.Fatal().Msg("Mount point not specified; it must be passed as the argument")
	}
	// Try unmount if requested
	if umount { // send cli command
		cmd := exec.Command("fusermount", "-u", mnt)
		// we ignore error here if not already mounted
		cmd.Run() // nolint:errcheck
	}

	var opts []server.Option
	var metricsSrv *http.Server
	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		opts = append(opts, server.WithMetrics(reg))

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
		metricsSrv = &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Str("addr", cfg.MetricsAddr).Msg("Metrics server failed")
			}
		}()
		logger.Info().Str("addr", cfg.MetricsAddr).Msg("Serving metrics")
	}

	fs, err := server.New(cfg, opts...)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to set up host filesystem")
	}

	// Serve
	if err := fs.Serve(mnt); err != nil {
		logger.Fatal().Err(err).Msg("Failed to mount filesystem")
	}

	// Setup signal handling for graceful shutdown
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	logger.Info().Str("mountpoint", mnt).Msg("Filesystem mounted successfully")

	// Wait for termination signal
	sig := <-signalChan
	logger.Info().Str("signal", sig.String()).Msg("Received signal, unmounting filesystem")

	// Unmount the filesystem
	if err := fs.Unmount(); err != nil {
		logger.Error().Err(err).Msg("Failed to unmount filesystem")
	} else {
		logger.Info().Msg("Filesystem unmounted successfully")
	}
	if metricsSrv != nil {
		_ = metricsSrv.Close()
	}
}

// flagOverride returns overrides for the flags set on the command line.
func flagOverride(verbose int, hostType, hostDir, mountRoot, metricsAddr string) *config.ConfigOverride {
	var o config.ConfigOverride
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "verbose", "v":
			o.LogLvl = &verbose
		case "host":
			o.HostType = &hostType
		case "host-dir":
			o.HostDir = &hostDir
		case "mount-root":
			o.MountRoot = &mountRoot
		case "metrics-addr":
			o.MetricsAddr = &metricsAddr
		}
	})
	return &o
}
