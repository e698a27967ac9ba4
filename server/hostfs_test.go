package server

import (
	"errors"
	"testing"

	"github.com/brettbedarf/hostfs"
	"github.com/brettbedarf/hostfs/config"
	"github.com/brettbedarf/hostfs/hosts"
	"github.com/brettbedarf/hostfs/internal/mocks"
	"github.com/brettbedarf/hostfs/internal/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNew_BuiltinHost(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig(&config.ConfigOverride{
		HostType:  util.Pointer(hosts.BillyMemType),
		MountRoot: util.Pointer("vol"),
	})
	reg := prometheus.NewRegistry()

	fs, err := New(cfg, WithMetrics(reg))
	require.NoError(t, err)
	defer func() { assert.NoError(t, fs.Unmount()) }()

	root := fs.Root()
	require.NotNil(t, root)
	assert.Equal(t, "/usr/data/vol", fs.Resolve(root))
	assert.IsType(t, &hosts.Instrumented{}, fs.Host())

	st, err := fs.Host().Stat("/usr/data/vol")
	require.NoError(t, err)
	assert.NotZero(t, st.Mode&0o040000, "mount creates the backing directory")

	count, err := testutil.GatherAndCount(reg, "hostfs_host_calls_total")
	require.NoError(t, err)
	assert.Positive(t, count)
}

func TestNew_NoMetrics(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig(&config.ConfigOverride{HostType: util.Pointer(hosts.AferoMemType)})
	fs, err := New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &hosts.FSHost{}, fs.Host())
}

func TestNew_UnknownHostType(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig(&config.ConfigOverride{HostType: util.Pointer("nope")})
	_, err := New(cfg)
	assert.ErrorContains(t, err, "nope")
}

func TestNew_CustomRegistry(t *testing.T) {
	t.Parallel()

	host := &mocks.MockHost{}
	host.On("Stat", "/usr/data").Return((*hostfs.Stat)(nil), hostfs.NewHostError("stat", "/usr/data", "ENOENT", "missing"))
	host.On("Mkdir", "/usr/data", true).Return(nil)

	r := hosts.NewRegistry()
	r.Register("mock", hosts.ProviderFunc(func(*config.Config) (hostfs.Host, error) { return host, nil }))

	cfg := config.NewConfig(&config.ConfigOverride{HostType: util.Pointer("mock")})
	fs, err := New(cfg, WithRegistry(r))
	require.NoError(t, err)
	assert.Same(t, host, fs.Host())
	host.AssertExpectations(t)
}

func TestNew_MountFailure(t *testing.T) {
	t.Parallel()

	host := &mocks.MockHost{}
	host.On("Stat", mock.Anything).Return((*hostfs.Stat)(nil), errors.New("down"))
	host.On("Mkdir", mock.Anything, true).Return(hostfs.NewHostError("mkdir", "/usr/data", "EACCES", "denied"))

	r := hosts.NewRegistry()
	r.Register("mock", hosts.ProviderFunc(func(*config.Config) (hostfs.Host, error) { return host, nil }))

	cfg := config.NewConfig(&config.ConfigOverride{HostType: util.Pointer("mock")})
	_, err := New(cfg, WithRegistry(r))
	require.Error(t, err)
	assert.ErrorContains(t, err, "EACCES")
}
