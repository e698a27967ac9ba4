package hosts

import (
	"errors"
	"testing"
	"time"

	"github.com/brettbedarf/hostfs"
	"github.com/brettbedarf/hostfs/flags"
	"github.com/brettbedarf/hostfs/internal/mocks"
	"github.com/brettbedarf/hostfs/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrument_NilMetrics(t *testing.T) {
	t.Parallel()

	h := NewBillyMem()
	assert.Same(t, h, Instrument(h, nil))
}

func TestInstrumented_PassesThrough(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	h := Instrument(NewBillyMem(), metrics.New(reg))

	require.NoError(t, h.Mkdir("/d", true))
	fd, err := h.Open("/d/f", flags.WritePlus)
	require.NoError(t, err)
	n, err := h.Write(fd, []byte("abc"), 0)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	buf := make([]byte, 3)
	n, err = h.Read(fd, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(buf[:n]))
	require.NoError(t, h.Close(fd))

	_, err = h.Stat("/d/missing")
	requireCode(t, err, "ENOENT")

	count, err := testutil.GatherAndCount(reg, "hostfs_host_calls_total")
	require.NoError(t, err)
	assert.Equal(t, 6, count, "mkdir, open, write, read, close ok plus stat error")

	count, err = testutil.GatherAndCount(reg, "hostfs_host_errors_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = testutil.GatherAndCount(reg, "hostfs_host_bytes_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestInstrumented_Utime(t *testing.T) {
	t.Parallel()

	now := time.Now()

	t.Run("host without utime", func(t *testing.T) {
		t.Parallel()
		h := Instrument(&mocks.MockHost{}, metrics.New(prometheus.NewRegistry()))
		u, ok := h.(hostfs.Utimer)
		require.True(t, ok)
		requireCode(t, u.Utime("/f", now, now), "ENOSYS")
	})

	t.Run("host with utime", func(t *testing.T) {
		t.Parallel()
		mh := &mocks.MockUtimeHost{}
		expErr := errors.New("boom")
		mh.On("Utime", "/f", now, now).Return(expErr)
		h := Instrument(mh, metrics.New(prometheus.NewRegistry()))

		err := h.(hostfs.Utimer).Utime("/f", now, now)

		assert.Same(t, expErr, err)
		mh.AssertExpectations(t)
	})
}
