package errno

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tagged mimics a host error with a symbolic code.
type tagged struct{ code string }

func (e *tagged) Error() string     { return "host: " + e.code }
func (e *tagged) ErrorCode() string { return e.code }

func TestErrno_Values(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want Errno
		num  uint16
	}{
		{"EPERM", EPERM, 63},
		{"ENOENT", ENOENT, 44},
		{"EIO", EIO, 29},
		{"EBADF", EBADF, 8},
		{"EAGAIN", EAGAIN, 6},
		{"EWOULDBLOCK", EAGAIN, 6},
		{"ENOMEM", ENOMEM, 48},
		{"EACCES", EACCES, 2},
		{"EEXIST", EEXIST, 20},
		{"ENOTDIR", ENOTDIR, 54},
		{"EISDIR", EISDIR, 31},
		{"EINVAL", EINVAL, 28},
		{"ENOSPC", ENOSPC, 51},
		{"EROFS", EROFS, 69},
		{"EPIPE", EPIPE, 64},
		{"ENAMETOOLONG", ENAMETOOLONG, 37},
		{"ENOTEMPTY", ENOTEMPTY, 55},
		{"ETIMEDOUT", ETIMEDOUT, 73},
		{"ECANCELED", ECANCELED, 11},
		{"EDEADLOCK", EDEADLK, 16},
		{"ENOTSUP", EOPNOTSUPP, 138},
		{"EL2NSYNC", EL2NSYNC, 156},
		{"ENOMEDIUM", ENOMEDIUM, 148},
		{"ENOSYS", ENOSYS, 52},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := Lookup(tt.name)
			require.True(t, ok, "%s must be in the table", tt.name)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.num, uint16(got))
		})
	}
}

func TestErrno_TableIsComplete(t *testing.T) {
	t.Parallel()

	assert.Len(t, Names(), 121, "full name set including aliases")
	assert.Len(t, canonical, 118, "one primary name per number")
	for _, n := range Names() {
		e, ok := Lookup(n)
		require.True(t, ok)
		// Every name resolves to a number whose primary name resolves back to it.
		back, ok := Lookup(e.Name())
		require.True(t, ok, "primary name of %s missing", n)
		assert.Equal(t, e, back)
	}
}

func TestErrno_Error(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ENOENT", ENOENT.Error())
	assert.Equal(t, "EAGAIN", EWOULDBLOCK.Error())
	assert.Equal(t, "errno 999", Errno(999).Error())
	assert.Empty(t, Errno(999).Name())
}

func TestErrno_IsFsSentinels(t *testing.T) {
	t.Parallel()

	wrapped := &fs.PathError{Op: "lookup", Path: "/x", Err: ENOENT}
	assert.ErrorIs(t, wrapped, fs.ErrNotExist)
	assert.ErrorIs(t, wrapped, ENOENT)
	assert.ErrorIs(t, EEXIST, fs.ErrExist)
	assert.ErrorIs(t, EACCES, fs.ErrPermission)
	assert.ErrorIs(t, EBADF, fs.ErrClosed)
	assert.ErrorIs(t, EINVAL, fs.ErrInvalid)
	assert.NotErrorIs(t, EIO, fs.ErrNotExist)
}

func TestTranslate(t *testing.T) {
	t.Parallel()

	t.Run("known code", func(t *testing.T) {
		t.Parallel()
		err := Translate(&tagged{code: "ENOSPC"})
		e, ok := From(err)
		require.True(t, ok)
		assert.Equal(t, ENOSPC, e)
		assert.Equal(t, uint16(51), uint16(e))
	})

	t.Run("wrapped code", func(t *testing.T) {
		t.Parallel()
		err := Translate(fmt.Errorf("open: %w", &tagged{code: "EACCES"}))
		assert.Equal(t, EACCES, err)
	})

	t.Run("no code is returned unmodified", func(t *testing.T) {
		t.Parallel()
		raw := errors.New("host exploded")
		err := Translate(raw)
		assert.Same(t, raw, err)
		_, ok := From(err)
		assert.False(t, ok, "must not be coerced to any errno")
	})

	t.Run("empty code is returned unmodified", func(t *testing.T) {
		t.Parallel()
		raw := &tagged{}
		assert.Same(t, raw, Translate(raw))
	})

	t.Run("unknown code is returned unmodified", func(t *testing.T) {
		t.Parallel()
		raw := &tagged{code: "EWHATEVER"}
		assert.Same(t, raw, Translate(raw))
	})

	t.Run("existing errno passes through", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, EBADF, Translate(&fs.PathError{Op: "read", Err: EBADF}))
	})

	t.Run("nil", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, Translate(nil))
	})
}
