package flags

import (
	"math/rand/v2"
	"os"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc  string
		flags uint32
		want  OpenMode
	}{
		{"read only", O_RDONLY, Read},
		{"write only no create", O_WRONLY, Read},
		{"read write", O_RDWR, ReadPlus},
		{"create trunc rdwr", O_CREAT | O_TRUNC | O_RDWR, WritePlus},
		{"create wronly", O_CREAT | O_WRONLY, Write},
		{"trunc only", O_TRUNC, Write},
		{"create excl", O_CREAT | O_EXCL | O_WRONLY, WriteExcl},
		{"create excl rdwr", O_CREAT | O_EXCL | O_RDWR, WriteExclPlus},
		{"append", O_APPEND | O_WRONLY, Append},
		{"append rdwr", O_APPEND | O_RDWR, AppendPlus},
		{"append excl", O_APPEND | O_EXCL, AppendExcl},
		{"append excl rdwr", O_APPEND | O_EXCL | O_RDWR, AppendExclPlus},
		{"append sync", O_APPEND | O_SYNC, AppendSync},
		{"append sync rdwr", O_APPEND | O_SYNC | O_RDWR, AppendSyncPlus},
		{"append partial sync bit", O_APPEND | 0x1000, AppendSync},
		{"append beats trunc", O_APPEND | O_TRUNC | O_CREAT, Append},
		{"excl beats sync", O_APPEND | O_EXCL | O_SYNC, AppendExcl},
		{"access mode 3 is not rdwr", 3 | O_CREAT, Write},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Encode(tt.flags))
		})
	}
}

func TestEncode_Scenarios(t *testing.T) {
	t.Parallel()

	assert.Equal(t, OpenMode("w+"), Encode(578))
	assert.Equal(t, OpenMode("ax"), Encode(1152))
	assert.Equal(t, OpenMode("r"), Encode(0))
}

func TestEncode_Total(t *testing.T) {
	t.Parallel()

	// Every combination of the bits Encode looks at.
	bits := []uint32{1, 2, O_CREAT, O_EXCL, O_TRUNC, O_APPEND, 0x1000, 0x100000}
	for combo := range 1 << len(bits) {
		var f uint32
		for i, b := range bits {
			if combo&(1<<i) != 0 {
				f |= b
			}
		}
		m := Encode(f)
		assert.True(t, slices.Contains(Modes, m), "flags %#x produced %q", f, m)
		assert.Equal(t, m, Encode(f), "flags %#x must encode the same way every call", f)
	}

	r := rand.New(rand.NewPCG(1, 2))
	for range 10000 {
		f := r.Uint32()
		m := Encode(f)
		assert.True(t, m.Valid(), "flags %#x produced %q", f, m)
		assert.Equal(t, m, Encode(f))
	}
}

func TestOpenMode_OSFlags(t *testing.T) {
	t.Parallel()

	assert.Equal(t, os.O_RDONLY, Read.OSFlags())
	assert.Equal(t, os.O_RDWR|os.O_CREATE|os.O_TRUNC, WritePlus.OSFlags())
	assert.Equal(t, os.O_WRONLY|os.O_CREATE|os.O_APPEND|os.O_EXCL, AppendExcl.OSFlags())
	assert.Equal(t, os.O_RDONLY, OpenMode("bogus").OSFlags())

	for _, m := range Modes {
		assert.True(t, m.Valid(), "%q", m)
		assert.Equal(t, m.Plus(), m.OSFlags()&os.O_RDWR != 0, "%q", m)
		assert.Equal(t, m.IsAppend(), m.OSFlags()&os.O_APPEND != 0, "%q", m)
	}
	assert.False(t, OpenMode("as+(rw)").Valid())
}
