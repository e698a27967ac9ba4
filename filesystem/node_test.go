package filesystem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode_Path(t *testing.T) {
	t.Parallel()
	fs, root := newMemFS(t)

	a, err := fs.CreateNode(root, "a", DirAttr|0o755, 0)
	require.NoError(t, err)
	b, err := fs.CreateNode(a, "b", FileAttr|0o644, 0)
	require.NoError(t, err)

	assert.Equal(t, "/", root.Path())
	assert.Equal(t, "/a", a.Path())
	assert.Equal(t, "/a/b", b.Path())
}

func TestNode_IDs(t *testing.T) {
	t.Parallel()
	fs, root := newMemFS(t)

	assert.Equal(t, uint64(1), root.ID(), "root is the first node of its mount")

	seen := map[uint64]bool{root.ID(): true}
	for range 10 {
		n, err := fs.CreateNode(root, "n", FileAttr, 0)
		require.NoError(t, err)
		assert.False(t, seen[n.ID()], "id %d reused", n.ID())
		seen[n.ID()] = true
	}
}

func TestNode_Types(t *testing.T) {
	t.Parallel()
	fs, root := newMemFS(t)

	tests := []struct {
		mode            uint32
		dir, file, link bool
	}{
		{DirAttr | 0o755, true, false, false},
		{FileAttr | 0o644, false, true, false},
		{SymlinkAttr | 0o777, false, false, true},
	}

	for _, tt := range tests {
		n, err := fs.CreateNode(root, "x", tt.mode, 0)
		require.NoError(t, err)
		assert.Equal(t, tt.dir, n.IsDir(), "%#o", tt.mode)
		assert.Equal(t, tt.file, n.IsFile(), "%#o", tt.mode)
		assert.Equal(t, tt.link, n.IsLink(), "%#o", tt.mode)
		assert.False(t, n.IsRoot())
	}
}

func TestNode_Reparent(t *testing.T) {
	t.Parallel()
	fs, root := newMemFS(t)

	a, err := fs.CreateNode(root, "a", DirAttr|0o755, 0)
	require.NoError(t, err)
	f, err := fs.CreateNode(root, "f", FileAttr|0o644, 0)
	require.NoError(t, err)

	f.Reparent(a)
	assert.Same(t, a, f.Parent())
	assert.Equal(t, "/a/f", f.Path())

	f.Reparent(nil)
	assert.Same(t, a, f.Parent(), "nil parent is ignored")

	root.Reparent(a)
	assert.True(t, root.IsRoot(), "the root cannot move")
}
