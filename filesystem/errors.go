package filesystem

import (
	iofs "io/fs"

	"github.com/brettbedarf/hostfs/errno"
)

// fail translates a host failure for op on path. Tagged failures become a
// *fs.PathError wrapping the Errno; untagged ones are returned unmodified.
func fail(op, path string, err error) error {
	tr := errno.Translate(err)
	if e, ok := tr.(errno.Errno); ok {
		return &iofs.PathError{Op: op, Path: path, Err: e}
	}
	return tr
}

func errnoErr(op, path string, e errno.Errno) error {
	return &iofs.PathError{Op: op, Path: path, Err: e}
}
