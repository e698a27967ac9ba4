package filesystem

import "time"

// Attr is the attribute record returned by Getattr.
type Attr struct {
	Dev     uint64
	Ino     uint64
	Mode    uint32
	Nlink   uint32
	Uid     uint32
	Gid     uint32
	Rdev    uint32
	Size    int64
	Atime   time.Time
	Mtime   time.Time
	Ctime   time.Time
	Blksize int64
	Blocks  int64 // in Blksize units
}

// SetAttr lists the attribute changes requested from Setattr.
// Nil fields are left untouched.
type SetAttr struct {
	Mode  *uint32
	Atime *time.Time
	Mtime *time.Time
	Size  *int64
}

// times returns the atime/mtime pair to apply, each falling back to the other
// when only one was requested.
func (a *SetAttr) times() (atime, mtime time.Time) {
	switch {
	case a.Atime != nil && a.Mtime != nil:
		return *a.Atime, *a.Mtime
	case a.Atime != nil:
		return *a.Atime, *a.Atime
	default:
		return *a.Mtime, *a.Mtime
	}
}

func blocks(size int64) int64 {
	if size <= 0 {
		return 0
	}
	return (size + BlockSize - 1) / BlockSize
}
