package hosts

import (
	"io/fs"
	"os"
	"path"

	"github.com/brettbedarf/hostfs"
)

// POSIX file type bits reported in hostfs.Stat.Mode.
const (
	sIFDIR = 0o040000
	sIFREG = 0o100000
	sIFLNK = 0o120000
)

// defaultPerm is used for every file and directory a host creates.
const defaultPerm os.FileMode = 0o777

func posixMode(m fs.FileMode) uint32 {
	perm := uint32(m.Perm())
	switch {
	case m&fs.ModeDir != 0:
		return sIFDIR | perm
	case m&fs.ModeSymlink != 0:
		return sIFLNK | perm
	default:
		return sIFREG | perm
	}
}

// toStat converts fi. Go file systems expose no access time, so it is
// reported equal to the modification time.
func toStat(fi fs.FileInfo) *hostfs.Stat {
	mt := fi.ModTime()
	return &hostfs.Stat{
		Mode:             posixMode(fi.Mode()),
		Size:             fi.Size(),
		LastAccessedTime: mt,
		LastModifiedTime: mt,
	}
}

func names(infos []fs.FileInfo) []string {
	out := make([]string, len(infos))
	for i, fi := range infos {
		out[i] = fi.Name()
	}
	return out
}

// parentOf returns the parent directory of a cleaned absolute path.
func parentOf(p string) string {
	return path.Dir(path.Clean(p))
}
