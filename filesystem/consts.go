package filesystem

// SysAttrType holds the file type bits of a POSIX mode.
// Values follow the calling runtime's numbering, not the local OS.
type SysAttrType = uint32

const (
	TypeMask    SysAttrType = 0o170000
	DirAttr     SysAttrType = 0o040000
	FileAttr    SysAttrType = 0o100000
	SymlinkAttr SysAttrType = 0o120000
)

const (
	// DefaultDev is the device id reported for every node.
	DefaultDev = 0x1000001
	// BlockSize is the reported preferred I/O size.
	BlockSize = 4096
	// RootMode is the mode of a freshly mounted root (drwxrwxrwx).
	RootMode = DirAttr | 0o777

	// execBits are forced on when a created mode carries none of them.
	execBits = 0o111
)

// Whence values for Llseek.
const (
	SeekSet = 0
	SeekCur = 1
	SeekEnd = 2
)

func IsDir(mode uint32) bool  { return mode&TypeMask == DirAttr }
func IsFile(mode uint32) bool { return mode&TypeMask == FileAttr }
func IsLink(mode uint32) bool { return mode&TypeMask == SymlinkAttr }
