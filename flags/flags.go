// Package flags converts POSIX open flags into the host's open-mode tokens.
package flags

import "os"

// POSIX open flag bits as passed by the calling runtime.
const (
	O_RDONLY uint32 = 0
	O_WRONLY uint32 = 1
	O_RDWR   uint32 = 2
	O_CREAT  uint32 = 64
	O_EXCL   uint32 = 128
	O_TRUNC  uint32 = 512
	O_APPEND uint32 = 1024
	O_SYNC   uint32 = 1052672

	accessMask uint32 = 3
)

// OpenMode is one of the host's open-mode strings.
type OpenMode string

const (
	Read           OpenMode = "r"
	ReadPlus       OpenMode = "r+"
	Write          OpenMode = "w"
	WritePlus      OpenMode = "w+"
	WriteExcl      OpenMode = "wx"
	WriteExclPlus  OpenMode = "wx+"
	Append         OpenMode = "a"
	AppendPlus     OpenMode = "a+"
	AppendExcl     OpenMode = "ax"
	AppendExclPlus OpenMode = "ax+"
	AppendSync     OpenMode = "as"
	AppendSyncPlus OpenMode = "as+"
)

// Modes lists every token Encode can produce.
var Modes = []OpenMode{
	Read, ReadPlus,
	Write, WritePlus, WriteExcl, WriteExclPlus,
	Append, AppendPlus, AppendExcl, AppendExclPlus, AppendSync, AppendSyncPlus,
}

// Encode maps a POSIX flag word to an open-mode token.
// Append wins over truncate/create, which win over plain read.
func Encode(f uint32) OpenMode {
	var m OpenMode
	switch {
	case f&O_APPEND != 0:
		switch {
		case f&O_EXCL != 0:
			m = AppendExcl
		case f&O_SYNC != 0:
			m = AppendSync
		default:
			m = Append
		}
	case f&(O_TRUNC|O_CREAT) != 0:
		if f&O_EXCL != 0 {
			m = WriteExcl
		} else {
			m = Write
		}
	default:
		m = Read
	}
	if f&accessMask == O_RDWR {
		m += "+"
	}
	return m
}

// Valid reports whether m is a known token.
func (m OpenMode) Valid() bool {
	_, ok := osFlags[m]
	return ok
}

// Plus reports whether the mode grants both read and write access.
func (m OpenMode) Plus() bool {
	return len(m) > 1 && m[len(m)-1] == '+'
}

// IsAppend reports whether writes always land at the end of the file.
func (m OpenMode) IsAppend() bool {
	return len(m) > 0 && m[0] == 'a'
}

var osFlags = map[OpenMode]int{
	Read:           os.O_RDONLY,
	ReadPlus:       os.O_RDWR,
	Write:          os.O_WRONLY | os.O_CREATE | os.O_TRUNC,
	WritePlus:      os.O_RDWR | os.O_CREATE | os.O_TRUNC,
	WriteExcl:      os.O_WRONLY | os.O_CREATE | os.O_TRUNC | os.O_EXCL,
	WriteExclPlus:  os.O_RDWR | os.O_CREATE | os.O_TRUNC | os.O_EXCL,
	Append:         os.O_WRONLY | os.O_CREATE | os.O_APPEND,
	AppendPlus:     os.O_RDWR | os.O_CREATE | os.O_APPEND,
	AppendExcl:     os.O_WRONLY | os.O_CREATE | os.O_APPEND | os.O_EXCL,
	AppendExclPlus: os.O_RDWR | os.O_CREATE | os.O_APPEND | os.O_EXCL,
	AppendSync:     os.O_WRONLY | os.O_CREATE | os.O_APPEND | os.O_SYNC,
	AppendSyncPlus: os.O_RDWR | os.O_CREATE | os.O_APPEND | os.O_SYNC,
}

// OSFlags returns the os.OpenFile flags with the same meaning as m.
// Unknown tokens open read-only.
func (m OpenMode) OSFlags() int {
	return osFlags[m]
}
