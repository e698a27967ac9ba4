// Package errno holds the POSIX error numbers understood by the calling
// runtime and the translation from host error tags to those numbers.
//
// The numbering is the WASI/emscripten one, not the numbering of the
// machine the adapter runs on. Use [Errno.Name] to move between the two.
package errno

import (
	"errors"
	"fmt"
	"io/fs"
)

// Errno is a POSIX error number as seen by the calling runtime.
type Errno uint16

const (
	EPERM           Errno = 63
	ENOENT          Errno = 44
	ESRCH           Errno = 71
	EINTR           Errno = 27
	EIO             Errno = 29
	ENXIO           Errno = 60
	E2BIG           Errno = 1
	ENOEXEC         Errno = 45
	EBADF           Errno = 8
	ECHILD          Errno = 12
	EAGAIN          Errno = 6
	ENOMEM          Errno = 48
	EACCES          Errno = 2
	EFAULT          Errno = 21
	ENOTBLK         Errno = 105
	EBUSY           Errno = 10
	EEXIST          Errno = 20
	EXDEV           Errno = 75
	ENODEV          Errno = 43
	ENOTDIR         Errno = 54
	EISDIR          Errno = 31
	EINVAL          Errno = 28
	ENFILE          Errno = 41
	EMFILE          Errno = 33
	ENOTTY          Errno = 59
	ETXTBSY         Errno = 74
	EFBIG           Errno = 22
	ENOSPC          Errno = 51
	ESPIPE          Errno = 70
	EROFS           Errno = 69
	EMLINK          Errno = 34
	EPIPE           Errno = 64
	EDOM            Errno = 18
	ERANGE          Errno = 68
	ENOMSG          Errno = 49
	EIDRM           Errno = 24
	ECHRNG          Errno = 106
	EL2NSYNC        Errno = 156
	EL3HLT          Errno = 107
	EL3RST          Errno = 108
	ELNRNG          Errno = 109
	EUNATCH         Errno = 110
	ENOCSI          Errno = 111
	EL2HLT          Errno = 112
	EDEADLK         Errno = 16
	ENOLCK          Errno = 46
	EBADE           Errno = 113
	EBADR           Errno = 114
	EXFULL          Errno = 115
	ENOANO          Errno = 104
	EBADRQC         Errno = 103
	EBADSLT         Errno = 102
	EBFONT          Errno = 101
	ENOSTR          Errno = 100
	ENODATA         Errno = 116
	ETIME           Errno = 117
	ENOSR           Errno = 118
	ENONET          Errno = 119
	ENOPKG          Errno = 120
	EREMOTE         Errno = 121
	ENOLINK         Errno = 47
	EADV            Errno = 122
	ESRMNT          Errno = 123
	ECOMM           Errno = 124
	EPROTO          Errno = 65
	EMULTIHOP       Errno = 36
	EDOTDOT         Errno = 125
	EBADMSG         Errno = 9
	ENOTUNIQ        Errno = 126
	EBADFD          Errno = 127
	EREMCHG         Errno = 128
	ELIBACC         Errno = 129
	ELIBBAD         Errno = 130
	ELIBSCN         Errno = 131
	ELIBMAX         Errno = 132
	ELIBEXEC        Errno = 133
	ENOSYS          Errno = 52
	ENOTEMPTY       Errno = 55
	ENAMETOOLONG    Errno = 37
	ELOOP           Errno = 32
	EOPNOTSUPP      Errno = 138
	EPFNOSUPPORT    Errno = 139
	ECONNRESET      Errno = 15
	ENOBUFS         Errno = 42
	EAFNOSUPPORT    Errno = 5
	EPROTOTYPE      Errno = 67
	ENOTSOCK        Errno = 57
	ENOPROTOOPT     Errno = 50
	ESHUTDOWN       Errno = 140
	ECONNREFUSED    Errno = 14
	EADDRINUSE      Errno = 3
	ECONNABORTED    Errno = 13
	ENETUNREACH     Errno = 40
	ENETDOWN        Errno = 38
	ETIMEDOUT       Errno = 73
	EHOSTDOWN       Errno = 142
	EHOSTUNREACH    Errno = 23
	EINPROGRESS     Errno = 26
	EALREADY        Errno = 7
	EDESTADDRREQ    Errno = 17
	EMSGSIZE        Errno = 35
	EPROTONOSUPPORT Errno = 66
	ESOCKTNOSUPPORT Errno = 137
	EADDRNOTAVAIL   Errno = 4
	ENETRESET       Errno = 39
	EISCONN         Errno = 30
	ENOTCONN        Errno = 53
	ETOOMANYREFS    Errno = 141
	EUSERS          Errno = 136
	EDQUOT          Errno = 19
	ESTALE          Errno = 72
	ENOMEDIUM       Errno = 148
	EILSEQ          Errno = 25
	EOVERFLOW       Errno = 61
	ECANCELED       Errno = 11
	ENOTRECOVERABLE Errno = 56
	EOWNERDEAD      Errno = 62
	ESTRPIPE        Errno = 135

	// Aliases share a number with their primary name.
	EWOULDBLOCK = EAGAIN
	EDEADLOCK   = EDEADLK
	ENOTSUP     = EOPNOTSUPP
)

// names maps every symbolic name, aliases included, to its number.
var names = map[string]Errno{
	"EPERM":           EPERM,
	"ENOENT":          ENOENT,
	"ESRCH":           ESRCH,
	"EINTR":           EINTR,
	"EIO":             EIO,
	"ENXIO":           ENXIO,
	"E2BIG":           E2BIG,
	"ENOEXEC":         ENOEXEC,
	"EBADF":           EBADF,
	"ECHILD":          ECHILD,
	"EAGAIN":          EAGAIN,
	"EWOULDBLOCK":     EWOULDBLOCK,
	"ENOMEM":          ENOMEM,
	"EACCES":          EACCES,
	"EFAULT":          EFAULT,
	"ENOTBLK":         ENOTBLK,
	"EBUSY":           EBUSY,
	"EEXIST":          EEXIST,
	"EXDEV":           EXDEV,
	"ENODEV":          ENODEV,
	"ENOTDIR":         ENOTDIR,
	"EISDIR":          EISDIR,
	"EINVAL":          EINVAL,
	"ENFILE":          ENFILE,
	"EMFILE":          EMFILE,
	"ENOTTY":          ENOTTY,
	"ETXTBSY":         ETXTBSY,
	"EFBIG":           EFBIG,
	"ENOSPC":          ENOSPC,
	"ESPIPE":          ESPIPE,
	"EROFS":           EROFS,
	"EMLINK":          EMLINK,
	"EPIPE":           EPIPE,
	"EDOM":            EDOM,
	"ERANGE":          ERANGE,
	"ENOMSG":          ENOMSG,
	"EIDRM":           EIDRM,
	"ECHRNG":          ECHRNG,
	"EL2NSYNC":        EL2NSYNC,
	"EL3HLT":          EL3HLT,
	"EL3RST":          EL3RST,
	"ELNRNG":          ELNRNG,
	"EUNATCH":         EUNATCH,
	"ENOCSI":          ENOCSI,
	"EL2HLT":          EL2HLT,
	"EDEADLK":         EDEADLK,
	"ENOLCK":          ENOLCK,
	"EBADE":           EBADE,
	"EBADR":           EBADR,
	"EXFULL":          EXFULL,
	"ENOANO":          ENOANO,
	"EBADRQC":         EBADRQC,
	"EBADSLT":         EBADSLT,
	"EDEADLOCK":       EDEADLOCK,
	"EBFONT":          EBFONT,
	"ENOSTR":          ENOSTR,
	"ENODATA":         ENODATA,
	"ETIME":           ETIME,
	"ENOSR":           ENOSR,
	"ENONET":          ENONET,
	"ENOPKG":          ENOPKG,
	"EREMOTE":         EREMOTE,
	"ENOLINK":         ENOLINK,
	"EADV":            EADV,
	"ESRMNT":          ESRMNT,
	"ECOMM":           ECOMM,
	"EPROTO":          EPROTO,
	"EMULTIHOP":       EMULTIHOP,
	"EDOTDOT":         EDOTDOT,
	"EBADMSG":         EBADMSG,
	"ENOTUNIQ":        ENOTUNIQ,
	"EBADFD":          EBADFD,
	"EREMCHG":         EREMCHG,
	"ELIBACC":         ELIBACC,
	"ELIBBAD":         ELIBBAD,
	"ELIBSCN":         ELIBSCN,
	"ELIBMAX":         ELIBMAX,
	"ELIBEXEC":        ELIBEXEC,
	"ENOSYS":          ENOSYS,
	"ENOTEMPTY":       ENOTEMPTY,
	"ENAMETOOLONG":    ENAMETOOLONG,
	"ELOOP":           ELOOP,
	"EOPNOTSUPP":      EOPNOTSUPP,
	"EPFNOSUPPORT":    EPFNOSUPPORT,
	"ECONNRESET":      ECONNRESET,
	"ENOBUFS":         ENOBUFS,
	"EAFNOSUPPORT":    EAFNOSUPPORT,
	"EPROTOTYPE":      EPROTOTYPE,
	"ENOTSOCK":        ENOTSOCK,
	"ENOPROTOOPT":     ENOPROTOOPT,
	"ESHUTDOWN":       ESHUTDOWN,
	"ECONNREFUSED":    ECONNREFUSED,
	"EADDRINUSE":      EADDRINUSE,
	"ECONNABORTED":    ECONNABORTED,
	"ENETUNREACH":     ENETUNREACH,
	"ENETDOWN":        ENETDOWN,
	"ETIMEDOUT":       ETIMEDOUT,
	"EHOSTDOWN":       EHOSTDOWN,
	"EHOSTUNREACH":    EHOSTUNREACH,
	"EINPROGRESS":     EINPROGRESS,
	"EALREADY":        EALREADY,
	"EDESTADDRREQ":    EDESTADDRREQ,
	"EMSGSIZE":        EMSGSIZE,
	"EPROTONOSUPPORT": EPROTONOSUPPORT,
	"ESOCKTNOSUPPORT": ESOCKTNOSUPPORT,
	"EADDRNOTAVAIL":   EADDRNOTAVAIL,
	"ENETRESET":       ENETRESET,
	"EISCONN":         EISCONN,
	"ENOTCONN":        ENOTCONN,
	"ETOOMANYREFS":    ETOOMANYREFS,
	"EUSERS":          EUSERS,
	"EDQUOT":          EDQUOT,
	"ESTALE":          ESTALE,
	"ENOTSUP":         ENOTSUP,
	"ENOMEDIUM":       ENOMEDIUM,
	"EILSEQ":          EILSEQ,
	"EOVERFLOW":       EOVERFLOW,
	"ECANCELED":       ECANCELED,
	"ENOTRECOVERABLE": ENOTRECOVERABLE,
	"EOWNERDEAD":      EOWNERDEAD,
	"ESTRPIPE":        ESTRPIPE,
}

// canonical maps numbers back to their primary name.
var canonical = map[Errno]string{
	EPERM:           "EPERM",
	ENOENT:          "ENOENT",
	ESRCH:           "ESRCH",
	EINTR:           "EINTR",
	EIO:             "EIO",
	ENXIO:           "ENXIO",
	E2BIG:           "E2BIG",
	ENOEXEC:         "ENOEXEC",
	EBADF:           "EBADF",
	ECHILD:          "ECHILD",
	EAGAIN:          "EAGAIN",
	ENOMEM:          "ENOMEM",
	EACCES:          "EACCES",
	EFAULT:          "EFAULT",
	ENOTBLK:         "ENOTBLK",
	EBUSY:           "EBUSY",
	EEXIST:          "EEXIST",
	EXDEV:           "EXDEV",
	ENODEV:          "ENODEV",
	ENOTDIR:         "ENOTDIR",
	EISDIR:          "EISDIR",
	EINVAL:          "EINVAL",
	ENFILE:          "ENFILE",
	EMFILE:          "EMFILE",
	ENOTTY:          "ENOTTY",
	ETXTBSY:         "ETXTBSY",
	EFBIG:           "EFBIG",
	ENOSPC:          "ENOSPC",
	ESPIPE:          "ESPIPE",
	EROFS:           "EROFS",
	EMLINK:          "EMLINK",
	EPIPE:           "EPIPE",
	EDOM:            "EDOM",
	ERANGE:          "ERANGE",
	ENOMSG:          "ENOMSG",
	EIDRM:           "EIDRM",
	ECHRNG:          "ECHRNG",
	EL2NSYNC:        "EL2NSYNC",
	EL3HLT:          "EL3HLT",
	EL3RST:          "EL3RST",
	ELNRNG:          "ELNRNG",
	EUNATCH:         "EUNATCH",
	ENOCSI:          "ENOCSI",
	EL2HLT:          "EL2HLT",
	EDEADLK:         "EDEADLK",
	ENOLCK:          "ENOLCK",
	EBADE:           "EBADE",
	EBADR:           "EBADR",
	EXFULL:          "EXFULL",
	ENOANO:          "ENOANO",
	EBADRQC:         "EBADRQC",
	EBADSLT:         "EBADSLT",
	EBFONT:          "EBFONT",
	ENOSTR:          "ENOSTR",
	ENODATA:         "ENODATA",
	ETIME:           "ETIME",
	ENOSR:           "ENOSR",
	ENONET:          "ENONET",
	ENOPKG:          "ENOPKG",
	EREMOTE:         "EREMOTE",
	ENOLINK:         "ENOLINK",
	EADV:            "EADV",
	ESRMNT:          "ESRMNT",
	ECOMM:           "ECOMM",
	EPROTO:          "EPROTO",
	EMULTIHOP:       "EMULTIHOP",
	EDOTDOT:         "EDOTDOT",
	EBADMSG:         "EBADMSG",
	ENOTUNIQ:        "ENOTUNIQ",
	EBADFD:          "EBADFD",
	EREMCHG:         "EREMCHG",
	ELIBACC:         "ELIBACC",
	ELIBBAD:         "ELIBBAD",
	ELIBSCN:         "ELIBSCN",
	ELIBMAX:         "ELIBMAX",
	ELIBEXEC:        "ELIBEXEC",
	ENOSYS:          "ENOSYS",
	ENOTEMPTY:       "ENOTEMPTY",
	ENAMETOOLONG:    "ENAMETOOLONG",
	ELOOP:           "ELOOP",
	EOPNOTSUPP:      "EOPNOTSUPP",
	EPFNOSUPPORT:    "EPFNOSUPPORT",
	ECONNRESET:      "ECONNRESET",
	ENOBUFS:         "ENOBUFS",
	EAFNOSUPPORT:    "EAFNOSUPPORT",
	EPROTOTYPE:      "EPROTOTYPE",
	ENOTSOCK:        "ENOTSOCK",
	ENOPROTOOPT:     "ENOPROTOOPT",
	ESHUTDOWN:       "ESHUTDOWN",
	ECONNREFUSED:    "ECONNREFUSED",
	EADDRINUSE:      "EADDRINUSE",
	ECONNABORTED:    "ECONNABORTED",
	ENETUNREACH:     "ENETUNREACH",
	ENETDOWN:        "ENETDOWN",
	ETIMEDOUT:       "ETIMEDOUT",
	EHOSTDOWN:       "EHOSTDOWN",
	EHOSTUNREACH:    "EHOSTUNREACH",
	EINPROGRESS:     "EINPROGRESS",
	EALREADY:        "EALREADY",
	EDESTADDRREQ:    "EDESTADDRREQ",
	EMSGSIZE:        "EMSGSIZE",
	EPROTONOSUPPORT: "EPROTONOSUPPORT",
	ESOCKTNOSUPPORT: "ESOCKTNOSUPPORT",
	EADDRNOTAVAIL:   "EADDRNOTAVAIL",
	ENETRESET:       "ENETRESET",
	EISCONN:         "EISCONN",
	ENOTCONN:        "ENOTCONN",
	ETOOMANYREFS:    "ETOOMANYREFS",
	EUSERS:          "EUSERS",
	EDQUOT:          "EDQUOT",
	ESTALE:          "ESTALE",
	ENOMEDIUM:       "ENOMEDIUM",
	EILSEQ:          "EILSEQ",
	EOVERFLOW:       "EOVERFLOW",
	ECANCELED:       "ECANCELED",
	ENOTRECOVERABLE: "ENOTRECOVERABLE",
	EOWNERDEAD:      "EOWNERDEAD",
	ESTRPIPE:        "ESTRPIPE",
}

// Lookup returns the Errno for a symbolic name such as "ENOENT".
func Lookup(name string) (Errno, bool) {
	e, ok := names[name]
	return e, ok
}

// Names returns every symbolic name in the table, aliases included.
func Names() []string {
	out := make([]string, 0, len(names))
	for n := range names {
		out = append(out, n)
	}
	return out
}

// Name returns the primary symbolic name, or "" for numbers outside the table.
func (e Errno) Name() string {
	return canonical[e]
}

func (e Errno) Error() string {
	if n, ok := canonical[e]; ok {
		return n
	}
	return fmt.Sprintf("errno %d", uint16(e))
}

// Is lets errors.Is match an Errno against the io/fs sentinel errors.
func (e Errno) Is(target error) bool {
	switch target {
	case fs.ErrNotExist:
		return e == ENOENT
	case fs.ErrExist:
		return e == EEXIST || e == ENOTEMPTY
	case fs.ErrPermission:
		return e == EACCES || e == EPERM
	case fs.ErrClosed:
		return e == EBADF
	case fs.ErrInvalid:
		return e == EINVAL
	}
	return false
}

// From extracts the Errno carried anywhere in err's chain.
func From(err error) (Errno, bool) {
	var e Errno
	if errors.As(err, &e) {
		return e, true
	}
	return 0, false
}
