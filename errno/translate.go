package errno

import "errors"

// coder is implemented by host errors that carry a symbolic POSIX tag.
type coder interface {
	ErrorCode() string
}

// Translate converts a host failure into the Errno the calling runtime expects.
//
// An Errno already present in err's chain is returned as is. A host error whose
// tag is in the table becomes that Errno. Anything else, including a tag the
// table does not know, is returned unmodified so unexpected host faults are not
// masked as EIO.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	if e, ok := From(err); ok {
		return e
	}
	var c coder
	if errors.As(err, &c) {
		if e, ok := Lookup(c.ErrorCode()); ok {
			return e
		}
	}
	return err
}
