package formpdf

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	// KindTemplateInvalid means the template could not be read or has no first page.
	KindTemplateInvalid ErrorKind = iota + 1
	// KindInvalidSignature means the client sent a signature that is not a decodable image.
	KindInvalidSignature
	// KindOutput means the filled document could not be produced.
	KindOutput
)

func (k ErrorKind) String() string {
	switch k {
	case KindTemplateInvalid:
		return "template invalid"
	case KindInvalidSignature:
		return "invalid signature"
	case KindOutput:
		return "output failed"
	default:
		return "unknown"
	}
}

type RenderError struct {
	Kind ErrorKind
	Err  error
}

func (e *RenderError) Error() string {
	if e.Err == nil {
		return "render form: " + e.Kind.String()
	}
	return fmt.Sprintf("render form: %s: %v", e.Kind, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a RenderError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var re *RenderError
	return errors.As(err, &re) && re.Kind == kind
}
