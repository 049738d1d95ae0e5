package stylesheet

import "fmt"

// DecodeError reports a malformed stylesheet.
type DecodeError struct {
	Path    string // file path, empty for in-memory documents
	Field   string // dotted location inside the document
	Message string
	Err     error
}

func (e *DecodeError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
