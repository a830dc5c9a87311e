package writer

import (
	"errors"
	"fmt"
)

// Kinds of spreadsheet-stage failure. Match with errors.Is.
var (
	ErrSerialization = errors.New("serialization error")
	ErrIO            = errors.New("io error")
)

// SheetError reports why a spreadsheet could not be produced.
type SheetError struct {
	Kind error
	Path string
	Err  error
}

func (e *SheetError) Error() string {
	return fmt.Sprintf("%v: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *SheetError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
