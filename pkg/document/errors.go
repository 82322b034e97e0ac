package document

import (
	"fmt"

	"gitlab.com/tozd/go/errors"
)

var (
	ErrMarkupSyntax = errors.Base("markup syntax error")
	ErrDetachedNode = errors.Base("node has no parent")
	ErrPathNotFound = errors.Base("path not found")
)

// MarkupSyntaxError reports markup that could not be parsed. Matches
// ErrMarkupSyntax with errors.Is.
type MarkupSyntaxError struct {
	Input string
	Err   error
}

func (e *MarkupSyntaxError) Error() string {
	return fmt.Sprintf("%s: %v", ErrMarkupSyntax.Error(), e.Err)
}

func (e *MarkupSyntaxError) Unwrap() error {
	return e.Err
}

func (e *MarkupSyntaxError) Is(target error) bool {
	return target == ErrMarkupSyntax
}
