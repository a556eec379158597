package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateName indicates a name is already taken within its namespace.
	ErrDuplicateName = errors.New("name has already been taken")
	// ErrInvalidReference indicates a foreign key points at a missing entity.
	ErrInvalidReference = errors.New("referenced entity does not exist")
	// ErrConflict indicates the operation is blocked by dependent entities.
	ErrConflict = errors.New("entity is in use")
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation failed")
)

// Field messages the API reports for store-decided preconditions.
const (
	MsgNameTaken       = "The name has already been taken."
	MsgInvalidCategory = "The selected category id is invalid."
)

// ValidationError carries one message per offending request field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
