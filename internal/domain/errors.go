package domain

import (
	"errors"
	"strings"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
)

// ValidationError lists the offending fields. Without a Reason the fields were
// missing or empty. It matches ErrValidation.
type ValidationError struct {
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	if e.Reason != "" {
		return "invalid " + strings.Join(e.Fields, ", ") + ": " + e.Reason
	}
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// requireFields returns a *ValidationError naming every blank field, in order.
func requireFields(fields ...field) error {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// rejectCleared names every patch field that is present but blank.
func rejectCleared(fields ...optionalField) error {
	var cleared []string
	for _, f := range fields {
		if f.value != nil && strings.TrimSpace(*f.value) == "" {
			cleared = append(cleared, f.name)
		}
	}
	if len(cleared) > 0 {
		return &ValidationError{Fields: cleared}
	}
	return nil
}

type field struct {
	name  string
	value string
}

type optionalField struct {
	name  string
	value *string
}
