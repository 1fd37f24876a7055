package jsonapi

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for encode failures.
var (
	// ErrMissingRequiredInput is returned when a required declarative input,
	// such as the entity declarations, is absent or empty.
	ErrMissingRequiredInput = errors.New("jsonapi: missing required input")

	// ErrUnknownEntity is returned when an entity name cannot be mapped to a
	// record type.
	ErrUnknownEntity = errors.New("jsonapi: unknown entity")

	// ErrSchemaNotFound is returned when a record of an undeclared type is
	// reached while encoding.
	ErrSchemaNotFound = errors.New("jsonapi: schema not found")

	// ErrInvalidRecord is returned when a schema cannot read a record.
	ErrInvalidRecord = errors.New("jsonapi: invalid record")
)

// MissingRequiredInputError represents a required input that is not set or is empty.
type MissingRequiredInputError struct {
	Input string
}

// Error returns the error string.
func (e *MissingRequiredInputError) Error() string {
	return fmt.Sprintf("jsonapi: required input %q is not set or is empty", e.Input)
}

// Is reports whether the target error matches MissingRequiredInputError.
func (e *MissingRequiredInputError) Is(err error) bool {
	return err == ErrMissingRequiredInput
}

// NewMissingRequiredInputError returns a new MissingRequiredInputError.
func NewMissingRequiredInputError(input string) *MissingRequiredInputError {
	return &MissingRequiredInputError{Input: input}
}

// IsMissingRequiredInput returns true if the error is a MissingRequiredInputError.
func IsMissingRequiredInput(err error) bool {
	if err == nil {
		return false
	}
	var e *MissingRequiredInputError
	return errors.As(err, &e) || errors.Is(err, ErrMissingRequiredInput)
}

// UnknownEntityError represents an entity name with no registered record type.
type UnknownEntityError struct {
	name string
}

// Error returns the error string.
func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("jsonapi: unknown entity %q", e.name)
}

// Is reports whether the target error matches UnknownEntityError.
func (e *UnknownEntityError) Is(err error) bool {
	return err == ErrUnknownEntity
}

// Name returns the entity name that could not be resolved.
func (e *UnknownEntityError) Name() string {
	return e.name
}

// NewUnknownEntityError returns a new UnknownEntityError.
func NewUnknownEntityError(name string) *UnknownEntityError {
	return &UnknownEntityError{name: name}
}

// IsUnknownEntity returns true if the error is an UnknownEntityError or
// a MissingEntityTypeError.
func IsUnknownEntity(err error) bool {
	if err == nil {
		return false
	}
	var e *UnknownEntityError
	return errors.As(err, &e) || errors.Is(err, ErrUnknownEntity)
}

// MissingEntityTypeError is returned when a declared entity cannot be mapped
// to any record type. It wraps the underlying UnknownEntityError.
type MissingEntityTypeError struct {
	Entity string // Declared entity name
	Err    error  // Underlying resolution error
}

// Error returns the error string.
func (e *MissingEntityTypeError) Error() string {
	return fmt.Sprintf("jsonapi: entity type for %q is missing: %v", e.Entity, e.Err)
}

// Unwrap returns the underlying error.
func (e *MissingEntityTypeError) Unwrap() error {
	return e.Err
}

// NewMissingEntityTypeError returns a new MissingEntityTypeError.
func NewMissingEntityTypeError(entity string, err error) *MissingEntityTypeError {
	return &MissingEntityTypeError{Entity: entity, Err: err}
}

// IsMissingEntityType returns true if the error is a MissingEntityTypeError.
func IsMissingEntityType(err error) bool {
	if err == nil {
		return false
	}
	var e *MissingEntityTypeError
	return errors.As(err, &e)
}

// SchemaNotFoundError represents a record whose type has no schema.
type SchemaNotFoundError struct {
	Type string // Go type of the record
}

// Error returns the error string.
func (e *SchemaNotFoundError) Error() string {
	return fmt.Sprintf("jsonapi: no schema registered for records of type %s", e.Type)
}

// Is reports whether the target error matches SchemaNotFoundError.
func (e *SchemaNotFoundError) Is(err error) bool {
	return err == ErrSchemaNotFound
}

// IsSchemaNotFound returns true if the error is a SchemaNotFoundError.
func IsSchemaNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *SchemaNotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrSchemaNotFound)
}

// RecordError wraps a failure to read a record with context.
type RecordError struct {
	ResourceType string // Resource type being rendered
	Op           string // Operation (e.g., "id", "attributes", "relationships")
	Err          error  // Underlying error
}

// Error returns the error string.
func (e *RecordError) Error() string {
	return fmt.Sprintf("jsonapi: reading %s of %s: %v", e.Op, e.ResourceType, e.Err)
}

// Unwrap returns the underlying error.
func (e *RecordError) Unwrap() error {
	return e.Err
}

// Is reports whether the target error matches RecordError.
func (e *RecordError) Is(err error) bool {
	return err == ErrInvalidRecord
}

// NewRecordError returns a new RecordError.
func NewRecordError(resourceType, op string, err error) *RecordError {
	return &RecordError{ResourceType: resourceType, Op: op, Err: err}
}

// IsRecordError returns true if the error is a RecordError.
func IsRecordError(err error) bool {
	if err == nil {
		return false
	}
	var e *RecordError
	return errors.As(err, &e)
}
