// Package errors provides centralized error definitions and error handling utilities
// for finishcopy. It defines domain-specific errors, semantic error types,
// error constructors with context wrapping, and error classification helpers.
//
// # Error Types
//
// Domain-specific errors represent errors from specific subsystems:
//   - ModelError: a model accessor operation failed
//   - PlacementError: one group instance could not be placed on a level
//   - ReplicationError: the aggregate of every PlacementError of one replication
//
// Semantic errors represent common error conditions:
//   - NotFoundError: a stale or invalid element identifier
//   - NameConflictError: another entity of the same kind already holds a name
//   - SelectionError: a selection step resolved to no walls
//   - ValidationError: invalid input or state
//   - CancelledError: the user aborted the run (not a failure)
//
// # Usage
//
// Creating errors:
//
//	err := errors.NewNotFoundError("wall", "42")
//	err := errors.NewNameConflictError("group type", "Plaster L1")
//	err := errors.NewModelError("dissolve group", cause).WithElementID(7)
//
// Checking errors:
//
//	if errors.Is(err, errors.ErrNotFound) { ... }
//
//	var conflict *errors.NameConflictError
//	if errors.As(err, &conflict) { ... }
//
//	if errors.IsCancelled(err) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

var (
	// ErrNotFound indicates a stale or invalid element identifier.
	ErrNotFound = New("element not found")
	// ErrNameConflict indicates a duplicate name on creation or rename.
	ErrNameConflict = New("name already in use")
	// ErrEmptySelection indicates that no walls resolved from a selection step.
	ErrEmptySelection = New("selection is empty")
	// ErrCancelled indicates that the user aborted the run.
	ErrCancelled = New("operation cancelled")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
	// ErrPlacementFailed indicates that a group instance could not be placed.
	ErrPlacementFailed = New("group placement failed")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// FinishError is the base interface for all finishcopy errors.
type FinishError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

type baseError struct {
	message    string
	cause      error
	severity   Severity
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// ModelError represents a failed model accessor operation.
//
// Example:
//
//	err := errors.NewModelError("dissolve group", cause).WithElementID(7)
//	fmt.Println(err) // "model error [op=dissolve group, element=7]: ..."
type ModelError struct {
	baseError
	Operation string
	ElementID int64
	hasID     bool
}

// NewModelError creates a new ModelError for the named operation.
func NewModelError(operation string, cause error) *ModelError {
	return &ModelError{
		baseError: baseError{
			message:    operation + " failed",
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
		Operation: operation,
	}
}

// WithElementID adds the element the operation was applied to.
func (e *ModelError) WithElementID(id int64) *ModelError {
	e.ElementID = id
	e.hasID = true
	return e
}

// Error returns the formatted error message.
func (e *ModelError) Error() string {
	parts := []string{fmt.Sprintf("op=%s", e.Operation)}
	if e.hasID {
		parts = append(parts, fmt.Sprintf("element=%d", e.ElementID))
	}
	prefix := fmt.Sprintf("model error [%s]", strings.Join(parts, ", "))
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", prefix, e.cause)
	}
	return prefix
}

// Is checks if this error matches the target.
func (e *ModelError) Is(target error) bool {
	if _, ok := target.(*ModelError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// PlacementError records one level on which a group instance could not be placed.
type PlacementError struct {
	baseError
	LevelID   int64
	LevelName string
}

// NewPlacementError creates a new PlacementError for a target level.
func NewPlacementError(levelID int64, levelName string, cause error) *PlacementError {
	return &PlacementError{
		baseError: baseError{
			message:    "placement failed",
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
		LevelID:   levelID,
		LevelName: levelName,
	}
}

// Error returns the formatted error message.
func (e *PlacementError) Error() string {
	level := e.LevelName
	if level == "" {
		level = fmt.Sprintf("#%d", e.LevelID)
	}
	if e.cause != nil {
		return fmt.Sprintf("placement on level %q failed: %v", level, e.cause)
	}
	return fmt.Sprintf("placement on level %q failed", level)
}

// Is checks if this error matches the target.
func (e *PlacementError) Is(target error) bool {
	if _, ok := target.(*PlacementError); ok {
		return true
	}
	if target == ErrPlacementFailed {
		return true
	}
	return e.baseError.Is(target)
}

// ReplicationError aggregates the per-level failures of one replication.
// Placed counts the instances that were placed successfully.
type ReplicationError struct {
	Placed   int
	Failures []*PlacementError
}

// Error returns the formatted error message.
func (e *ReplicationError) Error() string {
	if len(e.Failures) == 1 {
		return fmt.Sprintf("replication incomplete (%d placed): %v", e.Placed, e.Failures[0])
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "replication incomplete (%d placed, %d failed):", e.Placed, len(e.Failures))
	for _, f := range e.Failures {
		sb.WriteString("\n  - ")
		sb.WriteString(f.Error())
	}
	return sb.String()
}

// Unwrap exposes every placement failure to errors.Is and errors.As.
func (e *ReplicationError) Unwrap() []error {
	out := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		out[i] = f
	}
	return out
}

// Severity is Warning when something was placed and Error otherwise.
func (e *ReplicationError) Severity() Severity {
	if e.Placed > 0 {
		return SeverityWarning
	}
	return SeverityError
}

// IsUserFacing reports true; every field comes from the model.
func (e *ReplicationError) IsUserFacing() bool { return true }

// Is checks if this error matches the target.
func (e *ReplicationError) Is(target error) bool {
	_, ok := target.(*ReplicationError)
	return ok
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError represents a stale or invalid identifier.
//
// Example:
//
//	err := errors.NewNotFoundError("wall", "42")
//	fmt.Println(err) // "wall '42' not found"
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s '%s' not found", resourceType, resourceID),
			severity:   SeverityError,
			userFacing: true,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// WithCause adds a cause to the error.
func (e *NotFoundError) WithCause(cause error) *NotFoundError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s '%s' not found: %v", e.ResourceType, e.ResourceID, e.cause)
	}
	return fmt.Sprintf("%s '%s' not found", e.ResourceType, e.ResourceID)
}

// Is checks if this error matches the target.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	if target == ErrNotFound {
		return true
	}
	return e.baseError.Is(target)
}

// NameConflictError represents a name already held by another entity of the same kind.
//
// Example:
//
//	err := errors.NewNameConflictError("group type", "Plaster L1")
//	fmt.Println(err) // "group type name 'Plaster L1' already in use"
type NameConflictError struct {
	baseError
	ResourceType string
	Name         string
}

// NewNameConflictError creates a new NameConflictError.
func NewNameConflictError(resourceType, name string) *NameConflictError {
	return &NameConflictError{
		baseError: baseError{
			message:    fmt.Sprintf("%s name '%s' already in use", resourceType, name),
			severity:   SeverityWarning,
			userFacing: true,
		},
		ResourceType: resourceType,
		Name:         name,
	}
}

// Error returns the formatted error message.
func (e *NameConflictError) Error() string {
	return fmt.Sprintf("%s name '%s' already in use", e.ResourceType, e.Name)
}

// Is checks if this error matches the target.
func (e *NameConflictError) Is(target error) bool {
	if _, ok := target.(*NameConflictError); ok {
		return true
	}
	if target == ErrNameConflict {
		return true
	}
	return e.baseError.Is(target)
}

// SelectionError reports a selection step that resolved to no walls.
type SelectionError struct {
	baseError
	Step string
}

// NewSelectionError creates a new SelectionError for the named step.
func NewSelectionError(step string) *SelectionError {
	return &SelectionError{
		baseError: baseError{
			message:    "no walls selected",
			severity:   SeverityWarning,
			userFacing: true,
		},
		Step: step,
	}
}

// Error returns the formatted error message.
func (e *SelectionError) Error() string {
	return fmt.Sprintf("empty selection [step=%s]: %s", e.Step, e.message)
}

// Is checks if this error matches the target.
func (e *SelectionError) Is(target error) bool {
	if _, ok := target.(*SelectionError); ok {
		return true
	}
	return target == ErrEmptySelection
}

// ValidationError represents invalid input or state.
//
// Example:
//
//	err := errors.NewValidationError("target includes the source level")
//	err = err.WithField("targetLevels").WithValue("Level 1")
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if target == ErrInvalidInput {
		return true
	}
	return e.baseError.Is(target)
}

// CancelledError reports that the user ended the run. It is a normal
// termination path, not a failure.
type CancelledError struct {
	baseError
	Reason string
}

// NewCancelledError creates a new CancelledError.
func NewCancelledError(reason string) *CancelledError {
	return &CancelledError{
		baseError: baseError{
			message:    "cancelled",
			severity:   SeverityInfo,
			userFacing: true,
		},
		Reason: reason,
	}
}

// Error returns the formatted error message.
func (e *CancelledError) Error() string {
	if e.Reason == "" {
		return "operation cancelled"
	}
	return fmt.Sprintf("operation cancelled: %s", e.Reason)
}

// Is checks if this error matches the target.
func (e *CancelledError) Is(target error) bool {
	if _, ok := target.(*CancelledError); ok {
		return true
	}
	return target == ErrCancelled
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsCancelled reports whether err ends the run without failing it.
func IsCancelled(err error) bool {
	return err != nil && Is(err, ErrCancelled)
}

// IsUserFacing returns true if the error message is safe to display to end users.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var finishErr FinishError
	if As(err, &finishErr) {
		return finishErr.IsUserFacing()
	}

	var replication *ReplicationError
	return As(err, &replication)
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't carry one.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var replication *ReplicationError
	if As(err, &replication) {
		return replication.Severity()
	}

	var finishErr FinishError
	if As(err, &finishErr) {
		return finishErr.Severity()
	}

	return SeverityError
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
