package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// -----------------------------------------------------------------------------
// Severity Tests
// -----------------------------------------------------------------------------

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityDebug, "debug"},
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{SeverityCritical, "critical"},
		{Severity(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.severity.String(); got != tt.want {
				t.Errorf("Severity.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

// -----------------------------------------------------------------------------
// Semantic Error Tests
// -----------------------------------------------------------------------------

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("wall", "42")

	if got := err.Error(); got != "wall '42' not found" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("errors.Is(err, ErrNotFound) = false, want true")
	}

	wrapped := fmt.Errorf("reading group: %w", err)
	var nf *NotFoundError
	if !errors.As(wrapped, &nf) {
		t.Fatal("errors.As failed to find NotFoundError")
	}
	if nf.ResourceID != "42" {
		t.Errorf("ResourceID = %q, want %q", nf.ResourceID, "42")
	}

	withCause := NewNotFoundError("level", "3").WithCause(errors.New("stale handle"))
	if !strings.Contains(withCause.Error(), "stale handle") {
		t.Errorf("Error() = %q, want cause included", withCause.Error())
	}
}

func TestNameConflictError(t *testing.T) {
	err := NewNameConflictError("group type", "Plaster L1")

	if got := err.Error(); got != "group type name 'Plaster L1' already in use" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, ErrNameConflict) {
		t.Error("errors.Is(err, ErrNameConflict) = false, want true")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("errors.Is(err, ErrNotFound) = true, want false")
	}
	if err.Severity() != SeverityWarning {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityWarning)
	}
}

func TestSelectionError(t *testing.T) {
	err := NewSelectionError("skip conflicting walls")

	if !errors.Is(err, ErrEmptySelection) {
		t.Error("errors.Is(err, ErrEmptySelection) = false, want true")
	}
	if !strings.Contains(err.Error(), "step=skip conflicting walls") {
		t.Errorf("Error() = %q, want step included", err.Error())
	}
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{
			name: "message only",
			err:  NewValidationError("group name is empty"),
			want: "validation error: group name is empty",
		},
		{
			name: "with field and value",
			err:  NewValidationError("target is the source level").WithField("targetLevels").WithValue("Level 1"),
			want: "validation error [field=targetLevels, value=Level 1]: target is the source level",
		},
		{
			name: "with cause",
			err:  NewValidationError("bad policy").WithCause(errors.New("unknown value")),
			want: "validation error: bad policy: unknown value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			if !errors.Is(tt.err, ErrInvalidInput) {
				t.Error("errors.Is(err, ErrInvalidInput) = false, want true")
			}
		})
	}
}

func TestCancelledError(t *testing.T) {
	err := NewCancelledError("user chose abort")

	if !IsCancelled(err) {
		t.Error("IsCancelled() = false, want true")
	}
	if !IsCancelled(fmt.Errorf("building group: %w", err)) {
		t.Error("IsCancelled() on wrapped error = false, want true")
	}
	if IsCancelled(nil) {
		t.Error("IsCancelled(nil) = true, want false")
	}
	if IsCancelled(NewNotFoundError("wall", "1")) {
		t.Error("IsCancelled(NotFoundError) = true, want false")
	}
	if err.Severity() != SeverityInfo {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityInfo)
	}
	if NewCancelledError("").Error() != "operation cancelled" {
		t.Errorf("Error() = %q", NewCancelledError("").Error())
	}
}

// -----------------------------------------------------------------------------
// Domain Error Tests
// -----------------------------------------------------------------------------

func TestModelError(t *testing.T) {
	cause := NewNotFoundError("group", "7")
	err := NewModelError("dissolve group", cause).WithElementID(7)

	want := "model error [op=dissolve group, element=7]: group '7' not found"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("errors.Is(err, ErrNotFound) = false, want true")
	}

	var modelErr *ModelError
	if !errors.As(fmt.Errorf("wrap: %w", err), &modelErr) {
		t.Fatal("errors.As failed to find ModelError")
	}
	if modelErr.Operation != "dissolve group" {
		t.Errorf("Operation = %q", modelErr.Operation)
	}
}

func TestReplicationError(t *testing.T) {
	failA := NewPlacementError(2, "Level 2", errors.New("host refused"))
	failB := NewPlacementError(3, "", NewNotFoundError("level", "3"))
	err := &ReplicationError{Placed: 1, Failures: []*PlacementError{failA, failB}}

	if !errors.Is(err, ErrPlacementFailed) {
		t.Error("errors.Is(err, ErrPlacementFailed) = false, want true")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("errors.Is(err, ErrNotFound) = false, want true through failB")
	}

	var placement *PlacementError
	if !errors.As(err, &placement) {
		t.Fatal("errors.As failed to find PlacementError")
	}

	msg := err.Error()
	for _, want := range []string{"1 placed", "2 failed", `"Level 2"`, `"#3"`} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, want it to contain %q", msg, want)
		}
	}

	if GetSeverity(err) != SeverityWarning {
		t.Errorf("GetSeverity() = %v, want warning for partial success", GetSeverity(err))
	}
	none := &ReplicationError{Failures: []*PlacementError{failA}}
	if GetSeverity(none) != SeverityError {
		t.Errorf("GetSeverity() = %v, want error when nothing was placed", GetSeverity(none))
	}
}

// -----------------------------------------------------------------------------
// Classification Tests
// -----------------------------------------------------------------------------

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"not found", NewNotFoundError("wall", "1"), true},
		{"wrapped validation", Wrap(NewValidationError("bad"), "request"), true},
		{"replication", &ReplicationError{Failures: []*PlacementError{NewPlacementError(1, "L1", nil)}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetSeverity(t *testing.T) {
	if got := GetSeverity(nil); got != SeverityDebug {
		t.Errorf("GetSeverity(nil) = %v, want debug", got)
	}
	if got := GetSeverity(errors.New("plain")); got != SeverityError {
		t.Errorf("GetSeverity(plain) = %v, want error", got)
	}
	if got := GetSeverity(NewCancelledError("")); got != SeverityInfo {
		t.Errorf("GetSeverity(cancelled) = %v, want info", got)
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "ctx") != nil {
		t.Error("Wrap(nil) should be nil")
	}
	if Wrapf(nil, "ctx %d", 1) != nil {
		t.Error("Wrapf(nil) should be nil")
	}

	err := Wrapf(ErrNotFound, "level %s", "L2")
	if err.Error() != "level L2: element not found" {
		t.Errorf("Wrapf() = %q", err.Error())
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("Wrapf should preserve the chain")
	}
}
