package finishing

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Iron-Ham/finishcopy/internal/errors"
	"github.com/Iron-Ham/finishcopy/internal/logging"
	"github.com/Iron-Ham/finishcopy/internal/model"
	"github.com/Iron-Ham/finishcopy/internal/testutil"
)

func TestWorkflow_FromLevel(t *testing.T) {
	b := conflictBuilding(t)
	resolver := &fixedResolver{answer: ResolutionSkip}
	wf := NewWorkflow(b.Store, resolver, nil, Options{RevalidateSource: true})

	req := NewLevelRequest(b.ID("Level 1"), b.IDs("Plaster"), b.IDs("Level 2", "Level 3"), "Plaster finish")
	report, err := wf.Run(req)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if report.Outcome != OutcomeCompleted || !report.NewGroup {
		t.Errorf("report = %+v", report)
	}
	if report.GroupTypeName != "Plaster finish" {
		t.Errorf("GroupTypeName = %q", report.GroupTypeName)
	}
	if report.Resolution == nil || *report.Resolution != ResolutionSkip {
		t.Errorf("Resolution = %v, want skip", report.Resolution)
	}
	if len(report.Conflicts) != 1 || report.Conflicts[0].WallName != "W2" {
		t.Errorf("Conflicts = %+v", report.Conflicts)
	}
	if len(report.Placed) != 2 {
		t.Fatalf("Placed = %+v, want 2 copies", report.Placed)
	}
	if got := b.Store.LastTransaction(); got != TransactionName {
		t.Errorf("LastTransaction() = %q, want %q", got, TransactionName)
	}

	gt, err := b.Store.GroupType(report.GroupTypeID)
	if err != nil {
		t.Fatalf("GroupType failed: %v", err)
	}
	if diff := cmp.Diff(b.IDs("W1", "W3"), membersOf(t, b.Store, gt)); diff != "" {
		t.Errorf("members mismatch (-want +got):\n%s", diff)
	}
	if len(gt.Instances) != 3 {
		t.Errorf("Instances = %v, want source plus two copies", gt.Instances)
	}
}

func TestWorkflow_ReuseGroup(t *testing.T) {
	b := testutil.Tower(t)
	b.Wall("W1", "Level 1", "Plaster", model.Point{X: 5, Y: 5})
	g := b.Group("Lobby", "W1")
	resolver := &fixedResolver{answer: ResolutionAbort}
	wf := NewWorkflow(b.Store, resolver, nil, Options{RevalidateSource: true})

	report, err := wf.Run(NewReuseRequest(g.TypeID, b.IDs("Level 3")))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.NewGroup || report.GroupTypeID != g.TypeID {
		t.Errorf("report = %+v", report)
	}
	if resolver.calls != 0 {
		t.Error("the reuse path must not consult the resolver")
	}
	if len(report.Placed) != 1 || report.Placed[0].Origin.Z != 20 {
		t.Errorf("Placed = %+v", report.Placed)
	}
}

func TestWorkflow_ReuseRevalidation(t *testing.T) {
	b := testutil.Tower(t)
	b.Wall("W1", "Level 1", "Plaster", model.Point{})
	b.Other("Door", "Level 1")
	mixed := b.Group("Mixed", "W1", "Door")
	before := b.Store.Snapshot()

	wf := NewWorkflow(b.Store, &fixedResolver{}, nil, Options{RevalidateSource: true})
	_, err := wf.Run(NewReuseRequest(mixed.TypeID, b.IDs("Level 2")))
	if !errors.Is(err, errors.ErrInvalidInput) {
		t.Fatalf("error = %v, want validation error", err)
	}
	if diff := cmp.Diff(before, b.Store.Snapshot()); diff != "" {
		t.Errorf("model changed (-before +after):\n%s", diff)
	}

	// Without revalidation the copy goes ahead.
	wf = NewWorkflow(b.Store, &fixedResolver{}, nil, Options{})
	if _, err := wf.Run(NewReuseRequest(mixed.TypeID, b.IDs("Level 2"))); err != nil {
		t.Errorf("Run without revalidation failed: %v", err)
	}
}

func TestWorkflow_AbortIsCancelled(t *testing.T) {
	b := conflictBuilding(t)
	before := b.Store.Snapshot()
	wf := NewWorkflow(b.Store, &fixedResolver{answer: ResolutionAbort}, nil, Options{})

	report, err := wf.Run(NewLevelRequest(b.ID("Level 1"), b.IDs("Plaster"), b.IDs("Level 2"), "Finish"))
	if err != nil {
		t.Fatalf("Run() error = %v, want nil for a cancelled run", err)
	}
	if report.Outcome != OutcomeCancelled {
		t.Errorf("Outcome = %v, want cancelled", report.Outcome)
	}
	if len(report.Conflicts) != 1 {
		t.Errorf("Conflicts = %+v, want the one W2 conflict", report.Conflicts)
	}
	if diff := cmp.Diff(before, b.Store.Snapshot()); diff != "" {
		t.Errorf("model changed (-before +after):\n%s", diff)
	}
}

func TestWorkflow_PartialReplication(t *testing.T) {
	setup := func(t *testing.T) (*testutil.Building, *failingTransactor, SelectionRequest) {
		b := testutil.Tower(t)
		b.Wall("W1", "Level 1", "Plaster", model.Point{})
		tx := &failingTransactor{store: b.Store, failAtZ: map[float64]bool{20: true}}
		req := NewLevelRequest(b.ID("Level 1"), b.IDs("Plaster"), b.IDs("Level 2", "Level 3"), "Finish")
		return b, tx, req
	}

	t.Run("rolls back by default", func(t *testing.T) {
		b, tx, req := setup(t)
		before := b.Store.Snapshot()

		_, err := NewWorkflow(tx, &fixedResolver{}, nil, Options{}).Run(req)
		var repErr *errors.ReplicationError
		if !errors.As(err, &repErr) {
			t.Fatalf("error = %v, want *ReplicationError", err)
		}
		if diff := cmp.Diff(before, b.Store.Snapshot()); diff != "" {
			t.Errorf("model changed (-before +after):\n%s", diff)
		}
	})

	t.Run("logs a rolled back partial run as a warning", func(t *testing.T) {
		_, tx, req := setup(t)
		dir := t.TempDir()
		logger, err := logging.New(logging.Options{Dir: dir, Level: logging.LevelInfo, Rotation: logging.DefaultRotationConfig()})
		if err != nil {
			t.Fatalf("New logger failed: %v", err)
		}

		if _, err := NewWorkflow(tx, &fixedResolver{}, logger, Options{}).Run(req); err == nil {
			t.Fatal("Run succeeded, want a replication error")
		}
		if err := logger.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}

		entries, err := logging.ReadLog(dir)
		if err != nil {
			t.Fatalf("ReadLog failed: %v", err)
		}
		var levels []string
		for _, e := range entries {
			if e.Message == "run failed" {
				levels = append(levels, e.Level)
			}
		}
		if diff := cmp.Diff([]string{logging.LevelWarn}, levels); diff != "" {
			t.Errorf("run failed levels mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("commits when allowed", func(t *testing.T) {
		b, tx, req := setup(t)

		report, err := NewWorkflow(tx, &fixedResolver{}, nil, Options{AllowPartial: true}).Run(req)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if report.Outcome != OutcomePartial {
			t.Errorf("Outcome = %v, want partial", report.Outcome)
		}
		if len(report.Placed) != 1 || len(report.Failures) != 1 {
			t.Errorf("Placed = %d, Failures = %d", len(report.Placed), len(report.Failures))
		}
		if report.Failures[0].LevelName != "Level 3" {
			t.Errorf("failed level = %q", report.Failures[0].LevelName)
		}
		gt, err := b.Store.GroupType(report.GroupTypeID)
		if err != nil {
			t.Fatalf("new group type not committed: %v", err)
		}
		if len(gt.Instances) != 2 {
			t.Errorf("Instances = %v, want source plus one copy", gt.Instances)
		}
	})
}

func TestWorkflow_NothingPlacedIsFailure(t *testing.T) {
	b := testutil.Tower(t)
	b.Wall("W1", "Level 1", "Plaster", model.Point{})
	tx := &failingTransactor{store: b.Store, failAtZ: map[float64]bool{10: true}}
	req := NewLevelRequest(b.ID("Level 1"), b.IDs("Plaster"), b.IDs("Level 2"), "Finish")

	_, err := NewWorkflow(tx, &fixedResolver{}, nil, Options{AllowPartial: true}).Run(req)
	if !errors.Is(err, errors.ErrPlacementFailed) {
		t.Fatalf("error = %v, want placement failure", err)
	}
	if n := groupTypeCount(t, b.Store); n != 0 {
		t.Errorf("%d group types committed, want none", n)
	}
}

func TestWorkflow_Errors(t *testing.T) {
	b := conflictBuilding(t)
	before := b.Store.Snapshot()
	wf := NewWorkflow(b.Store, &fixedResolver{answer: ResolutionDissolve}, nil, Options{})

	tests := []struct {
		name    string
		req     SelectionRequest
		wantErr error
	}{
		{
			name:    "name already used",
			req:     NewLevelRequest(b.ID("Level 1"), b.IDs("Plaster"), b.IDs("Level 2"), "G7"),
			wantErr: errors.ErrNameConflict,
		},
		{
			name:    "no walls of the chosen type",
			req:     NewLevelRequest(b.ID("Level 3"), b.IDs("Plaster"), b.IDs("Level 2"), "Finish"),
			wantErr: errors.ErrEmptySelection,
		},
		{
			name:    "stale source level",
			req:     NewLevelRequest(999, b.IDs("Plaster"), b.IDs("Level 2"), "Finish"),
			wantErr: errors.ErrNotFound,
		},
		{
			name:    "same level target",
			req:     NewLevelRequest(b.ID("Level 1"), b.IDs("Plaster"), b.IDs("Level 1"), "Finish"),
			wantErr: errors.ErrInvalidInput,
		},
		{
			name:    "stale group",
			req:     NewReuseRequest(999, b.IDs("Level 2")),
			wantErr: errors.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := wf.Run(tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Run() error = %v, want %v", err, tt.wantErr)
			}
			if report != nil {
				t.Errorf("report = %+v, want nil on failure", report)
			}
			if diff := cmp.Diff(before, b.Store.Snapshot()); diff != "" {
				t.Errorf("model changed (-before +after):\n%s", diff)
			}
		})
	}
}
