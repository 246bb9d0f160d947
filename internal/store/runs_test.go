package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dfarias/sprinter/internal/domain"
	"github.com/dfarias/sprinter/internal/report"
)

func testStore(t *testing.T) *RunStore {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRunStore(db)
}

func sampleReport(runID string, generatedAt time.Time) *report.Report {
	return &report.Report{
		RunID:       runID,
		GeneratedAt: generatedAt,
		Sprint: report.SprintMeta{
			Name: "Sprint 7", Start: "2024-03-18", End: "2024-03-29",
		},
		Placements: []report.PlacementRecord{
			{
				TaskID: "T1", Title: "[BE] api", Executor: "a@x",
				Start: report.SlotRef{Date: "2024-03-18", Period: "morning"},
				End:   report.SlotRef{Date: "2024-03-18", Period: "afternoon"},
				Hours: 6,
			},
		},
		Stories: []report.StoryRecord{
			{
				StoryID: "US1", Title: "Checkout", Owner: "a@x",
				Start:  report.SlotRef{Date: "2024-03-18", Period: "morning"},
				End:    report.SlotRef{Date: "2024-03-18", Period: "afternoon"},
				Points: 2, Hours: 6,
			},
		},
		Rejections: []report.RejectionGroup{
			{Reason: domain.RejectNoExecutor, TaskIDs: []string{"T2", "T3"}},
		},
	}
}

func TestSaveAndGetRun(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	want := sampleReport("run-1", time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC))
	require.NoError(t, s.SaveRun(ctx, want))

	got, err := s.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestGetRunNotFound(t *testing.T) {
	s := testStore(t)

	_, err := s.GetRun(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestListRunsMostRecentFirst(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	older := sampleReport("run-old", time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC))
	newer := sampleReport("run-new", time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC))
	require.NoError(t, s.SaveRun(ctx, older))
	require.NoError(t, s.SaveRun(ctx, newer))

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-new", runs[0].ID)
	assert.Equal(t, "run-old", runs[1].ID)
	assert.Equal(t, 1, runs[0].Placed)
	assert.Equal(t, 2, runs[0].Rejected)
	assert.Equal(t, "Sprint 7", runs[0].SprintName)

	limited, err := s.ListRuns(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "run-new", limited[0].ID)
}

func TestSaveRunDuplicateIDFails(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	r := sampleReport("run-1", time.Now().UTC().Truncate(time.Second))
	require.NoError(t, s.SaveRun(ctx, r))
	assert.Error(t, s.SaveRun(ctx, r))
}
