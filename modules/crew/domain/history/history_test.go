package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func datePtr(s string) *time.Time {
	d := date(s)
	return &d
}

func TestReconstruct_SingleOpenAssignment(t *testing.T) {
	intervals, warnings := Reconstruct([]Event{
		{ID: "e1", Kind: KindAssign, ToResource: "ShipA", OccurredAt: date("2024-01-01"), PerformedBy: "ops"},
	})

	require.Empty(t, warnings)
	require.Len(t, intervals, 1)
	assert.Equal(t, "ShipA", intervals[0].Resource)
	assert.Equal(t, date("2024-01-01"), *intervals[0].AssignedFrom)
	assert.Equal(t, "ops", intervals[0].AssignedBy)
	assert.True(t, intervals[0].Open())
}

func TestReconstruct_AssignReleaseAnyInputOrder(t *testing.T) {
	// release listed first; the sort must pair it with the assign
	intervals, warnings := Reconstruct([]Event{
		{ID: "e2", Kind: KindRelease, FromResource: "ShipA", OccurredAt: date("2024-03-01"), PerformedBy: "master"},
		{ID: "e1", Kind: KindAssign, ToResource: "ShipA", OccurredAt: date("2024-01-01"), PerformedBy: "ops"},
	})

	require.Empty(t, warnings)
	require.Len(t, intervals, 1)
	assert.Equal(t, date("2024-01-01"), *intervals[0].AssignedFrom)
	assert.Equal(t, date("2024-03-01"), *intervals[0].ReleasedAt)
	assert.Equal(t, "master", intervals[0].ReleasedBy)
	assert.Equal(t, KindRelease, intervals[0].SourceKind)
}

func TestReconstruct_Reassign(t *testing.T) {
	intervals, warnings := Reconstruct([]Event{
		{ID: "e1", Kind: KindAssign, ToResource: "ShipA", OccurredAt: date("2024-01-01")},
		{ID: "e2", Kind: KindReassign, FromResource: "ShipA", ToResource: "ShipB", OccurredAt: date("2024-06-01"), PerformedBy: "ops"},
	})

	require.Empty(t, warnings)
	require.Len(t, intervals, 2)

	// output is AssignedFrom descending: ShipB first
	assert.Equal(t, "ShipB", intervals[0].Resource)
	assert.Equal(t, date("2024-06-01"), *intervals[0].AssignedFrom)
	assert.True(t, intervals[0].Open())
	assert.Equal(t, KindReassign, intervals[0].SourceKind)

	assert.Equal(t, "ShipA", intervals[1].Resource)
	assert.Equal(t, date("2024-06-01"), *intervals[1].ReleasedAt)
	assert.Equal(t, "ops", intervals[1].ReleasedBy)
}

func TestReconstruct_ReassignWithoutOpenMatchOnlyAdds(t *testing.T) {
	intervals, warnings := Reconstruct([]Event{
		{ID: "e1", Kind: KindReassign, FromResource: "ShipA", ToResource: "ShipB", OccurredAt: date("2024-06-01")},
	})

	require.Len(t, warnings, 1)
	require.Len(t, intervals, 1)
	assert.Equal(t, "ShipB", intervals[0].Resource)
	assert.True(t, intervals[0].Open())
}

func TestReconstruct_OrphanRelease(t *testing.T) {
	intervals, warnings := Reconstruct([]Event{
		{ID: "e1", Kind: KindRelease, FromResource: "ShipC", OccurredAt: date("2024-02-01"), PerformedBy: "agent"},
	})

	require.Len(t, warnings, 1)
	require.Len(t, intervals, 1)
	assert.Equal(t, "ShipC", intervals[0].Resource)
	assert.Nil(t, intervals[0].AssignedFrom)
	assert.Equal(t, date("2024-02-01"), *intervals[0].ReleasedAt)
	assert.Equal(t, "agent", intervals[0].ReleasedBy)
}

func TestReconstruct_RepeatAttachmentStaysDistinct(t *testing.T) {
	intervals, _ := Reconstruct([]Event{
		{ID: "e1", Kind: KindAssign, ToResource: "ShipA", OccurredAt: date("2024-01-01")},
		{ID: "e2", Kind: KindRelease, FromResource: "ShipA", OccurredAt: date("2024-02-01")},
		{ID: "e3", Kind: KindAssign, ToResource: "ShipA", OccurredAt: date("2024-05-01")},
	})

	require.Len(t, intervals, 2)
	assert.Equal(t, date("2024-05-01"), *intervals[0].AssignedFrom)
	assert.True(t, intervals[0].Open())
	assert.Equal(t, date("2024-01-01"), *intervals[1].AssignedFrom)
	assert.False(t, intervals[1].Open())
}

func TestReconstruct_DoubleAssignClosesMostRecentlyOpened(t *testing.T) {
	// two open intervals on the same ship is a data anomaly; the release must
	// close the later one and warn
	intervals, warnings := Reconstruct([]Event{
		{ID: "e1", Kind: KindAssign, ToResource: "ShipA", OccurredAt: date("2024-01-01")},
		{ID: "e2", Kind: KindAssign, ToResource: "ShipA", OccurredAt: date("2024-02-01")},
		{ID: "e3", Kind: KindRelease, FromResource: "ShipA", OccurredAt: date("2024-03-01")},
	})

	require.Len(t, intervals, 2)
	require.NotEmpty(t, warnings)

	byStart := map[string]Interval{}
	for _, iv := range intervals {
		byStart[iv.AssignedFrom.Format("2006-01-02")] = iv
	}
	assert.True(t, byStart["2024-01-01"].Open(), "earlier interval stays open")
	assert.False(t, byStart["2024-02-01"].Open(), "most recently opened interval is closed")
}

func TestReconstruct_TimestampTieBrokenBySequence(t *testing.T) {
	ts := date("2024-04-01")
	intervals, warnings := Reconstruct([]Event{
		{ID: "e2", Kind: KindRelease, FromResource: "ShipA", OccurredAt: ts, Sequence: 2},
		{ID: "e1", Kind: KindAssign, ToResource: "ShipA", OccurredAt: ts, Sequence: 1},
	})

	require.Empty(t, warnings)
	require.Len(t, intervals, 1)
	assert.False(t, intervals[0].Open())
}

func TestReconstruct_ExplicitOverridesPreferred(t *testing.T) {
	intervals, _ := Reconstruct([]Event{
		{
			ID:           "e1",
			Kind:         KindAssign,
			ToResource:   "ShipA",
			OccurredAt:   date("2024-03-15"),
			PerformedBy:  "ops",
			AssignStart:  datePtr("2024-03-01"),
			AssignEnd:    datePtr("2024-09-01"),
			AssignActor:  "crewing-manager",
			ReleaseActor: "crewing-manager",
		},
	})

	require.Len(t, intervals, 1)
	assert.Equal(t, date("2024-03-01"), *intervals[0].AssignedFrom)
	assert.Equal(t, "crewing-manager", intervals[0].AssignedBy)
	assert.Equal(t, date("2024-09-01"), *intervals[0].ReleasedAt)
	assert.Equal(t, "crewing-manager", intervals[0].ReleasedBy)
}

func TestReconstruct_MalformedEventsSkippedWithWarning(t *testing.T) {
	intervals, warnings := Reconstruct([]Event{
		{ID: "e1", Kind: KindAssign, ToResource: "ShipA", OccurredAt: date("2024-01-01")},
		{ID: "bad1", Kind: "TRANSFER", OccurredAt: date("2024-01-02")},
		{ID: "bad2", Kind: KindAssign, OccurredAt: date("2024-01-03")},
		{ID: "bad3", Kind: KindReassign, ToResource: "ShipB", OccurredAt: date("2024-01-04")},
	})

	require.Len(t, intervals, 1)
	require.Len(t, warnings, 3)
	for _, w := range warnings {
		assert.Contains(t, w.Message, "skipped")
	}
}

func TestReconstruct_Idempotent(t *testing.T) {
	events := []Event{
		{ID: "e1", Kind: KindAssign, ToResource: "ShipA", OccurredAt: date("2024-01-01")},
		{ID: "e2", Kind: KindReassign, FromResource: "ShipA", ToResource: "ShipB", OccurredAt: date("2024-06-01")},
		{ID: "e3", Kind: KindRelease, FromResource: "ShipB", OccurredAt: date("2024-08-01")},
	}

	first, firstWarnings := Reconstruct(events)
	second, secondWarnings := Reconstruct(events)
	assert.Equal(t, first, second)
	assert.Equal(t, firstWarnings, secondWarnings)
}

func TestReconstruct_OrdersDescendingWithUnknownStartsLast(t *testing.T) {
	intervals, _ := Reconstruct([]Event{
		{ID: "e1", Kind: KindAssign, ToResource: "ShipA", OccurredAt: date("2024-01-01")},
		{ID: "e2", Kind: KindRelease, FromResource: "ShipX", OccurredAt: date("2024-05-01")},
		{ID: "e3", Kind: KindAssign, ToResource: "ShipB", OccurredAt: date("2024-04-01")},
	})

	require.Len(t, intervals, 3)
	assert.Equal(t, "ShipB", intervals[0].Resource)
	assert.Equal(t, "ShipA", intervals[1].Resource)
	assert.Equal(t, "ShipX", intervals[2].Resource)
	assert.Nil(t, intervals[2].AssignedFrom)
}

func TestReconstruct_SyntheticKeyWithoutEventID(t *testing.T) {
	// no ids at all: the resource+timestamp token must keep rows distinct
	intervals, warnings := Reconstruct([]Event{
		{Kind: KindAssign, ToResource: "ShipA", OccurredAt: date("2024-01-01")},
		{Kind: KindRelease, FromResource: "ShipA", OccurredAt: date("2024-02-01")},
		{Kind: KindAssign, ToResource: "ShipA", OccurredAt: date("2024-03-01")},
	})

	require.Empty(t, warnings)
	require.Len(t, intervals, 2)
}

func TestReconstruct_EmptyLog(t *testing.T) {
	intervals, warnings := Reconstruct(nil)
	assert.Empty(t, intervals)
	assert.Empty(t, warnings)
}
