package batch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unit(id, name string, data []byte) Unit {
	return Unit{ID: id, Name: name, Size: int64(len(data)), Data: data}
}

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}

func TestValidate(t *testing.T) {
	c := Constraints{
		AllowedExtensions: []string{".pdf", ".png"},
		MaxSizeBytes:      16,
	}

	valid, rejected := Validate([]Unit{
		unit("1", "scan.png", pngHeader),
		unit("2", "notes.docx", []byte("PK")),
		unit("3", "big.png", make([]byte, 32)),
		unit("4", "fake.pdf", pngHeader),
	}, c)

	require.Len(t, valid, 1)
	assert.Equal(t, "1", valid[0].ID)

	require.Len(t, rejected, 3)
	assert.Equal(t, "2", rejected[0].UnitID)
	assert.Contains(t, rejected[0].Cause, "not allowed")
	assert.Contains(t, rejected[1].Cause, "maximum size")
	assert.Contains(t, rejected[2].Cause, "does not match extension")
}

func TestRunEmptyBatch(t *testing.T) {
	report := Run(context.Background(), nil, func(context.Context, Unit) (Outcome, error) {
		t.Fatal("process must not be called")
		return Outcome{}, nil
	}, Options{})

	assert.True(t, report.Empty)
	assert.Empty(t, report.Results)
	assert.Zero(t, report.SuccessCount)
	assert.Zero(t, report.FailedCount)
}

func TestRunIsolatesFailures(t *testing.T) {
	units := []Unit{unit("a", "a.pdf", nil), unit("b", "b.pdf", nil), unit("c", "c.pdf", nil)}

	report := Run(context.Background(), units, func(_ context.Context, u Unit) (Outcome, error) {
		if u.ID == "b" {
			return Outcome{}, errors.New("analyze failed")
		}
		return Outcome{CreatedID: "doc-" + u.ID}, nil
	}, Options{})

	require.Len(t, report.Results, 3)
	assert.True(t, report.Results[0].Success)
	assert.False(t, report.Results[1].Success)
	assert.Equal(t, ReasonError, report.Results[1].Reason)
	assert.Equal(t, "analyze failed", report.Results[1].Error)
	assert.True(t, report.Results[2].Success)
	assert.Equal(t, 2, report.SuccessCount)
	assert.Equal(t, 1, report.FailedCount)
	assert.True(t, report.Partial())
}

func TestRunKeepsSubmissionOrder(t *testing.T) {
	units := []Unit{unit("1", "1.pdf", nil), unit("2", "2.pdf", nil), unit("3", "3.pdf", nil)}

	report := Run(context.Background(), units, func(_ context.Context, u Unit) (Outcome, error) {
		return Outcome{CreatedID: u.ID}, nil
	}, Options{})

	require.Len(t, report.Results, 3)
	for i, r := range report.Results {
		assert.Equal(t, units[i].ID, r.UnitID)
	}
}

func TestRunDistinguishesDuplicates(t *testing.T) {
	units := []Unit{unit("a", "a.pdf", nil)}

	report := Run(context.Background(), units, func(context.Context, Unit) (Outcome, error) {
		return Outcome{Duplicate: true, ExistingID: "doc-7"}, nil
	}, Options{})

	require.Len(t, report.Results, 1)
	assert.False(t, report.Results[0].Success)
	assert.Equal(t, ReasonDuplicate, report.Results[0].Reason)
	assert.Equal(t, "doc-7", report.Results[0].CreatedID)
	assert.Equal(t, 1, report.FailedCount)
}

func TestRunRecoversPanics(t *testing.T) {
	units := []Unit{unit("a", "a.pdf", nil), unit("b", "b.pdf", nil)}

	report := Run(context.Background(), units, func(_ context.Context, u Unit) (Outcome, error) {
		if u.ID == "a" {
			panic("boom")
		}
		return Outcome{}, nil
	}, Options{})

	require.Len(t, report.Results, 2)
	assert.Equal(t, ReasonError, report.Results[0].Reason)
	assert.Contains(t, report.Results[0].Error, "boom")
	assert.True(t, report.Results[1].Success)
}

func TestRunSequentialWithDelay(t *testing.T) {
	units := []Unit{unit("1", "1.pdf", nil), unit("2", "2.pdf", nil), unit("3", "3.pdf", nil)}

	var mu sync.Mutex
	inFlight, maxInFlight := 0, 0
	var starts []time.Time

	report := Run(context.Background(), units, func(context.Context, Unit) (Outcome, error) {
		mu.Lock()
		inFlight++
		if inFlight > maxInFlight {
			maxInFlight = inFlight
		}
		starts = append(starts, time.Now())
		mu.Unlock()

		time.Sleep(5 * time.Millisecond)

		mu.Lock()
		inFlight--
		mu.Unlock()
		return Outcome{}, nil
	}, Options{InterUnitDelay: 30 * time.Millisecond})

	assert.Equal(t, 3, report.SuccessCount)
	assert.Equal(t, 1, maxInFlight, "units must never overlap")
	require.Len(t, starts, 3)
	for i := 1; i < len(starts); i++ {
		assert.GreaterOrEqual(t, starts[i].Sub(starts[i-1]), 30*time.Millisecond)
	}
}

func TestRunCancellationMarksRemaining(t *testing.T) {
	units := []Unit{unit("1", "1.pdf", nil), unit("2", "2.pdf", nil), unit("3", "3.pdf", nil)}
	ctx, cancel := context.WithCancel(context.Background())

	report := Run(ctx, units, func(_ context.Context, u Unit) (Outcome, error) {
		if u.ID == "1" {
			cancel()
		}
		return Outcome{CreatedID: u.ID}, nil
	}, Options{InterUnitDelay: 10 * time.Millisecond})

	require.Len(t, report.Results, 3)
	assert.True(t, report.Results[0].Success, "in-flight unit completes")
	assert.Equal(t, ReasonCanceled, report.Results[1].Reason)
	assert.Equal(t, ReasonCanceled, report.Results[2].Reason)
	assert.Equal(t, 1, report.SuccessCount)
	assert.Equal(t, 2, report.FailedCount)
}

func TestRunProgressTransitions(t *testing.T) {
	units := []Unit{unit("1", "1.pdf", nil)}

	var statuses []Status
	Run(context.Background(), units, func(context.Context, Unit) (Outcome, error) {
		return Outcome{}, nil
	}, Options{OnProgress: func(p Progress) { statuses = append(statuses, p.Status) }})

	assert.Equal(t, []Status{StatusWaiting, StatusProcessing, StatusCompleted}, statuses)
}

func TestUploader(t *testing.T) {
	var mu sync.Mutex
	done := map[string]string{}

	u := NewUploader(context.Background(), 3,
		func(_ context.Context, job UploadJob) (string, error) {
			if job.UnitID == "bad" {
				return "", errors.New("drive unavailable")
			}
			return "https://files.example.com/" + job.UnitID, nil
		},
		func(job UploadJob, link string, err error) {
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				done[job.UnitID] = "err:" + err.Error()
				return
			}
			done[job.UnitID] = link
		})

	u.Enqueue(UploadJob{UnitID: "a", Name: "a.pdf"})
	u.Enqueue(UploadJob{UnitID: "bad", Name: "b.pdf"})
	u.Enqueue(UploadJob{UnitID: "c", Name: "c.pdf"})
	require.NoError(t, u.Close())

	assert.Equal(t, "https://files.example.com/a", done["a"])
	assert.Equal(t, "err:drive unavailable", done["bad"])
	assert.Equal(t, "https://files.example.com/c", done["c"])
}
