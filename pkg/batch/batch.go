// Package batch runs a queue of independent units of work strictly one at a
// time with a fixed delay between units. The serialization is a deliberate
// rate limit on the downstream analyze endpoint, not a lock.
package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

type Status string

const (
	StatusWaiting    Status = "waiting"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// Reason classifies a failed unit. Duplicates are never conflated with
// transient failures.
type Reason string

const (
	ReasonNone      Reason = ""
	ReasonDuplicate Reason = "duplicate"
	ReasonError     Reason = "error"
	ReasonCanceled  Reason = "canceled"
)

// Unit is one independent item of work: a file plus enough metadata to
// validate it up front.
type Unit struct {
	ID   string
	Name string
	Size int64
	Data []byte
}

// Outcome is what a process function reports for one unit.
type Outcome struct {
	Duplicate  bool
	ExistingID string
	CreatedID  string
	Fields     map[string]string
}

type Result struct {
	UnitID    string            `json:"unit_id"`
	Name      string            `json:"name"`
	Success   bool              `json:"success"`
	Reason    Reason            `json:"reason,omitempty"`
	Error     string            `json:"error,omitempty"`
	CreatedID string            `json:"created_id,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
}

// Report aggregates one run. Empty (no valid units) is reported distinctly
// from a run where every unit failed.
type Report struct {
	Results      []Result `json:"results"`
	SuccessCount int      `json:"success_count"`
	FailedCount  int      `json:"failed_count"`
	Empty        bool     `json:"empty"`
}

// Partial reports whether some but not all units succeeded. Consumers must
// present both counts in that case, never a single pass/fail.
func (r Report) Partial() bool {
	return r.SuccessCount > 0 && r.FailedCount > 0
}

type Progress struct {
	UnitID string
	Status Status
	Done   int
	Total  int
}

type ProcessFunc func(ctx context.Context, unit Unit) (Outcome, error)

type Options struct {
	// InterUnitDelay is inserted between consecutive units, not after the
	// last one.
	InterUnitDelay time.Duration
	OnProgress     func(Progress)
}

// Constraints are the static pre-flight checks applied before any unit is
// processed.
type Constraints struct {
	AllowedExtensions []string
	MaxSizeBytes      int64
}

type Rejection struct {
	UnitID string `json:"unit_id"`
	Name   string `json:"name"`
	Cause  string `json:"cause"`
}

// Validate splits units into those passing the static checks and rejections
// for the rest. Extension, sniffed content type and size are all checked
// before any processing starts, so no partial work has to be rolled back.
func Validate(units []Unit, c Constraints) ([]Unit, []Rejection) {
	valid := make([]Unit, 0, len(units))
	var rejected []Rejection

	for _, u := range units {
		if cause := validateUnit(u, c); cause != "" {
			rejected = append(rejected, Rejection{UnitID: u.ID, Name: u.Name, Cause: cause})
			continue
		}
		valid = append(valid, u)
	}
	return valid, rejected
}

func validateUnit(u Unit, c Constraints) string {
	ext := strings.ToLower(filepath.Ext(u.Name))
	if len(c.AllowedExtensions) > 0 {
		allowed := false
		for _, e := range c.AllowedExtensions {
			if ext == e {
				allowed = true
				break
			}
		}
		if !allowed {
			return fmt.Sprintf("file type %q is not allowed", ext)
		}
	}
	if c.MaxSizeBytes > 0 && u.Size > c.MaxSizeBytes {
		return fmt.Sprintf("file exceeds maximum size of %d bytes", c.MaxSizeBytes)
	}
	if len(u.Data) > 0 {
		mt := mimetype.Detect(u.Data)
		if ext != "" && !mimetype.EqualsAny(mt.String(), extensionMimes(ext)...) {
			return fmt.Sprintf("content type %s does not match extension %q", mt.String(), ext)
		}
	}
	return ""
}

func extensionMimes(ext string) []string {
	switch ext {
	case ".pdf":
		return []string{"application/pdf"}
	case ".png":
		return []string{"image/png"}
	case ".jpg", ".jpeg":
		return []string{"image/jpeg"}
	case ".txt", ".csv":
		return []string{"text/plain; charset=utf-8", "text/csv"}
	default:
		return nil
	}
}

// Run processes units strictly sequentially: each unit completes its full
// process step before the next begins. A failure in one unit never aborts
// the loop; the report always contains exactly one result per unit, in
// submission order. Cancellation stops the gate between units; unstarted
// units are reported as canceled.
func Run(ctx context.Context, units []Unit, process ProcessFunc, opts Options) Report {
	report := Report{Results: make([]Result, 0, len(units))}
	if len(units) == 0 {
		report.Empty = true
		return report
	}

	notify := func(unitID string, status Status, done int) {
		if opts.OnProgress != nil {
			opts.OnProgress(Progress{UnitID: unitID, Status: status, Done: done, Total: len(units)})
		}
	}
	for _, u := range units {
		notify(u.ID, StatusWaiting, 0)
	}

	canceled := false
	for i, u := range units {
		if canceled || ctx.Err() != nil {
			canceled = true
			report.Results = append(report.Results, Result{
				UnitID:  u.ID,
				Name:    u.Name,
				Success: false,
				Reason:  ReasonCanceled,
				Error:   context.Cause(ctx).Error(),
			})
			report.FailedCount++
			notify(u.ID, StatusError, i+1)
			continue
		}

		if i > 0 && opts.InterUnitDelay > 0 {
			select {
			case <-time.After(opts.InterUnitDelay):
			case <-ctx.Done():
				canceled = true
				report.Results = append(report.Results, Result{
					UnitID:  u.ID,
					Name:    u.Name,
					Success: false,
					Reason:  ReasonCanceled,
					Error:   context.Cause(ctx).Error(),
				})
				report.FailedCount++
				notify(u.ID, StatusError, i+1)
				continue
			}
		}

		notify(u.ID, StatusProcessing, i)
		result := runOne(ctx, u, process)
		report.Results = append(report.Results, result)
		if result.Success {
			report.SuccessCount++
			notify(u.ID, StatusCompleted, i+1)
		} else {
			report.FailedCount++
			notify(u.ID, StatusError, i+1)
		}
	}

	return report
}

func runOne(ctx context.Context, u Unit, process ProcessFunc) (result Result) {
	result = Result{UnitID: u.ID, Name: u.Name}
	defer func() {
		if r := recover(); r != nil {
			result.Success = false
			result.Reason = ReasonError
			result.Error = fmt.Sprintf("panic: %v", r)
		}
	}()

	outcome, err := process(ctx, u)
	if err != nil {
		result.Success = false
		result.Reason = ReasonError
		result.Error = err.Error()
		return result
	}
	if outcome.Duplicate {
		result.Success = false
		result.Reason = ReasonDuplicate
		result.Error = "duplicate of existing record"
		result.CreatedID = outcome.ExistingID
		return result
	}

	result.Success = true
	result.CreatedID = outcome.CreatedID
	result.Fields = outcome.Fields
	return result
}
