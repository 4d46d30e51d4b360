// Package history replays a crew member's assignment event log into ship
// attachment intervals. Reconstruction is a pure projection: intervals are
// never persisted, they are recomputed from the full log on demand.
package history

import (
	"fmt"
	"sort"
	"time"
)

type Kind string

const (
	KindAssign   Kind = "ASSIGN"
	KindReassign Kind = "REASSIGN"
	KindRelease  Kind = "RELEASE"
)

// Event is one historical action. FromResource is set on RELEASE and
// REASSIGN, ToResource on ASSIGN and REASSIGN. AssignStart/AssignEnd are
// explicit override dates used preferentially over OccurredAt when present;
// AssignActor/ReleaseActor are the actors attached to those overrides.
type Event struct {
	ID           string
	Kind         Kind
	FromResource string
	ToResource   string
	OccurredAt   time.Time
	Sequence     int64
	PerformedBy  string
	AssignStart  *time.Time
	AssignEnd    *time.Time
	AssignActor  string
	ReleaseActor string
}

// Interval is one reconstructed attachment period. AssignedFrom is nil only
// for orphan releases, where the opening event is missing from the log.
type Interval struct {
	Resource     string
	AssignedFrom *time.Time
	AssignedBy   string
	ReleasedAt   *time.Time
	ReleasedBy   string
	SourceKind   Kind
}

func (iv Interval) Open() bool { return iv.ReleasedAt == nil }

// Warning is a recoverable data-consistency signal. Reconstruction never
// aborts on bad records; it skips or synthesizes and reports here.
type Warning struct {
	EventID string
	Message string
}

// Reconstruct replays events into intervals. Events may arrive in any order;
// they are sorted by (OccurredAt, Sequence) before processing. The result is
// ordered by AssignedFrom descending with unknown starts last.
func Reconstruct(events []Event) ([]Interval, []Warning) {
	sorted := make([]Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].OccurredAt.Equal(sorted[j].OccurredAt) {
			return sorted[i].OccurredAt.Before(sorted[j].OccurredAt)
		}
		return sorted[i].Sequence < sorted[j].Sequence
	})

	state := newReplay()
	for _, ev := range sorted {
		switch ev.Kind {
		case KindAssign:
			state.applyAssign(ev)
		case KindReassign:
			state.applyReassign(ev)
		case KindRelease:
			state.applyRelease(ev)
		default:
			state.warnf(ev, "unrecognized action type %q, event skipped", ev.Kind)
		}
	}

	return state.result(), state.warnings
}

// replay keeps intervals in insertion order so the output is deterministic
// and independent of map iteration.
type replay struct {
	order    []string
	byKey    map[string]*Interval
	warnings []Warning
}

func newReplay() *replay {
	return &replay{byKey: map[string]*Interval{}}
}

func (s *replay) warnf(ev Event, format string, args ...any) {
	s.warnings = append(s.warnings, Warning{EventID: ev.ID, Message: fmt.Sprintf(format, args...)})
}

// key derives the interval uniqueness token: the event id when present, else
// resource plus timestamp. Distinct tokens keep repeat attachments to the
// same resource as separate rows.
func key(ev Event, resource string) string {
	if ev.ID != "" {
		return ev.ID
	}
	return resource + "_" + ev.OccurredAt.UTC().Format(time.RFC3339Nano)
}

func (s *replay) insert(k string, iv *Interval) {
	if _, exists := s.byKey[k]; exists {
		return
	}
	s.byKey[k] = iv
	s.order = append(s.order, k)
}

func (s *replay) applyAssign(ev Event) {
	if ev.ToResource == "" {
		s.warnf(ev, "assign event without target resource, event skipped")
		return
	}
	k := key(ev, ev.ToResource)
	if _, exists := s.byKey[k]; exists {
		s.warnf(ev, "duplicate assign for key %s, event skipped", k)
		return
	}
	s.insert(k, openInterval(ev, KindAssign))
}

func (s *replay) applyReassign(ev Event) {
	if ev.FromResource == "" || ev.ToResource == "" {
		s.warnf(ev, "reassign event missing source or target resource, event skipped")
		return
	}

	if open := s.findOpen(ev, ev.FromResource); open != nil {
		closeInterval(open, ev, KindReassign)
	} else {
		s.warnf(ev, "reassign from %s with no open interval", ev.FromResource)
	}

	s.insert(key(ev, ev.ToResource), openInterval(ev, KindReassign))
}

func (s *replay) applyRelease(ev Event) {
	if ev.FromResource == "" {
		s.warnf(ev, "release event without source resource, event skipped")
		return
	}

	if open := s.findOpen(ev, ev.FromResource); open != nil {
		closeInterval(open, ev, KindRelease)
		return
	}

	// the opening event is missing upstream; keep the release visible
	s.warnf(ev, "release from %s with no open interval, orphan synthesized", ev.FromResource)
	released := ev.OccurredAt
	s.insert(key(ev, ev.FromResource), &Interval{
		Resource:   ev.FromResource,
		ReleasedAt: &released,
		ReleasedBy: ev.PerformedBy,
		SourceKind: KindRelease,
	})
}

// findOpen returns the most-recently-opened open interval on resource. More
// than one open match is a data anomaly and is reported as a warning.
func (s *replay) findOpen(ev Event, resource string) *Interval {
	var matches []*Interval
	for _, k := range s.order {
		iv := s.byKey[k]
		if iv.Open() && iv.Resource == resource {
			matches = append(matches, iv)
		}
	}
	if len(matches) == 0 {
		return nil
	}
	if len(matches) > 1 {
		s.warnf(ev, "%d open intervals on %s, closing the most recently opened", len(matches), resource)
	}
	return matches[len(matches)-1]
}

func openInterval(ev Event, source Kind) *Interval {
	iv := &Interval{
		Resource:   ev.ToResource,
		AssignedBy: ev.PerformedBy,
		SourceKind: source,
	}

	if ev.AssignStart != nil {
		start := *ev.AssignStart
		iv.AssignedFrom = &start
		if ev.AssignActor != "" {
			iv.AssignedBy = ev.AssignActor
		}
	} else {
		start := ev.OccurredAt
		iv.AssignedFrom = &start
	}

	// the source record may pre-close the interval at creation time
	if ev.AssignEnd != nil {
		end := *ev.AssignEnd
		iv.ReleasedAt = &end
		iv.ReleasedBy = ev.ReleaseActor
	}
	return iv
}

func closeInterval(iv *Interval, ev Event, source Kind) {
	released := ev.OccurredAt
	iv.ReleasedAt = &released
	iv.ReleasedBy = ev.PerformedBy
	iv.SourceKind = source
}

// result emits intervals ordered by AssignedFrom descending. Unknown starts
// order after every known one.
func (s *replay) result() []Interval {
	out := make([]Interval, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, *s.byKey[k])
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].AssignedFrom, out[j].AssignedFrom
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
	return out
}
