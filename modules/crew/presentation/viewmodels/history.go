package viewmodels

import "time"

// AssignmentInterval is the display shape of one reconstructed attachment
// period. ShipName falls back to the raw ship id when the ship is no longer
// in the registry.
type AssignmentInterval struct {
	ShipID       string     `json:"ship_id"`
	ShipName     string     `json:"ship_name"`
	AssignedFrom *time.Time `json:"assigned_from"`
	AssignedBy   string     `json:"assigned_by,omitempty"`
	ReleasedAt   *time.Time `json:"released_at"`
	ReleasedBy   string     `json:"released_by,omitempty"`
	Source       string     `json:"source"`
}

type CrewEvent struct {
	ID          string     `json:"id"`
	Kind        string     `json:"kind"`
	FromShipID  string     `json:"from_ship_id,omitempty"`
	ToShipID    string     `json:"to_ship_id,omitempty"`
	OccurredAt  time.Time  `json:"occurred_at"`
	Sequence    int64      `json:"sequence"`
	PerformedBy string     `json:"performed_by,omitempty"`
	AssignStart *time.Time `json:"assign_start,omitempty"`
	AssignEnd   *time.Time `json:"assign_end,omitempty"`
}

type CrewMember struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Rank        string    `json:"rank"`
	Nationality string    `json:"nationality"`
	PassportNo  string    `json:"passport_no"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
