package crewmember

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// CrewMember is a seafarer whose ship assignments and documents the system
// tracks.
type CrewMember struct {
	id          uuid.UUID
	firstName   string
	lastName    string
	rank        string
	nationality string
	passportNo  string
	status      Status
	createdAt   time.Time
	updatedAt   time.Time
}

func New(firstName, lastName, rank, nationality, passportNo string) CrewMember {
	return CrewMember{
		firstName:   strings.TrimSpace(firstName),
		lastName:    strings.TrimSpace(lastName),
		rank:        strings.TrimSpace(rank),
		nationality: strings.ToUpper(strings.TrimSpace(nationality)),
		passportNo:  strings.TrimSpace(passportNo),
		status:      StatusActive,
	}
}

func Hydrate(
	id uuid.UUID,
	firstName string,
	lastName string,
	rank string,
	nationality string,
	passportNo string,
	status Status,
	createdAt time.Time,
	updatedAt time.Time,
) CrewMember {
	return CrewMember{
		id:          id,
		firstName:   firstName,
		lastName:    lastName,
		rank:        rank,
		nationality: nationality,
		passportNo:  passportNo,
		status:      status,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (m CrewMember) ID() uuid.UUID        { return m.id }
func (m CrewMember) FirstName() string    { return m.firstName }
func (m CrewMember) LastName() string     { return m.lastName }
func (m CrewMember) FullName() string     { return strings.TrimSpace(m.firstName + " " + m.lastName) }
func (m CrewMember) Rank() string         { return m.rank }
func (m CrewMember) Nationality() string  { return m.nationality }
func (m CrewMember) PassportNo() string   { return m.passportNo }
func (m CrewMember) Status() Status       { return m.status }
func (m CrewMember) CreatedAt() time.Time { return m.createdAt }
func (m CrewMember) UpdatedAt() time.Time { return m.updatedAt }
func (m CrewMember) IsZero() bool         { return m.id == uuid.Nil && m.passportNo == "" }
