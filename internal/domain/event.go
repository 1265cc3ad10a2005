package domain

import "time"

// Event is a scheduled engagement backed by a signed contract. SupportID is
// nil until a SUPPORT collaborator is assigned.
type Event struct {
	ID         int
	Name       string
	StartDate  time.Time
	EndDate    time.Time
	Location   string
	Attendees  int
	Notes      string
	ContractID int
	SupportID  *int
}
