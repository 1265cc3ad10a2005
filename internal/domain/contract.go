package domain

import "time"

// Contract links a client to the SALES collaborator who negotiated it.
// Only signed contracts allow event creation.
type Contract struct {
	ID                  int
	ClientID            int
	CommercialID        int
	Costing             float64
	RemainingDuePayment float64
	CreationDate        time.Time
	Signed              bool
}
