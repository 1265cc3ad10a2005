package domain

import (
	"fmt"
	"time"
)

// Client is a business customer record. Every client is owned by the SALES
// collaborator recorded in CommercialID; relationship-based authorization
// checks ownership against that column.
type Client struct {
	ID               int
	FirstName        string
	LastName         string
	Email            string
	Phone            string
	CompanyName      string
	FirstContactDate time.Time
	LastContactDate  *time.Time
	CommercialID     int
}

// FullName returns the client's display name.
func (c Client) FullName() string {
	return fmt.Sprintf("%s %s", c.FirstName, c.LastName)
}
