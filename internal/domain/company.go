package domain

import "time"

// Company owns users and tickets.
type Company struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}
