package entity

import "time"

// Table mesa física del restaurante. El nombre es único.
type Table struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
