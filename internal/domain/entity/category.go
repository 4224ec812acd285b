package entity

import "time"

// Category agrupa productos de la carta (entradas, bebidas, postres...).
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}
