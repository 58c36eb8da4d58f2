package entity

import "time"

// Location representa una ubicación física de almacenamiento (estante, bodega, obra).
type Location struct {
	ID        string
	CompanyID string
	Name      string
	Sector    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
