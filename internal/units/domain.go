package units

import "time"

// Unit is an organizational unit. Units form a tree via ParentUnitID;
// zero means top-level.
type Unit struct {
	ID           int64     `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	ParentUnitID int64     `json:"parentUnitId,omitempty"`
	Description  string    `json:"description,omitempty"`
	Address      string    `json:"address,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Input carries the writable unit fields for create and update.
type Input struct {
	Code         string
	Name         string
	ParentUnitID int64
	Description  string
	Address      string
	Phone        string
	IsActive     bool
}
