package models

import (
	"bytes"
	"strconv"
	"time"
)

// Vehicle is a car registered by a client. At most one vehicle per user has
// IsDefault set, and a plate is registered once per user.
type Vehicle struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;index;uniqueIndex:idx_vehicles_user_plate" json:"userId"`
	Brand     string    `gorm:"not null" json:"brand"`
	Model     string    `gorm:"not null" json:"model"`
	Year      int       `json:"year"`
	Plate     string    `gorm:"not null;uniqueIndex:idx_vehicles_user_plate" json:"plate"`
	Color     string    `json:"color"`
	IsDefault bool      `gorm:"not null;default:false" json:"isDefault"`
	Image     []byte    `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name for the Vehicle model
func (Vehicle) TableName() string {
	return "vehicles"
}

// Equal compares every field, image bytes included
func (v Vehicle) Equal(o Vehicle) bool {
	return v.ID == o.ID &&
		v.UserID == o.UserID &&
		v.Brand == o.Brand &&
		v.Model == o.Model &&
		v.Year == o.Year &&
		v.Plate == o.Plate &&
		v.Color == o.Color &&
		v.IsDefault == o.IsDefault &&
		v.CreatedAt.Equal(o.CreatedAt) &&
		bytes.Equal(v.Image, o.Image)
}

// DisplayName is the short label used in request forms, e.g. "Toyota Corolla 2019 (ABCD12)"
func (v Vehicle) DisplayName() string {
	label := v.Brand + " " + v.Model
	if v.Year > 0 {
		label += " " + strconv.Itoa(v.Year)
	}
	if v.Plate != "" {
		label += " (" + v.Plate + ")"
	}
	return label
}
