package models

import "time"

// Image is the backend record of an uploaded image. Data is only set when the bytes
// are kept in the database instead of object storage.
type Image struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	EntityType string    `gorm:"not null;index:idx_image_entity" json:"entityType"`
	EntityID   int64     `gorm:"not null;index:idx_image_entity" json:"entityId"`
	FileName   string    `json:"fileName"`
	MimeType   string    `gorm:"not null" json:"mimeType"`
	Size       int64     `json:"size"`
	StorageKey string    `json:"-"`
	Data       []byte    `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TableName specifies the table name for the Image model
func (Image) TableName() string {
	return "images"
}

// BackendModels lists every table of the developer backend, in migration order
func BackendModels() []interface{} {
	return []interface{}{
		&User{},
		&Credential{},
		&Vehicle{},
		&ServiceRequest{},
		&Image{},
	}
}
