package models

import "time"

// RequestHistory is the locally persisted copy of a request ("solicitud") made on this device
type RequestHistory struct {
	ID          int64          `gorm:"primaryKey" json:"id"`
	UserID      int64          `gorm:"index" json:"userId"`
	RemoteID    *int64         `gorm:"index" json:"remoteId,omitempty"`
	ServiceType string         `gorm:"not null" json:"serviceType"`
	VehicleInfo string         `json:"vehicleInfo"`
	Description string         `gorm:"type:text" json:"description"`
	Address     string         `json:"address"`
	Status      RequestStatus  `gorm:"not null;default:'Pendiente'" json:"status"`
	Images      []RequestImage `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// TableName specifies the table name for the RequestHistory model
func (RequestHistory) TableName() string {
	return "request_history"
}

// RequestImage is an image stored as a BLOB next to its request
type RequestImage struct {
	ID        int64           `gorm:"primaryKey" json:"id"`
	RequestID int64           `gorm:"not null;index" json:"requestId"`
	Request   *RequestHistory `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE" json:"-"`
	Data      []byte          `gorm:"not null" json:"-"`
	MimeType  string          `gorm:"not null" json:"mimeType"`
	FileName  string          `json:"fileName"`
	CreatedAt time.Time       `json:"createdAt"`
}

// TableName specifies the table name for the RequestImage model
func (RequestImage) TableName() string {
	return "request_images"
}

// ServiceRequestDraft is the older, simpler request record some flows still write
// before a request reaches the remote service.
type ServiceRequestDraft struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	UserID      int64     `gorm:"index" json:"userId"`
	ServiceType string    `gorm:"not null" json:"serviceType"`
	Description string    `gorm:"type:text" json:"description"`
	Address     string    `json:"address"`
	Urgent      bool      `json:"urgent"`
	NeedsTow    bool      `json:"needsTow"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TableName specifies the table name for the ServiceRequestDraft model
func (ServiceRequestDraft) TableName() string {
	return "service_request"
}

// Address is a saved location where a client wants to be served
type Address struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;index" json:"userId"`
	Label     string    `gorm:"not null" json:"label"`
	Street    string    `gorm:"not null" json:"street"`
	City      string    `json:"city"`
	Details   string    `json:"details"`
	IsDefault bool      `gorm:"not null;default:false" json:"isDefault"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name for the Address model
func (Address) TableName() string {
	return "addresses"
}

// Mechanic is a locally saved mechanic contact; one of them may be the preferred one
type Mechanic struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	RemoteID    *int64    `gorm:"index" json:"remoteId,omitempty"`
	Name        string    `gorm:"not null" json:"name"`
	Specialty   string    `json:"specialty"`
	Phone       string    `json:"phone"`
	Rating      float64   `json:"rating"`
	Available   bool      `json:"available"`
	IsPreferred bool      `gorm:"not null;default:false" json:"isPreferred"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TableName specifies the table name for the Mechanic model
func (Mechanic) TableName() string {
	return "mechanics"
}

// Preference is one key of the on-device session store
type Preference struct {
	Key       string `gorm:"primaryKey"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

// TableName specifies the table name for the Preference model
func (Preference) TableName() string {
	return "preferences"
}

// LocalModels lists every table of the on-device store, in migration order
func LocalModels() []interface{} {
	return []interface{}{
		&RequestHistory{},
		&RequestImage{},
		&ServiceRequestDraft{},
		&Address{},
		&Mechanic{},
		&Preference{},
	}
}
