package models

import (
	"errors"
	"fmt"
	"time"
)

// RequestStatus is the lifecycle state of a service request
type RequestStatus string

const (
	StatusPending    RequestStatus = "Pendiente"
	StatusInProgress RequestStatus = "En Proceso"
	StatusCompleted  RequestStatus = "Completado"
	StatusCancelled  RequestStatus = "Cancelado"
)

// ErrInvalidTransition is returned when a status change is not in the transition table
var ErrInvalidTransition = errors.New("invalid status transition")

var allowedTransitions = map[RequestStatus][]RequestStatus{
	StatusPending:    {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  nil,
	StatusCancelled:  nil,
}

// Valid reports whether s is one of the known statuses
func (s RequestStatus) Valid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// Terminal reports whether no further transition is possible
func (s RequestStatus) Terminal() bool {
	return s.Valid() && len(allowedTransitions[s]) == 0
}

// CanTransition reports whether a request in status s may move to next
func (s RequestStatus) CanTransition(next RequestStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ValidateTransition wraps ErrInvalidTransition with both statuses
func (s RequestStatus) ValidateTransition(next RequestStatus) error {
	if !next.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, next)
	}
	if !s.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, next)
	}
	return nil
}

// ParseStatus accepts the wire spelling of a status
func ParseStatus(s string) (RequestStatus, error) {
	st := RequestStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}

// ServiceRequest is a repair or maintenance request created by a client
type ServiceRequest struct {
	ID            int64         `gorm:"primaryKey" json:"id"`
	UserID        int64         `gorm:"not null;index" json:"userId"`
	ServiceType   string        `gorm:"not null" json:"serviceType"`
	VehicleInfo   string        `json:"vehicleInfo"`
	Description   string        `gorm:"type:text" json:"description"`
	Status        RequestStatus `gorm:"not null;index;default:'Pendiente'" json:"status"`
	ImageIDs      []int64       `gorm:"serializer:json" json:"imageIds,omitempty"`
	MechanicID    *int64        `gorm:"index" json:"mechanicId,omitempty"`
	MechanicName  *string       `json:"mechanicName,omitempty"`
	EstimatedCost *float64      `json:"estimatedCost,omitempty"`
	Location      string        `json:"location,omitempty"`
	Notes         string        `json:"notes,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"-"`
}

// TableName specifies the table name for the ServiceRequest model
func (ServiceRequest) TableName() string {
	return "service_requests"
}
