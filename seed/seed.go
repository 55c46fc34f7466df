// Package seed holds the sample Fixsy data. The developer backend loads it
// into an empty database and tests use it as fixtures; the app itself never
// reads from here.
package seed

import (
	"context"
	"fmt"
	"log"

	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/models"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/utils"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every sample account
const DefaultPassword = "Fixsy#2024"

// Users returns the sample accounts: two clients, two mechanics and an admin
func Users() []models.User {
	return []models.User{
		{ID: 1, Email: "cliente@fixsy.cl", Name: "Camila Rojas", Phone: "912345678", Role: models.RoleClient},
		{ID: 2, Email: "cliente2@fixsy.cl", Name: "Jorge Soto", Phone: "923456789", Role: models.RoleClient},
		{ID: 3, Email: "mecanico@fixsy.cl", Name: "Pedro Muñoz", Phone: "934567890", Role: models.RoleMechanic},
		{ID: 4, Email: "mecanica@fixsy.cl", Name: "Juana Pérez", Phone: "945678901", Role: models.RoleMechanic},
		{ID: 5, Email: "admin@fixsy.cl", Name: "Admin Fixsy", Phone: "956789012", Role: models.RoleAdmin},
	}
}

// Vehicles returns the sample vehicles; user 1 owns three, with id 1 as default
func Vehicles() []models.Vehicle {
	return []models.Vehicle{
		{ID: 1, UserID: 1, Brand: "Toyota", Model: "Yaris", Year: 2018, Plate: "ABCD12", Color: "Blanco", IsDefault: true},
		{ID: 2, UserID: 1, Brand: "Kia", Model: "Rio", Year: 2020, Plate: "EFGH34", Color: "Rojo"},
		{ID: 3, UserID: 1, Brand: "Mazda", Model: "3", Year: 2022, Plate: "IJKL56", Color: "Gris"},
		{ID: 4, UserID: 2, Brand: "Ford", Model: "Ranger", Year: 2019, Plate: "MNOP78", Color: "Negro", IsDefault: true},
	}
}

// ServiceRequests returns requests covering every status
func ServiceRequests() []models.ServiceRequest {
	mechanicID, mechanicName := int64(3), "Pedro Muñoz"
	cost := 85000.0
	return []models.ServiceRequest{
		{ID: 1, UserID: 1, ServiceType: "Mantención", VehicleInfo: "Toyota Yaris 2018 (ABCD12)", Description: "Cambio de aceite y filtros", Status: models.StatusPending, Location: "Av. Providencia 1234, Santiago"},
		{ID: 2, UserID: 1, ServiceType: "Frenos", VehicleInfo: "Kia Rio 2020 (EFGH34)", Description: "Ruido al frenar", Status: models.StatusInProgress, MechanicID: &mechanicID, MechanicName: &mechanicName, EstimatedCost: &cost},
		{ID: 3, UserID: 2, ServiceType: "Batería", VehicleInfo: "Ford Ranger 2019 (MNOP78)", Description: "No arranca en las mañanas", Status: models.StatusCompleted, MechanicID: &mechanicID, MechanicName: &mechanicName},
		{ID: 4, UserID: 2, ServiceType: "Grúa", VehicleInfo: "Ford Ranger 2019 (MNOP78)", Description: "Pana en carretera", Status: models.StatusCancelled, Notes: "Urgente"},
	}
}

// Addresses returns saved addresses for user 1
func Addresses() []models.Address {
	return []models.Address{
		{UserID: 1, Label: "Casa", Street: "Av. Providencia 1234", City: "Santiago", IsDefault: true},
		{UserID: 1, Label: "Trabajo", Street: "Moneda 975", City: "Santiago", Details: "Piso 4"},
	}
}

// Mechanics returns local mechanic contacts
func Mechanics() []models.Mechanic {
	pedro, juana := int64(3), int64(4)
	return []models.Mechanic{
		{RemoteID: &pedro, Name: "Pedro Muñoz", Specialty: "Frenos y suspensión", Phone: "934567890", Rating: 4.7, Available: true, IsPreferred: true},
		{RemoteID: &juana, Name: "Juana Pérez", Specialty: "Eléctrico", Phone: "945678901", Rating: 4.9, Available: true},
		{Name: "Taller Los Andes", Specialty: "Motor", Phone: "227654321", Rating: 4.2},
	}
}

// Backend loads the sample users, vehicles and requests into an empty backend
// database. It does nothing when users already exist.
func Backend(ctx context.Context, db *gorm.DB) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		log.Printf("Skipping seed: database already has %d users", count)
		return nil
	}

	hash, err := utils.HashPassword(DefaultPassword)
	if err != nil {
		return err
	}

	// fixture ids are remapped so database sequences stay in charge of ids
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := make(map[int64]int64)
		for _, u := range Users() {
			fixtureID := u.ID
			u.ID = 0
			if err := tx.Create(&u).Error; err != nil {
				return fmt.Errorf("failed to seed users: %w", err)
			}
			if err := tx.Create(&models.Credential{UserID: u.ID, PasswordHash: hash}).Error; err != nil {
				return fmt.Errorf("failed to seed credentials: %w", err)
			}
			ids[fixtureID] = u.ID
		}
		for _, v := range Vehicles() {
			v.ID = 0
			v.UserID = ids[v.UserID]
			if err := tx.Create(&v).Error; err != nil {
				return fmt.Errorf("failed to seed vehicles: %w", err)
			}
		}
		for _, r := range ServiceRequests() {
			r.ID = 0
			r.UserID = ids[r.UserID]
			if r.MechanicID != nil {
				mechanicID := ids[*r.MechanicID]
				r.MechanicID = &mechanicID
			}
			if err := tx.Create(&r).Error; err != nil {
				return fmt.Errorf("failed to seed service requests: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("Seeded %d users, %d vehicles and %d service requests", len(Users()), len(Vehicles()), len(ServiceRequests()))
	return nil
}
