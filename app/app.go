// Package app assembles the Fixsy client: the remote data source, the on-device
// store, the repositories on top of both and the view models the screens bind to.
package app

import (
	"fmt"
	"log"

	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/config"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/models"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/repositories"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/services"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/session"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/viewmodels"
	"gorm.io/gorm"
)

// App holds one instance of every client component
type App struct {
	Config   *config.Config
	DB       *gorm.DB
	Sessions *session.Store
	Remote   *services.RemoteDataSource

	Users     *repositories.UserRepository
	Vehicles  *repositories.VehicleRepository
	Requests  *repositories.ServiceRequestRepository
	History   *repositories.RequestHistoryRepository
	Drafts    *repositories.DraftRequestRepository
	Addresses *repositories.AddressRepository
	Mechanics *repositories.MechanicRepository
	Images    *repositories.ImageRepository

	Login           *viewmodels.LoginViewModel
	Register        *viewmodels.RegisterViewModel
	Role            *viewmodels.RoleViewModel
	Session         *viewmodels.SessionViewModel
	VehicleList     *viewmodels.VehicleViewModel
	AddressList     *viewmodels.AddressViewModel
	MechanicList    *viewmodels.MechanicViewModel
	ServiceRequests *viewmodels.ServiceRequestViewModel

	ownsDB bool
}

// Open opens the on-device store at cfg.LocalDBPath, migrates it and builds the app
func Open(cfg *config.Config) (*App, error) {
	db, err := config.OpenDatabase(cfg.LocalDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	if err := db.AutoMigrate(models.LocalModels()...); err != nil {
		return nil, fmt.Errorf("failed to migrate local store: %w", err)
	}
	log.Printf("Local store ready at %s", cfg.LocalDBPath)

	a := New(cfg, db)
	a.ownsDB = true
	return a, nil
}

// New wires the client on top of an already migrated local store
func New(cfg *config.Config, db *gorm.DB) *App {
	sessions := session.NewStore(db)
	remote := services.NewRemoteDataSource(services.Endpoints{
		Users:    cfg.UserServiceURL,
		Requests: cfg.RequestServiceURL,
		Vehicles: cfg.VehicleServiceURL,
		Images:   cfg.ImageServiceURL,
	}, cfg.HTTPTimeout, sessions)

	a := &App{
		Config:   cfg,
		DB:       db,
		Sessions: sessions,
		Remote:   remote,

		Users:     repositories.NewUserRepository(remote, sessions),
		Vehicles:  repositories.NewVehicleRepository(remote, repositories.DefaultVehicleTTL),
		Requests:  repositories.NewServiceRequestRepository(remote),
		History:   repositories.NewRequestHistoryRepository(db),
		Addresses: repositories.NewAddressRepository(db),
		Mechanics: repositories.NewMechanicRepository(db),
		Images:    repositories.NewImageRepository(db, remote, cfg.CacheDir),
	}
	a.Drafts = repositories.NewDraftRequestRepository(db, a.Requests)

	a.Login = viewmodels.NewLoginViewModel(a.Users)
	a.Register = viewmodels.NewRegisterViewModel(a.Users, models.RoleClient)
	a.Role = viewmodels.NewRoleViewModel(sessions)
	a.Session = viewmodels.NewSessionViewModel(a.Users, sessions)
	a.VehicleList = viewmodels.NewVehicleViewModel(a.Vehicles)
	a.AddressList = viewmodels.NewAddressViewModel(a.Addresses)
	a.MechanicList = viewmodels.NewMechanicViewModel(a.Mechanics)
	a.ServiceRequests = viewmodels.NewServiceRequestViewModel(a.Requests, a.History)
	return a
}

// Close stops the vehicle watchers and, when Open created it, closes the local store
func (a *App) Close() error {
	a.VehicleList.Close()
	a.Vehicles.Close()

	if !a.ownsDB {
		return nil
	}
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
