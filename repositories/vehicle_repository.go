package repositories

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/karlseguin/ccache/v3"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/models"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/services"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/state"
	"golang.org/x/sync/singleflight"
)

// DefaultVehicleTTL is how long a fetched vehicle list is served without refetching
const DefaultVehicleTTL = 5 * time.Minute

// VehicleRepository owns one shared vehicle list per user. Every observer of a
// user sees the same list, fetches for the same user are collapsed, and
// mutations update the list in place.
type VehicleRepository struct {
	remote VehicleRemote
	ttl    time.Duration

	cache *ccache.Cache[[]models.Vehicle]
	group singleflight.Group

	mu    sync.Mutex
	lists map[int64]*state.Observable[[]models.Vehicle]
	locks map[int64]*sync.Mutex
}

func NewVehicleRepository(remote VehicleRemote, ttl time.Duration) *VehicleRepository {
	if ttl <= 0 {
		ttl = DefaultVehicleTTL
	}
	return &VehicleRepository{
		remote: remote,
		ttl:    ttl,
		cache:  ccache.New(ccache.Configure[[]models.Vehicle]().MaxSize(500)),
		lists:  make(map[int64]*state.Observable[[]models.Vehicle]),
		locks:  make(map[int64]*sync.Mutex),
	}
}

// Observe subscribes to the vehicle list of userID. The channel first carries
// the cached list (possibly empty) and then every later version. When nothing
// fresh is cached a fetch is started; concurrent observers share it.
func (r *VehicleRepository) Observe(ctx context.Context, userID int64) (<-chan []models.Vehicle, func()) {
	ch, cancel := r.list(userID).Subscribe()

	if _, fresh := r.cached(userID); !fresh {
		go func() {
			if _, err := r.Refresh(ctx, userID); err != nil {
				log.Printf("Failed to refresh vehicles for user %d: %v", userID, err)
			}
		}()
	}
	return ch, cancel
}

// GetVehicles returns the list of userID, from the cache when it is fresh
func (r *VehicleRepository) GetVehicles(ctx context.Context, userID int64) ([]models.Vehicle, error) {
	if vehicles, fresh := r.cached(userID); fresh {
		return vehicles, nil
	}
	return r.Refresh(ctx, userID)
}

// Refresh refetches the list of userID and publishes it to every observer
func (r *VehicleRepository) Refresh(ctx context.Context, userID int64) ([]models.Vehicle, error) {
	v, err, _ := r.group.Do(cacheKey(userID), func() (interface{}, error) {
		vehicles, err := r.remote.ListVehicles(ctx, userID)
		if err != nil {
			return nil, err
		}
		r.publish(userID, vehicles)
		return vehicles, nil
	})
	if err != nil {
		return nil, err
	}
	return copyVehicles(v.([]models.Vehicle)), nil
}

func (r *VehicleRepository) GetVehicle(ctx context.Context, id int64) (*models.Vehicle, error) {
	return r.remote.GetVehicle(ctx, id)
}

// Create adds a vehicle and appends it to its owner's list
func (r *VehicleRepository) Create(ctx context.Context, v models.Vehicle) (*models.Vehicle, error) {
	created, err := r.remote.CreateVehicle(ctx, v)
	if err != nil {
		return nil, err
	}
	r.mutate(created.UserID, func(list []models.Vehicle) []models.Vehicle {
		return withDefault(append(list, *created), *created)
	})
	return created, nil
}

// Update saves v and replaces it in its owner's list
func (r *VehicleRepository) Update(ctx context.Context, v models.Vehicle) (*models.Vehicle, error) {
	updated, err := r.remote.UpdateVehicle(ctx, v)
	if err != nil {
		return nil, err
	}
	r.mutate(updated.UserID, func(list []models.Vehicle) []models.Vehicle {
		replaced := false
		for i := range list {
			if list[i].ID == updated.ID {
				list[i] = *updated
				replaced = true
			}
		}
		if !replaced {
			list = append(list, *updated)
		}
		return withDefault(list, *updated)
	})
	return updated, nil
}

func (r *VehicleRepository) Delete(ctx context.Context, userID, vehicleID int64) error {
	if err := r.remote.DeleteVehicle(ctx, vehicleID); err != nil {
		return err
	}
	r.mutate(userID, func(list []models.Vehicle) []models.Vehicle {
		out := list[:0]
		for _, v := range list {
			if v.ID != vehicleID {
				out = append(out, v)
			}
		}
		return out
	})
	return nil
}

// SetDefault makes vehicleID the only default vehicle of userID. vehicleID
// must belong to userID. The remote
// contract needs two calls (clear, then set); they run under a per-user lock
// so two SetDefault calls for the same user never interleave. If the set step
// fails the previous default is restored best-effort. The shared list is
// refetched afterwards either way.
func (r *VehicleRepository) SetDefault(ctx context.Context, userID, vehicleID int64) (*models.Vehicle, error) {
	lock := r.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	target, err := r.remote.GetVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if target.UserID != userID {
		return nil, services.NewValidationError("El vehículo no pertenece a este usuario", fmt.Errorf("vehicle %d belongs to user %d, not %d", vehicleID, target.UserID, userID))
	}

	previous, err := r.remote.GetDefaultVehicle(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := r.remote.ClearDefaultVehicle(ctx, userID); err != nil {
		return nil, err
	}

	updated, err := r.remote.SetDefaultVehicle(ctx, vehicleID)
	if err != nil {
		if previous != nil && previous.ID != vehicleID {
			if _, restoreErr := r.remote.SetDefaultVehicle(ctx, previous.ID); restoreErr != nil {
				log.Printf("Failed to restore default vehicle %d for user %d: %v", previous.ID, userID, restoreErr)
			}
		}
		r.refreshAfterWrite(ctx, userID)
		return nil, err
	}

	r.mutate(userID, func(list []models.Vehicle) []models.Vehicle {
		return withDefault(list, *updated)
	})
	r.refreshAfterWrite(ctx, userID)
	return updated, nil
}

// GetDefault returns the default vehicle of userID, or nil when there is none
func (r *VehicleRepository) GetDefault(ctx context.Context, userID int64) (*models.Vehicle, error) {
	return r.remote.GetDefaultVehicle(ctx, userID)
}

func (r *VehicleRepository) Count(ctx context.Context, userID int64) (int64, error) {
	return r.remote.CountVehicles(ctx, userID)
}

// Invalidate drops the cached list of userID so the next read refetches
func (r *VehicleRepository) Invalidate(userID int64) {
	r.cache.Delete(cacheKey(userID))
}

// Close ends every subscription and stops the cache
func (r *VehicleRepository) Close() {
	r.mu.Lock()
	for _, l := range r.lists {
		l.Close()
	}
	r.mu.Unlock()
	r.cache.Stop()
}

func (r *VehicleRepository) list(userID int64) *state.Observable[[]models.Vehicle] {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lists[userID]
	if !ok {
		initial := []models.Vehicle{}
		if item := r.cache.Get(cacheKey(userID)); item != nil {
			initial = copyVehicles(item.Value())
		}
		l = state.NewObservable(initial)
		r.lists[userID] = l
	}
	return l
}

func (r *VehicleRepository) userLock(userID int64) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[userID] = l
	}
	return l
}

// cached returns the cached list of userID and whether it is still fresh
func (r *VehicleRepository) cached(userID int64) ([]models.Vehicle, bool) {
	item := r.cache.Get(cacheKey(userID))
	if item == nil || item.Expired() {
		return nil, false
	}
	return copyVehicles(item.Value()), true
}

func (r *VehicleRepository) publish(userID int64, vehicles []models.Vehicle) {
	r.cache.Set(cacheKey(userID), copyVehicles(vehicles), r.ttl)
	r.list(userID).Set(copyVehicles(vehicles))
}

// mutate edits the shared list of userID in place. Users whose list was never
// fetched are left alone; their first read fetches the full list.
func (r *VehicleRepository) mutate(userID int64, fn func([]models.Vehicle) []models.Vehicle) {
	item := r.cache.Get(cacheKey(userID))
	if item == nil {
		return
	}
	updated := r.list(userID).Update(func(list []models.Vehicle) []models.Vehicle {
		return fn(copyVehicles(list))
	})
	r.cache.Set(cacheKey(userID), copyVehicles(updated), r.ttl)
}

func (r *VehicleRepository) refreshAfterWrite(ctx context.Context, userID int64) {
	r.Invalidate(userID)
	if _, err := r.Refresh(ctx, userID); err != nil {
		log.Printf("Failed to refresh vehicles for user %d after write: %v", userID, err)
	}
}

// withDefault clears every other default flag when v is the default
func withDefault(list []models.Vehicle, v models.Vehicle) []models.Vehicle {
	if !v.IsDefault {
		return list
	}
	for i := range list {
		list[i].IsDefault = list[i].ID == v.ID
	}
	return list
}

func copyVehicles(in []models.Vehicle) []models.Vehicle {
	out := make([]models.Vehicle, len(in))
	copy(out, in)
	return out
}

func cacheKey(userID int64) string {
	return "vehicles:" + strconv.FormatInt(userID, 10)
}
