package repositories

import (
	"context"
	"log"
	"strings"

	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/models"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/services"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/session"
)

// RegisterInput is what the registration form collects
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Role     models.Role
}

// UserRepository authenticates against the user service and keeps the
// resulting session on the device. Passwords are never stored.
type UserRepository struct {
	remote   UserRemote
	sessions *session.Store
}

func NewUserRepository(remote UserRemote, sessions *session.Store) *UserRepository {
	return &UserRepository{remote: remote, sessions: sessions}
}

// Login authenticates and stores the session with its token
func (r *UserRepository) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, token, err := r.remote.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := r.sessions.Save(ctx, session.FromUser(*user, token)); err != nil {
		return nil, err
	}
	log.Printf("User %d logged in as %s", user.ID, user.Role)
	return user, nil
}

// Register creates the account and logs straight into it
func (r *UserRepository) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	created, err := r.remote.Register(ctx, in.Name, in.Email, in.Phone, in.Password, in.Role)
	if err != nil {
		return nil, err
	}
	log.Printf("Registered user %d (%s)", created.ID, created.Email)
	return r.Login(ctx, strings.TrimSpace(in.Email), in.Password)
}

func (r *UserRepository) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return r.remote.GetUser(ctx, id)
}

func (r *UserRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	return r.remote.ListUsers(ctx)
}

// UpdateProfile updates a user and, when it is the logged-in one, the stored session
func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, req services.UpdateUserRequest) (*models.User, error) {
	updated, err := r.remote.UpdateUser(ctx, id, req)
	if err != nil {
		return nil, err
	}

	current, err := r.sessions.Load(ctx)
	if err != nil {
		return nil, err
	}
	if current.IsLoggedIn && current.UserID == updated.ID {
		if err := r.sessions.Save(ctx, session.FromUser(*updated, current.Token)); err != nil {
			return nil, err
		}
	}
	return updated, nil
}

// DeleteUser removes a user; deleting yourself also logs out
func (r *UserRepository) DeleteUser(ctx context.Context, id int64) error {
	if err := r.remote.DeleteUser(ctx, id); err != nil {
		return err
	}
	current, err := r.sessions.Load(ctx)
	if err != nil {
		return err
	}
	if current.IsLoggedIn && current.UserID == id {
		return r.sessions.Clear(ctx)
	}
	return nil
}

// CurrentSession returns the stored session, logged out or not
func (r *UserRepository) CurrentSession(ctx context.Context) (session.Session, error) {
	return r.sessions.Load(ctx)
}

func (r *UserRepository) Logout(ctx context.Context) error {
	return r.sessions.Clear(ctx)
}
