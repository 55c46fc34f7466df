package session

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"

	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Keys of the preferences table. Every piece of session state lives under
// exactly one of them.
const (
	KeyLoggedIn     = "is_logged_in"
	KeyUserID       = "user_id"
	KeyUserEmail    = "user_email"
	KeyUserName     = "user_name"
	KeyUserRole     = "user_role"
	KeyAuthToken    = "auth_token"
	KeySelectedRole = "selected_role"
	KeyFirstRun     = "first_run"
	KeyDarkMode     = "dark_mode"
)

// sessionKeys are dropped on logout; first_run and dark_mode survive it
var sessionKeys = []string{KeyLoggedIn, KeyUserID, KeyUserEmail, KeyUserName, KeyUserRole, KeyAuthToken, KeySelectedRole}

// Session is the logged-in user as remembered on the device
type Session struct {
	IsLoggedIn bool
	UserID     int64
	Email      string
	Name       string
	Role       models.Role
	Token      string
}

// FromUser builds the session for a freshly authenticated user
func FromUser(user models.User, token string) Session {
	return Session{
		IsLoggedIn: true,
		UserID:     user.ID,
		Email:      user.Email,
		Name:       user.Name,
		Role:       user.Role,
		Token:      token,
	}
}

// Store persists session state in the preferences table
type Store struct {
	db *gorm.DB

	mu     sync.RWMutex
	token  string
	loaded bool
}

// NewStore creates a session store over db. The preferences table must exist.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Save replaces the stored session with s
func (st *Store) Save(ctx context.Context, s Session) error {
	values := map[string]string{
		KeyLoggedIn:  strconv.FormatBool(s.IsLoggedIn),
		KeyUserID:    strconv.FormatInt(s.UserID, 10),
		KeyUserEmail: s.Email,
		KeyUserName:  s.Name,
		KeyUserRole:  string(s.Role),
		KeyAuthToken: s.Token,
	}

	err := st.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for key, value := range values {
			if err := upsert(tx, key, value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	st.mu.Lock()
	st.token, st.loaded = s.Token, true
	st.mu.Unlock()
	return nil
}

// Load reads the stored session. A device that never logged in gets the zero Session.
func (st *Store) Load(ctx context.Context) (Session, error) {
	values, err := st.values(ctx, sessionKeys...)
	if err != nil {
		return Session{}, err
	}

	var s Session
	s.IsLoggedIn, _ = strconv.ParseBool(values[KeyLoggedIn])
	if s.IsLoggedIn {
		s.UserID, _ = strconv.ParseInt(values[KeyUserID], 10, 64)
		s.Email = values[KeyUserEmail]
		s.Name = values[KeyUserName]
		s.Token = values[KeyAuthToken]
		if role, err := models.ParseRole(values[KeyUserRole]); err == nil {
			s.Role = role
		}
	}

	st.mu.Lock()
	st.token, st.loaded = s.Token, true
	st.mu.Unlock()
	return s, nil
}

// Clear forgets the logged-in user
func (st *Store) Clear(ctx context.Context) error {
	if err := st.db.WithContext(ctx).Where("key IN ?", sessionKeys).Delete(&models.Preference{}).Error; err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	st.mu.Lock()
	st.token, st.loaded = "", true
	st.mu.Unlock()
	return nil
}

// Token returns the bearer token of the stored session, or "" when logged out
func (st *Store) Token() string {
	st.mu.RLock()
	token, loaded := st.token, st.loaded
	st.mu.RUnlock()
	if loaded {
		return token
	}

	s, err := st.Load(context.Background())
	if err != nil {
		log.Printf("Failed to read session token: %v", err)
		return ""
	}
	return s.Token
}

func (st *Store) SetSelectedRole(ctx context.Context, role models.Role) error {
	if !role.Valid() {
		return fmt.Errorf("invalid role %q", role)
	}
	return st.set(ctx, KeySelectedRole, string(role))
}

// SelectedRole returns the role picked on the role screen, or "" if none was picked
func (st *Store) SelectedRole(ctx context.Context) (models.Role, error) {
	raw, err := st.get(ctx, KeySelectedRole)
	if err != nil || raw == "" {
		return "", err
	}
	return models.ParseRole(raw)
}

func (st *Store) SetDarkMode(ctx context.Context, enabled bool) error {
	return st.set(ctx, KeyDarkMode, strconv.FormatBool(enabled))
}

func (st *Store) DarkMode(ctx context.Context) (bool, error) {
	raw, err := st.get(ctx, KeyDarkMode)
	if err != nil || raw == "" {
		return false, err
	}
	return strconv.ParseBool(raw)
}

// MarkFirstRunDone records that onboarding has been shown
func (st *Store) MarkFirstRunDone(ctx context.Context) error {
	return st.set(ctx, KeyFirstRun, "false")
}

// IsFirstRun is true until MarkFirstRunDone is called
func (st *Store) IsFirstRun(ctx context.Context) (bool, error) {
	raw, err := st.get(ctx, KeyFirstRun)
	if err != nil {
		return false, err
	}
	return raw != "false", nil
}

func (st *Store) set(ctx context.Context, key, value string) error {
	if err := upsert(st.db.WithContext(ctx), key, value); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func (st *Store) get(ctx context.Context, key string) (string, error) {
	values, err := st.values(ctx, key)
	if err != nil {
		return "", err
	}
	return values[key], nil
}

func (st *Store) values(ctx context.Context, keys ...string) (map[string]string, error) {
	var prefs []models.Preference
	if err := st.db.WithContext(ctx).Where("key IN ?", keys).Find(&prefs).Error; err != nil {
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}
	out := make(map[string]string, len(prefs))
	for _, p := range prefs {
		out[p.Key] = p.Value
	}
	return out, nil
}

func upsert(tx *gorm.DB, key, value string) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&models.Preference{Key: key, Value: value}).Error
}
