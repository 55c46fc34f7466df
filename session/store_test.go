package session

import (
	"context"
	"testing"

	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/models"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/testutil"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type StoreTestSuite struct {
	suite.Suite
	db    *gorm.DB
	store *Store
	ctx   context.Context
}

func (s *StoreTestSuite) SetupTest() {
	s.db = testutil.OpenLocalDB(s.T())
	s.store = NewStore(s.db)
	s.ctx = context.Background()
}

func (s *StoreTestSuite) TestLoadWithoutSessionIsLoggedOut() {
	sess, err := s.store.Load(s.ctx)
	s.Require().NoError(err)
	s.False(sess.IsLoggedIn)
	s.Empty(s.store.Token())
}

func (s *StoreTestSuite) TestSaveAndLoad() {
	user := models.User{ID: 12, Email: "ana@fixsy.cl", Name: "Ana", Role: models.RoleMechanic}
	s.Require().NoError(s.store.Save(s.ctx, FromUser(user, "tok-1")))

	// a second store over the same table sees the same session
	sess, err := NewStore(s.db).Load(s.ctx)
	s.Require().NoError(err)
	s.True(sess.IsLoggedIn)
	s.Equal(int64(12), sess.UserID)
	s.Equal("ana@fixsy.cl", sess.Email)
	s.Equal("Ana", sess.Name)
	s.Equal(models.RoleMechanic, sess.Role)
	s.Equal("tok-1", sess.Token)
	s.Equal("tok-1", s.store.Token())
}

func (s *StoreTestSuite) TestSaveOverwritesPreviousSession() {
	s.Require().NoError(s.store.Save(s.ctx, FromUser(models.User{ID: 1, Email: "a@fixsy.cl", Role: models.RoleClient}, "old")))
	s.Require().NoError(s.store.Save(s.ctx, FromUser(models.User{ID: 2, Email: "b@fixsy.cl", Role: models.RoleAdmin}, "new")))

	var count int64
	s.Require().NoError(s.db.Model(&models.Preference{}).Where("key = ?", KeyUserID).Count(&count).Error)
	s.Equal(int64(1), count)

	sess, err := s.store.Load(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(2), sess.UserID)
	s.Equal("new", s.store.Token())
}

func (s *StoreTestSuite) TestClearKeepsDeviceSettings() {
	s.Require().NoError(s.store.SetDarkMode(s.ctx, true))
	s.Require().NoError(s.store.MarkFirstRunDone(s.ctx))
	s.Require().NoError(s.store.SetSelectedRole(s.ctx, models.RoleClient))
	s.Require().NoError(s.store.Save(s.ctx, FromUser(models.User{ID: 3, Role: models.RoleClient}, "tok")))

	s.Require().NoError(s.store.Clear(s.ctx))

	sess, err := s.store.Load(s.ctx)
	s.Require().NoError(err)
	s.False(sess.IsLoggedIn)
	s.Empty(s.store.Token())

	dark, err := s.store.DarkMode(s.ctx)
	s.Require().NoError(err)
	s.True(dark)

	first, err := s.store.IsFirstRun(s.ctx)
	s.Require().NoError(err)
	s.False(first)

	role, err := s.store.SelectedRole(s.ctx)
	s.Require().NoError(err)
	s.Empty(role)
}

func (s *StoreTestSuite) TestSelectedRole() {
	role, err := s.store.SelectedRole(s.ctx)
	s.Require().NoError(err)
	s.Empty(role)

	s.Require().NoError(s.store.SetSelectedRole(s.ctx, models.RoleMechanic))
	role, err = s.store.SelectedRole(s.ctx)
	s.Require().NoError(err)
	s.Equal(models.RoleMechanic, role)

	s.Error(s.store.SetSelectedRole(s.ctx, models.Role("PILOT")))
}

func (s *StoreTestSuite) TestFirstRunAndDarkModeDefaults() {
	first, err := s.store.IsFirstRun(s.ctx)
	s.Require().NoError(err)
	s.True(first)

	dark, err := s.store.DarkMode(s.ctx)
	s.Require().NoError(err)
	s.False(dark)

	s.Require().NoError(s.store.SetDarkMode(s.ctx, true))
	s.Require().NoError(s.store.SetDarkMode(s.ctx, false))
	dark, err = s.store.DarkMode(s.ctx)
	s.Require().NoError(err)
	s.False(dark)
}

func (s *StoreTestSuite) TestTokenLoadsLazily() {
	s.Require().NoError(NewStore(s.db).Save(s.ctx, FromUser(models.User{ID: 5, Role: models.RoleClient}, "persisted")))
	s.Equal("persisted", NewStore(s.db).Token())
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}
