package seed

import (
	"context"
	"testing"

	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/models"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/testutil"
	"github.com/riighteousss/Proyecto-Desarrollo-App-sub000/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixturesAreConsistent(t *testing.T) {
	defaults := map[int64]int{}
	for _, v := range Vehicles() {
		assert.Empty(t, utils.ValidatePlate(v.Plate), "vehicle %d", v.ID)
		if v.IsDefault {
			defaults[v.UserID]++
		}
	}
	for userID, n := range defaults {
		assert.Equal(t, 1, n, "user %d must have exactly one default vehicle", userID)
	}

	for _, u := range Users() {
		assert.Empty(t, utils.ValidateEmail(u.Email))
		assert.Empty(t, utils.ValidatePhone(u.Phone))
		assert.True(t, u.Role.Valid())
	}
	assert.Empty(t, utils.ValidateStrongPassword(DefaultPassword))

	preferred := 0
	for _, m := range Mechanics() {
		if m.IsPreferred {
			preferred++
		}
	}
	assert.Equal(t, 1, preferred)
}

func TestBackendSeedsOnce(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenBackendDB(t)

	require.NoError(t, Backend(ctx, db))
	require.NoError(t, Backend(ctx, db))

	var users, vehicles, requests int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Vehicle{}).Count(&vehicles).Error)
	require.NoError(t, db.Model(&models.ServiceRequest{}).Count(&requests).Error)
	assert.Equal(t, int64(len(Users())), users)
	assert.Equal(t, int64(len(Vehicles())), vehicles)
	assert.Equal(t, int64(len(ServiceRequests())), requests)

	var cred models.Credential
	require.NoError(t, db.First(&cred, "user_id = ?", 3).Error)
	assert.True(t, utils.CheckPassword(cred.PasswordHash, DefaultPassword))
}
