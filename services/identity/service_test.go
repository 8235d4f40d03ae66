package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/messmate/messmate/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Lookup(t *testing.T) {
	db := testutils.SetupTestDB(t, &UserProfile{}, &UserRole{})
	service := NewService(db, nil)

	t.Run("full profile with admin role", func(t *testing.T) {
		userID := uuid.New().String()
		require.NoError(t, db.Create(&UserProfile{
			ID:          userID,
			FullName:    "Asha Pillai",
			CollegeName: testutils.TestColleges.Default,
		}).Error)
		require.NoError(t, db.Create(&UserRole{
			ID:     uuid.New().String(),
			UserID: userID,
			Role:   string(RoleAdmin),
		}).Error)

		ident, err := service.Lookup(userID)

		require.NoError(t, err)
		assert.Equal(t, userID, ident.UserID)
		assert.Equal(t, "Asha Pillai", ident.FullName)
		assert.Equal(t, testutils.TestColleges.Default, ident.CollegeName)
		assert.Equal(t, RoleAdmin, ident.Role)
		assert.True(t, ident.IsAdmin())
	})

	t.Run("profile without role defaults to student", func(t *testing.T) {
		userID := uuid.New().String()
		require.NoError(t, db.Create(&UserProfile{
			ID:          userID,
			FullName:    "Ravi Kumar",
			CollegeName: testutils.TestColleges.Other,
		}).Error)

		ident, err := service.Lookup(userID)

		require.NoError(t, err)
		assert.Equal(t, RoleStudent, ident.Role)
		assert.False(t, ident.IsAdmin())
	})

	t.Run("unknown user falls back to defaults", func(t *testing.T) {
		ident, err := service.Lookup(uuid.New().String())

		require.NoError(t, err)
		assert.Equal(t, "User", ident.FullName)
		assert.Equal(t, DefaultCollege, ident.CollegeName)
		assert.Equal(t, RoleStudent, ident.Role)
	})

	t.Run("empty profile fields keep defaults", func(t *testing.T) {
		userID := uuid.New().String()
		require.NoError(t, db.Create(&UserProfile{ID: userID}).Error)

		ident, err := service.Lookup(userID)

		require.NoError(t, err)
		assert.Equal(t, "User", ident.FullName)
		assert.Equal(t, DefaultCollege, ident.CollegeName)
	})
}

func TestIdentity_IsZero(t *testing.T) {
	assert.True(t, Identity{}.IsZero())
	assert.False(t, Identity{UserID: "abc"}.IsZero())
}
