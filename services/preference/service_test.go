package preference

import (
	"testing"

	"github.com/google/uuid"
	"github.com/messmate/messmate/services/identity"
	"github.com/messmate/messmate/services/token"
	"github.com/messmate/messmate/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStudent() identity.Identity {
	return identity.Identity{
		UserID:      uuid.New().String(),
		CollegeName: testutils.TestColleges.Default,
		Role:        identity.RoleStudent,
	}
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(testutils.SetupTestDB(t, &MealPreference{}), nil)
}

func TestService_Set(t *testing.T) {
	t.Run("first flag creates the row", func(t *testing.T) {
		service := newTestService(t)
		student := testStudent()

		pref, err := service.Set(student, "2025-01-01", token.MealLunch, true)

		require.NoError(t, err)
		assert.True(t, pref.SkipLunch)
		assert.False(t, pref.SkipBreakfast)
		assert.False(t, pref.SkipSnacks)
		assert.False(t, pref.SkipDinner)
	})

	t.Run("flags are independent", func(t *testing.T) {
		service := newTestService(t)
		student := testStudent()

		_, err := service.Set(student, "2025-01-01", token.MealLunch, true)
		require.NoError(t, err)
		pref, err := service.Set(student, "2025-01-01", token.MealDinner, true)
		require.NoError(t, err)

		assert.True(t, pref.SkipLunch)
		assert.True(t, pref.SkipDinner)

		// unsetting one leaves the other
		pref, err = service.Set(student, "2025-01-01", token.MealLunch, false)
		require.NoError(t, err)
		assert.False(t, pref.SkipLunch)
		assert.True(t, pref.SkipDinner)

		var count int64
		require.NoError(t, service.db.Model(&MealPreference{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("meal type is case insensitive", func(t *testing.T) {
		service := newTestService(t)

		pref, err := service.Set(testStudent(), "2025-01-01", "Breakfast", true)

		require.NoError(t, err)
		assert.True(t, pref.SkipBreakfast)
	})

	t.Run("invalid meal type", func(t *testing.T) {
		service := newTestService(t)

		pref, err := service.Set(testStudent(), "2025-01-01", "brunch", true)

		assert.Nil(t, pref)
		assert.ErrorIs(t, err, ErrInvalidMealType)
	})

	t.Run("zero identity", func(t *testing.T) {
		service := newTestService(t)

		pref, err := service.Set(identity.Identity{}, "2025-01-01", token.MealLunch, true)

		assert.Nil(t, pref)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestService_Get(t *testing.T) {
	service := newTestService(t)
	student := testStudent()

	t.Run("absent row reads as all unset", func(t *testing.T) {
		pref, err := service.Get(student, "2025-01-01")

		require.NoError(t, err)
		assert.False(t, pref.SkipBreakfast)
		assert.False(t, pref.SkipLunch)
		assert.False(t, pref.SkipSnacks)
		assert.False(t, pref.SkipDinner)
	})

	t.Run("dates are independent", func(t *testing.T) {
		_, err := service.Set(student, "2025-01-01", token.MealSnacks, true)
		require.NoError(t, err)

		pref, err := service.Get(student, "2025-01-02")
		require.NoError(t, err)
		assert.False(t, pref.SkipSnacks)
	})

	t.Run("users are independent", func(t *testing.T) {
		other := testStudent()

		pref, err := service.Get(other, "2025-01-01")
		require.NoError(t, err)
		assert.False(t, pref.SkipSnacks)
	})
}
