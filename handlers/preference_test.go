package handlers

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/messmate/messmate/services/preference"
	"github.com/messmate/messmate/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPreferenceFixture(t *testing.T) *PreferenceHandler {
	t.Helper()
	db := testutils.SetupTestDB(t, &preference.MealPreference{})
	return NewPreferenceHandler(preference.NewService(db, nil), nil)
}

func TestPreferenceHandler_Set(t *testing.T) {
	e := echo.New()

	t.Run("sets one flag", func(t *testing.T) {
		handler := newPreferenceFixture(t)
		c, rec := jsonContext(t, e, http.MethodPut, "/api/v1/preferences",
			`{"mealDate":"2025-01-01","mealType":"lunch","skip":true}`, student())

		require.NoError(t, handler.Set(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"skip_lunch":true`)
		assert.Contains(t, rec.Body.String(), `"skip_dinner":false`)
	})

	t.Run("invalid meal type", func(t *testing.T) {
		handler := newPreferenceFixture(t)
		c, rec := jsonContext(t, e, http.MethodPut, "/api/v1/preferences",
			`{"mealDate":"2025-01-01","mealType":"brunch","skip":true}`, student())

		require.NoError(t, handler.Set(c))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPreferenceHandler_Get(t *testing.T) {
	e := echo.New()
	handler := newPreferenceFixture(t)

	c, rec := jsonContext(t, e, http.MethodGet, "/api/v1/preferences?date=2025-01-01", "", student())
	require.NoError(t, handler.Get(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"skip_breakfast":false`)
}
