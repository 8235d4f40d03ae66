package handlers

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/messmate/messmate/services/menu"
	"github.com/messmate/messmate/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMenuFixture(t *testing.T) (*MenuHandler, *menu.Service) {
	t.Helper()
	db := testutils.SetupTestDB(t, &menu.DailyMenu{})
	service := menu.NewService(db, nil)
	return NewMenuHandler(service, nil), service
}

func TestMenuHandler_Upsert(t *testing.T) {
	e := echo.New()

	t.Run("admin publishes", func(t *testing.T) {
		handler, _ := newMenuFixture(t)
		c, rec := jsonContext(t, e, http.MethodPut, "/api/v1/menu",
			`{"mealDate":"2025-01-01","breakfast":"Idli, Sambar","lunch":"Dal, Rice","snacks":"Samosa","dinner":"Roti"}`,
			admin())

		require.NoError(t, handler.Upsert(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Idli, Sambar")
	})

	t.Run("student forbidden", func(t *testing.T) {
		handler, _ := newMenuFixture(t)
		c, rec := jsonContext(t, e, http.MethodPut, "/api/v1/menu",
			`{"mealDate":"2025-01-01","breakfast":"Idli"}`, student())

		require.NoError(t, handler.Upsert(c))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("invalid date", func(t *testing.T) {
		handler, _ := newMenuFixture(t)
		c, rec := jsonContext(t, e, http.MethodPut, "/api/v1/menu",
			`{"mealDate":"tomorrow"}`, admin())

		require.NoError(t, handler.Upsert(c))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestMenuHandler_Get(t *testing.T) {
	e := echo.New()

	t.Run("published menu", func(t *testing.T) {
		handler, service := newMenuFixture(t)
		_, err := service.Upsert(admin(), "2025-01-01", "Idli", "Dal", "Tea", "Roti")
		require.NoError(t, err)

		c, rec := jsonContext(t, e, http.MethodGet, "/api/v1/menu?date=2025-01-01", "", student())
		require.NoError(t, handler.Get(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Dal")
	})

	t.Run("unpublished date", func(t *testing.T) {
		handler, _ := newMenuFixture(t)
		c, rec := jsonContext(t, e, http.MethodGet, "/api/v1/menu?date=2025-06-01", "", student())

		require.NoError(t, handler.Get(c))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
