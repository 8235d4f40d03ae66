package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	mwjwt "github.com/messmate/messmate/middleware/jwt"
	"github.com/messmate/messmate/services/logging"
	"github.com/messmate/messmate/services/preference"
	"go.uber.org/zap"
)

type PreferenceHandler struct {
	preferences *preference.Service
	logger      *logging.Service
}

func NewPreferenceHandler(preferences *preference.Service, logger *logging.Service) *PreferenceHandler {
	return &PreferenceHandler{
		preferences: preferences,
		logger:      logger,
	}
}

type setPreferenceRequest struct {
	MealDate string `json:"mealDate"`
	MealType string `json:"mealType"`
	Skip     bool   `json:"skip"`
}

func (h *PreferenceHandler) Get(c echo.Context) error {
	ident := mwjwt.CurrentIdentity(c)
	pref, err := h.preferences.Get(ident, c.QueryParam("date"))

	switch {
	case err == nil:
		return c.JSON(http.StatusOK, pref)
	case errors.Is(err, preference.ErrInvalidDate):
		return c.JSON(http.StatusBadRequest, errorBody("Invalid meal date"))
	default:
		h.logger.Error("preference lookup failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorBody("Failed to load preferences"))
	}
}

func (h *PreferenceHandler) Set(c echo.Context) error {
	var req setPreferenceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("Invalid request body"))
	}

	ident := mwjwt.CurrentIdentity(c)
	pref, err := h.preferences.Set(ident, req.MealDate, req.MealType, req.Skip)

	switch {
	case err == nil:
		return c.JSON(http.StatusOK, pref)
	case errors.Is(err, preference.ErrInvalidMealType):
		return c.JSON(http.StatusBadRequest, errorBody("Invalid meal type"))
	case errors.Is(err, preference.ErrInvalidDate):
		return c.JSON(http.StatusBadRequest, errorBody("Invalid meal date"))
	default:
		h.logger.Error("preference update failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorBodyWithDetails("Failed to update preferences", err.Error()))
	}
}
