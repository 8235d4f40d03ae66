package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	mwjwt "github.com/messmate/messmate/middleware/jwt"
	"github.com/messmate/messmate/services/logging"
	"github.com/messmate/messmate/services/menu"
	"go.uber.org/zap"
)

type MenuHandler struct {
	menus  *menu.Service
	logger *logging.Service
}

func NewMenuHandler(menus *menu.Service, logger *logging.Service) *MenuHandler {
	return &MenuHandler{
		menus:  menus,
		logger: logger,
	}
}

type upsertMenuRequest struct {
	MealDate  string `json:"mealDate"`
	Breakfast string `json:"breakfast"`
	Lunch     string `json:"lunch"`
	Snacks    string `json:"snacks"`
	Dinner    string `json:"dinner"`
}

func (h *MenuHandler) Get(c echo.Context) error {
	ident := mwjwt.CurrentIdentity(c)
	dailyMenu, err := h.menus.Get(ident, c.QueryParam("date"))

	switch {
	case err == nil:
		return c.JSON(http.StatusOK, dailyMenu)
	case errors.Is(err, menu.ErrMenuNotFound):
		return c.JSON(http.StatusNotFound, errorBody("No menu published for this date"))
	case errors.Is(err, menu.ErrInvalidDate):
		return c.JSON(http.StatusBadRequest, errorBody("Invalid meal date"))
	default:
		h.logger.Error("menu lookup failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorBody("Failed to load menu"))
	}
}

func (h *MenuHandler) Upsert(c echo.Context) error {
	var req upsertMenuRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("Invalid request body"))
	}

	ident := mwjwt.CurrentIdentity(c)
	dailyMenu, err := h.menus.Upsert(ident, req.MealDate, req.Breakfast, req.Lunch, req.Snacks, req.Dinner)

	switch {
	case err == nil:
		return c.JSON(http.StatusOK, dailyMenu)
	case errors.Is(err, menu.ErrForbidden):
		return c.JSON(http.StatusForbidden, errorBody("Admin access required"))
	case errors.Is(err, menu.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, errorBody("Unauthorized"))
	case errors.Is(err, menu.ErrInvalidDate):
		return c.JSON(http.StatusBadRequest, errorBody("Invalid meal date"))
	default:
		h.logger.Error("menu publish failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorBodyWithDetails("Failed to publish menu", err.Error()))
	}
}
