package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	mwjwt "github.com/messmate/messmate/middleware/jwt"
	"github.com/messmate/messmate/services/logging"
	"github.com/messmate/messmate/services/token"
	"go.uber.org/zap"
)

type TokenHandler struct {
	tokens *token.Service
	logger *logging.Service
}

func NewTokenHandler(tokens *token.Service, logger *logging.Service) *TokenHandler {
	return &TokenHandler{
		tokens: tokens,
		logger: logger,
	}
}

type issueRequest struct {
	MealType string `json:"mealType"`
	MealDate string `json:"mealDate"`
}

type redeemRequest struct {
	TokenCode string `json:"tokenCode"`
	MealDate  string `json:"mealDate"`
}

func (h *TokenHandler) Issue(c echo.Context) error {
	var req issueRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("Invalid request body"))
	}

	ident := mwjwt.CurrentIdentity(c)
	tok, err := h.tokens.Issue(ident, req.MealType, req.MealDate)

	switch {
	case err == nil:
		return c.JSON(http.StatusCreated, map[string]any{
			"success": true,
			"token":   tok,
			"message": "Token generated successfully",
		})
	case errors.Is(err, token.ErrTokenExists):
		return c.JSON(http.StatusConflict, map[string]any{
			"error":      "Token already exists for this meal today",
			"token_code": tok.TokenCode,
		})
	case errors.Is(err, token.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, errorBody("Unauthorized"))
	case errors.Is(err, token.ErrInvalidMealType):
		return c.JSON(http.StatusBadRequest, errorBody("Meal type is required"))
	case errors.Is(err, token.ErrInvalidDate):
		return c.JSON(http.StatusBadRequest, errorBody("Invalid meal date"))
	default:
		h.logger.Error("token issuance failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorBodyWithDetails("Failed to generate token", err.Error()))
	}
}

func (h *TokenHandler) Current(c echo.Context) error {
	ident := mwjwt.CurrentIdentity(c)
	tok, err := h.tokens.Latest(ident, c.QueryParam("date"))

	switch {
	case err == nil:
		return c.JSON(http.StatusOK, map[string]any{"token": tok})
	case errors.Is(err, token.ErrTokenNotFound):
		return c.JSON(http.StatusNotFound, errorBody("No token for this date"))
	case errors.Is(err, token.ErrInvalidDate):
		return c.JSON(http.StatusBadRequest, errorBody("Invalid meal date"))
	default:
		h.logger.Error("token lookup failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorBody("Failed to load token"))
	}
}

func (h *TokenHandler) Redeem(c echo.Context) error {
	var req redeemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("Invalid request body"))
	}

	ident := mwjwt.CurrentIdentity(c)
	result, err := h.tokens.Redeem(ident, req.TokenCode, req.MealDate, c.Request().UserAgent())

	switch {
	case err == nil:
		return c.JSON(http.StatusOK, map[string]any{
			"success":   true,
			"token":     result.Token,
			"meal_type": result.MealType,
		})
	case errors.Is(err, token.ErrInvalidTokenCode):
		return c.JSON(http.StatusBadRequest, errorBody("Token code is required"))
	case errors.Is(err, token.ErrInvalidDate):
		return c.JSON(http.StatusBadRequest, errorBody("Invalid meal date"))
	case errors.Is(err, token.ErrTokenNotFound):
		return c.JSON(http.StatusNotFound, errorBody("Token not found or expired"))
	case errors.Is(err, token.ErrTokenAlreadyUsed):
		return c.JSON(http.StatusConflict, errorBody("Token already used"))
	default:
		h.logger.Error("token redemption failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorBodyWithDetails("Failed to redeem token", err.Error()))
	}
}

// Stats and Breakdown are dashboard refresh reads: store failures degrade to
// empty payloads instead of surfacing an error.
func (h *TokenHandler) Stats(c echo.Context) error {
	ident := mwjwt.CurrentIdentity(c)
	stats, err := h.tokens.Stats(ident, c.QueryParam("date"))

	switch {
	case err == nil:
		return c.JSON(http.StatusOK, stats)
	case errors.Is(err, token.ErrInvalidDate):
		return c.JSON(http.StatusBadRequest, errorBody("Invalid meal date"))
	default:
		h.logger.Warn("token stats unavailable", zap.Error(err))
		return c.JSON(http.StatusOK, &token.Stats{})
	}
}

func (h *TokenHandler) Breakdown(c echo.Context) error {
	ident := mwjwt.CurrentIdentity(c)
	breakdown, err := h.tokens.Breakdown(ident, c.QueryParam("date"))

	switch {
	case err == nil:
		return c.JSON(http.StatusOK, map[string]any{"counts": breakdown})
	case errors.Is(err, token.ErrInvalidDate):
		return c.JSON(http.StatusBadRequest, errorBody("Invalid meal date"))
	default:
		h.logger.Warn("token breakdown unavailable", zap.Error(err))
		return c.JSON(http.StatusOK, map[string]any{"counts": map[string]int64{}})
	}
}

func errorBody(message string) map[string]any {
	return map[string]any{"error": message}
}

func errorBodyWithDetails(message, details string) map[string]any {
	return map[string]any{"error": message, "details": details}
}
