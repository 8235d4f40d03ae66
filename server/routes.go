package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/messmate/messmate/config"
	"github.com/messmate/messmate/handlers"
	mwjwt "github.com/messmate/messmate/middleware/jwt"
	"github.com/messmate/messmate/openapi"
	"github.com/messmate/messmate/services/identity"
	"github.com/messmate/messmate/services/jwt"
)

const apiVersion = "1.0.0"

// RegisterRoutes wires the full HTTP surface. Everything under /api/v1
// requires a valid bearer token; redemption and the analytics reads are
// additionally restricted to admins.
func RegisterRoutes(
	srv *Server,
	cfg *config.Config,
	jwtService *jwt.Service,
	identityService *identity.Service,
	tokens *handlers.TokenHandler,
	menus *handlers.MenuHandler,
	preferences *handlers.PreferenceHandler,
) {
	srv.Get("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	spec := openapi.NewSpec(cfg.App.Name, apiVersion)
	srv.Get("/openapi.json", openapi.JSONHandler(spec))
	srv.Get("/openapi.yaml", openapi.YAMLHandler(spec))

	api := srv.Group("/api/v1", mwjwt.RequireAuth(jwtService, identityService))

	api.POST("/tokens", tokens.Issue)
	api.GET("/tokens/current", tokens.Current)
	api.POST("/tokens/redeem", tokens.Redeem, mwjwt.RequireAdmin())
	api.GET("/tokens/stats", tokens.Stats, mwjwt.RequireAdmin())
	api.GET("/tokens/breakdown", tokens.Breakdown, mwjwt.RequireAdmin())

	api.GET("/menu", menus.Get)
	api.PUT("/menu", menus.Upsert)

	api.GET("/preferences", preferences.Get)
	api.PUT("/preferences", preferences.Set)
}
