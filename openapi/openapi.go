package openapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"gopkg.in/yaml.v3"
)

// NewSpec describes the HTTP surface. The document is assembled once at
// startup and served as-is; it is documentation, not request validation.
func NewSpec(title, version string) *openapi3.T {
	spec := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       title,
			Version:     version,
			Description: "Hostel mess management: daily menus, meal tokens and redemption.",
		},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			SecuritySchemes: openapi3.SecuritySchemes{
				"bearerAuth": &openapi3.SecuritySchemeRef{
					Value: openapi3.NewJWTSecurityScheme(),
				},
			},
		},
	}

	spec.Tags = openapi3.Tags{
		{Name: "tokens", Description: "Meal token issuance, redemption and analytics"},
		{Name: "menu", Description: "Daily menu publishing"},
		{Name: "preferences", Description: "Per-day meal opt-outs"},
	}

	spec.Paths.Set("/api/v1/tokens", &openapi3.PathItem{
		Post: operation("tokens", "issueToken", "Issue a meal token",
			"Creates one token per user, meal type and date. A duplicate request returns the existing token's code.",
			map[int]string{
				201: "Token issued",
				400: "Invalid meal type or date",
				401: "Missing or invalid bearer token",
				409: "Token already exists for this meal",
				500: "Store failure",
			}),
	})

	spec.Paths.Set("/api/v1/tokens/current", &openapi3.PathItem{
		Get: withDateParam(operation("tokens", "currentToken", "Latest token for a date", "",
			map[int]string{
				200: "Latest token",
				404: "No token for this date",
			})),
	})

	spec.Paths.Set("/api/v1/tokens/redeem", &openapi3.PathItem{
		Post: operation("tokens", "redeemToken", "Redeem a token at the counter",
			"Marks a token used exactly once. A token issued for another date reads as not found.",
			map[int]string{
				200: "Token redeemed",
				400: "Missing token code",
				404: "Token not found or expired",
				409: "Token already used",
			}),
	})

	spec.Paths.Set("/api/v1/tokens/stats", &openapi3.PathItem{
		Get: withDateParam(operation("tokens", "tokenStats", "Total / used / unused counts", "",
			map[int]string{200: "Counts for the date"})),
	})

	spec.Paths.Set("/api/v1/tokens/breakdown", &openapi3.PathItem{
		Get: withDateParam(operation("tokens", "tokenBreakdown", "Per-meal-type counts", "",
			map[int]string{200: "Counts grouped by meal type"})),
	})

	spec.Paths.Set("/api/v1/menu", &openapi3.PathItem{
		Get: withDateParam(operation("menu", "getMenu", "Published menu for a date", "",
			map[int]string{
				200: "Daily menu",
				404: "No menu published",
			})),
		Put: operation("menu", "publishMenu", "Publish the day's menu",
			"Admin only. Replaces all four meal fields wholesale.",
			map[int]string{
				200: "Menu published",
				403: "Admin role required",
			}),
	})

	spec.Paths.Set("/api/v1/preferences", &openapi3.PathItem{
		Get: withDateParam(operation("preferences", "getPreferences", "Skip flags for a date", "",
			map[int]string{200: "Preference flags"})),
		Put: operation("preferences", "setPreference", "Toggle one skip flag",
			"Upserts a single flag, leaving the others untouched.",
			map[int]string{
				200: "Updated flags",
				400: "Invalid meal type",
			}),
	})

	return spec
}

func operation(tag, id, summary, description string, responses map[int]string) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.Tags = []string{tag}
	op.OperationID = id
	op.Summary = summary
	op.Description = description
	op.Security = openapi3.NewSecurityRequirements().
		With(openapi3.NewSecurityRequirement().Authenticate("bearerAuth"))

	op.Responses = openapi3.NewResponses()
	for status, desc := range responses {
		op.Responses.Set(strconv.Itoa(status), &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription(desc),
		})
	}

	return op
}

func withDateParam(op *openapi3.Operation) *openapi3.Operation {
	op.Parameters = append(op.Parameters, &openapi3.ParameterRef{
		Value: &openapi3.Parameter{
			Name:        "date",
			In:          "query",
			Description: "Meal date (YYYY-MM-DD), defaults to today",
			Schema:      openapi3.NewStringSchema().NewRef(),
		},
	})
	return op
}

func JSONHandler(spec *openapi3.T) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, spec)
	}
}

func YAMLHandler(spec *openapi3.T) echo.HandlerFunc {
	return func(c echo.Context) error {
		jsonBytes, err := json.Marshal(spec)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to render spec")
		}

		var doc map[string]any
		if err := json.Unmarshal(jsonBytes, &doc); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to render spec")
		}

		yamlBytes, err := yaml.Marshal(doc)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to render spec")
		}

		return c.Blob(http.StatusOK, "application/yaml", yamlBytes)
	}
}
