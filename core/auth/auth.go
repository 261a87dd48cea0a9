package auth

import (
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"vansales.GO/config"
	authRepo "vansales.GO/model/repository/auth"
)

// Middleware returns the auth middleware based on AUTH_TYPE env var.
func Middleware(db *gorm.DB) echo.MiddlewareFunc {
	skipper := buildSkipper()
	authType := os.Getenv("AUTH_TYPE")
	switch authType {
	case "key":
		return keyAuth(skipper)
	case "token":
		return tokenAuth(authRepo.NewAuthRepository(db), skipper)
	default:
		return basicAuth(skipper)
	}
}

func buildSkipper() middleware.Skipper {
	skipPaths := config.GetAuthSkipperPaths()
	return func(c echo.Context) bool {
		path := c.Path()
		for _, skip := range skipPaths {
			if path == skip {
				return true
			}
		}
		return false
	}
}

func basicAuth(skipper middleware.Skipper) echo.MiddlewareFunc {
	return middleware.BasicAuthWithConfig(middleware.BasicAuthConfig{
		Validator: func(username, password string, c echo.Context) (bool, error) {
			return username == os.Getenv("API_USER") && password == os.Getenv("API_PASS"), nil
		},
		Skipper: skipper,
	})
}

func keyAuth(skipper middleware.Skipper) echo.MiddlewareFunc {
	apiKey := os.Getenv("API_KEY")
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		Validator: func(key string, c echo.Context) (bool, error) {
			return key == apiKey, nil
		},
		Skipper: skipper,
	})
}

func tokenAuth(repo *authRepo.AuthRepository, skipper middleware.Skipper) echo.MiddlewareFunc {
	staticKey := os.Getenv("API_KEY")
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		Validator: func(token string, c echo.Context) (bool, error) {
			if staticKey != "" && token == staticKey {
				c.Set("auth_type", "static")
				return true, nil
			}
			apiToken, err := repo.FindActiveToken(token)
			if err != nil {
				return false, nil
			}
			c.Set("auth_type", "token")
			loadIdentity(repo, c, apiToken.UserID)
			return true, nil
		},
		Skipper: skipper,
	})
}

// loadIdentity resolves the token's user into the caller identity used to
// stamp created_by/updated_by: id, role, permissions, depot and zone.
func loadIdentity(repo *authRepo.AuthRepository, c echo.Context, userID *uint) {
	if userID == nil {
		return
	}
	user, err := repo.FindUser(*userID)
	if err != nil || user.IsActive == 0 {
		return
	}
	c.Set("user_id", user.UserID)
	if user.DepotID != nil {
		c.Set("depot_id", *user.DepotID)
	}
	if user.ZoneID != nil {
		c.Set("zone_id", *user.ZoneID)
	}
	if user.RoleID == nil {
		return
	}
	role, err := repo.FindRole(*user.RoleID)
	if err != nil {
		return
	}
	c.Set("role_id", role.RoleID)
	c.Set("role_name", role.RoleName)

	permissions, err := repo.FindPermissions(role.RoleID)
	if err != nil {
		return
	}
	c.Set("permissions", permissions)
}

// ActorID extracts the authenticated user id from the request context,
// falling back to fallback (e.g. the document's user_id) when the auth mode
// carries no user identity.
func ActorID(c echo.Context, fallback uint) uint {
	if v := c.Get("user_id"); v != nil {
		if id, ok := v.(uint); ok && id != 0 {
			return id
		}
	}
	return fallback
}
