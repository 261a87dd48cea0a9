package auth

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	entity "vansales.GO/model/entity"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&entity.User{}, &entity.ApiToken{}, &entity.Role{}, &entity.RolePermission{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestTokenAuth_LoadsIdentity(t *testing.T) {
	t.Setenv("AUTH_TYPE", "token")
	t.Setenv("API_KEY", "")

	db := testDB(t)
	role := entity.Role{RoleName: "driver"}
	if err := db.Create(&role).Error; err != nil {
		t.Fatalf("seed role: %v", err)
	}
	user := entity.User{Name: "Rep", RoleID: &role.RoleID, IsActive: 1}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := db.Create(&entity.ApiToken{UserID: &user.UserID, Token: "tok-123"}).Error; err != nil {
		t.Fatalf("seed token: %v", err)
	}

	e := echo.New()
	e.Use(Middleware(db))
	var gotUser uint
	var gotRole string
	e.GET("/whoami", func(c echo.Context) error {
		gotUser = ActorID(c, 0)
		if v, ok := c.Get("role_name").(string); ok {
			gotRole = v
		}
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer tok-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotUser != user.UserID {
		t.Errorf("ActorID = %d, want %d", gotUser, user.UserID)
	}
	if gotRole != "driver" {
		t.Errorf("role_name = %q, want driver", gotRole)
	}
}

func TestTokenAuth_RejectsRevokedAndUnknown(t *testing.T) {
	t.Setenv("AUTH_TYPE", "token")
	t.Setenv("API_KEY", "")

	db := testDB(t)
	user := entity.User{Name: "Rep", IsActive: 1}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := db.Create(&entity.ApiToken{UserID: &user.UserID, Token: "tok-dead", Revoked: 1}).Error; err != nil {
		t.Fatalf("seed token: %v", err)
	}

	e := echo.New()
	e.Use(Middleware(db))
	e.GET("/whoami", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for _, token := range []string{"tok-dead", "tok-nope"} {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("token %q: status = %d, want 401", token, rec.Code)
		}
	}
}

func TestActorID_Fallback(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if got := ActorID(c, 42); got != 42 {
		t.Errorf("ActorID = %d, want fallback 42", got)
	}
	c.Set("user_id", uint(7))
	if got := ActorID(c, 42); got != 7 {
		t.Errorf("ActorID = %d, want 7", got)
	}
}
