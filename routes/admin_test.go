package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rentora-server/models"
	"rentora-server/storage"
	"rentora-server/utils"

	"github.com/glebarez/sqlite"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "testsecret"

// buildAdminTestApp wires the admin users route against an in-memory database.
func buildAdminTestApp(t *testing.T) *iris.Application {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	storage.DB = db

	app := iris.New()

	verifier := jwt.NewVerifier(jwt.HS256, []byte(testSecret))
	verifierMiddleware := verifier.Verify(func() interface{} { return new(utils.AccessToken) })

	admin := app.Party("/api/v1/admin", verifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/users", AdminListUsers)
		admin.Patch("/users/{id:uint}/role", utils.SuperAdminOnlyMiddleware, AdminChangeUserRole)
	}

	if err := app.Build(); err != nil {
		t.Fatalf("build app: %v", err)
	}
	return app
}

func signTestToken(t *testing.T, id uint, role string) string {
	t.Helper()
	signer := jwt.NewSigner(jwt.HS256, testSecret, 0)
	token, err := signer.Sign(utils.AccessToken{ID: id, Role: role})
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return string(token)
}

func TestAdminUsersRBAC(t *testing.T) {
	app := buildAdminTestApp(t)

	// No token is rejected by the verifier.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code == http.StatusOK {
		t.Fatalf("expected non-200 without token, got %d", resp.Code)
	}

	// Plain users are forbidden.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, 1, models.RoleUser))
	resp = httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for USER role, got %d", resp.Code)
	}

	// Admins get the list.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, 2, models.RoleAdmin))
	resp = httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for ADMIN role, got %d", resp.Code)
	}
}

func TestRoleChangeRequiresSuperAdmin(t *testing.T) {
	app := buildAdminTestApp(t)

	storage.DB.Create(&models.User{Email: "target@example.com", Password: "x", Role: models.RoleUser})

	body := `{"role":"HOST"}`

	// A regular admin cannot change roles.
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/users/1/role", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, 2, models.RoleAdmin))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for ADMIN role, got %d", resp.Code)
	}

	// A super admin can.
	req = httptest.NewRequest(http.MethodPatch, "/api/v1/admin/users/1/role", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, 3, models.RoleSuperAdmin))
	req.Header.Set("Content-Type", "application/json")
	resp = httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for SUPER_ADMIN role, got %d: %s", resp.Code, resp.Body.String())
	}
}
