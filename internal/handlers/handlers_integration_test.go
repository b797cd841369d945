package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mainstreet/internal/app"
	"mainstreet/internal/config"
	"mainstreet/internal/database"
	"mainstreet/internal/middleware"
	"mainstreet/internal/models"
	"mainstreet/internal/repositories"
	"mainstreet/internal/services"
	"mainstreet/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test_jwt_secret"

// testEnv is a running app plus the handles tests poke at directly.
type testEnv struct {
	app *fiber.App
	db  *gorm.DB
	cfg *config.Config
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	v := viper.New()
	config.SetDefaults(v)
	v.Set("JWT_SECRET", testSecret)
	v.Set("STATIC_DIR", "")
	v.Set("GOOGLE_MAPS_API_KEY", "maps-key")
	v.Set("SHOPS_JSON", filepath.Join(dir, "shops.json"))
	v.Set("SHOPS_CSV", filepath.Join(dir, "boutique-data.csv"))
	return config.FromViper(v)
}

// setupApp builds the full app over a fresh in-memory SQLite database.
func setupApp(t *testing.T) *testEnv {
	t.Helper()
	cfg := testConfig(t)

	db, err := database.Connect("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return &testEnv{app: app.New(app.Deps{Config: cfg, DB: db}), db: db, cfg: cfg}
}

// setupAppWithoutStore builds the app with no database configured.
func setupAppWithoutStore(t *testing.T) *testEnv {
	t.Helper()
	cfg := testConfig(t)
	return &testEnv{app: app.New(app.Deps{Config: cfg}), cfg: cfg}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *http.Response {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func errorMessage(t *testing.T, resp *http.Response) string {
	t.Helper()
	return decode[map[string]any](t, resp)["error"].(string)
}

func sessionToken(t *testing.T, resp *http.Response) string {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookie {
			return c.Value
		}
	}
	t.Fatalf("no session cookie in response")
	return ""
}

// register signs a user up and returns the session token.
func (e *testEnv) register(t *testing.T, email, username string) string {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/auth/register", fiber.Map{
		"email": email, "username": username, "password": "password1",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := sessionToken(t, resp)
	resp.Body.Close()
	return token
}

func (e *testEnv) registerAdmin(t *testing.T) string {
	t.Helper()
	token := e.register(t, "admin@example.com", "admin")
	require.NoError(t, repositories.NewGORMUserRepository(e.db).SetAdmin(context.Background(), "admin", true))
	return token
}

func (e *testEnv) countUsers(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&models.User{}).Count(&n).Error)
	return n
}

func (e *testEnv) seedShop(t *testing.T, shop models.Shop) {
	t.Helper()
	require.NoError(t, repositories.NewGORMShopRepository(e.db).Create(context.Background(), &shop))
}

func TestSystemRoutes(t *testing.T) {
	env := setupApp(t)

	resp := env.do(t, http.MethodGet, "/api/health", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, decode[map[string]any](t, resp)["ok"])

	resp = env.do(t, http.MethodGet, "/api/config", nil, "")
	assert.Equal(t, "maps-key", decode[map[string]any](t, resp)["googleMapsApiKey"])

	resp = env.do(t, http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "mainstreet_http_requests_total")
}

func TestPanickingRouteIsLoggedAndCounted(t *testing.T) {
	env := setupApp(t)
	env.app.Get("/api/explode", func(c *fiber.Ctx) error { panic("boom") })

	resp := env.do(t, http.MethodGet, "/api/explode", nil, "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Internal server error", errorMessage(t, resp))

	resp = env.do(t, http.MethodGet, "/metrics", nil, "")
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `mainstreet_http_requests_total{method="GET",route="/api/explode",status="500"} 1`)
}

func TestRegister(t *testing.T) {
	env := setupApp(t)
	body := fiber.Map{"email": "a@b.com", "username": "ann", "password": "password1"}

	resp := env.do(t, http.MethodPost, "/api/auth/register", body, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cookie := resp.Cookies()
	require.NotEmpty(t, cookie)
	assert.True(t, cookie[0].HttpOnly)

	payload := decode[map[string]map[string]any](t, resp)
	user := payload["user"]
	assert.Equal(t, "ann", user["username"])
	assert.Equal(t, "a@b.com", user["email"])
	assert.Equal(t, false, user["is_admin"])
	assert.Equal(t, false, user["subscribe_emails"])
	assert.NotEmpty(t, user["id"])
	assert.NotContains(t, user, "password_hash")

	resp = env.do(t, http.MethodPost, "/api/auth/register", body, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Email already registered", errorMessage(t, resp))

	// Email match is case-insensitive; email wins over username.
	resp = env.do(t, http.MethodPost, "/api/auth/register", fiber.Map{"email": "A@B.COM", "username": "other", "password": "password1"}, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Email already registered", errorMessage(t, resp))

	resp = env.do(t, http.MethodPost, "/api/auth/register", fiber.Map{"email": "c@d.com", "username": "ann", "password": "password1"}, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Username already taken", errorMessage(t, resp))

	assert.Equal(t, int64(1), env.countUsers(t))
}

func TestRegisterValidation(t *testing.T) {
	env := setupApp(t)

	cases := []struct {
		body fiber.Map
		msg  string
	}{
		{fiber.Map{"email": "a@b.com", "username": "ann", "password": "short"}, "Password must be at least 8 characters"},
		{fiber.Map{"email": "nope", "username": "ann", "password": "password1"}, "Invalid email format"},
		{fiber.Map{"email": "a@b.com", "password": "password1"}, "Email, username, and password are required"},
	}
	for _, tc := range cases {
		resp := env.do(t, http.MethodPost, "/api/auth/register", tc.body, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, tc.msg, errorMessage(t, resp))
	}

	resp := env.do(t, http.MethodPost, "/api/auth/register", "{not json", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	assert.Equal(t, int64(0), env.countUsers(t))
}

func TestLoginAndSession(t *testing.T) {
	env := setupApp(t)
	env.register(t, "ann@example.com", "ann")

	resp := env.do(t, http.MethodPost, "/api/auth/login", fiber.Map{"email_or_username": "ANN@example.com", "password": "password1"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := sessionToken(t, resp)
	assert.Equal(t, "ann", decode[map[string]map[string]any](t, resp)["user"]["username"])

	resp = env.do(t, http.MethodPost, "/api/auth/login", fiber.Map{"email_or_username": "ann", "password": "password1"}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodPost, "/api/auth/login", fiber.Map{"email_or_username": "ann", "password": "wrong-password"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid email/username or password", errorMessage(t, resp))

	resp = env.do(t, http.MethodPost, "/api/auth/login", fiber.Map{"email_or_username": "ghost", "password": "password1"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid email/username or password", errorMessage(t, resp))

	// Me
	resp = env.do(t, http.MethodGet, "/api/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Not signed in", errorMessage(t, resp))

	resp = env.do(t, http.MethodGet, "/api/auth/me", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decode[map[string]any](t, resp)
	assert.Equal(t, "ann", me["username"])

	// Logout clears the cookie.
	resp = env.do(t, http.MethodPost, "/api/auth/logout", nil, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	cleared := resp.Cookies()
	require.NotEmpty(t, cleared)
	assert.Equal(t, "", cleared[0].Value)
	assert.Equal(t, true, decode[map[string]any](t, resp)["ok"])

	// A deleted user's token no longer resolves.
	require.NoError(t, env.db.Where("username = ?", "ann").Delete(&models.User{}).Error)
	resp = env.do(t, http.MethodGet, "/api/auth/me", nil, token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "User not found", errorMessage(t, resp))
}

func TestAdminGate(t *testing.T) {
	env := setupApp(t)
	userToken := env.register(t, "ann@example.com", "ann")
	adminToken := env.registerAdmin(t)
	body := fiber.Map{"name": "Corner Books"}

	resp := env.do(t, http.MethodPost, "/api/admin/shops", body, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Sign in required", errorMessage(t, resp))

	resp = env.do(t, http.MethodPost, "/api/admin/shops", body, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid or expired session", errorMessage(t, resp))

	resp = env.do(t, http.MethodPost, "/api/admin/shops", body, userToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Admin access required", errorMessage(t, resp))

	resp = env.do(t, http.MethodPost, "/api/admin/shops", body, adminToken)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Revoking takes effect on the next request, same token.
	require.NoError(t, repositories.NewGORMUserRepository(env.db).SetAdmin(context.Background(), "admin", false))
	resp = env.do(t, http.MethodDelete, "/api/admin/shops/corner-books", nil, adminToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestAdminCreateShop(t *testing.T) {
	env := setupApp(t)
	adminToken := env.registerAdmin(t)

	resp := env.do(t, http.MethodPost, "/api/admin/shops", fiber.Map{
		"name":           "Corner Books",
		"city":           "Springfield",
		"shop_image":     "https://cdn/hero.jpg",
		"product_photos": `["https://cdn/1.jpg", ""]`,
	}, adminToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	shop := decode[models.Shop](t, resp)
	assert.Equal(t, "corner-books", shop.ID)
	assert.Equal(t, "https://cdn/hero.jpg", shop.ShopImage)
	assert.Equal(t, models.PhotoList{"https://cdn/1.jpg"}, shop.ProductPhotos)
	assert.Equal(t, 0, shop.EnterStoreClicks)

	resp = env.do(t, http.MethodPost, "/api/admin/shops", fiber.Map{"name": "Corner Books"}, adminToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	again := decode[models.Shop](t, resp)
	assert.True(t, strings.HasPrefix(again.ID, "corner-books-"))

	resp = env.do(t, http.MethodPost, "/api/admin/shops", nil, adminToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "shop", decode[models.Shop](t, resp).ID)

	resp = env.do(t, http.MethodPost, "/api/admin/shops", fiber.Map{"name": "Bad", "product_photos": "{oops"}, adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodPost, "/api/admin/shops", fiber.Map{"name": "Many", "product_photos": []string{"1", "2", "3", "4", "5", "6", "7"}}, adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodPost, "/api/admin/shops", fiber.Map{"name": strings.Repeat("x", 201)}, adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "name must be at most 200 characters", errorMessage(t, resp))
}

func TestAdminUpdateShop(t *testing.T) {
	env := setupApp(t)
	adminToken := env.registerAdmin(t)
	env.seedShop(t, models.Shop{
		ID: "shop-1", Name: "Old Name", Address: "1 Main St, Springfield", City: "Springfield",
		Category: "Books", ProductPhotos: models.PhotoList{"https://cdn/1.jpg"}, EnterStoreClicks: 7,
	})

	resp := env.do(t, http.MethodPatch, "/api/admin/shops/shop-1", fiber.Map{"name": "New Name"}, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	shop := decode[models.Shop](t, resp)
	assert.Equal(t, "New Name", shop.Name)
	assert.Equal(t, "shop-1", shop.ID)
	assert.Equal(t, "1 Main St, Springfield", shop.Address)
	assert.Equal(t, "Springfield", shop.City)
	assert.Equal(t, "Books", shop.Category)
	assert.Equal(t, models.PhotoList{"https://cdn/1.jpg"}, shop.ProductPhotos)
	assert.Equal(t, 7, shop.EnterStoreClicks)

	// id and counter are not writable; unknown keys are ignored.
	resp = env.do(t, http.MethodPatch, "/api/admin/shops/shop-1", fiber.Map{"id": "other", "enter_store_clicks": 0, "colour": "red"}, adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No fields to update", errorMessage(t, resp))

	resp = env.do(t, http.MethodPatch, "/api/admin/shops/shop-1", fiber.Map{"product_photos": []string{"https://cdn/2.jpg"}}, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.PhotoList{"https://cdn/2.jpg"}, decode[models.Shop](t, resp).ProductPhotos)

	resp = env.do(t, http.MethodPatch, "/api/admin/shops/shop-1", fiber.Map{"product_photos": "not json"}, adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodPatch, "/api/admin/shops/shop-1", `{"name":null}`, adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid shop field: name must be a string", errorMessage(t, resp))
	stored, err := repositories.NewGORMShopRepository(env.db).GetByID(context.Background(), "shop-1")
	require.NoError(t, err)
	assert.Equal(t, "New Name", stored.Name)

	resp = env.do(t, http.MethodPatch, "/api/admin/shops/missing", fiber.Map{"name": "x"}, adminToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Shop not found", errorMessage(t, resp))
}

func TestAdminDeleteShop(t *testing.T) {
	env := setupApp(t)
	adminToken := env.registerAdmin(t)
	env.seedShop(t, models.Shop{ID: "shop-1", Name: "Doomed"})

	resp := env.do(t, http.MethodDelete, "/api/admin/shops/shop-1", nil, adminToken)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Empty(t, body)

	resp = env.do(t, http.MethodDelete, "/api/admin/shops/shop-1", nil, adminToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Shop not found", errorMessage(t, resp))
}

func TestAdminSeed(t *testing.T) {
	env := setupApp(t)
	adminToken := env.registerAdmin(t)

	resp := env.do(t, http.MethodPost, "/api/admin/seed", nil, adminToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "No source file found", errorMessage(t, resp))

	csv := "ID,Boutique Name,Address\n1,Corner Books,\"12 Elm St, Springfield\"\n2,corner books,dup\n3,Tea House,x\n"
	require.NoError(t, os.WriteFile(env.cfg.ShopsCSVPath, []byte(csv), 0o644))

	resp = env.do(t, http.MethodPost, "/api/admin/seed", nil, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	payload := decode[map[string]any](t, resp)
	assert.Equal(t, float64(2), payload["count"])
	assert.Equal(t, "csv", payload["source"])

	resp = env.do(t, http.MethodGet, "/api/shops", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	shops := decode[[]models.Shop](t, resp)
	require.Len(t, shops, 2)
	assert.Equal(t, "Springfield", shops[0].City)
	for _, s := range shops {
		assert.Len(t, s.ProductPhotos, models.MaxProductPhotos)
	}
}

func TestListShops(t *testing.T) {
	env := setupApp(t)
	env.seedShop(t, models.Shop{ID: "b", Name: "Tea House", Category: "Cafe"})
	env.seedShop(t, models.Shop{ID: "a", Name: "Corner Books", Category: "Books"})

	resp := env.do(t, http.MethodGet, "/api/shops", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	shops := decode[[]map[string]any](t, resp)
	require.Len(t, shops, 2)
	assert.Equal(t, "a", shops[0]["id"])
	assert.Equal(t, []any{}, shops[0]["productPhotos"])
	assert.Contains(t, shops[0], "shopImage")
	assert.Contains(t, shops[0], "enterStoreClicks")

	resp = env.do(t, http.MethodGet, "/api/shops?q=tea", nil, "")
	filtered := decode[[]models.Shop](t, resp)
	require.Len(t, filtered, 1)
	assert.Equal(t, "b", filtered[0].ID)

	resp = env.do(t, http.MethodGet, "/api/shops?category=books", nil, "")
	require.Len(t, decode[[]models.Shop](t, resp), 1)
}

func TestEnterShop(t *testing.T) {
	env := setupApp(t)
	env.seedShop(t, models.Shop{ID: "shop-1", Name: "Corner Books"})
	userToken := env.register(t, "ann@example.com", "ann")
	adminToken := env.registerAdmin(t)

	resp := env.do(t, http.MethodPost, "/api/shops/shop-1/enter", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	payload := decode[map[string]any](t, resp)
	assert.Equal(t, true, payload["counted"])
	assert.Equal(t, float64(1), payload["enterStoreClicks"])

	resp = env.do(t, http.MethodPost, "/api/shops/shop-1/enter", nil, userToken)
	assert.Equal(t, float64(2), decode[map[string]any](t, resp)["enterStoreClicks"])

	resp = env.do(t, http.MethodPost, "/api/shops/shop-1/enter", nil, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]any{"counted": false}, decode[map[string]any](t, resp))

	shop, err := repositories.NewGORMShopRepository(env.db).GetByID(context.Background(), "shop-1")
	require.NoError(t, err)
	assert.Equal(t, 2, shop.EnterStoreClicks)

	resp = env.do(t, http.MethodPost, "/api/shops/nope/enter", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestComments(t *testing.T) {
	env := setupApp(t)
	env.seedShop(t, models.Shop{ID: "shop-1", Name: "Corner Books"})
	token := env.register(t, "ann@example.com", "ann")

	resp := env.do(t, http.MethodPost, "/api/shops/shop-1/comments", fiber.Map{"text": "hi"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodPost, "/api/shops/shop-1/comments", fiber.Map{"text": "   "}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Comment text is required", errorMessage(t, resp))

	for _, text := range []string{" first ", "second"} {
		resp = env.do(t, http.MethodPost, "/api/shops/shop-1/comments", fiber.Map{"text": text}, token)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		created := decode[models.CommentView](t, resp)
		assert.Equal(t, "ann", created.Username)
		assert.Equal(t, strings.TrimSpace(text), created.Text)
	}

	resp = env.do(t, http.MethodGet, "/api/shops/shop-1/comments", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[[]models.CommentView](t, resp)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Text)
	assert.Equal(t, "second", list[1].Text)
	assert.Equal(t, "shop-1", list[0].ShopID)

	resp = env.do(t, http.MethodGet, "/api/shops/other/comments", nil, "")
	assert.Equal(t, []models.CommentView{}, decode[[]models.CommentView](t, resp))
}

func TestFavorites(t *testing.T) {
	env := setupApp(t)
	token := env.register(t, "ann@example.com", "ann")

	resp := env.do(t, http.MethodGet, "/api/favorites", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodGet, "/api/favorites", nil, token)
	assert.Equal(t, []string{}, decode[[]string](t, resp))

	resp = env.do(t, http.MethodPost, "/api/favorites", fiber.Map{"shopId": "shop-1"}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]any{"favorited": true, "shopId": "shop-1"}, decode[map[string]any](t, resp))

	resp = env.do(t, http.MethodGet, "/api/favorites", nil, token)
	assert.Equal(t, []string{"shop-1"}, decode[[]string](t, resp))

	resp = env.do(t, http.MethodPost, "/api/favorites", fiber.Map{"shopId": "shop-1"}, token)
	assert.Equal(t, map[string]any{"favorited": false, "shopId": "shop-1"}, decode[map[string]any](t, resp))

	resp = env.do(t, http.MethodGet, "/api/favorites", nil, token)
	assert.Equal(t, []string{}, decode[[]string](t, resp))

	resp = env.do(t, http.MethodPost, "/api/favorites", fiber.Map{}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "shopId is required", errorMessage(t, resp))
}

func TestWithoutStore(t *testing.T) {
	env := setupAppWithoutStore(t)

	// Missing snapshot
	resp := env.do(t, http.MethodGet, "/api/shops", nil, "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "No shops data", errorMessage(t, resp))

	snapshot := `[
  {"id": "1", "name": "Corner Books", "productPhotos": "[\"https://p/1.jpg\"]"},
  {"id": "2", "name": "Tea House"}
]`
	require.NoError(t, os.WriteFile(env.cfg.ShopsJSONPath, []byte(snapshot), 0o644))

	resp = env.do(t, http.MethodGet, "/api/shops", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, snapshot, string(body))
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")

	resp = env.do(t, http.MethodGet, "/api/shops?q=tea", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, decode[[]models.Shop](t, resp), 1)

	token, err := services.NewAuthService(nil, testSecret).IssueToken(&models.User{ID: "u1", Username: "ann"})
	require.NoError(t, err)

	unavailable := []struct {
		method, path, token string
		body                any
	}{
		{http.MethodPost, "/api/auth/register", "", fiber.Map{"email": "a@b.com", "username": "ann", "password": "password1"}},
		{http.MethodPost, "/api/auth/login", "", fiber.Map{"email_or_username": "ann", "password": "password1"}},
		{http.MethodGet, "/api/auth/me", token, nil},
		{http.MethodGet, "/api/favorites", token, nil},
		{http.MethodGet, "/api/shops/1/comments", "", nil},
		{http.MethodPost, "/api/shops/1/enter", "", nil},
		{http.MethodPost, "/api/admin/seed", token, nil},
	}
	for _, tc := range unavailable {
		resp := env.do(t, tc.method, tc.path, tc.body, tc.token)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, tc.path)
		assert.Equal(t, "Database unavailable", errorMessage(t, resp), tc.path)
	}

	resp = env.do(t, http.MethodGet, "/api/health", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
