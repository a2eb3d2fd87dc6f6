package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test_jwt_secret"

type testApp struct {
	app   *fiber.App
	auth  *services.AuthService
	store *repositories.GORMStore
}

// setupApp builds a Fiber app backed by a throwaway sqlite database with
// every handler mounted. No payment provider or broker is configured.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	dsn := database.SQLiteFileDSN(filepath.Join(t.TempDir(), "handlers.db"))
	db, err := database.Open(context.Background(), database.DriverSQLite, dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	store := repositories.NewGORMStore(db)
	authService := services.NewAuthService(repositories.NewGORMUserRepository(db), testJWTSecret)
	productService := services.NewProductService(store.Products(), store.Categories(), nil)
	categoryService := services.NewCategoryService(store.Categories())
	promoService := services.NewPromoCodeService(store.PromoCodes(), store.Orders())
	orderService := services.NewOrderService(store, nil)

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	apiV1 := app.Group("/api/v1")
	auth := middleware.AuthRequired(authService)

	handlers.NewAuthHandler(authService).RegisterRoutes(apiV1)
	handlers.NewProductHandler(productService).RegisterRoutes(apiV1, auth)
	handlers.NewCategoryHandler(categoryService).RegisterRoutes(apiV1, auth)
	handlers.NewPromoCodeHandler(promoService).RegisterRoutes(apiV1, auth)
	handlers.NewOrderHandler(orderService).RegisterRoutes(apiV1, auth)

	require.NoError(t, authService.EnsureAdmin(context.Background(), "admin", "admin@example.com", "adminpass"))

	return &testApp{app: app, auth: authService, store: store}
}

// do sends a request with an optional JSON body and bearer token and decodes
// the response into out when it is non-nil.
func (a *testApp) do(t *testing.T, method, path, token string, body any, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.app.Test(req, -1) // -1 for no timeout
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (a *testApp) login(t *testing.T, username, password string) string {
	t.Helper()
	var resp map[string]string
	status := a.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	}, &resp)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, resp["token"])
	return resp["token"]
}

func (a *testApp) registerAndLogin(t *testing.T, username string) string {
	t.Helper()
	status := a.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	}, nil)
	require.Equal(t, http.StatusCreated, status)
	return a.login(t, username, "password123")
}

// seedCatalog creates a category and a product through the admin API.
func (a *testApp) seedCatalog(t *testing.T, adminToken string, stock int) models.Product {
	t.Helper()

	var category models.Category
	status := a.do(t, http.MethodPost, "/api/v1/categories", adminToken, map[string]string{"name": "Mugs"}, &category)
	require.Equal(t, http.StatusCreated, status)

	var product models.Product
	status = a.do(t, http.MethodPost, "/api/v1/products", adminToken, map[string]any{
		"categoryId":    category.ID,
		"name":          "Coffee Mug",
		"price":         20,
		"description":   "Ceramic mug",
		"image":         "mug.png",
		"stockQuantity": stock,
		"tags":          []string{"featured"},
	}, &product)
	require.Equal(t, http.StatusCreated, status)
	return product
}

func TestAuthRegisterAndLogin(t *testing.T) {
	a := setupApp(t)

	// Test Registration
	user := map[string]string{
		"username": "testuser",
		"email":    "test@example.com",
		"password": "password123",
	}
	var registerResp map[string]any
	status := a.do(t, http.MethodPost, "/api/v1/auth/register", "", user, &registerResp)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "User registered successfully", registerResp["message"])
	registered, ok := registerResp["user"].(map[string]any)
	require.True(t, ok)
	assert.NotContains(t, registered, "password")

	// Test Duplicate Registration (username)
	var dupResp handlers.ErrorResponse
	status = a.do(t, http.MethodPost, "/api/v1/auth/register", "", user, &dupResp)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, dupResp.Message, "already taken")

	// Test Login
	token := a.login(t, "testuser", "password123")
	claims, err := a.auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "testuser", claims.Username)
	assert.Equal(t, models.RoleCustomer, claims.Role)

	// Wrong password
	var loginErr handlers.ErrorResponse
	status = a.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "testuser",
		"password": "wrong",
	}, &loginErr)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "invalid credentials", loginErr.Message)
}

func TestAuthRegister_ValidationErrors(t *testing.T) {
	a := setupApp(t)

	var resp handlers.ErrorResponse
	status := a.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "ab",
		"email":    "not-an-email",
	}, &resp)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, resp.Message, "Invalid registration data")

	fields := map[string]string{}
	for _, fe := range resp.Errors {
		fields[fe.Field] = fe.Reason
	}
	assert.Equal(t, "must be at least 3 characters", fields["username"])
	assert.Equal(t, "must be a valid email address", fields["email"])
	assert.Equal(t, "is required", fields["password"])
}

func TestProductEndpoints(t *testing.T) {
	a := setupApp(t)
	adminToken := a.login(t, "admin", "adminpass")
	created := a.seedCatalog(t, adminToken, 5)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.StockLow, created.StockStatus)

	// Public reads
	var products []models.Product
	status := a.do(t, http.MethodGet, "/api/v1/products", "", nil, &products)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, products, 1)

	var featured []models.Product
	status = a.do(t, http.MethodGet, "/api/v1/products/featured", "", nil, &featured)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, featured, 1)

	var tags []string
	status = a.do(t, http.MethodGet, "/api/v1/product-tags", "", nil, &tags)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"featured", "new", "bestSeller", "limitedOffer"}, tags)

	// Partial update
	var updated models.Product
	status = a.do(t, http.MethodPatch, "/api/v1/products/"+created.ID, adminToken, map[string]any{
		"stockQuantity": 0,
	}, &updated)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, created.Name, updated.Name)
	assert.Equal(t, models.StockOutOfStock, updated.StockStatus)

	// Status flip
	var flip map[string]any
	status = a.do(t, http.MethodPut, "/api/v1/products/"+created.ID+"/status?status=false", adminToken, nil, &flip)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Product deactivated successfully", flip["message"])
	assert.Contains(t, flip, "product")

	status = a.do(t, http.MethodGet, "/api/v1/products?status=active", "", nil, &products)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, products)

	// Delete and verify
	status = a.do(t, http.MethodDelete, "/api/v1/products/"+created.ID, adminToken, nil, nil)
	assert.Equal(t, http.StatusOK, status)

	var notFound handlers.ErrorResponse
	status = a.do(t, http.MethodGet, "/api/v1/products/"+created.ID, "", nil, &notFound)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Product not found", notFound.Message)
}

func TestProductEndpointsWithoutAdmin(t *testing.T) {
	a := setupApp(t)
	newProduct := map[string]any{"name": "Unauthorized Product", "price": 100.0}

	// No token
	status := a.do(t, http.MethodPost, "/api/v1/products", "", newProduct, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	// Malformed header
	req := httptest.NewRequest(http.MethodPost, "/api/v1/categories", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Customer token
	token := a.registerAndLogin(t, "shopper")
	var forbidden handlers.ErrorResponse
	status = a.do(t, http.MethodPost, "/api/v1/products", token, newProduct, &forbidden)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Admin access required", forbidden.Message)
}

func TestCategoryAndPromoCodeEndpoints(t *testing.T) {
	a := setupApp(t)
	adminToken := a.login(t, "admin", "adminpass")

	var category models.Category
	status := a.do(t, http.MethodPost, "/api/v1/categories", adminToken, map[string]string{"name": "Books"}, &category)
	require.Equal(t, http.StatusCreated, status)

	var dup handlers.ErrorResponse
	status = a.do(t, http.MethodPost, "/api/v1/categories", adminToken, map[string]string{"name": "Books"}, &dup)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Category already exists", dup.Message)

	var flip map[string]any
	status = a.do(t, http.MethodPut, "/api/v1/categories/"+category.ID+"/status?status=false", adminToken, nil, &flip)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Category deactivated successfully", flip["message"])

	var bad handlers.ErrorResponse
	status = a.do(t, http.MethodPut, "/api/v1/categories/"+category.ID+"/status?status=maybe", adminToken, nil, &bad)
	assert.Equal(t, http.StatusBadRequest, status)

	var promo models.PromoCode
	status = a.do(t, http.MethodPost, "/api/v1/promocodes", adminToken, map[string]any{
		"code":               "save10",
		"discountPercentage": 10,
		"firstOrderOnly":     false,
		"expiresAt":          "2099-01-01",
	}, &promo)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "SAVE10", promo.Code)

	var promos []models.PromoCode
	status = a.do(t, http.MethodGet, "/api/v1/promocodes", "", nil, &promos)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, promos, 1)

	// Preview needs a signed-in user.
	status = a.do(t, http.MethodGet, "/api/v1/promocodes/validate?code=save10", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	token := a.registerAndLogin(t, "reader")
	var preview map[string]any
	status = a.do(t, http.MethodGet, "/api/v1/promocodes/validate?code=save10", token, nil, &preview)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "SAVE10", preview["code"])
	assert.EqualValues(t, 10, preview["discountPercentage"])

	var invalid handlers.ErrorResponse
	status = a.do(t, http.MethodGet, "/api/v1/promocodes/validate?code=nope", token, nil, &invalid)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid or expired promo code", invalid.Message)
}

func TestOrderEndpoints(t *testing.T) {
	a := setupApp(t)
	adminToken := a.login(t, "admin", "adminpass")
	product := a.seedCatalog(t, adminToken, 3)
	token := a.registerAndLogin(t, "buyer")

	address := map[string]string{
		"line1":      "1 Main St",
		"city":       "Colombo",
		"postalCode": "00100",
		"country":    "LK",
		"phone":      "0771234567",
	}

	// Orders need a token.
	status := a.do(t, http.MethodPost, "/api/v1/orders", "", map[string]any{}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	var created map[string]string
	status = a.do(t, http.MethodPost, "/api/v1/orders", token, map[string]any{
		"items":           []map[string]any{{"product": product.ID, "quantity": 2}},
		"shippingAddress": address,
	}, &created)
	require.Equal(t, http.StatusCreated, status)
	orderID := created["orderId"]
	require.NotEmpty(t, orderID)

	var order models.Order
	status = a.do(t, http.MethodGet, "/api/v1/orders/"+orderID, token, nil, &order)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, order.GrandTotal.Equal(decimal.NewFromInt(40)), order.GrandTotal.String())
	require.NotNil(t, order.Address)
	assert.Equal(t, "Colombo", order.Address.City)

	var mine []models.Order
	status = a.do(t, http.MethodGet, "/api/v1/orders/user", token, nil, &mine)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, mine, 1)

	// Other customers cannot see it, admins can.
	other := a.registerAndLogin(t, "other")
	status = a.do(t, http.MethodGet, "/api/v1/orders/"+orderID, other, nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
	status = a.do(t, http.MethodGet, "/api/v1/orders/"+orderID, adminToken, nil, nil)
	assert.Equal(t, http.StatusOK, status)

	// One unit left.
	var stockErr handlers.ErrorResponse
	status = a.do(t, http.MethodPost, "/api/v1/orders", token, map[string]any{
		"items":           []map[string]any{{"product": product.ID, "quantity": 2}},
		"shippingAddress": address,
	}, &stockErr)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Insufficient stock for product Coffee Mug. Available: 1", stockErr.Message)

	// Malformed payload
	var invalid handlers.ErrorResponse
	status = a.do(t, http.MethodPost, "/api/v1/orders", token, map[string]any{
		"items": []map[string]any{{"product": product.ID, "quantity": 0}},
	}, &invalid)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, invalid.Message, "Invalid order data")
	assert.NotEmpty(t, invalid.Errors)
}
