package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/truongnx/gearstore/internal/models"
	"github.com/truongnx/gearstore/internal/repo"
	"github.com/truongnx/gearstore/internal/service"
)

func initTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to connect to in-memory db")

	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Brand{},
		&models.Product{},
		&models.ProductVariant{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
	)
	require.NoError(t, err, "failed to migrate tables")

	return db
}

func cartHandlerFixture(t *testing.T) (*CartHTTP, *gorm.DB) {
	t.Helper()

	db := initTestDB(t)
	r := &repo.GormRepo{DB: db}
	return &CartHTTP{Svc: &service.CartService{Repo: r}}, db
}

func jsonRequest(t *testing.T, e *echo.Echo, method, target string, payload any) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, target, &body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAddItemMintsGuestSession(t *testing.T) {
	h, db := cartHandlerFixture(t)
	e := echo.New()

	p := models.Product{Name: "Mouse", Price: 40, Stock: 5, IsActive: true}
	require.NoError(t, db.Create(&p).Error)

	c, rec := jsonRequest(t, e, http.MethodPost, "/api/v1/cart/items",
		map[string]any{"product_id": p.ID, "quantity": 2})

	require.NoError(t, h.AddItem(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// First guest write sets the session cookie.
	cookies := rec.Result().Cookies()
	var session string
	for _, ck := range cookies {
		if ck.Name == sessionCookie {
			session = ck.Value
		}
	}
	require.NotEmpty(t, session)

	var cart models.Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, uint(2), cart.Items[0].Quantity)
	assert.Equal(t, "Mouse", cart.Items[0].ProductName)
}

func TestAddItemReusesExistingSession(t *testing.T) {
	h, db := cartHandlerFixture(t)
	e := echo.New()

	p := models.Product{Name: "Keyboard", Price: 90, Stock: 5, IsActive: true}
	require.NoError(t, db.Create(&p).Error)

	for range 2 {
		c, rec := jsonRequest(t, e, http.MethodPost, "/api/v1/cart/items",
			map[string]any{"product_id": p.ID, "quantity": 1})
		c.Request().AddCookie(&http.Cookie{Name: sessionCookie, Value: "guest-abc"})

		require.NoError(t, h.AddItem(c))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	var count int64
	require.NoError(t, db.Model(&models.Cart{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAddItemRejectsInsufficientStock(t *testing.T) {
	h, db := cartHandlerFixture(t)
	e := echo.New()

	p := models.Product{Name: "Limited Edition", Price: 200, Stock: 1, IsActive: true}
	require.NoError(t, db.Create(&p).Error)

	c, _ := jsonRequest(t, e, http.MethodPost, "/api/v1/cart/items",
		map[string]any{"product_id": p.ID, "quantity": 3})

	err := h.AddItem(c)
	require.Error(t, err)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusConflict, httpErr.Code)
}

func TestGetCartWithoutSessionIsEmpty(t *testing.T) {
	h, _ := cartHandlerFixture(t)
	e := echo.New()

	c, rec := jsonRequest(t, e, http.MethodGet, "/api/v1/cart", nil)

	require.NoError(t, h.GetCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp["items"])
}

func TestUpdateItemForSignedInUser(t *testing.T) {
	h, db := cartHandlerFixture(t)
	e := echo.New()

	p := models.Product{Name: "Stand", Price: 45, Stock: 10, IsActive: true}
	require.NoError(t, db.Create(&p).Error)

	add, rec := jsonRequest(t, e, http.MethodPost, "/api/v1/cart/items",
		map[string]any{"product_id": p.ID, "quantity": 1})
	add.Set("userID", uint(5))
	require.NoError(t, h.AddItem(add))
	require.Equal(t, http.StatusOK, rec.Code)

	upd, rec := jsonRequest(t, e, http.MethodPatch, "/api/v1/cart/items/1",
		map[string]any{"quantity": 4})
	upd.Set("userID", uint(5))
	upd.SetParamNames("productId")
	upd.SetParamValues("1")

	require.NoError(t, h.UpdateItem(upd))
	require.Equal(t, http.StatusOK, rec.Code)

	var cart models.Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, uint(4), cart.Items[0].Quantity)
}
