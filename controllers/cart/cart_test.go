package cartControllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techmart-online/storefront-api/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.CartItem{}, &models.DiscountCode{}))
	return db
}

func TestCalculateCartTotals(t *testing.T) {
	lines := []models.CartLine{
		{ProductID: 1, UnitPrice: 50, Quantity: 2, LineTotal: 100},
		{ProductID: 2, UnitPrice: 25.50, Quantity: 1, LineTotal: 25.50},
	}

	t.Run("no discount", func(t *testing.T) {
		totals := CalculateCartTotals(lines, nil)
		assert.Equal(t, 125.50, totals.Subtotal)
		assert.Equal(t, 0.0, totals.DiscountAmount)
		assert.Equal(t, 125.50, totals.Total)
	})

	t.Run("with discount", func(t *testing.T) {
		discount := &models.DiscountCode{DiscountPercent: 10}
		totals := CalculateCartTotals(lines, discount)
		assert.Equal(t, 125.50, totals.Subtotal)
		assert.Equal(t, 12.55, totals.DiscountAmount)
		assert.Equal(t, 112.95, totals.Total)
	})

	t.Run("total clamped at zero", func(t *testing.T) {
		discount := &models.DiscountCode{DiscountPercent: 150}
		totals := CalculateCartTotals([]models.CartLine{{LineTotal: 1}}, discount)
		assert.Equal(t, 0.0, totals.Total)
	})

	t.Run("empty cart", func(t *testing.T) {
		totals := CalculateCartTotals(nil, &models.DiscountCode{DiscountPercent: 10})
		assert.Equal(t, 0.0, totals.Subtotal)
		assert.Equal(t, 0.0, totals.DiscountAmount)
		assert.Equal(t, 0.0, totals.Total)
	})
}

// authAs stands in for the JWT middleware.
func authAs(userID uint, email string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("user_email", email)
		c.Next()
	}
}

func TestGetCartTotalsEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupCartTestDB(t)

	product := models.Product{Name: "Wireless Mouse", Category: "Gadgets", Price: 50, Stock: 10, IsActive: true}
	require.NoError(t, db.Create(&product).Error)
	require.NoError(t, db.Create(&models.CartItem{UserID: 1, ProductID: product.ID, Quantity: 2, AddedAt: time.Now()}).Error)
	require.NoError(t, db.Create(&models.DiscountCode{
		Code: "SAVETENNOW", Email: "shopper@example.com", DiscountPercent: 10, MaxUses: 1,
	}).Error)

	r := gin.New()
	r.GET("/user/cart/totals", authAs(1, "shopper@example.com"), GetCartTotals(db))

	get := func(target string) (int, map[string]json.RawMessage) {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		var body map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		return w.Code, body
	}

	decodeTotals := func(raw json.RawMessage) CartTotals {
		var totals CartTotals
		require.NoError(t, json.Unmarshal(raw, &totals))
		return totals
	}

	t.Run("without code", func(t *testing.T) {
		code, body := get("/user/cart/totals")
		assert.Equal(t, http.StatusOK, code)
		totals := decodeTotals(body["totals"])
		assert.Equal(t, 100.0, totals.Subtotal)
		assert.Equal(t, 100.0, totals.Total)
		assert.NotContains(t, body, "code_valid")
	})

	t.Run("with valid code", func(t *testing.T) {
		code, body := get("/user/cart/totals?code=savetennow")
		assert.Equal(t, http.StatusOK, code)
		totals := decodeTotals(body["totals"])
		assert.Equal(t, 10.0, totals.DiscountAmount)
		assert.Equal(t, 90.0, totals.Total)
		assert.JSONEq(t, "true", string(body["code_valid"]))
	})

	t.Run("with someone else's code", func(t *testing.T) {
		require.NoError(t, db.Create(&models.DiscountCode{
			Code: "ALICESCODE", Email: "alice@example.com", DiscountPercent: 10, MaxUses: 1,
		}).Error)

		code, body := get("/user/cart/totals?code=ALICESCODE")
		assert.Equal(t, http.StatusOK, code)
		totals := decodeTotals(body["totals"])
		assert.Equal(t, 0.0, totals.DiscountAmount)
		assert.Equal(t, 100.0, totals.Total)
		assert.JSONEq(t, "false", string(body["code_valid"]))
	})
}
