package reviewControllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techmart-online/storefront-api/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupReviewTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Order{}, &models.OrderItem{}, &models.OrderReview{}))

	r := gin.New()
	r.POST("/reviews", SubmitReviewHandler(db))
	r.GET("/reviews", ListReviewsHandler(db))
	r.GET("/admin/reviews", GetAllReviewsHandler(db))
	r.DELETE("/admin/reviews/:id", DeleteReviewHandler(db))
	return r, db
}

func postReview(t *testing.T, r *gin.Engine, payload map[string]interface{}) *httptest.ResponseRecorder {
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/reviews", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createReviewableOrder(t *testing.T, db *gorm.DB, email string) models.Order {
	order := models.Order{
		CustomerName:    "Test Shopper",
		CustomerEmail:   email,
		ShippingAddress: "12 Harbour View Road",
		PaymentMethod:   "Card",
		Subtotal:        50,
		Total:           50,
		Status:          models.OrderStatusDelivered,
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func TestSubmitReview(t *testing.T) {
	r, db := setupReviewTest(t)
	order := createReviewableOrder(t, db, "shopper@example.com")

	w := postReview(t, r, map[string]interface{}{
		"order_id": order.ID,
		"email":    "Shopper@Example.COM",
		"name":     "Test Shopper",
		"rating":   5,
		"comments": "Arrived fast, great packaging.",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var review models.OrderReview
	require.NoError(t, db.Where("order_id = ?", order.ID).First(&review).Error)
	assert.Equal(t, 5, review.Rating)
	assert.Equal(t, "shopper@example.com", review.ReviewerEmail)
}

func TestSubmitReviewEmailMustMatchOrder(t *testing.T) {
	r, db := setupReviewTest(t)
	order := createReviewableOrder(t, db, "shopper@example.com")

	w := postReview(t, r, map[string]interface{}{
		"order_id": order.ID,
		"email":    "stranger@example.com",
		"name":     "Stranger",
		"rating":   1,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSubmitReviewUnknownOrder(t *testing.T) {
	r, _ := setupReviewTest(t)

	w := postReview(t, r, map[string]interface{}{
		"order_id": 9999,
		"email":    "shopper@example.com",
		"name":     "Test Shopper",
		"rating":   4,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitReviewOncePerOrder(t *testing.T) {
	r, db := setupReviewTest(t)
	order := createReviewableOrder(t, db, "shopper@example.com")

	payload := map[string]interface{}{
		"order_id": order.ID,
		"email":    "shopper@example.com",
		"name":     "Test Shopper",
		"rating":   4,
	}
	assert.Equal(t, http.StatusCreated, postReview(t, r, payload).Code)
	assert.Equal(t, http.StatusConflict, postReview(t, r, payload).Code)
}

func TestSubmitReviewRatingBounds(t *testing.T) {
	r, db := setupReviewTest(t)
	order := createReviewableOrder(t, db, "shopper@example.com")

	for _, rating := range []int{-1, 6} {
		w := postReview(t, r, map[string]interface{}{
			"order_id": order.ID,
			"email":    "shopper@example.com",
			"name":     "Test Shopper",
			"rating":   rating,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code, "rating %d must be rejected", rating)
	}
}

func TestListReviews(t *testing.T) {
	r, db := setupReviewTest(t)
	order := createReviewableOrder(t, db, "shopper@example.com")
	require.NoError(t, db.Create(&models.OrderReview{
		OrderID:       order.ID,
		ReviewerName:  "Test Shopper",
		ReviewerEmail: "shopper@example.com",
		Rating:        5,
		Comments:      "Great!",
	}).Error)

	req := httptest.NewRequest(http.MethodGet, "/reviews", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var reviews []models.OrderReview
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reviews))
	require.Len(t, reviews, 1)
	assert.Equal(t, 5, reviews[0].Rating)
}

func TestAdminListsAllReviews(t *testing.T) {
	r, db := setupReviewTest(t)
	order := createReviewableOrder(t, db, "shopper@example.com")
	for i, rating := range []int{5, 2} {
		require.NoError(t, db.Create(&models.OrderReview{
			OrderID:       order.ID,
			ReviewerName:  "Test Shopper",
			ReviewerEmail: fmt.Sprintf("shopper%d@example.com", i),
			Rating:        rating,
		}).Error)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/reviews", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var reviews []models.OrderReview
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reviews))
	assert.Len(t, reviews, 2)
}

func TestAdminDeletesReview(t *testing.T) {
	r, db := setupReviewTest(t)
	order := createReviewableOrder(t, db, "shopper@example.com")
	review := models.OrderReview{
		OrderID:       order.ID,
		ReviewerName:  "Test Shopper",
		ReviewerEmail: "shopper@example.com",
		Rating:        1,
		Comments:      "Box arrived crushed.",
	}
	require.NoError(t, db.Create(&review).Error)

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/admin/reviews/%d", review.ID), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.OrderReview{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)

	// Deleting again reports not found.
	req = httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/admin/reviews/%d", review.ID), nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
