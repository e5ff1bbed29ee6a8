package discountControllers

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techmart-online/storefront-api/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDiscountTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.DiscountCode{}, &models.NewsletterSubscriber{}))
	return db
}

func TestComputeDiscountAmount(t *testing.T) {
	tests := []struct {
		percent  float64
		subtotal float64
		want     float64
	}{
		{10, 200, 20.00},
		{10, 0, 0},
		{15, 99.99, 15.00}, // round(14.9985, 2)
		{0, 100, 0},
		{-5, 100, 0},
		{10, -50, 0},
		{25, 10.10, 2.53}, // round(2.525, 2) rounds half away from zero
	}
	for _, tc := range tests {
		got := ComputeDiscountAmount(tc.percent, tc.subtotal)
		assert.InDelta(t, tc.want, got, 0.0001, "percent=%v subtotal=%v", tc.percent, tc.subtotal)
	}
}

func TestGenerateUniqueCode(t *testing.T) {
	db := setupDiscountTestDB(t)

	code, err := GenerateUniqueCode(db, CodeLength)
	require.NoError(t, err)
	assert.Len(t, code, CodeLength)
	for _, ch := range code {
		assert.Contains(t, codeAlphabet, string(ch), "code must draw from the restricted alphabet")
	}
	assert.NotContains(t, code, "0")
	assert.NotContains(t, code, "O")
	assert.NotContains(t, code, "1")
	assert.NotContains(t, code, "I")
}

func TestIssueNewsletterCodeIsIdempotent(t *testing.T) {
	db := setupDiscountTestDB(t)

	first, err := IssueNewsletterCode(db, 1, "Shopper@Example.com", 10)
	require.NoError(t, err)
	assert.Equal(t, "shopper@example.com", first.Email)
	assert.Equal(t, 10.0, first.DiscountPercent)
	assert.Equal(t, 1, first.MaxUses)

	// Subscribing again returns the live code instead of minting another.
	second, err := IssueNewsletterCode(db, 1, "shopper@example.com", 10)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Code, second.Code)

	var count int64
	require.NoError(t, db.Model(&models.DiscountCode{}).Where("email = ?", "shopper@example.com").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestIssueNewsletterCodeMintsFreshAfterRedemption(t *testing.T) {
	db := setupDiscountTestDB(t)

	first, err := IssueNewsletterCode(db, 1, "shopper@example.com", 10)
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, db.Model(first).Update("redeemed_at", now).Error)

	second, err := IssueNewsletterCode(db, 1, "shopper@example.com", 10)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.NotEqual(t, first.Code, second.Code)
}

func TestValidate(t *testing.T) {
	db := setupDiscountTestDB(t)

	expired := time.Now().Add(-time.Hour)
	redeemed := time.Now().Add(-time.Minute)
	codes := []models.DiscountCode{
		{Code: "GOODCODE22", Email: "alice@example.com", DiscountPercent: 10, MaxUses: 1},
		{Code: "USEDCODE33", Email: "alice@example.com", DiscountPercent: 10, MaxUses: 1, RedeemedAt: &redeemed},
		{Code: "OLDCODE444", Email: "alice@example.com", DiscountPercent: 10, MaxUses: 1, ExpiresAt: &expired},
	}
	for i := range codes {
		require.NoError(t, db.Create(&codes[i]).Error)
	}

	t.Run("empty code", func(t *testing.T) {
		result, err := Validate(db, "   ", "alice@example.com")
		require.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Equal(t, "Enter a discount code to apply it.", result.Message)
	})

	t.Run("not found", func(t *testing.T) {
		result, err := Validate(db, "NOSUCHCODE", "alice@example.com")
		require.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Equal(t, "That discount code could not be found.", result.Message)
	})

	t.Run("different email", func(t *testing.T) {
		result, err := Validate(db, "GOODCODE22", "bob@example.com")
		require.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Equal(t, "This discount code is tied to a different email address.", result.Message)
	})

	t.Run("already used", func(t *testing.T) {
		result, err := Validate(db, "USEDCODE33", "alice@example.com")
		require.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Equal(t, "That discount code has already been used.", result.Message)
	})

	t.Run("expired", func(t *testing.T) {
		result, err := Validate(db, "OLDCODE444", "alice@example.com")
		require.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Equal(t, "That discount code has expired.", result.Message)
	})

	t.Run("valid with normalization", func(t *testing.T) {
		result, err := Validate(db, "  goodcode22 ", " Alice@Example.COM ")
		require.NoError(t, err)
		assert.True(t, result.Valid)
		require.NotNil(t, result.Discount)
		assert.Equal(t, "GOODCODE22", result.Discount.Code)
		assert.Equal(t, 10.0, result.Discount.DiscountPercent)
	})
}

func TestNormalizeHelpers(t *testing.T) {
	assert.Equal(t, "abc@x.com", NormalizeEmail("  ABC@X.COM "))
	assert.Equal(t, "SAVE10CODE", NormalizeCode(" save10code "))
	assert.True(t, strings.EqualFold(NormalizeCode("abc"), "abc"))
}
