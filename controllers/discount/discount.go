package discountControllers

import (
	"crypto/rand"
	"errors"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/techmart-online/storefront-api/models"
	"gorm.io/gorm"
)

// codeAlphabet excludes visually ambiguous characters (0/O, 1/I).
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	CodeLength      = 10
	maxCodeAttempts = 20
)

var ErrCodeSpaceExhausted = errors.New("unable to generate a unique discount code")

// ValidationResult is what checkout consumes: either a usable discount or a
// human-readable reason it cannot be applied.
type ValidationResult struct {
	Valid    bool                 `json:"valid"`
	Message  string               `json:"message"`
	Discount *models.DiscountCode `json:"discount,omitempty"`
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// GenerateUniqueCode mints a fixed-length random code, retrying on collision
// up to a bounded attempt count and failing loudly if exhausted.
func GenerateUniqueCode(db *gorm.DB, length int) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := randomCode(length)
		if err != nil {
			return "", err
		}

		var count int64
		if err := db.Model(&models.DiscountCode{}).Where("code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", ErrCodeSpaceExhausted
}

func randomCode(length int) (string, error) {
	var sb strings.Builder
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		sb.WriteByte(codeAlphabet[n.Int64()])
	}
	return sb.String(), nil
}

// FindActiveCodeForEmail returns the most recent unredeemed code owned by the
// email, or nil.
func FindActiveCodeForEmail(db *gorm.DB, email string) (*models.DiscountCode, error) {
	var code models.DiscountCode
	err := db.Where("email = ? AND redeemed_at IS NULL", NormalizeEmail(email)).
		Order("created_at DESC").
		First(&code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &code, nil
}

// IssueNewsletterCode creates a single-use code for a subscriber. Issuance is
// idempotent: an existing unredeemed code for the email is returned instead
// of minting a second one.
func IssueNewsletterCode(db *gorm.DB, subscriberID uint, email string, percent float64) (*models.DiscountCode, error) {
	existing, err := FindActiveCodeForEmail(db, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	code, err := GenerateUniqueCode(db, CodeLength)
	if err != nil {
		return nil, err
	}

	discount := models.DiscountCode{
		Code:                   code,
		Email:                  NormalizeEmail(email),
		DiscountPercent:        percent,
		MaxUses:                1,
		NewsletterSubscriberID: subscriberID,
	}
	if err := db.Create(&discount).Error; err != nil {
		return nil, err
	}
	return &discount, nil
}

// Validate checks a code against its owner email, redemption state and
// expiry. It never mutates anything; redemption happens inside the checkout
// transaction.
func Validate(db *gorm.DB, code, email string) (ValidationResult, error) {
	code = NormalizeCode(code)
	email = NormalizeEmail(email)

	if code == "" {
		return ValidationResult{Valid: false, Message: "Enter a discount code to apply it."}, nil
	}

	var discount models.DiscountCode
	err := db.Where("code = ?", code).First(&discount).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ValidationResult{Valid: false, Message: "That discount code could not be found."}, nil
	}
	if err != nil {
		return ValidationResult{}, err
	}

	if discount.Email != email {
		return ValidationResult{Valid: false, Message: "This discount code is tied to a different email address."}, nil
	}
	if discount.RedeemedAt != nil {
		return ValidationResult{Valid: false, Message: "That discount code has already been used."}, nil
	}
	if discount.ExpiresAt != nil && discount.ExpiresAt.Before(time.Now()) {
		return ValidationResult{Valid: false, Message: "That discount code has expired."}, nil
	}

	return ValidationResult{
		Valid:    true,
		Message:  "Discount code applied successfully.",
		Discount: &discount,
	}, nil
}

// ComputeDiscountAmount is round(subtotal * percent/100, 2). Non-positive
// subtotal or percent yields zero; callers clamp the order total at zero.
func ComputeDiscountAmount(percent, subtotal float64) float64 {
	if subtotal <= 0 || percent <= 0 {
		return 0
	}
	amount := decimal.NewFromFloat(subtotal).
		Mul(decimal.NewFromFloat(percent)).
		Div(decimal.NewFromInt(100)).
		Round(2)
	f, _ := amount.Float64()
	return f
}

// -------- Handlers --------

type validateRequest struct {
	Code string `json:"code" binding:"required"`
}

// POST /user/discounts/validate
// The code is re-validated on every use against the authenticated account's
// email; nothing is stored server-side between validation and checkout.
func ValidateDiscountHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, exists := c.Get("user_email")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req validateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		result, err := Validate(db, req.Code, email.(string))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate discount code"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
