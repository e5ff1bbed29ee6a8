package mailer

import (
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"

	"github.com/techmart-online/storefront-api/config"
	"github.com/techmart-online/storefront-api/models"
)

func formatPrice(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

func formatPercent(percent float64) string {
	return strconv.FormatFloat(percent, 'f', -1, 64) + "%"
}

// SendOrderConfirmation emails the order summary to the customer. Failure is
// logged and swallowed: the order stands regardless of email outcome.
func SendOrderConfirmation(cfg config.Config, order models.Order, items []models.OrderItem) {
	subject := fmt.Sprintf("Order #%d Confirmation - %s", order.ID, cfg.SiteName)

	lines := []string{
		"Hi " + order.CustomerName + ",",
		"",
		fmt.Sprintf("Thanks for shopping with %s! We have received your order #%d.", cfg.SiteName, order.ID),
		"Order summary:",
	}

	for _, item := range items {
		lines = append(lines, fmt.Sprintf("- %s x%d — %s", item.ProductName, item.Quantity, formatPrice(item.LineTotal())))
	}

	lines = append(lines, "")
	if order.DiscountAmount > 0 {
		discountLine := "Discount applied: -" + formatPrice(order.DiscountAmount)
		if order.PromoCode != "" {
			discountLine += " (code " + order.PromoCode + ")"
		}
		lines = append(lines, discountLine)
	}
	lines = append(lines, "Total charged: "+formatPrice(order.Total))

	trackingURL := fmt.Sprintf("%s/orders/track?order=%d&email=%s",
		strings.TrimRight(cfg.BaseURL, "/"), order.ID, url.QueryEscape(order.CustomerEmail))
	lines = append(lines,
		"You can track your order anytime at: "+trackingURL,
		"",
		"We will send another email when your order ships. Have questions? Reply to this email and our specialists will help.",
		"",
		"— "+cfg.SiteName+" Team",
	)

	headers := []string{"Content-Type: text/plain; charset=UTF-8"}
	if !Deliver(cfg, order.CustomerEmail, subject, strings.Join(lines, "\n"), headers) {
		log.Printf("Failed to send order confirmation for order #%d", order.ID)
	}
}

// SendNewsletterDiscountEmail delivers a subscriber's welcome code, or a
// reminder of it when they subscribe again. The percent shown is the one the
// code was issued with.
func SendNewsletterDiscountEmail(cfg config.Config, email, code string, percent float64, isReminder bool) bool {
	var subject string
	if isReminder {
		subject = fmt.Sprintf("Your %s welcome discount code", cfg.SiteName)
	} else {
		subject = fmt.Sprintf("Welcome to %s — here's your %s code", cfg.SiteName, formatPercent(percent))
	}

	lines := []string{"Hi there,", ""}
	if isReminder {
		lines = append(lines, fmt.Sprintf("Here's a quick reminder of your exclusive %s welcome code with %s:", formatPercent(percent), cfg.SiteName))
	} else {
		lines = append(lines, fmt.Sprintf("Thanks for joining the %s newsletter! As promised, here's your exclusive %s discount code:", cfg.SiteName, formatPercent(percent)))
	}
	lines = append(lines,
		"Code: "+code,
		"",
		"Apply it during checkout to save on your next order. The code is tied to this email address, so be sure to use it when signing in.",
		"",
		"Need ideas on what to pick up? We'll send curated drops and product guides straight to your inbox soon!",
		"",
		"— "+cfg.SiteName+" Team",
	)

	headers := []string{"Content-Type: text/plain; charset=UTF-8"}
	if !Deliver(cfg, email, subject, strings.Join(lines, "\n"), headers) {
		log.Printf("Failed to send newsletter discount email to %s", email)
		return false
	}
	return true
}
