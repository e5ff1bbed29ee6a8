package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendNewsletterDiscountEmailUsesIssuedPercent(t *testing.T) {
	srv := startFakeSMTPServer(t, "220 test.local ESMTP ready")
	cfg := srv.config()
	cfg.SiteName = "TechMart Online"

	require.True(t, SendNewsletterDiscountEmail(cfg, "shopper@example.com", "WELCOME123", 15, false))

	payload := <-srv.data
	assert.Contains(t, payload, "15% discount code")
	assert.Contains(t, payload, "Code: WELCOME123")
	assert.NotContains(t, payload, "10%")
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "10%", formatPercent(10))
	assert.Equal(t, "12.5%", formatPercent(12.5))
}
