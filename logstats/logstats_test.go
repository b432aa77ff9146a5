package logstats

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const infoLog = `INFO: 2026/05/01 10:00:00 billplz_controller.go:124: Created bill b1 for order ord_1
INFO: 2026/05/01 10:01:00 billplz_controller.go:149: Billplz callback received
INFO: 2026/05/01 10:01:00 billplz_controller.go:186: Billplz callback for order ord_1: paid=true state=paid -> paid
INFO: 2026/05/01 10:02:00 billplz_controller.go:149: Billplz callback received
INFO: 2026/05/01 10:02:00 billplz_controller.go:186: Billplz callback for order ord_2: paid=false state=failed -> failed
INFO: 2026/05/01 10:03:00 stripe_controller.go:105: Stripe webhook evt_1 (checkout.session.completed) for order ord_3
INFO: 2026/05/01 10:04:00 admin_controller.go:69: Admin login successful: admin@nusadigital.my
`

const errorLog = `ERROR: 2026/05/01 10:05:00 billplz_controller.go:170: Billplz callback signature mismatch for bill b9
ERROR: 2026/05/01 10:06:00 billplz_controller.go:205: Failed to update order ord_1 from Billplz callback: database unavailable
ERROR: 2026/05/01 10:07:00 billplz_controller.go:205: Failed to update order ord_1 from Billplz callback: database unavailable
ERROR: 2026/05/01 10:08:00 admin_controller.go:51: Failed admin login for someone@example.com
ERROR: 2026/05/01 10:09:00 stripe_controller.go:101: Stripe webhook rejected: verify webhook: bad signature
`

func TestAnalyze(t *testing.T) {
	stats, err := Analyze(strings.NewReader(infoLog), strings.NewReader(errorLog))
	require.NoError(t, err)

	assert.Equal(t, 1, stats.BillsCreated)
	assert.Equal(t, 2, stats.CallbacksReceived)
	assert.Equal(t, 1, stats.CallbacksPaid)
	assert.Equal(t, 1, stats.CallbacksFailed)
	assert.Equal(t, 1, stats.StripeWebhooks)
	assert.Equal(t, 1, stats.AdminLogins)

	assert.Equal(t, 5, stats.TotalErrors)
	assert.Equal(t, 1, stats.SignatureRejections)
	assert.Equal(t, 2, stats.OrderUpdateFailures)
	assert.Equal(t, 1, stats.AdminLoginFailures)
	assert.Equal(t, 1, stats.StripeRejections)

	assert.Equal(t, 4, stats.OrderActivity["ord_1"])
	assert.Equal(t, 2, stats.ErrorPatterns["Failed to update order ord_1 from Billplz callback"])
}

func TestWriteReport(t *testing.T) {
	stats, err := Analyze(strings.NewReader(infoLog), strings.NewReader(errorLog))
	require.NoError(t, err)

	var buf bytes.Buffer
	WriteReport(&buf, stats, time.Date(2026, 5, 1, 23, 0, 0, 0, time.UTC))

	out := buf.String()
	assert.Contains(t, out, "Callbacks Paid: 1")
	assert.Contains(t, out, "ord_1: 4 events")
	assert.Contains(t, out, "Generated: 2026-05-01 23:00:00")
}

func TestAnalyzeDir(t *testing.T) {
	dir := t.TempDir()
	day := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "info-2026-05-01.log"), []byte(infoLog), 0o644))

	stats, err := AnalyzeDir(dir, day)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.CallbacksReceived)
	assert.Zero(t, stats.TotalErrors)
}
