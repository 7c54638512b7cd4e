package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordAuthorization(t *testing.T) {
	m := NewMetrics()

	m.RecordAuthorization("block_user", false, "insufficient_capability")
	m.RecordAuthorization("block_user", false, "insufficient_capability")
	m.RecordAuthorization("block_user", true, "admin")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.authorizations.WithLabelValues("block_user", "false", "insufficient_capability")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.authorizations.WithLabelValues("block_user", "true", "admin")))
}

func TestRecordNotification(t *testing.T) {
	m := NewMetrics()

	m.RecordNotification("account_blocked", "sms", "failure")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.notifications.WithLabelValues("account_blocked", "sms", "failure")))
}

func TestRecordRequest(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/admin/users", "GET", 403, 5*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/admin/users", "GET", "403")))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "X")
		m.RecordAuthorization("a", true, "admin")
		m.RecordNotification("k", "email", "success")
	})
}
