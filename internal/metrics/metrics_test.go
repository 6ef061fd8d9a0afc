package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDomain = errors.New("domain rule")

func TestRecordOperation(t *testing.T) {
	m := New()
	rejected := func(err error) bool { return errors.Is(err, errDomain) }

	m.RecordOperation("create_event", nil, rejected)
	m.RecordOperation("create_event", errDomain, rejected)
	m.RecordOperation("create_event", errors.New("disk"), rejected)
	m.RecordOperation("create_event", nil, rejected)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("create_event", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("create_event", OutcomeRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("create_event", OutcomeError)))
}

func TestExpiredAndRevision(t *testing.T) {
	m := New()

	m.AddExpired(3)
	m.AddExpired(0)
	m.SetRevision(42)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.expired))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.revision))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordOperation("x", nil, nil)
		m.AddExpired(1)
		m.SetRevision(1)
	})
	assert.Nil(t, m.Registry())
}

func TestHandlerServesMetrics(t *testing.T) {
	m := New()
	m.AddExpired(1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pickup_requests_expired_total 1")
}
