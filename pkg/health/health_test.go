package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeReport(t *testing.T, rec *httptest.ResponseRecorder) Report {
	t.Helper()
	var rep Report
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&rep))
	return rep
}

func TestLivenessHandler_AlwaysUp(t *testing.T) {
	h := NewHandler()

	rec := httptest.NewRecorder()
	h.LivenessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	rep := decodeReport(t, rec)
	assert.Equal(t, StatusUp, rep.Status)
	assert.False(t, rep.Timestamp.IsZero())
	assert.Empty(t, rep.Checks)
}

func TestReadinessHandler_AllUp(t *testing.T) {
	h := NewHandler()
	h.Register("postgres", func(ctx context.Context) error { return nil })
	h.Register("redis", func(ctx context.Context) error { return nil })

	rec := httptest.NewRecorder()
	h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	rep := decodeReport(t, rec)
	assert.Equal(t, StatusUp, rep.Status)
	assert.Equal(t, StatusUp, rep.Checks["postgres"].Status)
	assert.Equal(t, StatusUp, rep.Checks["redis"].Status)
}

func TestReadinessHandler_OneDown(t *testing.T) {
	h := NewHandler()
	h.Register("postgres", func(ctx context.Context) error { return nil })
	h.Register("kafka", func(ctx context.Context) error { return errors.New("broker unreachable") })

	rec := httptest.NewRecorder()
	h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rep := decodeReport(t, rec)
	assert.Equal(t, StatusDown, rep.Status)
	assert.Equal(t, StatusUp, rep.Checks["postgres"].Status)
	assert.Equal(t, StatusDown, rep.Checks["kafka"].Status)
	assert.Equal(t, "broker unreachable", rep.Checks["kafka"].Error)
}

func TestReadinessHandler_NoCheckers(t *testing.T) {
	h := NewHandler()

	rec := httptest.NewRecorder()
	h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, StatusUp, decodeReport(t, rec).Status)
}

func TestReadinessHandler_ChecksRunConcurrently(t *testing.T) {
	h := NewHandler()

	release := make(chan struct{})
	h.Register("a", func(ctx context.Context) error {
		<-release
		return nil
	})
	h.Register("b", func(ctx context.Context) error {
		// Unblocks "a"; deadlocks unless both checkers run at once.
		close(release)
		return nil
	})

	rec := httptest.NewRecorder()
	h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
