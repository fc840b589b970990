package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/taskly-api/internal/api/middleware"
	"github.com/phrazzld/taskly-api/internal/api/shared"
	"github.com/phrazzld/taskly-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceMiddleware(t *testing.T) {
	t.Parallel()
	log, logs := logger.NewBufferedLogger()

	var traceID string
	handler := middleware.NewTraceMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusAccepted)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/tasks", nil))

	require.Len(t, traceID, 32)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	inside, ok := logs.Find("inside handler")
	require.True(t, ok)
	assert.Equal(t, traceID, inside["trace_id"])

	done, ok := logs.Find("request completed")
	require.True(t, ok)
	assert.Equal(t, traceID, done["trace_id"])
	assert.EqualValues(t, http.StatusAccepted, done["status"])
	assert.Equal(t, "/api/v1/tasks", done["path"])
}
