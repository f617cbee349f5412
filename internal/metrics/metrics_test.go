package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	m := New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, id := range []string{"1", "2", "3"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tasks/"+id, nil))
		require.Equal(t, http.StatusTeapot, w.Code)
	}

	got := testutil.ToFloat64(m.requestsTotal.WithLabelValues(http.MethodGet, "/api/tasks/{id}", "418"))
	assert.Equal(t, float64(3), got)
}

func TestDomainCounters(t *testing.T) {
	m := New()

	m.TasksExpired(4)
	m.TasksExpired(0)
	m.ShareResolved("ACCEPTED")
	m.ShareResolved("ACCEPTED")
	m.ShareResolved("DECLINED")

	assert.Equal(t, float64(4), testutil.ToFloat64(m.tasksExpired))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.shareResolutions.WithLabelValues("ACCEPTED")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.shareResolutions.WithLabelValues("DECLINED")))
}

func TestHandler_Exposition(t *testing.T) {
	m := New()
	m.TasksExpired(1)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "tasks_expired_total 1"))
}
