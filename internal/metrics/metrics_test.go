package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareCountsMatchedRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware())
	router.GET("/tasks/:id", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	counter := HTTPRequests.WithLabelValues(http.MethodGet, "/tasks/:id", "204")
	before := testutil.ToFloat64(counter)

	for _, path := range []string{"/tasks/1", "/tasks/2"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
	}

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}

func TestMiddlewareGroupsUnmatchedPaths(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware())

	counter := HTTPRequests.WithLabelValues(http.MethodGet, "unmatched", "404")
	before := testutil.ToFloat64(counter)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope/123", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestLoginCounterLabels(t *testing.T) {
	before := testutil.ToFloat64(Logins.WithLabelValues(LoginBlocked))
	Logins.WithLabelValues(LoginBlocked).Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(Logins.WithLabelValues(LoginBlocked)))
}
