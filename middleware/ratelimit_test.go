package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(h http.Handler, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/matches/1/report", nil)
	req.RemoteAddr = remote
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimit_BlocksAfterBurst(t *testing.T) {
	// 4 per hour gives a burst of 2 and effectively no refill during the test.
	h := RateLimit(4, time.Hour)(okHandler())

	assert.Equal(t, http.StatusOK, doRequest(h, "10.0.0.1:1111").Code)
	assert.Equal(t, http.StatusOK, doRequest(h, "10.0.0.1:2222").Code)

	rec := doRequest(h, "10.0.0.1:3333")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "3600", rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"too many requests"}`, rec.Body.String())

	// other clients have their own bucket
	assert.Equal(t, http.StatusOK, doRequest(h, "10.0.0.2:1111").Code)
}

func TestRateLimit_Disabled(t *testing.T) {
	h := RateLimit(0, time.Minute)(okHandler())
	for i := 0; i < 50; i++ {
		assert.Equal(t, http.StatusOK, doRequest(h, "10.0.0.1:1").Code)
	}
}
