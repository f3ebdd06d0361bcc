package logger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsBadSettings(t *testing.T) {
	_, err := New("loud", "text")
	assert.Error(t, err)

	_, err = New("info", "xml")
	assert.Error(t, err)

	log, err := New("debug", "json")
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
}

func TestMiddleware_LogsByStatusClass(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "info"},
		{http.StatusNotFound, "warning"},
		{http.StatusInternalServerError, "error"},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		log, err := NewWithOutput("info", "json", &out)
		require.NoError(t, err)

		handler := Middleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			w.Write([]byte("body"))
		}))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/transactions", nil))

		var line map[string]interface{}
		require.NoError(t, json.Unmarshal(out.Bytes(), &line))
		assert.Equal(t, tt.level, line["level"])
		assert.Equal(t, float64(tt.status), line["status"])
		assert.Equal(t, "/api/transactions", line["path"])
		assert.Equal(t, float64(4), line["bytes"])
	}
}

func TestMiddleware_ImplicitOK(t *testing.T) {
	var out bytes.Buffer
	log, err := NewWithOutput("info", "json", &out)
	require.NoError(t, err)

	handler := Middleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &line))
	assert.Equal(t, float64(http.StatusOK), line["status"])
}
