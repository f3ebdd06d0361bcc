package user

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubIssuer struct {
	err error
}

func (s stubIssuer) GenerateAccessJWT(userID string) (string, error) {
	return "token-" + userID, s.err
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string, errors ...[]string) {
	payload := map[string]interface{}{"success": false, "message": message}
	if len(errors) > 0 && len(errors[0]) > 0 {
		payload["errors"] = errors[0]
	}
	respondJSON(w, status, payload)
}

func register(t *testing.T, handler *Handler, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	handler.HandleRegister(w, req)

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	return w, response
}

func TestHandleRegister_Created(t *testing.T) {
	service, _ := newTestService()
	handler := NewHandler(service, stubIssuer{}, testLogger(), respondJSON, respondError)

	w, response := register(t, handler, `{"username":"alice","email":"alice@example.com","password":"secret1"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, response["success"])
	user := response["user"].(map[string]interface{})
	assert.Equal(t, "alice", user["username"])
	assert.Equal(t, "alice@example.com", user["email"])
	assert.Equal(t, "token-"+user["id"].(string), response["token"])
	assert.NotContains(t, user, "passwordHash")
}

func TestHandleRegister_Errors(t *testing.T) {
	service, _ := newTestService()
	handler := NewHandler(service, stubIssuer{}, testLogger(), respondJSON, respondError)

	w, response := register(t, handler, `{"username":"","email":"alice@example.com","password":"secret1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Please add a username", response["message"])
	assert.Equal(t, []interface{}{"Please add a username"}, response["errors"])

	w, _ = register(t, handler, `{"username":"alice","email":"alice@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w, response = register(t, handler, `{"username":"alice2","email":"alice@example.com","password":"secret1"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "User already exists with this email", response["message"])

	w, response = register(t, handler, `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body", response["message"])
}

func TestHandleRegister_TokenFailure(t *testing.T) {
	service, _ := newTestService()
	handler := NewHandler(service, stubIssuer{err: errors.New("signing failed")}, testLogger(), respondJSON, respondError)

	w, response := register(t, handler, `{"username":"alice","email":"alice@example.com","password":"secret1"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Server Error", response["message"])
}
