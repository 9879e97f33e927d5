package notifications

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrevoService_Send(t *testing.T) {
	var received brevoPayload
	var apiKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey = r.Header.Get("api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	service := NewBrevoService("key-123", "noreply@learnsphere.test", "LearnSphere", server.URL)
	require.NoError(t, service.Send("alice@learnsphere.test", "", "Hello", "<p>hi</p>"))

	assert.Equal(t, "key-123", apiKey)
	assert.Equal(t, "Hello", received.Subject)
	require.Len(t, received.To, 1)
	assert.Equal(t, "alice", received.To[0]["name"])
	assert.Equal(t, "LearnSphere", received.Sender["name"])
}

func TestBrevoService_SendErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"bad sender"}`))
	}))
	defer server.Close()

	service := NewBrevoService("key", "noreply@learnsphere.test", "LearnSphere", server.URL)
	assert.Error(t, service.Send("not-an-address", "", "s", "b"))

	err := service.Send("alice@learnsphere.test", "Alice", "s", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad sender")
}

func TestTestResultEmail(t *testing.T) {
	subject, body := TestResultEmail("Quiz", 2, 3)
	assert.Equal(t, "Your result for Quiz", subject)
	assert.Contains(t, body, "2 / 3")
}
