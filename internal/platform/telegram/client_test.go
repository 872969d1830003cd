package telegram

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetChatMember(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottest-token/getChatMember", r.URL.Path)
		assert.Equal(t, "-100123", r.URL.Query().Get("chat_id"))
		assert.Equal(t, "42", r.URL.Query().Get("user_id"))

		w.Write([]byte(`{"ok": true, "result": {"status": "member"}}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-token", server.URL)

	member, err := client.GetChatMember(context.Background(), "-100123", "42")
	require.NoError(t, err)
	assert.Equal(t, "member", member.Status)
}

func TestGetChatMemberAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok": false, "description": "Bad Request: user not found"}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-token", server.URL)

	_, err := client.GetChatMember(context.Background(), "-100123", "42")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Bad Request: user not found", apiErr.Description)
}

func TestSendMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "-100123", r.PostForm.Get("chat_id"))
		assert.Equal(t, "hello", r.PostForm.Get("text"))

		w.Write([]byte(`{"ok": true, "result": {}}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-token", server.URL)
	assert.NoError(t, client.SendMessage(context.Background(), "-100123", "hello"))
}

func TestHasToken(t *testing.T) {
	assert.False(t, NewClient("").HasToken())
	assert.True(t, NewClient("x").HasToken())
}
