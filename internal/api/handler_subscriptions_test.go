package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plantcare-backend/internal/model"
)

func TestPutSubscription(t *testing.T) {
	f := setupAPI(t)

	t.Run("requires identity", func(t *testing.T) {
		w := f.do(t, "PUT", "/api/subscriptions", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects an empty body", func(t *testing.T) {
		w := f.do(t, "PUT", "/api/subscriptions", "1", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("creates a subscription", func(t *testing.T) {
		w := f.do(t, "PUT", "/api/subscriptions", "1", map[string]string{
			"endpoint": "https://example.com/push",
			"p256dh":   "key",
			"auth":     "secret",
		})
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("replaces the keys on the same endpoint", func(t *testing.T) {
		w := f.do(t, "PUT", "/api/subscriptions", "1", map[string]string{
			"endpoint": "https://example.com/push",
			"p256dh":   "rotated",
			"auth":     "secret",
		})
		assert.Equal(t, http.StatusCreated, w.Code)

		var sub model.PushSubscription
		require.NoError(t, f.store.DB().First(&sub, "endpoint = ?", "https://example.com/push").Error)
		assert.Equal(t, "rotated", sub.P256DH)

		var count int64
		f.store.DB().Model(&model.PushSubscription{}).Count(&count)
		assert.Equal(t, int64(1), count)
	})
}

func TestGetSubscription(t *testing.T) {
	f := setupAPI(t)

	w := f.do(t, "PUT", "/api/subscriptions", "1", map[string]string{
		"endpoint": "https://example.com/push",
		"p256dh":   "key",
		"auth":     "secret",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("owner can read it", func(t *testing.T) {
		w := f.do(t, "GET", "/api/subscriptions?endpoint=https://example.com/push", "1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "https://example.com/push", decodeBody(t, w)["endpoint"])
	})

	t.Run("another user cannot", func(t *testing.T) {
		w := f.do(t, "GET", "/api/subscriptions?endpoint=https://example.com/push", "2", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("endpoint is required", func(t *testing.T) {
		w := f.do(t, "GET", "/api/subscriptions", "1", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeleteSubscription(t *testing.T) {
	f := setupAPI(t)

	w := f.do(t, "PUT", "/api/subscriptions", "1", map[string]string{
		"endpoint": "https://example.com/push",
		"p256dh":   "key",
		"auth":     "secret",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.do(t, "DELETE", "/api/subscriptions", "1", map[string]string{
		"endpoint": "https://example.com/push",
	})
	assert.Equal(t, http.StatusNoContent, w.Code)

	var count int64
	f.store.DB().Model(&model.PushSubscription{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestGetVAPIDPublicKey(t *testing.T) {
	f := setupAPI(t)

	w := f.do(t, "GET", "/api/vapid_public_key", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "test-public-key", decodeBody(t, w)["public_key"])
}
