package image

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIBackend(t *testing.T) {
	var got Params
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/images/generations", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		switch got.Model {
		case "gpt-image-1":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"data": []map[string]string{{"b64_json": base64.StdEncoding.EncodeToString([]byte("png bytes"))}},
			})
		case "dall-e-3":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"data": []map[string]string{{"url": "https://cdn.example.com/kitten.png"}},
			})
		case "empty":
			_ = json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
		default:
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]string{"message": "model not found"},
			})
		}
	}))
	defer srv.Close()

	backend := func(model string) *OpenAIBackend {
		return &OpenAIBackend{
			Client:  srv.Client(),
			BaseURL: srv.URL + "/v1/",
			Key:     "sk-test",
			Model:   model,
			Size:    "512x512",
		}
	}

	t.Run("inline bytes", func(t *testing.T) {
		payload, err := backend("gpt-image-1").Generate(context.Background(), "a kitten")
		require.NoError(t, err)
		assert.Equal(t, []byte("png bytes"), payload.Data)
		assert.Equal(t, Params{
			Model:          "gpt-image-1",
			Prompt:         "a kitten",
			N:              1,
			Size:           "512x512",
			ResponseFormat: "b64_json",
		}, got)
	})

	t.Run("url only", func(t *testing.T) {
		payload, err := backend("dall-e-3").Generate(context.Background(), "a kitten")
		require.NoError(t, err)
		assert.Empty(t, payload.Data)
		assert.Equal(t, "https://cdn.example.com/kitten.png", payload.URL)
	})

	t.Run("empty data", func(t *testing.T) {
		payload, err := backend("empty").Generate(context.Background(), "a kitten")
		require.NoError(t, err)
		assert.Equal(t, Payload{}, payload)
	})

	t.Run("provider error", func(t *testing.T) {
		_, err := backend("nope").Generate(context.Background(), "a kitten")
		assert.ErrorContains(t, err, "model not found")
	})

	assert.Equal(t, "dall-e-3", backend("dall-e-3").Name())
}
