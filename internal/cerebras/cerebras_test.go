// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cerebras

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/prospect-engine/pkg/types"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	old := apiURL
	apiURL = ts.URL
	t.Cleanup(func() { apiURL = old })

	return NewClient(types.AIConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second},
		APIKey:     "csk-test",
	})
}

func TestGenerate(t *testing.T) {
	var gotBody map[string]any
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer csk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "SUMMARY: Acme makes anvils."}},
			},
		})
	})

	text, err := client.Generate(context.Background(), "analyze Acme", 800, 0.2)
	require.NoError(t, err)
	assert.Equal(t, "SUMMARY: Acme makes anvils.", text)

	assert.Equal(t, defaultModel, gotBody["model"])
	assert.Equal(t, float64(800), gotBody["max_tokens"])
	assert.Equal(t, 0.2, gotBody["temperature"])
	msgs := gotBody["messages"].([]any)
	require.Len(t, msgs, 1)
	assert.Equal(t, "user", msgs[0].(map[string]any)["role"])
}

func TestGenerateDefaultTemperature(t *testing.T) {
	var gotBody map[string]any
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "ok"}},
			},
		})
	})

	_, err := client.Generate(context.Background(), "prompt", 100, -1)
	require.NoError(t, err)
	assert.Equal(t, 0.2, gotBody["temperature"])
}

func TestGenerateErrorStatus(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"context too long"}`))
	})

	_, err := client.Generate(context.Background(), "prompt", 100, 0.2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 400")
}

func TestGenerateEmptyChoices(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []map[string]any{}})
	})

	_, err := client.Generate(context.Background(), "prompt", 100, 0.2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}
