package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/pollspark/internal/core/domain"
)

func (app *TestApp) do(t *testing.T, method, path, token string, payload any) *http.Response {
	t.Helper()
	return app.doWith(t, app.Client, method, path, token, payload)
}

func (app *TestApp) doWith(t *testing.T, client *http.Client, method, path, token string, payload any) *http.Response {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, app.Server.URL+path, body)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func (app *TestApp) createPoll(t *testing.T, token string, payload map[string]any) domain.Poll {
	t.Helper()
	resp := app.do(t, http.MethodPost, "/api/polls", token, payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var poll domain.Poll
	decodeBody(t, resp, &poll)
	return poll
}
