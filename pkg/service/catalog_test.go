package service

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verdantlabs/agora/pkg/a2a"
	"github.com/verdantlabs/agora/pkg/catalog"
)

func TestCatalogServerLifecycle(t *testing.T) {
	srv := NewCatalogServer()

	card := a2a.AgentCard{
		Name:    "GreetingAgent",
		URL:     "http://localhost:3001",
		Version: "1.0.0",
	}

	body, err := json.Marshal(card)
	require.NoError(t, err)

	// Register.
	req := httptest.NewRequest(http.MethodPost, "/agent", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// List.
	req = httptest.NewRequest(http.MethodGet, catalog.WellKnownCatalogPath, nil)
	resp, err = srv.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var agents []a2a.AgentCard
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&agents))
	require.Len(t, agents, 1)
	assert.Equal(t, "GreetingAgent", agents[0].Name)

	// Fetch by name.
	req = httptest.NewRequest(http.MethodGet, "/agent/GreetingAgent", nil)
	resp, err = srv.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Remove, then verify it is gone.
	req = httptest.NewRequest(http.MethodDelete, "/agent/GreetingAgent", nil)
	resp, err = srv.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/agent/GreetingAgent", nil)
	resp, err = srv.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCatalogServerUnknownAgent(t *testing.T) {
	srv := NewCatalogServer()

	req := httptest.NewRequest(http.MethodGet, "/agent/NoSuchAgent", nil)
	resp, err := srv.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	req = httptest.NewRequest(http.MethodDelete, "/agent/NoSuchAgent", nil)
	resp, err = srv.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
