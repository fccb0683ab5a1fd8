package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SkillDoAI/skilldo/pkg/corpus"
)

func writeDoc(t *testing.T, path, name, description string) {
	t.Helper()
	content := `---
name: ` + name + `
description: ` + description + `
version: 1.0.0
ecosystem: python
license: MIT
---

# ` + name + `

## Core Patterns

Some guidance.
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()

	corpusDir := t.TempDir()
	writeDoc(t, filepath.Join(corpusDir, "aiohttp-SKILL.md"), "aiohttp", "Async HTTP for asyncio")
	writeDoc(t, filepath.Join(corpusDir, "pydantic-SKILL.md"), "pydantic", "Data validation with type hints")

	discovery, err := corpus.NewDiscovery(corpus.WithCorpusDirs(corpusDir))
	require.NoError(t, err)

	config := &ServerConfig{
		Host:   "localhost",
		Port:   8080,
		DBPath: filepath.Join(t.TempDir(), "index.db"),
	}

	srv, err := NewServer(context.Background(), config, discovery)
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return srv, ts
}

func TestServerConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  ServerConfig
		wantErr string
	}{
		{"valid", ServerConfig{Host: "localhost", Port: 8080, DBPath: "/tmp/index.db"}, ""},
		{"empty host", ServerConfig{Port: 8080, DBPath: "/tmp/index.db"}, "host cannot be empty"},
		{"port too low", ServerConfig{Host: "localhost", Port: 0, DBPath: "/tmp/index.db"}, "port must be between"},
		{"port too high", ServerConfig{Host: "localhost", Port: 70000, DBPath: "/tmp/index.db"}, "port must be between"},
		{"empty db path", ServerConfig{Host: "localhost", Port: 8080}, "database path cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestHandleListSkills(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/skills")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summaries []SkillSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summaries))
	require.Len(t, summaries, 2)
	assert.Equal(t, "aiohttp", summaries[0].Name)
	assert.Equal(t, "pydantic", summaries[1].Name)
	assert.NotEmpty(t, summaries[0].Path)
}

func TestHandleGetSkill(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/skills/aiohttp")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var doc SkillResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.Equal(t, "aiohttp", doc.Name)
	assert.Equal(t, "1.0.0", doc.Version)
	assert.Contains(t, doc.Sections, "Core Patterns")
	assert.Contains(t, doc.Body, "Some guidance.")
}

func TestHandleGetSkillNotFound(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/skills/nonexistent")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandleGetSkillHTML(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/skills/aiohttp/html")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "<h2")
	assert.Contains(t, string(body), "Core Patterns")
}

func TestHandleSearch(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/search?q=validation")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var records []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&records))
	require.Len(t, records, 1)
	assert.Equal(t, "pydantic", records[0]["name"])
}

func TestHandleSearchNoResults(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/search?q=nomatchanywhere")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(string(body)))
}

func TestHandleSearchMissingQuery(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/search")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleLint(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/lint")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.EqualValues(t, 2, report["checked_files"])
}

func TestHandleHealthz(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var status map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.Equal(t, "ok", status["status"])
}
