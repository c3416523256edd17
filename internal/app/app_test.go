package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gear-cost/internal/config"
	"gear-cost/internal/errors"
)

func TestNewEngineUsesEmbeddedData(t *testing.T) {
	engine, err := NewEngine(config.Default())
	require.NoError(t, err)
	assert.Equal(t, "embedded", engine.Reference().Source.Ladder)
	assert.True(t, engine.Reference().Ladder.Has("Mythic-3"))
}

func TestNewEngineMissingFile(t *testing.T) {
	cfg := config.Default()
	cfg.Data.Ladder = "/does/not/exist.csv"
	_, err := NewEngine(cfg)
	assert.True(t, errors.IsType(err, errors.TypeNotFound))
}

func TestNewServerServesMetrics(t *testing.T) {
	srv, err := NewServer(config.Default(), "test")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "gearcost_deficit_calculation_duration_seconds")
}
