package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gear-cost/internal/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "gear-cost.yaml", `
data:
  ladder: ./tiers.yaml
server:
  addr: ":9000"
  rate_limit: 5
  read_timeout: 3s
output:
  format: json
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "./tiers.yaml", cfg.Data.Ladder)
	assert.Empty(t, cfg.Data.Catalog)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 5.0, cfg.Server.RateLimit)
	assert.Equal(t, 40, cfg.Server.Burst)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "gear-cost.json", `{"server": {"addr": ":9000"}}`)
	t.Setenv("GEARCOST_SERVER_ADDR", ":7000")
	t.Setenv("GEARCOST_OUTPUT_FORMAT", "csv")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, "csv", cfg.Output.Format)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.True(t, errors.IsType(err, errors.TypeConfig))
	})

	t.Run("invalid values", func(t *testing.T) {
		path := writeFile(t, "bad.yaml", "output:\n  format: xml\nserver:\n  burst: -1\n")
		_, err := Load(path)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.TypeConfig))
		assert.Contains(t, err.Error(), "Format")
		assert.Contains(t, err.Error(), "Burst")
	})
}
