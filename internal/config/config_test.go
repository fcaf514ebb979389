package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matchpulse/footdata/pkg/client"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("FOOTDATA_PROVIDER_API_KEY", "env-key")
	t.Setenv("FOOTDATA_PROVIDER_NAME", "rapidapi")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "env-key", cfg.Provider.APIKey)
	require.Equal(t, "rapidapi", cfg.Provider.Name)

	// Defaults fill in everything not set.
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, ":8080", cfg.Server.Listen)
	require.Equal(t, "Asia/Seoul", cfg.Provider.Timezone)
	require.False(t, cfg.Redis.Enabled)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "footdata.yaml")
	content := []byte(`
provider:
  name: apisports
  api_key: file-key
database:
  driver: postgres
  dsn: "host=localhost user=footdata dbname=footdata"
redis:
  enabled: true
  address: redis:6379
server:
  listen: ":9090"
logging:
  level: debug
  pretty: true
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "file-key", cfg.Provider.APIKey)
	require.Equal(t, "postgres", cfg.Database.Driver)
	require.True(t, cfg.Redis.Enabled)
	require.Equal(t, "redis:6379", cfg.Redis.Address)
	require.Equal(t, ":9090", cfg.Server.Listen)
	require.Equal(t, "debug", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Provider: ProviderConfig{Name: "apisports", APIKey: "k"},
			Database: DatabaseConfig{Driver: "sqlite", DSN: "footdata.db"},
		}
	}

	require.NoError(t, base().Validate())

	cfg := base()
	cfg.Provider.Name = "espn"
	require.Error(t, cfg.Validate())

	cfg = base()
	cfg.Provider.APIKey = ""
	require.Error(t, cfg.Validate())

	cfg = base()
	cfg.Database.Driver = "mysql"
	require.Error(t, cfg.Validate())

	cfg = base()
	cfg.Database.DSN = ""
	require.Error(t, cfg.Validate())
}

func TestClientConfig(t *testing.T) {
	cfg := &Config{
		Provider: ProviderConfig{
			Name:     "rapidapi",
			APIKey:   "k",
			BaseURL:  "https://api-football-v1.p.rapidapi.com/v3",
			Timezone: "Europe/London",
		},
	}

	cc, err := cfg.ClientConfig()
	require.NoError(t, err)
	require.Equal(t, client.ProviderRapidAPI, cc.Provider)
	require.Equal(t, "https://api-football-v1.p.rapidapi.com/v3", cc.BaseURL)
	require.Equal(t, "Europe/London", cc.DefaultTimezone)
}
