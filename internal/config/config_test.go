package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults with env override", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("REPORT_DELETE_POLICY", "physical")
		t.Setenv("CONFIG_FILE", "")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "immutable", cfg.Report.DatePolicy)
		assert.Equal(t, "physical", cfg.Report.DeletePolicy)
		assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	})

	t.Run("yaml file then env", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.yaml")
		content := "port: \"8081\"\nreport:\n  date_policy: revalidate\ndb:\n  driver: sqlite\n  path: /tmp/x.db\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		t.Setenv("CONFIG_FILE", path)
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("PORT", "9090")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "revalidate", cfg.Report.DatePolicy)
		assert.Equal(t, "sqlite", cfg.DB.Driver)
		assert.Equal(t, "9090", cfg.Port)
	})

	t.Run("invalid policy", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", "")
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("REPORT_DATE_POLICY", "sometimes")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", "")
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("DB_DRIVER", "mysql")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", "")
		t.Setenv("JWT_SECRET", "")

		_, err := Load()
		assert.Error(t, err)
	})
}
