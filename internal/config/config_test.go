package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "both", cfg.Logging.Output)
	assert.Equal(t, DefaultCity, cfg.Dataset.City)
	assert.Equal(t, DefaultYears(), cfg.Dataset.Years)
	assert.False(t, cfg.Database.Enabled)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults pass",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "empty fields filled before validation",
			mutate: func(c *Config) {
				c.Logging.Output = ""
				c.Dataset.City = ""
				c.Dataset.Years = nil
			},
			wantErr: false,
		},
		{
			name: "bad logging level rejected",
			mutate: func(c *Config) {
				c.Logging.Level = "loud"
			},
			wantErr: true,
		},
		{
			name: "bad logging output rejected",
			mutate: func(c *Config) {
				c.Logging.Output = "syslog"
			},
			wantErr: true,
		},
		{
			name: "implausible year rejected",
			mutate: func(c *Config) {
				c.Dataset.Years = []int{1024}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	db := DatabaseConfig{
		Host:     "db.local",
		Port:     "5433",
		User:     "apt",
		Password: "secret",
		Name:     "apartments",
		SSLMode:  "disable",
	}

	dsn := db.DSN()
	assert.Contains(t, dsn, "host=db.local")
	assert.Contains(t, dsn, "port=5433")
	assert.Contains(t, dsn, "dbname=apartments")
	assert.Contains(t, dsn, "sslmode=disable")
}

func TestMergeConfigs(t *testing.T) {
	fileCfg := *Default()
	fileCfg.Logging.Level = "debug"
	fileCfg.Dataset.City = "warszawa"
	fileCfg.Database.Enabled = true
	fileCfg.Database.Host = "db.internal"

	envCfg := Config{}
	envCfg.Logging.Level = "warn"

	merged := mergeConfigs(fileCfg, envCfg)

	// Env wins where it is set, file fills the rest.
	assert.Equal(t, "warn", merged.Logging.Level)
	assert.Equal(t, "warszawa", merged.Dataset.City)
	require.True(t, merged.Database.Enabled)
	assert.Equal(t, "db.internal", merged.Database.Host)
}

func TestMergeConfigs_PartialDatabaseEnv(t *testing.T) {
	fileCfg := *Default()
	fileCfg.Database.Enabled = true
	fileCfg.Database.Password = "from-file"
	fileCfg.Database.Name = "apartments"

	envCfg := Config{}
	envCfg.Database.Host = "db.override"
	envCfg.Database.Port = "5433"

	merged := mergeConfigs(fileCfg, envCfg)

	// Env fields set without APT_DATABASE_ENABLED must survive the merge.
	assert.True(t, merged.Database.Enabled)
	assert.Equal(t, "db.override", merged.Database.Host)
	assert.Equal(t, "5433", merged.Database.Port)
	assert.Equal(t, "from-file", merged.Database.Password)
	assert.Equal(t, "apartments", merged.Database.Name)
}

func TestGetConfigFilePathIgnoresWorkingDirectory(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "config.yaml"), []byte("logging:\n  level: debug\n"), 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmp))
	defer os.Chdir(wd)

	// A config.yaml in the working directory must not be picked up; only
	// files next to the executable count.
	path := getConfigFilePath()
	if path != "" {
		assert.True(t, filepath.IsAbs(path))
		resolved, err := filepath.EvalSymlinks(filepath.Join(tmp, "config.yaml"))
		require.NoError(t, err)
		assert.NotEqual(t, resolved, path)
	}
}
