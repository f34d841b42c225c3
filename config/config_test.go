package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-ledger/config"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	env := writeFile(t, ".env", "")
	cfg, err := config.Load("", env)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, config.BackendJSON, cfg.Storage.Backend)
	assert.Equal(t, "employee_data.json", cfg.Storage.Path)
	assert.Equal(t, "admin", cfg.Auth.Username)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Precedence(t *testing.T) {
	// GIVEN: a YAML file, a .env file, and a process variable
	yamlPath := writeFile(t, "payroll.yaml", `
server:
  addr: ":9000"
  shutdown_timeout: 3s
storage:
  backend: sqlite
  path: /tmp/from-yaml.db
log:
  level: debug
  format: json
`)
	envPath := writeFile(t, ".env", "PAYROLL_DATA_PATH=/tmp/from-dotenv.db\nPAYROLL_ADDR=:7000\n")
	t.Setenv("PAYROLL_ADDR", ":6000")
	t.Setenv("PAYROLL_DATA_PATH", "")
	require.NoError(t, os.Unsetenv("PAYROLL_DATA_PATH")) // restored by t.Setenv cleanup
	t.Setenv("PAYROLL_CORS_ORIGINS", "https://a.example, https://b.example")

	// WHEN: loading
	cfg, err := config.Load(yamlPath, envPath)
	require.NoError(t, err)

	// THEN: environment beats .env, which beats YAML, which beats defaults
	assert.Equal(t, ":6000", cfg.Server.Addr)
	assert.Equal(t, config.BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/from-dotenv.db", cfg.Storage.Path)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Errors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := writeFile(t, "bad.yaml", "server: [")
	_, err = config.Load(bad)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Backend = "postgres"
	cfg.Log.Level = "loud"
	cfg.Auth.Password = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.backend")
	assert.Contains(t, err.Error(), "log.level")
	assert.Contains(t, err.Error(), "auth.username")

	cfg = config.Default()
	cfg.Storage = config.StorageConfig{Backend: config.BackendMemory}
	assert.NoError(t, cfg.Validate())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logg, err := config.NewLogger(config.LogConfig{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)

	logg.Info("hidden")
	logg.WithField("employee", "Ali").Warn("shown")

	assert.Equal(t, logrus.WarnLevel, logg.GetLevel())
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"employee":"Ali"`)

	_, err = config.NewLogger(config.LogConfig{Level: "nope"}, &buf)
	assert.Error(t, err)
}
