package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/busyflag/pkg/busyflag"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFromFileYAML(t *testing.T) {
	path := writeFile(t, "flags.yaml", `
strict: true
create_on_access: false
flags:
  save: false
  progress: "idle"
`)

	cfg, err := FromFile(path)
	require.NoError(t, err)

	assert.True(t, cfg.Bool("strict", false))
	assert.False(t, cfg.Bool("create_on_access", true))
	assert.Equal(t, "idle", cfg.Map("flags", nil)["progress"])
}

func TestFromFileJSON(t *testing.T) {
	path := writeFile(t, "flags.json", `{"strict": false, "flags": {"save": true}}`)

	cfg, err := FromFile(path)
	require.NoError(t, err)

	assert.False(t, cfg.Bool("strict", true))
	assert.Equal(t, true, cfg.Map("flags", nil)["save"])
}

func TestFromFileUnsupportedExtension(t *testing.T) {
	path := writeFile(t, "flags.toml", `strict = true`)

	_, err := FromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config file extension")
}

func TestFromFileMissing(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestFromYAMLInvalid(t *testing.T) {
	_, err := FromYAML([]byte("{not: valid: yaml"))
	require.Error(t, err)
}

func TestFromJSONInvalid(t *testing.T) {
	_, err := FromJSON([]byte("{"))
	require.Error(t, err)
}

func TestOptionsDefaults(t *testing.T) {
	m := busyflag.New(Options(New(nil))...)

	// Empty config yields the registry defaults: non-strict, create-on-access.
	require.NoError(t, m.Set("implicit"))
	assert.Equal(t, 1, m.Len())
}

func TestOptionsStrictWithFlags(t *testing.T) {
	cfg, err := FromYAML([]byte(`
strict: true
create_on_access: false
flags:
  save: false
`))
	require.NoError(t, err)

	m := busyflag.New(Options(cfg)...)

	require.NoError(t, m.Set("save"))
	assert.True(t, m.IsBusy("save"))

	err = m.Set("unknown")
	assert.ErrorIs(t, err, busyflag.ErrNotRegistered)

	_, err = m.Get("unknown")
	assert.ErrorIs(t, err, busyflag.ErrNotRegistered)
}

func TestOptionsConfigureFromFile(t *testing.T) {
	path := writeFile(t, "flags.yaml", `
flags:
  sync: true
`)

	cfg, err := FromFile(path)
	require.NoError(t, err)

	m := busyflag.New()
	m.Configure(Options(cfg)...)

	assert.True(t, m.IsBusy("sync"))
	assert.Equal(t, 1, m.Len())
}
