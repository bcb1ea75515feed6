package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanyi1998/dirsearch/pkg/defaults"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "builtin:common-dirs", cfg.Wordlist)
	assert.Equal(t, defaults.ThreadsMedium, cfg.Threads)
	assert.Equal(t, defaults.RequestTimeout, cfg.Timeout.Std())
}

func TestDurationSet(t *testing.T) {
	var d Duration
	require.NoError(t, d.Set("1m30s"))
	assert.Equal(t, 90*time.Second, d.Std())
	assert.Equal(t, "1m30s", d.String())

	assert.Error(t, d.Set("fast"))
}

func TestLoadProfile(t *testing.T) {
	profile := `
target: https://example.com
wordlist: /opt/words.txt
extensions: [php, bak]
exclude_content: /not-a-page
threads: 25
delay: 100ms
max_rate: 50
headers:
  - "Authorization: Bearer tok"
report: out.json
no_color: true
`
	path := filepath.Join(t.TempDir(), "scan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(profile), 0o644))

	cfg, err := LoadProfile(path)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com", cfg.TargetURL)
	assert.Equal(t, "/opt/words.txt", cfg.Wordlist)
	assert.Equal(t, []string{"php", "bak"}, cfg.Extensions)
	assert.Equal(t, "/not-a-page", cfg.ExcludeContent)
	assert.Equal(t, 25, cfg.Threads)
	assert.Equal(t, 100*time.Millisecond, cfg.Delay.Std())
	assert.Equal(t, 50, cfg.MaxRate)
	assert.Equal(t, []string{"Authorization: Bearer tok"}, cfg.Headers)
	assert.Equal(t, "out.json", cfg.ReportFile)
	assert.True(t, cfg.NoColor)

	// Unset keys keep their defaults
	assert.Equal(t, defaults.RequestTimeout, cfg.Timeout.Std())
}

func TestLoadProfileErrors(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("threads: [not an int\n"), 0o644))
	_, err = LoadProfile(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.Validate(), "missing target must fail")

	cfg.TargetURL = "https://example.com"
	assert.NoError(t, cfg.Validate())

	cfg.Threads = -1
	assert.Error(t, cfg.Validate())
	cfg.Threads = 10

	cfg.MaxRate = -5
	assert.Error(t, cfg.Validate())
	cfg.MaxRate = 0

	cfg.Delay = Duration(-time.Second)
	assert.Error(t, cfg.Validate())
}
