package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test in an empty working directory and home.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	for _, k := range []string{"MEMO_QUEUE_DIR", "MEMO_DURATION", "MEMO_TITLE_COMMAND", "USE_MOCK_TRANSCRIBE", "LOG_LEVEL", "MEMO_LOG_LEVEL"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(".aura", "queue"), cfg.QueueDir)
	assert.Zero(t, cfg.Duration)
	assert.Equal(t, 5*time.Second, cfg.StopTimeout)
	assert.Equal(t, Record{Command: "rec", SampleRate: 16000, Channels: 1}, cfg.Record)
	assert.Equal(t, "python3", cfg.Transcribe.Command)
	assert.Equal(t, []string{".aura/scripts/transcribe.py", "{}"}, cfg.Transcribe.Args)
	assert.Equal(t, 10*time.Minute, cfg.Transcribe.Timeout)
	assert.Equal(t, []string{".aura/scripts/generate_title.py", "--text", "{}"}, cfg.Title.Args)
	assert.Equal(t, 2*time.Minute, cfg.Title.Timeout)
	assert.Equal(t, []string{"rec", "ffmpeg"}, cfg.PrereqTools)
	assert.Equal(t, []string{"OPENAI_API_KEY"}, cfg.PrereqEnv)
	assert.False(t, cfg.MockTranscribe)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Empty(t, cfg.File)
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".aura"), 0o755))
	yaml := "queue_dir: memos/queue\nduration: 30\ntitle:\n  command: gen-title\n  args: [\"{}\"]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".aura", "memo.yaml"), []byte(yaml), 0o644))

	t.Setenv("MEMO_QUEUE_DIR", "/tmp/elsewhere")
	t.Setenv("USE_MOCK_TRANSCRIBE", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/elsewhere", cfg.QueueDir)
	assert.Equal(t, 30*time.Second, cfg.Duration)
	assert.Equal(t, "gen-title", cfg.Title.Command)
	assert.Equal(t, []string{"{}"}, cfg.Title.Args)
	assert.True(t, cfg.MockTranscribe)
	assert.NotEmpty(t, cfg.File)

	cmd := cfg.Title.Cmd()
	assert.Equal(t, "gen-title", cmd.Name)
	assert.Equal(t, 2*time.Minute, cmd.Timeout)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	isolate(t)
	_, err := Load("does-not-exist.yaml")
	assert.Error(t, err)
}

func TestLoadRejectsNegativeDuration(t *testing.T) {
	isolate(t)
	t.Setenv("MEMO_DURATION", "-4")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadEnvPrefersAuraDir(t *testing.T) {
	dir := isolate(t)
	t.Setenv("MEMO_TEST_KEY", "")
	os.Unsetenv("MEMO_TEST_KEY")
	t.Setenv("MEMO_OTHER_KEY", "")
	os.Unsetenv("MEMO_OTHER_KEY")

	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".aura"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".aura", ".env"), []byte("MEMO_TEST_KEY=from-aura\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MEMO_OTHER_KEY=from-root\n"), 0o644))

	used, err := LoadEnv(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".aura", ".env"), used)
	assert.Equal(t, "from-aura", os.Getenv("MEMO_TEST_KEY"))
	assert.Empty(t, os.Getenv("MEMO_OTHER_KEY"))
}

func TestLoadEnvMissingIsFine(t *testing.T) {
	dir := isolate(t)
	used, err := LoadEnv(dir)
	assert.NoError(t, err)
	assert.Empty(t, used)
}
