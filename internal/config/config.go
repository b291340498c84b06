// Package config resolves settings from .env files, an optional memo.yaml and
// MEMO_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"voice-memo-go/internal/delegate"
)

const (
	EnvPrefix  = "MEMO"
	ConfigName = "memo"
	AuraDir    = ".aura"
)

type Delegate struct {
	Command string
	Args    []string
	Timeout time.Duration
}

// Cmd converts the settings into a runnable delegate command.
func (d Delegate) Cmd() delegate.Command {
	return delegate.Command{Name: d.Command, Args: append([]string(nil), d.Args...), Timeout: d.Timeout}
}

type Record struct {
	Command    string
	SampleRate int
	Channels   int
}

type Config struct {
	QueueDir string
	// Duration caps a recording; zero records until interrupted.
	Duration    time.Duration
	StopTimeout time.Duration

	Record     Record
	Transcribe Delegate
	Title      Delegate
	// MockTranscribe replaces the transcriber with a canned transcript.
	MockTranscribe bool

	PrereqTools []string
	PrereqEnv   []string

	LogLevel string
	// File is the config file that was read, if any.
	File string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("queue_dir", filepath.Join(AuraDir, "queue"))
	v.SetDefault("duration", 0)
	v.SetDefault("stop_timeout", "5s")
	v.SetDefault("log_level", "warn")

	v.SetDefault("record.command", "rec")
	v.SetDefault("record.sample_rate", 16000)
	v.SetDefault("record.channels", 1)

	v.SetDefault("transcribe.command", "python3")
	v.SetDefault("transcribe.args", []string{filepath.Join(AuraDir, "scripts", "transcribe.py"), delegate.Placeholder})
	v.SetDefault("transcribe.timeout", "10m")
	v.SetDefault("transcribe.mock", false)

	v.SetDefault("title.command", "python3")
	v.SetDefault("title.args", []string{filepath.Join(AuraDir, "scripts", "generate_title.py"), "--text", delegate.Placeholder})
	v.SetDefault("title.timeout", "2m")

	v.SetDefault("prerequisites.tools", []string{"rec", "ffmpeg"})
	v.SetDefault("prerequisites.env", []string{"OPENAI_API_KEY"})
}

// LoadEnv loads .aura/.env when it exists, otherwise .env, relative to dir.
// Variables already set in the environment win. A missing file is not an
// error.
func LoadEnv(dir string) (string, error) {
	for _, name := range []string{filepath.Join(dir, AuraDir, ".env"), filepath.Join(dir, ".env")} {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			return name, fmt.Errorf("load %s: %w", name, err)
		}
		return name, nil
	}
	return "", nil
}

// Load reads configuration. file may be empty, in which case memo.yaml is
// looked up in .aura/ and $HOME/.memo/ and its absence is fine; an explicit
// file that cannot be read is an error.
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(AuraDir)
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, "."+ConfigName))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &nf) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("transcribe.mock", EnvPrefix+"_TRANSCRIBE_MOCK", "USE_MOCK_TRANSCRIBE")
	_ = v.BindEnv("log_level", EnvPrefix+"_LOG_LEVEL", "LOG_LEVEL")

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	secs := v.GetInt("duration")
	if secs < 0 {
		return nil, fmt.Errorf("duration must be a positive number of seconds, got %d", secs)
	}
	cfg := &Config{
		QueueDir:    v.GetString("queue_dir"),
		Duration:    time.Duration(secs) * time.Second,
		StopTimeout: v.GetDuration("stop_timeout"),
		Record: Record{
			Command:    v.GetString("record.command"),
			SampleRate: v.GetInt("record.sample_rate"),
			Channels:   v.GetInt("record.channels"),
		},
		Transcribe: Delegate{
			Command: v.GetString("transcribe.command"),
			Args:    v.GetStringSlice("transcribe.args"),
			Timeout: v.GetDuration("transcribe.timeout"),
		},
		Title: Delegate{
			Command: v.GetString("title.command"),
			Args:    v.GetStringSlice("title.args"),
			Timeout: v.GetDuration("title.timeout"),
		},
		MockTranscribe: v.GetBool("transcribe.mock"),
		PrereqTools:    v.GetStringSlice("prerequisites.tools"),
		PrereqEnv:      v.GetStringSlice("prerequisites.env"),
		LogLevel:       v.GetString("log_level"),
		File:           v.ConfigFileUsed(),
	}
	if cfg.QueueDir == "" {
		return nil, errors.New("queue_dir must not be empty")
	}
	return cfg, nil
}
