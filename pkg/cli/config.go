package cli

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/oceanbase/jarvis-go/pkg/core"
	"github.com/oceanbase/jarvis-go/pkg/llm"
	llmopenai "github.com/oceanbase/jarvis-go/pkg/llm/openai"
	"github.com/oceanbase/jarvis-go/pkg/storage"
	"github.com/oceanbase/jarvis-go/pkg/storage/mysql"
	"github.com/oceanbase/jarvis-go/pkg/storage/postgres"
	"github.com/oceanbase/jarvis-go/pkg/storage/sqlite"
	"github.com/oceanbase/jarvis-go/pkg/tts"
	"github.com/oceanbase/jarvis-go/pkg/tts/gtts"
	ttsopenai "github.com/oceanbase/jarvis-go/pkg/tts/openai"
	"github.com/oceanbase/jarvis-go/pkg/utils/logging"
)

// config holds values shared by all commands.
type config struct {
	envFile  string
	logLevel string
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "env-file",
			Aliases:     []string{"e"},
			Usage:       "Path to a .env file (default: search upwards for .env)",
			Sources:     cli.EnvVars("JARVIS_ENV_FILE"),
			Destination: &cfg.envFile,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Aliases:     []string{"l"},
			Usage:       "Log level (debug, info, warn, error)",
			Destination: &cfg.logLevel,
		},
	}
}

// load reads the relay configuration and installs the process logger.
func (cfg *config) load() (*core.Config, error) {
	var (
		conf *core.Config
		err  error
	)
	if cfg.envFile != "" {
		conf, err = core.LoadConfigFromEnvFile(cfg.envFile)
	} else {
		conf, err = core.LoadConfigFromEnv()
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load configuration")
	}

	if cfg.logLevel != "" {
		conf.LogLevel = cfg.logLevel
	}
	logging.SetDefault(logging.New(conf.LogLevel, os.Stderr))

	return conf, nil
}

// newStore opens the store selected by conf.Store.Provider.
func newStore(ctx context.Context, conf *core.StoreConfig) (storage.Store, error) {
	var (
		store storage.Store
		err   error
	)

	switch conf.Provider {
	case "mysql":
		store, err = mysql.NewClient(ctx, &mysql.Config{
			Host:        conf.Host,
			Port:        conf.Port,
			User:        conf.User,
			Password:    conf.Password,
			DBName:      conf.DBName,
			TLS:         conf.TLS,
			MemoryTable: conf.MemoryTable,
			ChatTable:   conf.ChatTable,
		})
	case "postgres":
		store, err = postgres.NewClient(ctx, &postgres.Config{
			Host:        conf.Host,
			Port:        conf.Port,
			User:        conf.User,
			Password:    conf.Password,
			DBName:      conf.DBName,
			SSLMode:     conf.SSLMode,
			MemoryTable: conf.MemoryTable,
			ChatTable:   conf.ChatTable,
		})
	case "sqlite":
		store, err = sqlite.NewClient(ctx, &sqlite.Config{
			DBPath:      conf.Path,
			MemoryTable: conf.MemoryTable,
			ChatTable:   conf.ChatTable,
		})
	default:
		return nil, goerr.New("unsupported store provider", goerr.V("provider", conf.Provider))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open store", goerr.V("provider", conf.Provider))
	}

	slog.Info("store opened", "provider", conf.Provider)
	return store, nil
}

// newLLM creates the chat model client. Every supported provider speaks the
// OpenAI chat completions protocol.
func newLLM(conf *core.LLMConfig) (llm.Provider, error) {
	client, err := llmopenai.NewClient(&llmopenai.Config{
		APIKey:  conf.APIKey,
		Model:   conf.Model,
		BaseURL: conf.BaseURL,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create llm client", goerr.V("provider", conf.Provider))
	}
	return client, nil
}

// newSynthesizer creates the speech client selected by conf.Provider.
func newSynthesizer(conf *core.TTSConfig) (tts.Synthesizer, error) {
	switch conf.Provider {
	case "gtts":
		return gtts.NewClient(&gtts.Config{
			BaseURL: conf.BaseURL,
			Timeout: 30 * time.Second,
		}), nil
	case "openai":
		langVoices := map[string]string{}
		if conf.VoiceHindi != "" {
			langVoices["hi"] = conf.VoiceHindi
		}
		client, err := ttsopenai.NewClient(&ttsopenai.Config{
			APIKey:     conf.APIKey,
			BaseURL:    conf.BaseURL,
			Model:      conf.Model,
			Voice:      conf.Voice,
			LangVoices: langVoices,
		})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create tts client")
		}
		return client, nil
	default:
		return nil, goerr.New("unsupported tts provider", goerr.V("provider", conf.Provider))
	}
}
