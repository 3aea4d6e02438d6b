package app

import (
	"io"

	"github.com/rs/zerolog"

	"lingochat/internal/capability"
)

// Application wires config, logging and the capability adapter together for
// both the TUI and the one-shot subcommands.
type Application struct {
	Config   Config
	Logger   zerolog.Logger
	Adapter  *capability.Adapter
	MockMode bool

	logFile io.Closer
}

// NewApplication builds the capability stack. With no engine URL (or when
// mock is forced) the deterministic mock provider backs every capability;
// either way, capabilities disabled in config are left absent so the adapter
// fails closed on them.
func NewApplication(cfg Config, mockMode bool) (*Application, error) {
	logger, closer, err := NewLogger(cfg.LogFile)
	if err != nil {
		return nil, err
	}

	if cfg.EngineURL == "" {
		mockMode = true
	}

	var providers capability.Providers
	if mockMode {
		providers = capability.MockProviders()
	} else {
		engine := capability.NewEngineClient(cfg.EngineURL)
		providers = capability.Providers{
			Translator: engine,
			Detector:   engine,
			Summarizer: engine,
		}
	}
	if cfg.Disabled(capability.KindTranslate) {
		providers.Translator = nil
	}
	if cfg.Disabled(capability.KindDetect) {
		providers.Detector = nil
	}
	if cfg.Disabled(capability.KindSummarize) {
		providers.Summarizer = nil
	}

	logger.Info().Bool("mock", mockMode).Str("engine", cfg.EngineURL).Msg("application started")

	return &Application{
		Config:   cfg,
		Logger:   logger,
		Adapter:  capability.NewAdapter(providers, cfg.Summary, logger),
		MockMode: mockMode,
		logFile:  closer,
	}, nil
}

func (a *Application) Close() error {
	if a.logFile != nil {
		return a.logFile.Close()
	}
	return nil
}
