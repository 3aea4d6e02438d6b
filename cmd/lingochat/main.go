package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"lingochat/internal/app"
	"lingochat/internal/capability"
	"lingochat/internal/conversation"
	"lingochat/internal/tui"
)

const version = "1.0.0"

var (
	flagConfig  string
	flagEngine  string
	flagSource  string
	flagTarget  string
	flagLogFile string
	flagMock    bool
)

func loadConfig() (app.Config, error) {
	path := flagConfig
	if path == "" {
		path = app.DefaultConfigPath()
	}
	cfg, err := app.LoadConfig(path)
	if err != nil {
		return cfg, err
	}
	if cfg.EngineURL == "" {
		cfg.EngineURL = os.Getenv("LINGOCHAT_ENGINE_URL")
	}
	if flagEngine != "" {
		cfg.EngineURL = flagEngine
	}
	if flagSource != "" {
		cfg.SourceLanguage = flagSource
	}
	if flagTarget != "" {
		cfg.TargetLanguage = flagTarget
	}
	if flagLogFile != "" {
		cfg.LogFile = flagLogFile
	}
	if !capability.IsSupportedLanguage(cfg.SourceLanguage) || !capability.IsSupportedLanguage(cfg.TargetLanguage) {
		return cfg, fmt.Errorf("unsupported language pair %s->%s (supported: %s)",
			cfg.SourceLanguage, cfg.TargetLanguage, strings.Join(capability.SupportedLanguages, ", "))
	}
	return cfg, nil
}

// signalContext cancels on SIGINT/SIGTERM so one-shot calls abort cleanly.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()
	return ctx, cancel
}

// invokeOnce runs a single capability call outside the TUI.
func invokeOnce(kind capability.Kind, text string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	application, err := app.NewApplication(cfg, flagMock)
	if err != nil {
		return err
	}
	defer application.Close()

	ctx, cancel := signalContext()
	defer cancel()

	req := capability.Request{
		Kind:     kind,
		Snapshot: capability.Snapshot{Text: text, Seq: 1},
		Params:   capability.Params{Source: cfg.SourceLanguage, Target: cfg.TargetLanguage},
	}
	res, emitted := application.Adapter.Invoke(ctx, req)
	if !emitted {
		return fmt.Errorf("nothing to %s: empty input", kind)
	}
	if res.Failed() {
		return fmt.Errorf("%s", conversation.FailureText(kind))
	}
	fmt.Println(res.Value)
	return nil
}

func main() {
	root := &cobra.Command{
		Use:     "lingochat",
		Short:   "Chat-style front-end for on-device translate, detect and summarize",
		Long:    "lingochat runs three independent language capabilities concurrently on every\nkeystroke and reconciles their results into a live chat transcript.\n\nWithout arguments it starts the interactive TUI. Use the translate or summarize\nsubcommands for one-shot calls.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			application, err := app.NewApplication(cfg, flagMock)
			if err != nil {
				return err
			}
			defer application.Close()

			p := tea.NewProgram(tui.New(application), tea.WithAltScreen())
			final, err := p.Run()
			if err != nil {
				return err
			}

			// Remember the pair the user ended up on.
			if m, ok := final.(*tui.MainModel); ok {
				src, tgt := m.Languages()
				if src != cfg.SourceLanguage || tgt != cfg.TargetLanguage {
					cfg.SourceLanguage = src
					cfg.TargetLanguage = tgt
					if path := app.DefaultConfigPath(); path != "" && flagConfig == "" {
						_ = app.SaveConfig(cfg, path)
					}
				}
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "config file path")
	root.PersistentFlags().StringVar(&flagEngine, "engine", "", "engine base URL (default from config or LINGOCHAT_ENGINE_URL)")
	root.PersistentFlags().StringVarP(&flagSource, "source", "s", "", "source language code")
	root.PersistentFlags().StringVarP(&flagTarget, "target", "t", "", "target language code")
	root.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "structured log file path")
	root.PersistentFlags().BoolVarP(&flagMock, "mock", "m", false, "use the built-in mock capabilities")

	translateCmd := &cobra.Command{
		Use:   "translate [text]",
		Short: "Translate text once and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return invokeOnce(capability.KindTranslate, args[0])
		},
	}
	root.AddCommand(translateCmd)

	summarizeCmd := &cobra.Command{
		Use:   "summarize [text]",
		Short: "Summarize text once and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return invokeOnce(capability.KindSummarize, args[0])
		},
	}
	root.AddCommand(summarizeCmd)

	languagesCmd := &cobra.Command{
		Use:   "languages",
		Short: "List supported language codes",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, code := range capability.SupportedLanguages {
				fmt.Println(code)
			}
			return nil
		},
	}
	root.AddCommand(languagesCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
