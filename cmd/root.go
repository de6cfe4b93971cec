package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"os/signal"
	"slices"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/hassctl/config"
	"github.com/s0up4200/hassctl/filter"
	"github.com/s0up4200/hassctl/homeassistant"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *homeassistant.Client

	// compiler holds the compiled filter presets and any ad-hoc expression
	compiler = filter.NewCompiler()

	// Per-invocation credentials, overriding config and environment
	flagURL   string
	flagToken string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "hassctl",
	Short: "A command-line client for the Home Assistant REST API",
	Long: `hassctl talks to a Home Assistant instance over its REST API.

Credentials are taken from --url/--token, then from the config file, then from
the HA_URL and HA_TOKEN environment variables (optionally read from .env).`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagURL, "url", "", "Home Assistant base URL, e.g. http://homeassistant.local:8123")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "long-lived access token")
}

// initializeApp initializes the configuration and client
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging, os.Stderr)

	if err := compilePresets(cfg.Filter.Presets); err != nil {
		return err
	}

	client = homeassistant.NewClient(logger,
		homeassistant.WithTimeout(cfg.HomeAssistant.Timeout),
		homeassistant.WithUserAgent("hassctl/"+version),
		homeassistant.WithCredentials(homeassistant.Credentials{
			BaseURL: cfg.HomeAssistant.URL,
			Token:   cfg.HomeAssistant.Token,
		}),
		homeassistant.WithFallback(homeassistant.EnvironmentFallback(cfg.HomeAssistant.EnvFiles...)),
	)

	return nil
}

// compilePresets compiles every configured filter preset so a broken preset
// fails at startup and later lookups hit the compiler cache.
func compilePresets(presets map[string]string) error {
	for _, name := range slices.Sorted(maps.Keys(presets)) {
		if _, err := compiler.Compile(presets[name]); err != nil {
			return fmt.Errorf("invalid filter preset %q: %w", name, err)
		}
	}
	logger.Debug().Int("presets", len(presets)).Int("cached", compiler.Size()).Msg("Compiled filter presets")
	return nil
}

// credentials returns the credentials given on the command line.
func credentials() homeassistant.Credentials {
	return homeassistant.Credentials{BaseURL: flagURL, Token: flagToken}
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig, out *os.File) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	if cfg.Format == "json" {
		return zerolog.New(out).Level(level).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(out.Fd()),
	}

	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// parseData decodes a --data flag. An empty flag means no body.
func parseData(raw string) (any, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var data any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("invalid JSON in --data: %w", err)
	}
	return data, nil
}

// parseAttributes turns key=value pairs into an attribute map. Values that
// parse as JSON keep their type, anything else is a string.
func parseAttributes(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	attrs := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid attribute %q, expected key=value", pair)
		}
		var decoded any
		if err := json.Unmarshal([]byte(value), &decoded); err == nil {
			attrs[key] = decoded
		} else {
			attrs[key] = value
		}
	}
	return attrs, nil
}

// readAll reads r completely and trims the trailing newline.
func readAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}
