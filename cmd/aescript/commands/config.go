package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/panyam/aescript/catalog"
	"github.com/panyam/aescript/loader"
)

// config is what setup resolved from flags and the environment.
type config struct {
	schemaPaths []string
	logger      *slog.Logger
}

var cfg config

func setup(cmd *cobra.Command, _ []string) error {
	path := firstNonEmpty(envFile, os.Getenv("AESCRIPT_ENV_FILE"), ".env")
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading env file %s: %w", path, err)
	}

	if noColor || envBool("AESCRIPT_NO_COLOR") {
		color.NoColor = true
	}

	level := slog.LevelWarn
	if s := firstNonEmpty(logLevel, os.Getenv("AESCRIPT_LOG_LEVEL")); s != "" {
		if err := level.UnmarshalText([]byte(s)); err != nil {
			return fmt.Errorf("invalid log level %q", s)
		}
	}
	logger, err := newLogger(cmd.ErrOrStderr(), logFormat, level)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	cfg = config{schemaPaths: schemaArgs, logger: logger}
	if len(cfg.schemaPaths) == 0 {
		cfg.schemaPaths = splitList(os.Getenv("AESCRIPT_SCHEMA"))
	}
	logger.Debug("configured", "envFile", path, "schema", cfg.schemaPaths, "level", level)
	return nil
}

// newChecker builds a checker over the built-in catalog plus any --schema
// files.
func newChecker(opts ...loader.Option) (*loader.Checker, error) {
	store, registry, err := catalog.Extend(cfg.schemaPaths...)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}
	return loader.NewChecker(store, registry, append([]loader.Option{loader.WithLogger(logger)}, opts...)...), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func envBool(key string) bool {
	b, _ := strconv.ParseBool(os.Getenv(key))
	return b
}

func envInt(key string) int {
	n, _ := strconv.Atoi(os.Getenv(key))
	return n
}

func splitList(s string) (out []string) {
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return
}
