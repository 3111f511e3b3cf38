// Package run implements the main logic for the factor tool in a testable way.
package run

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alexflint/go-arg"
)

// Environment variables consulted for defaults. Flags take precedence.
const (
	EnvFormat   = "FACTOR_FORMAT"
	EnvLogLevel = "FACTOR_LOG_LEVEL"
)

const (
	formatJSON = "json"
	formatText = "text"
)

// Exported sentinel errors.
var (
	ErrInvalidNumber = errors.New("invalid number")
	ErrUnknownFormat = errors.New("unknown output format")
)

// Interfaces - Public

// Factorizer computes prime factors. The real implementation is primefactor.Factorizer.
type Factorizer interface {
	Factorize(n int) ([]int, error)
}

// Structs - Private

// cliArgs defines the command-line arguments for the factor tool.
type cliArgs struct {
	Numbers  []string `arg:"positional,required" help:"positive integers to factorize"`
	Format   string   `arg:"--format"            help:"output format: text or json (env FACTOR_FORMAT)"`
	LogLevel string   `arg:"--log-level"         help:"log level: debug, info, warn or error (env FACTOR_LOG_LEVEL)"`
}

// result is one factorized input.
type result struct {
	N       int   `json:"n"`
	Factors []int `json:"factors"`
}

// Functions - Public

// Main runs the tool and converts the outcome into a process exit code: 0 on success, 1 after writing
// "Error: <err>" to stderr.
func Main(args []string, getEnv func(string) string, factorizer Factorizer, stdout, stderr io.Writer) int {
	err := Run(args, getEnv, factorizer, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)

		return 1
	}

	return 0
}

// Run executes the factor tool logic. It parses the command-line arguments, using getEnv for defaults, factorizes
// every number with factorizer and writes the results to stdout. Logs go to stderr. Nothing is written to stdout
// unless every number factorizes successfully.
func Run(args []string, getEnv func(string) string, factorizer Factorizer, stdout, stderr io.Writer) error {
	parsed, err := parseArgs(args, getEnv, stdout)
	if err != nil {
		return err
	}

	if parsed == nil {
		// help was requested and printed
		return nil
	}

	logger := newLogger(parsed.LogLevel, stderr)

	results, err := factorizeAll(parsed.Numbers, factorizer, logger)
	if err != nil {
		return err
	}

	return render(results, parsed.Format, stdout)
}

// Functions - Private

func factorizeAll(numbers []string, factorizer Factorizer, logger *slog.Logger) ([]result, error) {
	results := make([]result, 0, len(numbers))

	for _, raw := range numbers {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidNumber, raw)
		}

		factors, err := factorizer.Factorize(n)
		if err != nil {
			return nil, fmt.Errorf("failed to factorize %d: %w", n, err)
		}

		logger.Debug("factorized", "n", n, "factors", factors)

		results = append(results, result{N: n, Factors: factors})
	}

	return results, nil
}

// newLogger builds a text logger on w at the named level. Unknown levels warn and fall back to info.
func newLogger(levelName string, w io.Writer) *slog.Logger {
	var level slog.Level

	known := true

	switch strings.ToLower(levelName) {
	case "debug":
		level = slog.LevelDebug
	case "", "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
		known = false
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))

	if !known {
		logger.Warn("invalid log level configured, using default level",
			"configured_level", levelName,
			"default_level", "info")
	}

	return logger
}

// parseArgs parses command-line arguments into cliArgs. It returns nil, nil when help was printed.
func parseArgs(args []string, getEnv func(string) string, stdout io.Writer) (*cliArgs, error) {
	parsed := cliArgs{
		Format:   getEnv(EnvFormat),
		LogLevel: getEnv(EnvLogLevel),
	}

	parser, err := arg.NewParser(arg.Config{Program: "factor"}, &parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to create argument parser: %w", err)
	}

	var cmdArgs []string
	if len(args) > 1 {
		cmdArgs = args[1:]
	}

	err = parser.Parse(cmdArgs)
	if errors.Is(err, arg.ErrHelp) {
		parser.WriteHelp(stdout)

		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to parse arguments: %w", err)
	}

	parsed.Format = strings.ToLower(parsed.Format)
	if parsed.Format == "" {
		parsed.Format = formatText
	}

	if parsed.Format != formatText && parsed.Format != formatJSON {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, parsed.Format)
	}

	return &parsed, nil
}

// render writes results to w in the given format, which parseArgs has already validated.
func render(results []result, format string, w io.Writer) error {
	if format == formatJSON {
		err := json.NewEncoder(w).Encode(results)
		if err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}

		return nil
	}

	var out strings.Builder

	for _, r := range results {
		out.WriteString(strconv.Itoa(r.N))
		out.WriteString(":")

		for _, f := range r.Factors {
			out.WriteString(" ")
			out.WriteString(strconv.Itoa(f))
		}

		out.WriteString("\n")
	}

	_, err := io.WriteString(w, out.String())
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}
