package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/meenmo/mogreeks/config"
)

func main() {
	inputPath := flag.String("input", "", "YAML scenario path (reads stdin if omitted)")
	configPath := flag.String("config", "", "YAML calculator config path (defaults if omitted)")
	verbose := flag.Bool("v", false, "Log repricings to stderr")
	help := flag.Bool("h", false, "Show help")
	flag.BoolVar(help, "help", false, "Show help")
	flag.Parse()

	if *help {
		fmt.Fprintln(os.Stderr, "Usage: greeks -input <scenario.yaml> [-config <config.yaml>] [-v]")
		fmt.Fprintln(os.Stderr, "Compute bump-and-reprice sensitivities and one-day theta of a European option.")
		return
	}

	path := strings.TrimSpace(*inputPath)
	if path == "" {
		if stat, err := os.Stdin.Stat(); err == nil && (stat.Mode()&os.ModeCharDevice) != 0 {
			fmt.Fprintln(os.Stderr, "Usage: greeks -input <scenario.yaml>")
			os.Exit(2)
		}
	}

	logger, err := newLogger(*verbose)
	if err != nil {
		exitError(fmt.Sprintf("logger: %v", err))
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := loadConfig(strings.TrimSpace(*configPath))
	if err != nil {
		exitError(fmt.Sprintf("config: %v", err))
	}

	raw, err := readInput(path)
	if err != nil {
		exitError(fmt.Sprintf("read input: %v", err))
	}
	sc, err := parseScenario(bytes.NewReader(raw))
	if err != nil {
		exitError(fmt.Sprintf("parse YAML: %v", err))
	}

	out, err := run(sc, cfg, logger)
	if err != nil {
		out = &report{TaskID: sc.TaskID, Error: err.Error()}
	}
	b, _ := json.Marshal(out)
	fmt.Println(string(b))
	if err != nil {
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopmentConfig().Build()
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.DefaultConfig, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return config.Config{}, err
	}
	defer f.Close()
	return config.Load(f)
}

func readInput(path string) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}
	return io.ReadAll(os.Stdin)
}

func exitError(msg string) {
	b, _ := json.Marshal(report{Error: msg})
	fmt.Println(string(b))
	os.Exit(1)
}
