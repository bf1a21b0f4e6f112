package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/pflag"
)

// Version is the vmbench release version.
const Version = "0.3.0"

// Modes.
const (
	ModeAnalyze = "analyze"
	ModeRun     = "run"
	ModeFib     = "fib"
)

// Config holds all vmbench configuration.
type Config struct {
	Mode        string // "analyze", "run", "fib"
	ShowVersion bool
	LogLevel    string
	Analyze     AnalyzeConfig
	Output      OutputConfig
	Run         RunConfig
}

// AnalyzeConfig holds result and chart locations.
type AnalyzeConfig struct {
	Root      string
	DockerDir string
	VMDir     string
	OutputDir string // charts
	DPI       int
}

// OutputConfig holds report destination settings.
type OutputConfig struct {
	Format       string // "text", "json"
	Pretty       bool
	ReportFile     string // NDJSON history; empty disables
	ReportMaxSize  int64  // bytes before rotation; 0 disables
	ReportBackups  int    // rotated histories kept
	WebhookURL     string // empty disables
	WebhookToken   string // sent as a bearer token
	WebhookTimeout time.Duration
}

// RunConfig holds runner settings.
type RunConfig struct {
	Manifest string
	Timeout  time.Duration // per run; 0 disables
}

// Load reads configuration from environment variables with sensible
// defaults, then applies command-line flags from args on top. The first
// positional argument selects the mode.
func Load(args []string) (Config, error) {
	root := getenv("VMBENCH_ROOT", ".")
	cfg := Config{
		Mode:     ModeAnalyze,
		LogLevel: getenv("VMBENCH_LOG_LEVEL", "info"),
		Analyze: AnalyzeConfig{
			Root:      root,
			DockerDir: os.Getenv("VMBENCH_DOCKER_DIR"),
			VMDir:     os.Getenv("VMBENCH_VM_DIR"),
			OutputDir: os.Getenv("VMBENCH_OUTPUT_DIR"),
			DPI:       getenvInt("VMBENCH_CHART_DPI", 300),
		},
		Output: OutputConfig{
			Format:         getenv("VMBENCH_FORMAT", "text"),
			Pretty:         getenvBool("VMBENCH_OUTPUT_PRETTY", false),
			ReportFile:     os.Getenv("VMBENCH_REPORT_FILE"),
			ReportMaxSize:  int64(getenvInt("VMBENCH_REPORT_MAX_SIZE", 0)),
			ReportBackups:  getenvInt("VMBENCH_REPORT_BACKUPS", 1),
			WebhookURL:     os.Getenv("VMBENCH_WEBHOOK_URL"),
			WebhookToken:   os.Getenv("VMBENCH_WEBHOOK_TOKEN"),
			WebhookTimeout: getenvDuration("VMBENCH_WEBHOOK_TIMEOUT", 10*time.Second),
		},
		Run: RunConfig{
			Manifest: getenv("VMBENCH_MANIFEST", "bench.yaml"),
			Timeout:  getenvDuration("VMBENCH_RUN_TIMEOUT", 5*time.Minute),
		},
	}

	fs := pflag.NewFlagSet("vmbench", pflag.ContinueOnError)
	fs.BoolVar(&cfg.ShowVersion, "version", false, "print version and exit")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&cfg.Analyze.Root, "root", cfg.Analyze.Root, "project root holding the result directories")
	fs.StringVar(&cfg.Analyze.DockerDir, "docker-dir", cfg.Analyze.DockerDir, "Docker result directory (default <root>/results-docker)")
	fs.StringVar(&cfg.Analyze.VMDir, "vm-dir", cfg.Analyze.VMDir, "VM result directory (default <root>/results-vm)")
	fs.StringVar(&cfg.Analyze.OutputDir, "output-dir", cfg.Analyze.OutputDir, "chart directory (default <root>)")
	fs.IntVar(&cfg.Analyze.DPI, "dpi", cfg.Analyze.DPI, "chart resolution")
	fs.StringVar(&cfg.Output.Format, "format", cfg.Output.Format, "report format: text, json")
	fs.BoolVar(&cfg.Output.Pretty, "pretty", cfg.Output.Pretty, "indent JSON output")
	fs.StringVar(&cfg.Output.ReportFile, "report-file", cfg.Output.ReportFile, "append JSON reports to this file")
	fs.Int64Var(&cfg.Output.ReportMaxSize, "report-max-size", cfg.Output.ReportMaxSize, "rotate the report file past this many bytes, 0 disables")
	fs.IntVar(&cfg.Output.ReportBackups, "report-backups", cfg.Output.ReportBackups, "rotated report files to keep")
	fs.DurationVar(&cfg.Output.WebhookTimeout, "webhook-timeout", cfg.Output.WebhookTimeout, "HTTP timeout per webhook POST")
	fs.StringVar(&cfg.Output.WebhookURL, "webhook-url", cfg.Output.WebhookURL, "POST each JSON report to this URL")
	fs.StringVar(&cfg.Run.Manifest, "manifest", cfg.Run.Manifest, "workload manifest for run mode")
	fs.DurationVar(&cfg.Run.Timeout, "timeout", cfg.Run.Timeout, "per-run timeout, 0 disables")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if fs.NArg() > 0 {
		cfg.Mode = fs.Arg(0)
	}
	if fs.NArg() > 1 {
		return Config{}, fmt.Errorf("unexpected arguments: %v", fs.Args()[1:])
	}

	a := &cfg.Analyze
	if a.DockerDir == "" {
		a.DockerDir = filepath.Join(a.Root, "results-docker")
	}
	if a.VMDir == "" {
		a.VMDir = filepath.Join(a.Root, "results-vm")
	}
	if a.OutputDir == "" {
		a.OutputDir = a.Root
	}
	return cfg, nil
}

// Validate checks the configuration and returns all problems at once.
func (c Config) Validate() error {
	var errs []error

	switch c.Mode {
	case ModeAnalyze, ModeRun, ModeFib:
	default:
		errs = append(errs, fmt.Errorf("mode must be analyze, run, or fib, got %q", c.Mode))
	}

	switch c.Output.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("format must be text or json, got %q", c.Output.Format))
	}

	if c.Output.WebhookURL != "" {
		if u, err := url.Parse(c.Output.WebhookURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, fmt.Errorf("webhook URL must be http or https, got %q", c.Output.WebhookURL))
		}
	}

	if c.Output.ReportMaxSize < 0 {
		errs = append(errs, fmt.Errorf("report max size must be >= 0, got %d", c.Output.ReportMaxSize))
	}
	if c.Output.ReportBackups < 1 {
		errs = append(errs, fmt.Errorf("report backups must be >= 1, got %d", c.Output.ReportBackups))
	}
	if c.Output.WebhookTimeout <= 0 {
		errs = append(errs, fmt.Errorf("webhook timeout must be > 0, got %v", c.Output.WebhookTimeout))
	}

	if c.Run.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must be >= 0, got %v", c.Run.Timeout))
	}

	if c.Analyze.DPI <= 0 {
		errs = append(errs, fmt.Errorf("dpi must be > 0, got %d", c.Analyze.DPI))
	}

	if c.Mode == ModeRun && c.Run.Manifest == "" {
		errs = append(errs, errors.New("run mode requires VMBENCH_MANIFEST or --manifest"))
	}

	return errors.Join(errs...)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
