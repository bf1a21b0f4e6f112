package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/crimson-sun/vmbench/internal/chart"
	"github.com/crimson-sun/vmbench/internal/config"
	"github.com/crimson-sun/vmbench/internal/fibonacci"
	"github.com/crimson-sun/vmbench/internal/logging"
	"github.com/crimson-sun/vmbench/internal/output"
	"github.com/crimson-sun/vmbench/internal/output/file"
	"github.com/crimson-sun/vmbench/internal/output/multi"
	"github.com/crimson-sun/vmbench/internal/output/stdout"
	"github.com/crimson-sun/vmbench/internal/output/webhook"
	"github.com/crimson-sun/vmbench/internal/pipeline"
	"github.com/crimson-sun/vmbench/internal/runner"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("vmbench: %v", err)
	}

	if cfg.ShowVersion {
		fmt.Println("vmbench " + config.Version)
		return
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration:\n%v", err)
	}

	logging.Init(cfg.Output.Format == string(output.JSON), logging.ParseLevel(cfg.LogLevel))

	// Set up graceful shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(os.Stderr, "\nreceived %v, shutting down...\n", sig)
		cancel()
	}()

	switch cfg.Mode {
	case config.ModeFib:
		if err := fibonacci.Prompt(os.Stdin, os.Stdout); err != nil {
			log.Fatalf("fib: %v", err)
		}
	case config.ModeRun:
		if err := runBench(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
			log.Fatalf("run: %v", err)
		}
	default:
		if err := analyze(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
			log.Fatalf("analyze: %v", err)
		}
	}
}

func runBench(ctx context.Context, cfg config.Config) error {
	m, err := runner.LoadManifest(cfg.Run.Manifest)
	if err != nil {
		return err
	}
	slog.Info("starting benchmark", "manifest", cfg.Run.Manifest, "workloads", len(m.Workloads), "results_dir", m.ResultsDir)

	results, err := runner.New(m.ResultsDir, runner.WithTimeout(cfg.Run.Timeout)).Run(ctx, m.Workloads)
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	slog.Info("benchmark complete", "runs", len(results), "failed", failed)
	return err
}

func analyze(ctx context.Context, cfg config.Config) error {
	format, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	outputs := []output.Output{stdout.New(format, cfg.Output.Pretty)}
	if cfg.Output.ReportFile != "" {
		f, err := file.New(cfg.Output.ReportFile,
			file.WithMaxSize(cfg.Output.ReportMaxSize),
			file.WithBackups(cfg.Output.ReportBackups),
		)
		if err != nil {
			return err
		}
		outputs = append(outputs, f)
	}
	if cfg.Output.WebhookURL != "" {
		opts := []webhook.Option{webhook.WithTimeout(cfg.Output.WebhookTimeout)}
		if cfg.Output.WebhookToken != "" {
			opts = append(opts, webhook.WithHeaders(map[string]string{
				"Authorization": "Bearer " + cfg.Output.WebhookToken,
			}))
		}
		outputs = append(outputs, webhook.New(cfg.Output.WebhookURL, opts...))
	}

	var out output.Output = outputs[0]
	if len(outputs) > 1 {
		out = multi.New(outputs...)
	}

	a := cfg.Analyze
	r := chart.New(a.OutputDir, chart.WithDPI(a.DPI))
	p := pipeline.New(a.DockerDir, a.VMDir, r, out)
	defer p.Close()

	slog.Info("starting analysis", "docker_dir", a.DockerDir, "vm_dir", a.VMDir, "output_dir", a.OutputDir)
	if _, err := p.Analyze(ctx); err != nil {
		if pipeline.IsInsufficientData(err) {
			fmt.Fprintln(os.Stderr, err)
			return nil
		}
		return err
	}
	return nil
}
