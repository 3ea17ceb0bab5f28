// Command delivery-web serves the clean delivery tables and rankings over a
// read-only HTTP API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"deliverycli/internal/app"
	"deliverycli/internal/config"
	"deliverycli/pkg/contracts"
)

type options struct {
	configFile string
	dataDir    string
	port       int
	version    bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}

	fs := flag.NewFlagSet(app.CommandWeb, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configFile, "config", "", "YAML config file (defaults to config.yaml or configs/config.yaml)")
	fs.StringVar(&opts.dataDir, "data", "", "data directory (overrides paths.data_dir)")
	fs.IntVar(&opts.port, "port", 0, "listen port (overrides server.port)")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.port < 0 || opts.port > 65535 {
		return nil, fmt.Errorf("-port out of range: %d", opts.port)
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if opts.version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString(app.CommandWeb))
		return nil
	}

	var cfg *config.Config
	if opts.configFile != "" {
		cfg, err = config.LoadFrom(opts.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.dataDir != "" {
		cfg.Paths.DataDir = opts.dataDir
	}
	if opts.port != 0 {
		cfg.Server.Port = opts.port
	}

	rt, err := app.NewRuntime(cfg, app.CommandWeb)
	if err != nil {
		return err
	}
	defer rt.Close(context.WithoutCancel(ctx))

	application, err := app.NewApplication(rt)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return application.Run(ctx)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "%s: %v\n", app.CommandWeb, err)
		stop()
		os.Exit(1)
	}
}
