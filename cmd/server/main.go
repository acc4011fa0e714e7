package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/app"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:])
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return
	default:
		fmt.Fprintf(os.Stderr, "homework-server: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath  string
	checkConfig bool
}

func parseOptions(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("homework-server", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)
	fs.StringVar(&opts.configPath, "config", "", "configuration directory, or a file inside it")
	fs.BoolVar(&opts.checkConfig, "check", false, "validate the configuration and exit")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

func run(ctx context.Context, args []string) error {
	opts, err := parseOptions(args)
	if err != nil {
		return err
	}

	cfg, err := loadApplicationConfig(opts.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if opts.checkConfig {
		fmt.Fprintln(os.Stdout, "configuration OK")
		return nil
	}

	if err := app.ConfigureLogging(cfg.Server); err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	defer logger.Sync()

	log := logger.WithModule("bootstrap")

	stack, err := bootstrapRuntime(cfg, log)
	if err != nil {
		return err
	}
	defer stack.Shutdown(log)

	srv := newHTTPServer(cfg.Server, stack.Router)
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}
	log.Info("server listening", zap.String("addr", ln.Addr().String()))

	return serve(ctx, srv, ln, cfg.Server.ShutdownTimeout, log)
}

// loadApplicationConfig accepts an empty path, a config directory, or a file
// whose parent directory holds config.yaml.
func loadApplicationConfig(path string) (*app.Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return app.LoadConfig()
	}

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("config path %q does not exist", path)
	case err != nil:
		return nil, fmt.Errorf("stat config path: %w", err)
	case info.IsDir():
		return app.LoadConfig(path)
	default:
		return app.LoadConfig(filepath.Dir(path))
	}
}
