package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/scour/internal/auth"
	"github.com/jmylchreest/scour/internal/config"
	"github.com/jmylchreest/scour/internal/logger"
	"github.com/jmylchreest/scour/internal/ratelimit"
	"github.com/jmylchreest/scour/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP cleaning service",
	Long: `Serve POST /clean over HTTP.

Clients send {"text": "..."} with an "Authorization: Bearer <token>" header
and receive {"clean": "..."}. Each token may make a fixed number of requests
per sliding window.

Tokens are read from API_TOKENS and BLOCKED_TOKENS (comma-separated) or the
config file. When a config file is in use, edits to its token lists apply
without a restart.

Examples:
  # Defaults: listen on :8000, accept "dev-token", 60 requests per minute
  scour serve

  # Two tokens, 120 requests per minute
  API_TOKENS=alpha,beta RATE_LIMIT_RPM=120 scour serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	flags := serveCmd.Flags()
	flags.String("addr", config.DefaultAddr, "listen address")
	flags.Int("rate-limit", config.DefaultRateLimit, "requests per token per window")
	flags.Duration("rate-window", config.DefaultRateLimitWindow, "rate limit window")
	flags.String("max-body-size", config.DefaultMaxBodySize, "maximum request body size (e.g., 512KB, 1MB)")
	flags.Duration("shutdown-timeout", config.DefaultShutdownTimeout, "graceful shutdown timeout")

	_ = viper.BindPFlag(config.KeyAddr, flags.Lookup("addr"))
	_ = viper.BindPFlag(config.KeyRateLimitRequests, flags.Lookup("rate-limit"))
	_ = viper.BindPFlag(config.KeyRateLimitWindow, flags.Lookup("rate-window"))
	_ = viper.BindPFlag(config.KeyMaxBodySize, flags.Lookup("max-body-size"))
	_ = viper.BindPFlag(config.KeyShutdownTimeout, flags.Lookup("shutdown-timeout"))
}

func runServe(cmd *cobra.Command, args []string) error {
	v := viper.GetViper()
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	authn := auth.New(cfg.Tokens, cfg.BlockedTokens)
	limiter := ratelimit.New(cfg.RateLimit.Requests, cfg.RateLimit.Window)

	srv := server.New(server.Options{
		Addr:            cfg.Addr,
		MaxBodySize:     cfg.MaxBodySize,
		ShutdownTimeout: cfg.ShutdownTimeout,
		SweepInterval:   cfg.RateLimit.SweepInterval,
	}, authn, limiter)

	allowed, blocked := authn.Counts()
	logger.Info("starting scour",
		"addr", cfg.Addr,
		"tokens", allowed,
		"blocked_tokens", blocked,
		"rate_limit", cfg.RateLimit.Requests,
		"rate_window", cfg.RateLimit.Window,
		"max_body_size", humanize.Bytes(uint64(cfg.MaxBodySize)))
	warnIfNoTokens(allowed)

	if config.Watch(v, func(next *config.Config) {
		authn.Update(next.Tokens, next.BlockedTokens)
		allowed, blocked := authn.Counts()
		logger.Info("token lists reloaded", "tokens", allowed, "blocked_tokens", blocked)
		warnIfNoTokens(allowed)
		if next.RateLimit != cfg.RateLimit {
			logger.Warn("rate limit changes take effect after a restart")
		}
	}) {
		logger.Debug("watching config file", "path", v.ConfigFileUsed())
	}

	return srv.Run(ctx)
}

func warnIfNoTokens(allowed int) {
	if allowed == 0 {
		logger.Warn("no tokens allowed, every request to /clean will be rejected")
	}
}
