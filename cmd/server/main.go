// Command server runs the daedap conversation server.
//
// Configuration is layered: built-in defaults, an optional YAML config
// file (-config flag, DAEDAP_CONFIG, ./config.yaml, /etc/daedap/config.yaml),
// then DAEDAP_* environment overrides. The Gemini API key comes from the
// config file, GEMINI_API_KEY, or a gemini.api_key_file reference.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/jmkoo/daedap/pkg/auth"
	"github.com/jmkoo/daedap/pkg/auth/apikey"
	"github.com/jmkoo/daedap/pkg/auth/jwt"
	"github.com/jmkoo/daedap/pkg/config"
	"github.com/jmkoo/daedap/pkg/debug"
	"github.com/jmkoo/daedap/pkg/engine"
	"github.com/jmkoo/daedap/pkg/provider/gemini"
	"github.com/jmkoo/daedap/pkg/tools"
	"github.com/jmkoo/daedap/pkg/tools/builtins/clock"
	"github.com/jmkoo/daedap/pkg/tools/builtins/finance"
	transporthttp "github.com/jmkoo/daedap/pkg/transport/http"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	debug.Init(cfg.Logging.Debug, cfg.Logging.Level)

	prov, err := gemini.New(context.Background(), gemini.Config{
		APIKey: cfg.Gemini.APIKey,
		Model:  cfg.Gemini.Model,
	})
	if err != nil {
		return fmt.Errorf("creating provider: %w", err)
	}
	defer prov.Close()

	financeClient := finance.NewClient(finance.Config{
		BaseURL: cfg.Finance.BaseURL,
		Timeout: cfg.Finance.Timeout,
	})

	var defs []tools.Definition
	defs = append(defs, clock.Definitions()...)
	defs = append(defs, finance.Definitions(financeClient)...)

	registry, err := tools.NewRegistry(defs...)
	if err != nil {
		return fmt.Errorf("building tool registry: %w", err)
	}
	slog.Info("tool registry ready", "tools", registry.Len())

	eng, err := engine.New(prov, registry, engine.Config{
		DefaultSystem: cfg.Engine.System,
		MaxTurns:      cfg.Engine.MaxTurns,
		TurnTimeout:   cfg.Engine.TurnTimeout,
		ToolTimeout:   cfg.Engine.ToolTimeout,
	})
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}

	metricsPath := ""
	if cfg.Observability.Metrics.Enabled {
		metricsPath = cfg.Observability.Metrics.Path
	}

	opts := []transporthttp.ServerOption{
		transporthttp.WithAddr(fmt.Sprintf(":%d", cfg.Server.Port)),
		transporthttp.WithMaxBodySize(cfg.Server.MaxBodySize),
		transporthttp.WithMetricsPath(metricsPath),
		transporthttp.WithReadTimeout(cfg.Server.ReadTimeout),
		transporthttp.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
		transporthttp.WithLogger(slog.Default()),
	}
	if cfg.Auth.Enabled {
		opts = append(opts, transporthttp.WithHTTPMiddleware(buildAuthMiddleware(cfg.Auth)))
	}

	srv := transporthttp.NewServer(eng, opts...)

	slog.Info("server starting",
		"port", cfg.Server.Port,
		"model", cfg.Gemini.Model,
		"max_turns", cfg.Engine.MaxTurns,
	)
	return srv.ListenAndServe()
}

func buildAuthMiddleware(cfg config.AuthConfig) func(http.Handler) http.Handler {
	chain := &auth.Chain{AllowAnonymous: cfg.AllowAnonymous}

	if len(cfg.APIKeys) > 0 {
		keys := make([]apikey.Key, 0, len(cfg.APIKeys))
		for _, k := range cfg.APIKeys {
			keys = append(keys, apikey.Key{Secret: k.Key, Subject: k.Subject, Tier: k.Tier})
		}
		chain.Authenticators = append(chain.Authenticators, apikey.New(keys))
	}

	if cfg.JWT.JWKSURL != "" {
		chain.Authenticators = append(chain.Authenticators, jwt.New(jwt.Config{
			Issuer:   cfg.JWT.Issuer,
			Audience: cfg.JWT.Audience,
			JWKSURL:  cfg.JWT.JWKSURL,
		}))
	}

	var limiter auth.Limiter
	if cfg.RateLimit.Enabled {
		tiers := make(map[string]auth.TierLimit, len(cfg.RateLimit.Tiers))
		for name, rpm := range cfg.RateLimit.Tiers {
			tiers[name] = auth.TierLimit{RequestsPerMinute: rpm}
		}
		limiter = auth.NewWindowLimiter(tiers, cfg.RateLimit.DefaultRPM)
	}

	return auth.Middleware(chain, limiter, auth.DefaultBypassPaths)
}
