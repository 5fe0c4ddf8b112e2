// Package main provides the roulette table binary: one person against the
// dealer, or two people sharing a terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/cory-johannsen/roulette/internal/config"
	"github.com/cory-johannsen/roulette/internal/console"
	"github.com/cory-johannsen/roulette/internal/game/ai"
	"github.com/cory-johannsen/roulette/internal/game/command"
	"github.com/cory-johannsen/roulette/internal/game/inventory"
	"github.com/cory-johannsen/roulette/internal/game/match"
	"github.com/cory-johannsen/roulette/internal/game/rng"
	"github.com/cory-johannsen/roulette/internal/observability"
	"github.com/cory-johannsen/roulette/internal/scripting"
	"github.com/cory-johannsen/roulette/internal/server"
)

const dealerScript = "dealer"

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file; empty = defaults and environment only")
	name := flag.String("name", "Player", "your name at the table")
	opponent := flag.String("opponent", "", "second person's name; empty = play the dealer")
	seed := flag.Uint64("seed", 0, "seed for a reproducible table; 0 = crypto randomness")
	color := flag.Bool("color", true, "colorize table output")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	var src rng.Source = rng.NewCryptoSource()
	if *seed != 0 {
		src = rng.NewSeededSource(*seed)
		logger.Info("seeded table", zap.Uint64("seed", *seed))
	}
	drawer := rng.NewLoggedDrawer(src, logger)

	rules := inventory.DefaultRuleset()
	if cfg.Rules.ItemsFile != "" {
		rules, err = inventory.LoadRuleset(cfg.Rules.ItemsFile)
		if err != nil {
			logger.Fatal("loading item ruleset", zap.String("path", cfg.Rules.ItemsFile), zap.Error(err))
		}
	}
	registry, err := command.RegistryForRules(rules)
	if err != nil {
		logger.Fatal("building command registry", zap.Error(err))
	}

	var scripts *scripting.Manager
	if cfg.Dealer.Policy == config.PolicyLua {
		scripts = scripting.NewManager(drawer, logger)
		if err := scripts.LoadFile(dealerScript, cfg.Dealer.Script, cfg.Dealer.InstructionLimit); err != nil {
			logger.Fatal("loading dealer script", zap.String("path", cfg.Dealer.Script), zap.Error(err))
		}
	}
	policy := newPolicy(cfg.Dealer, registry, scripts, logger)

	ctrl, err := match.NewController(rules, cfg.Rules.StagePolicy(), drawer, logger,
		match.WithRegistry(registry),
		match.WithPolicy(policy),
		match.WithMaxAutomatedActions(cfg.Dealer.MaxActions),
		match.WithDealerName(cfg.Dealer.Name),
	)
	if err != nil {
		logger.Fatal("creating match controller", zap.Error(err))
	}

	renderer := console.NewRenderer(rules, console.NewPalette(*color))
	session := console.NewSession(ctrl, registry, renderer, os.Stdin, os.Stdout, logger)

	if err := ctrl.Setup(*name, *opponent); err != nil {
		logger.Fatal("setting up match", zap.Error(err))
	}

	lifecycle := server.NewLifecycle(logger)
	if scripts != nil {
		lifecycle.Add("scripts", scriptService(scripts))
	}
	lifecycle.Add("console", session)

	logger.Info("table initialized",
		zap.Duration("startup", time.Since(start)),
		zap.String("dealer_policy", cfg.Dealer.Policy),
		zap.String("stage", cfg.Rules.StagePolicy().First().Label()),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("table error", zap.Error(err))
	}
}

// newPolicy selects the dealer policy named by cfg.Policy.
//
// Precondition: cfg has passed config validation; scripts is non-nil for "lua".
func newPolicy(cfg config.DealerConfig, registry *command.Registry, scripts *scripting.Manager, logger *zap.Logger) match.Policy {
	switch cfg.Policy {
	case config.PolicyLua:
		return ai.NewScript(scripts, dealerScript, registry)
	case config.PolicyLLM:
		var opts []option.RequestOption
		if cfg.APIKey != "" {
			opts = append(opts, option.WithAPIKey(cfg.APIKey))
		}
		client := anthropic.NewClient(opts...)
		return ai.NewClaude(&client.Messages, registry, logger, ai.ClaudeConfig{
			Model:     cfg.Model,
			MaxTokens: cfg.MaxTokens,
			Timeout:   cfg.Timeout,
		})
	case config.PolicyFallback:
		return ai.NewFallback(logger, nil)
	default:
		panic(fmt.Sprintf("main: unknown dealer policy %q", cfg.Policy))
	}
}

// scriptService holds the Lua VMs open until the lifecycle stops, which
// happens after the console has stopped asking the dealer for moves.
func scriptService(scripts *scripting.Manager) server.Service {
	done := make(chan struct{})
	var once sync.Once
	return &server.FuncService{
		StartFn: func() error {
			<-done
			return nil
		},
		StopFn: func() {
			once.Do(func() {
				scripts.Close()
				close(done)
			})
		},
	}
}
