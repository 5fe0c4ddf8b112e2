package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/cory-johannsen/roulette/internal/game/command"
	"github.com/cory-johannsen/roulette/internal/game/inventory"
	"github.com/cory-johannsen/roulette/internal/game/match"
)

// Defaults for the Claude policy.
const (
	DefaultModel     = "claude-sonnet-4-5"
	DefaultMaxTokens = 64
	DefaultTimeout   = 20 * time.Second
)

// MessageClient is the subset of the Anthropic Messages service Claude uses.
// *anthropic.MessageService satisfies it.
type MessageClient interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// ClaudeConfig tunes the Claude policy. Zero values use the defaults.
type ClaudeConfig struct {
	Model     string
	MaxTokens int64
	Timeout   time.Duration
}

// Claude asks a language model for the dealer's next command.
type Claude struct {
	client   MessageClient
	registry *command.Registry
	logger   *zap.Logger
	cfg      ClaudeConfig
}

// NewClaude constructs a Claude policy.
//
// Precondition: client, registry, and logger must not be nil.
func NewClaude(client MessageClient, registry *command.Registry, logger *zap.Logger, cfg ClaudeConfig) *Claude {
	if client == nil || registry == nil || logger == nil {
		panic("ai.NewClaude: client, registry, and logger must not be nil")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Claude{client: client, registry: registry, logger: logger, cfg: cfg}
}

const systemPrompt = `You are the dealer at a two-seat shotgun table. Each turn you choose exactly one command.
Commands: fire opponent, fire self, scan, discard, saw, heal, restrain.
Firing a Live round deals the current damage to the target. Firing a Blank at yourself lets you act again.
Using an item does not end your turn. Reply with the command only, on a single line.`

// Decide implements match.Policy.
//
// Postcondition: returns an error when the request fails, the reply has no
// text, or the first line of the reply is not a table action.
func (c *Claude) Decide(ctx context.Context, v match.View) (command.Request, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	prompt := BuildTableState(v).Describe()
	msg, err := c.client.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.cfg.Model),
		MaxTokens: c.cfg.MaxTokens,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return command.Request{}, fmt.Errorf("ai: requesting dealer move: %w", err)
	}

	reply := firstLine(replyText(msg))
	c.logger.Debug("dealer model replied",
		zap.String("model", c.cfg.Model),
		zap.String("reply", reply),
	)
	if reply == "" {
		return command.Request{}, fmt.Errorf("model reply had no text: %w", ErrBadDecision)
	}
	req, err := c.registry.InterpretLine(reply)
	if err != nil {
		return command.Request{}, fmt.Errorf("model replied %q: %w", reply, ErrBadDecision)
	}
	return req, nil
}

func replyText(msg *anthropic.Message) string {
	if msg == nil {
		return ""
	}
	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String()
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.Trim(strings.TrimSpace(line), "`.*\"'")
		if line != "" {
			return strings.ToLower(line)
		}
	}
	return ""
}

// Describe renders ts as plain text for a model prompt.
func (ts *TableState) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Stage %s.\n", ts.StageLabel)
	fmt.Fprintf(&b, "You (%s): %d/%d health, items: %s.\n", ts.Me.Name, ts.Me.Health, ts.Me.HealthCap, itemList(ts.Me.Items))
	fmt.Fprintf(&b, "Opponent (%s): %d/%d health, items: %s", ts.Opponent.Name, ts.Opponent.Health, ts.Opponent.HealthCap, itemList(ts.Opponent.Items))
	if !ts.Opponent.Eligible {
		b.WriteString(", restrained")
	}
	b.WriteString(".\n")
	fmt.Fprintf(&b, "Shotgun: %d rounds left (%d Live, %d Blank), next shot deals %d damage.\n", ts.Remaining, ts.Live, ts.Blank, ts.Damage)
	if ts.Known != nil {
		fmt.Fprintf(&b, "You scanned the current round: it is %s.\n", ts.Known)
	}
	b.WriteString("Your command:")
	return b.String()
}

func itemList(items map[inventory.Kind]int) string {
	var parts []string
	for _, k := range inventory.Kinds {
		if n := items[k]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, k))
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}
