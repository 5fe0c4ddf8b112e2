package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/roulette/internal/game/command"
	"github.com/cory-johannsen/roulette/internal/game/match"
)

// Table is the subset of the match controller a Session drives.
type Table interface {
	Attach(o match.Observer)
	Detach(o match.Observer)
	Execute(token string, args ...string) error
	ContinueToNextStage() error
	StopAndDeclareWinner() error
	PlayAutomated(ctx context.Context) error
	Snapshot() match.State
}

// Session reads commands from in and writes every table update to out. It
// implements match.Observer and server.Service.
type Session struct {
	table    Table
	registry *command.Registry
	renderer *Renderer
	in       io.Reader
	out      io.Writer
	logger   *zap.Logger

	writeMu  sync.Mutex
	ctx      context.Context
	cancel   context.CancelFunc
	stopOnce sync.Once
}

// NewSession constructs a Session and attaches it to table, so updates
// published before Start (such as setup) are rendered too.
//
// Precondition: all arguments must be non-nil.
func NewSession(table Table, registry *command.Registry, renderer *Renderer, in io.Reader, out io.Writer, logger *zap.Logger) *Session {
	if table == nil || registry == nil || renderer == nil || in == nil || out == nil || logger == nil {
		panic("console.NewSession: all arguments must be non-nil")
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		table:    table,
		registry: registry,
		renderer: renderer,
		in:       in,
		out:      out,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
	table.Attach(s)
	return s
}

// OnUpdate renders the update's message.
func (s *Session) OnUpdate(st match.State) {
	s.write(s.renderer.RenderUpdate(st))
}

// Start runs the read-eval loop until quit, the match concludes, input ends,
// or Stop is called.
//
// Postcondition: the session is detached from the table.
func (s *Session) Start() error {
	defer s.table.Detach(s)
	defer s.Stop()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-s.ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	s.write(s.renderer.RenderTable(s.table.Snapshot()))
	if err := s.autoplay(); err != nil {
		return err
	}
	for {
		s.write(s.renderer.Prompt(s.table.Snapshot()))
		select {
		case <-s.ctx.Done():
			return nil
		case err := <-readErr:
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
			s.logger.Info("input closed")
			return nil
		case line := <-lines:
			done, err := s.Handle(line)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		}
	}
}

// Stop ends Start. It is safe to call more than once.
func (s *Session) Stop() {
	s.stopOnce.Do(s.cancel)
}

// Handle interprets one input line. It reports done when the session should
// end; the error is non-nil only for failures that end the session.
func (s *Session) Handle(line string) (done bool, err error) {
	p := command.Parse(line)
	if p.Command == "" {
		return false, nil
	}
	cmd, ok := s.registry.Resolve(p.Command)
	if !ok {
		// Execute reports unknown commands through the observer.
		_ = s.table.Execute(p.Command, p.Args...)
		return false, nil
	}

	switch cmd.Handler {
	case command.HandlerHelp:
		s.write(s.registry.Help())
		return false, nil
	case command.HandlerStatus:
		s.write(s.renderer.RenderTable(s.table.Snapshot()))
		return false, nil
	case command.HandlerQuit:
		s.write("You leave the table.\n")
		return true, nil
	case command.HandlerStop:
		if err := s.table.StopAndDeclareWinner(); err != nil {
			return false, nil
		}
		s.write(s.renderer.RenderTable(s.table.Snapshot()))
		return true, nil
	case command.HandlerContinue:
		if err := s.table.ContinueToNextStage(); err != nil {
			return false, nil
		}
		s.write(s.renderer.RenderTable(s.table.Snapshot()))
	default:
		if err := s.table.Execute(p.Command, p.Args...); err != nil {
			s.logger.Debug("command rejected", zap.String("line", line), zap.Error(err))
			return false, nil
		}
	}
	return false, s.autoplay()
}

// autoplay lets the automated seat act until it is a person's turn again.
func (s *Session) autoplay() error {
	err := s.table.PlayAutomated(s.ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *Session) write(text string) {
	if text == "" {
		return
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if _, err := io.WriteString(s.out, text); err != nil {
		s.logger.Warn("writing to console", zap.Error(err))
	}
}
