package command

import (
	"fmt"
	"strings"
)

// ParseResult holds the parsed command word and arguments from a text line.
type ParseResult struct {
	// Command is the first word of the input, lowercased.
	Command string
	// Args are the remaining words after the command, lowercased.
	Args []string
}

// Parse splits a text line into a command and arguments.
//
// Postcondition: Returns a ParseResult. If line is blank, Command is empty.
func Parse(line string) ParseResult {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return ParseResult{}
	}
	var args []string
	if len(fields) > 1 {
		args = fields[1:]
	}
	return ParseResult{Command: fields[0], Args: args}
}

// Interpret resolves a command token and its arguments into a Request.
//
// Postcondition: returns an error wrapping ErrUnknownCommand when token is
// not a game action or when a qualifier is not understood.
func (r *Registry) Interpret(token string, args ...string) (Request, error) {
	token = strings.ToLower(strings.TrimSpace(token))
	cmd, ok := r.Resolve(token)
	if !ok {
		return Request{}, fmt.Errorf("%q: %w", token, ErrUnknownCommand)
	}
	kind, ok := cmd.Action()
	if !ok {
		return Request{}, fmt.Errorf("%q is not a table action: %w", token, ErrUnknownCommand)
	}
	req := Request{Action: kind}
	if len(args) == 0 {
		return req, nil
	}
	if cmd.Handler != HandlerFire {
		return Request{}, fmt.Errorf("%q takes no arguments: %w", cmd.Name, ErrUnknownCommand)
	}
	if len(args) > 1 {
		return Request{}, fmt.Errorf("fire takes one target, got %d: %w", len(args), ErrUnknownCommand)
	}
	target, err := ParseTarget(strings.ToLower(args[0]))
	if err != nil {
		return Request{}, err
	}
	req.Target = target
	return req, nil
}

// InterpretLine parses a full line and interprets it.
func (r *Registry) InterpretLine(line string) (Request, error) {
	p := Parse(line)
	if p.Command == "" {
		return Request{}, fmt.Errorf("empty command: %w", ErrUnknownCommand)
	}
	return r.Interpret(p.Command, p.Args...)
}
