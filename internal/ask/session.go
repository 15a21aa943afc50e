// Package ask manages the interactive question loop against the completion API.
package ask

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/tnglemongrass/davinci"
	"github.com/tnglemongrass/davinci/internal/commands"
	"github.com/tnglemongrass/davinci/internal/config"
	"github.com/tnglemongrass/davinci/internal/persona"
	"github.com/tnglemongrass/davinci/internal/render"
)

// InputReader reads a line of user input. Returns the line and any error (io.EOF on end).
type InputReader func(prompt string) (string, error)

// Session drives the ask loop. Every question is a single independent
// completion call; no conversation history is kept.
type Session struct {
	cfg      *config.Config
	client   *davinci.Client
	renderer *render.Renderer
	cmdReg   *commands.Registry

	contextText string
	writer      io.Writer
}

// NewSession creates a new ask session from the given configuration.
// When the config carries no context, CONTEXT.md files are consulted and the
// built-in default persona is the final fallback.
func NewSession(cfg *config.Config, w io.Writer) (*Session, error) {
	if w == nil {
		w = os.Stdout
	}
	r, err := render.NewRenderer(w)
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	client := davinci.NewClient(cfg.APIKey)
	client.BaseURL = cfg.APIBase
	if cfg.Timeout > 0 {
		client.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	contextText := cfg.Context
	if contextText == "" {
		contextText = persona.Load().Context()
	}

	s := &Session{
		cfg:         cfg,
		client:      client,
		renderer:    r,
		contextText: contextText,
		writer:      w,
	}

	reg := commands.NewRegistry(w)
	commands.RegisterDefaults(reg, commands.Callbacks{
		OnConfig:  s.showConfig,
		OnContext: s.setContext,
		OnTokens:  s.setTokens,
	})
	s.cmdReg = reg

	return s, nil
}

// Run starts the main ask loop using the provided input reader.
func (s *Session) Run(readInput InputReader) error {
	for {
		input, err := readInput("davinci> ")
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if output, isCmd := s.cmdReg.Execute(input); isCmd {
			if output == "__QUIT__" {
				return nil
			}
			fmt.Fprintln(s.writer, output)
			continue
		}

		if err := s.ask(input); err != nil {
			fmt.Fprintf(s.writer, "Error: %v\n", err)
		}
	}
}

// Context returns the persona context currently in effect.
func (s *Session) Context() string {
	return s.contextText
}

func (s *Session) ask(question string) error {
	text, err := s.client.Complete(context.Background(), s.contextText, question, s.cfg.MaxTokens)
	if err != nil {
		return err
	}
	return s.renderer.Render(text)
}

func (s *Session) showConfig() string {
	key := "(not set)"
	if s.cfg.APIKey != "" {
		key = "(set)"
	}
	return fmt.Sprintf("API Base: %s\nAPI Key: %s\nMax Tokens: %d\nTimeout: %s\nContext: %s",
		s.cfg.APIBase, key, s.cfg.MaxTokens, s.cfg.Timeout, s.contextText)
}

func (s *Session) setContext(args string) string {
	if args == "" {
		return s.contextText
	}
	s.contextText = args
	return fmt.Sprintf("Context set to: %s", args)
}

func (s *Session) setTokens(args string) string {
	if args == "" {
		return fmt.Sprintf("Max tokens: %d", s.cfg.MaxTokens)
	}
	n, err := strconv.Atoi(args)
	if err != nil || n <= 0 {
		return fmt.Sprintf("Invalid token count: %s", args)
	}
	s.cfg.MaxTokens = n
	return fmt.Sprintf("Max tokens set to: %d", n)
}
