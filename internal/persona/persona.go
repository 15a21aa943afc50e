// Package persona loads the context text that frames every question.
package persona

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultContext is used when no CONTEXT.md file is found and no context is
// configured. The prompt template appends the closing period itself.
const DefaultContext = "The following is a conversation with an AI assistant. " +
	"The assistant is helpful, creative, clever, and very friendly"

// Persona holds loaded context content.
type Persona struct {
	Content string
	Sources []string
}

// Load reads CONTEXT.md files from standard locations and returns combined content.
// Search order:
//  1. .davinci/CONTEXT.md (project)
//  2. CONTEXT.md (cwd)
//  3. ~/.davinci/CONTEXT.md (global)
func Load() *Persona {
	p := &Persona{}
	p.tryLoad(filepath.Join(".davinci", "CONTEXT.md"))
	p.tryLoad("CONTEXT.md")
	if home, err := os.UserHomeDir(); err == nil {
		p.tryLoad(filepath.Join(home, ".davinci", "CONTEXT.md"))
	}
	return p
}

// LoadFrom reads context from a specific path.
func LoadFrom(path string) (*Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read context file: %w", err)
	}
	return &Persona{Content: string(data), Sources: []string{path}}, nil
}

func (p *Persona) tryLoad(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	if p.Content != "" {
		p.Content += "\n\n"
	}
	p.Content += string(data)
	p.Sources = append(p.Sources, path)
}

// Context returns the loaded content, trimmed, or DefaultContext if nothing
// was loaded.
func (p *Persona) Context() string {
	c := strings.TrimSpace(p.Content)
	if c == "" {
		return DefaultContext
	}
	return c
}

// HasContent reports whether any CONTEXT.md content was loaded.
func (p *Persona) HasContent() bool {
	return strings.TrimSpace(p.Content) != ""
}
