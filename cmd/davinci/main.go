// davinci is an interactive question-answering CLI for the OpenAI completion API.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/tnglemongrass/davinci/internal/ask"
	"github.com/tnglemongrass/davinci/internal/config"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if cfg.APIKey == "" {
		fmt.Fprintln(os.Stderr, "Warning: No API key configured. Set OPENAI_API_KEY or use --api-key.")
	}

	session, err := ask.NewSession(cfg, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating session: %v\n", err)
		os.Exit(1)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "davinci> ",
		HistoryFile:     historyPath(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing readline: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	fmt.Println("davinci - ask the completion model anything")
	fmt.Printf("API: %s | Max tokens: %d\n", cfg.APIBase, cfg.MaxTokens)
	fmt.Println("Type /help for commands, /quit to exit.")

	readInput := func(_ string) (string, error) {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			return "", io.EOF
		}
		return line, err
	}

	if err := session.Run(readInput); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	dir := home + "/.davinci"
	_ = os.MkdirAll(dir, 0755)
	return dir + "/history"
}
