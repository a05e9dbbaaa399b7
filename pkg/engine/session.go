package engine

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	prompt "github.com/c-bata/go-prompt"
)

const (
	DefaultQuitToken = "q"
	suggestLimit     = 10
)

// Session is the interactive query loop on top of an Engine.
type Session struct {
	engine *Engine
	out    io.Writer
	quit   string
	input  func(prefix string, completer prompt.Completer, opts ...prompt.Option) string
}

func NewSession(engine *Engine, out io.Writer, quitToken string) *Session {
	if quitToken == "" {
		quitToken = DefaultQuitToken
	}
	return &Session{
		engine: engine,
		out:    out,
		quit:   quitToken,
		input:  prompt.Input,
	}
}

func (s *Session) PromptText() string {
	return fmt.Sprintf("What are you looking for (enter '%s' to quit): ", s.quit)
}

// Execute runs one line of input. It returns false once the quit token is
// entered, and an error when the result cannot be written.
func (s *Session) Execute(line string) (bool, error) {
	if strings.TrimSpace(line) == s.quit {
		return false, nil
	}
	if err := s.engine.Search(line).Print(s.out); err != nil {
		return false, fmt.Errorf("write result: %w", err)
	}
	return true, nil
}

// Run reads queries line by line from in until the quit token or the end of
// input. Lines have no length limit.
func (s *Session) Run(in io.Reader) error {
	reader := bufio.NewReader(in)
	for {
		fmt.Fprint(s.out, s.PromptText())
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if line == "" && err != nil {
			fmt.Fprintln(s.out)
			return nil
		}

		more, execErr := s.Execute(strings.TrimRight(line, "\r\n"))
		if execErr != nil || !more {
			return execErr
		}
		if err != nil {
			fmt.Fprintln(s.out)
			return nil
		}
	}
}

// RunPrompt is Run for a terminal, with term completion. An empty line,
// which is also what Ctrl-D yields, ends the session.
func (s *Session) RunPrompt() error {
	for {
		line := s.input(s.PromptText(), s.Complete,
			prompt.OptionTitle("parindex"),
			prompt.OptionMaxSuggestion(suggestLimit),
		)
		if strings.TrimSpace(line) == "" {
			return nil
		}
		more, err := s.Execute(line)
		if err != nil || !more {
			return err
		}
	}
}

// Complete suggests index terms for the word under the cursor.
func (s *Session) Complete(d prompt.Document) []prompt.Suggest {
	word := d.GetWordBeforeCursor()
	suggestions := []prompt.Suggest{}
	for _, tc := range s.engine.Suggest(word, suggestLimit) {
		suggestions = append(suggestions, prompt.Suggest{
			Text:        tc.Term,
			Description: fmt.Sprintf("%d docs", tc.Docs),
		})
	}
	return suggestions
}
