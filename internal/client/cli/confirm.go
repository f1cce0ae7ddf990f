// Package cli assembles the vault client for interactive use: the local
// database, the remote store, the identity broker, and the terminal
// prompts backing migration confirmation and the guest upgrade dialog.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// TerminalPrompt asks yes/no questions on a terminal. When the input is not
// a terminal (piped stdin, CI) every question auto-declines: ownership
// changes must never happen without a human answering.
type TerminalPrompt struct {
	in  io.Reader
	out io.Writer
	tty bool
}

func NewTerminalPrompt() *TerminalPrompt {
	return &TerminalPrompt{
		in:  os.Stdin,
		out: os.Stdout,
		tty: term.IsTerminal(int(os.Stdin.Fd())),
	}
}

// ask prints the question and reads a y/n answer. Anything other than an
// explicit yes counts as no.
func (p *TerminalPrompt) ask(ctx context.Context, question string) (bool, error) {
	if !p.tty {
		return false, nil
	}

	fmt.Fprintf(p.out, "%s [y/N]: ", question)

	line, err := bufio.NewReader(p.in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// ConfirmMigration implements services.Confirmer.
func (p *TerminalPrompt) ConfirmMigration(ctx context.Context, n int) (bool, error) {
	noun := "designs"
	if n == 1 {
		noun = "design"
	}
	return p.ask(ctx, fmt.Sprintf("Keep your %d existing %s on this account?", n, noun))
}

// PromptUpgrade implements services.UpgradePrompter.
func (p *TerminalPrompt) PromptUpgrade(ctx context.Context) (bool, error) {
	return p.ask(ctx, "Guest rendering limit reached. Create an account to continue?")
}
