package out

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"neurofade/internal/platform/config"
)

var errNoTerminal = errors.New("no terminal for the authorization dialog; set permissions.mode to grant or deny")

// dialogMu keeps two dialogs from interleaving on the same terminal.
var dialogMu sync.Mutex

// PromptAuthorizer asks the user on the terminal. The grant and deny modes
// answer without asking, for scripted use.
type PromptAuthorizer struct {
	question    string
	mode        string
	reader      *bufio.Reader
	out         io.Writer
	interactive bool

	mu       sync.Mutex
	lastAnswer bool
}

func NewPromptAuthorizer(question, mode string, in io.Reader, out io.Writer) *PromptAuthorizer {
	interactive := false
	if f, ok := in.(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}
	return &PromptAuthorizer{
		question:    question,
		mode:        mode,
		reader:      bufio.NewReader(in),
		out:         out,
		interactive: interactive,
	}
}

func (p *PromptAuthorizer) RequestAuthorization(ctx context.Context) (bool, error) {
	granted, err := p.ask(ctx)
	if err == nil {
		p.mu.Lock()
		p.lastAnswer = granted
		p.mu.Unlock()
	}
	return granted, err
}

// AuthorizationStatus reports the configured policy in grant and deny mode
// and the last answer given on the terminal in prompt mode.
func (p *PromptAuthorizer) AuthorizationStatus(context.Context) (bool, error) {
	switch p.mode {
	case config.PermissionGrant:
		return true, nil
	case config.PermissionDeny:
		return false, nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastAnswer, nil
}

func (p *PromptAuthorizer) ask(_ context.Context) (bool, error) {
	switch p.mode {
	case config.PermissionGrant:
		return true, nil
	case config.PermissionDeny:
		return false, nil
	}
	if !p.interactive {
		return false, errNoTerminal
	}

	dialogMu.Lock()
	defer dialogMu.Unlock()
	if _, err := fmt.Fprintf(p.out, "%s [y/N]: ", p.question); err != nil {
		return false, fmt.Errorf("write prompt: %w", err)
	}
	line, err := p.reader.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return false, fmt.Errorf("read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
