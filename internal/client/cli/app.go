package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/dmitrijs2005/gophvault/internal/client/services"
	"github.com/dmitrijs2005/gophvault/internal/logging"
)

// App is the presentation layer: it turns REPL commands into store calls
// and renders store state.
type App struct {
	session services.SessionStore
	vault   services.VaultStore
	reader  *bufio.Reader
	out     io.Writer
	log     logging.Logger

	title  *color.Color
	accent *color.Color
	dim    *color.Color
}

func NewApp(session services.SessionStore, vault services.VaultStore, in io.Reader, out io.Writer, logger logging.Logger) *App {
	return &App{
		session: session,
		vault:   vault,
		reader:  bufio.NewReader(in),
		out:     out,
		log:     logger,
		title:   color.New(color.FgHiWhite, color.Bold),
		accent:  color.New(color.FgGreen),
		dim:     color.New(color.FgHiBlack),
	}
}

// Run greets the user and blocks in the REPL until exit or end of input.
func (a *App) Run(ctx context.Context) {
	a.printf("Welcome to the vault (type 'help' for commands)\n")
	if p, ok := a.session.Profile(); ok {
		a.printf("Signed in as %s\n", a.accent.Sprint(p.Email))
	}
	a.log.Debug(ctx, "repl started")
	runREPL(ctx, a, a.status, a.reader)
	a.log.Debug(ctx, "repl finished")
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

// status renders the prompt suffix, e.g. " (alice) /notes/Work".
func (a *App) status() string {
	p, ok := a.session.Profile()
	if !ok {
		return ""
	}

	s := fmt.Sprintf(" (%s)", p.Name)
	if c := a.vault.SelectedCategory(); c != "" {
		s += " /" + string(c)
		if f, ok := a.vault.Folder(a.vault.SelectedFolderID()); ok {
			s += "/" + f.Name
		}
	}
	return s
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) ask(prompt string) (string, error) {
	return GetSimpleText(a.reader, prompt, a.out)
}
