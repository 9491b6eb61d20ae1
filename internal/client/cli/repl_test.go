package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  [][]string
	err   error
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	return f.err
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Login(ctx context.Context, args []string) error {
	f.loggedIn = true
	return f.record("login", args)
}
func (f *fakeExec) Signup(ctx context.Context, args []string) error {
	f.loggedIn = true
	return f.record("signup", args)
}
func (f *fakeExec) Logout(ctx context.Context, args []string) error {
	f.loggedIn = false
	return f.record("logout", args)
}
func (f *fakeExec) Profile(ctx context.Context, args []string) error { return f.record("profile", args) }
func (f *fakeExec) EditProfile(ctx context.Context, args []string) error {
	return f.record("editprofile", args)
}
func (f *fakeExec) Avatar(ctx context.Context, args []string) error  { return f.record("avatar", args) }
func (f *fakeExec) Home(ctx context.Context, args []string) error    { return f.record("home", args) }
func (f *fakeExec) Open(ctx context.Context, args []string) error    { return f.record("open", args) }
func (f *fakeExec) Folders(ctx context.Context, args []string) error { return f.record("folders", args) }
func (f *fakeExec) AddFolder(ctx context.Context, args []string) error {
	return f.record("addfolder", args)
}
func (f *fakeExec) RemoveFolder(ctx context.Context, args []string) error {
	return f.record("rmfolder", args)
}
func (f *fakeExec) Cd(ctx context.Context, args []string) error      { return f.record("cd", args) }
func (f *fakeExec) List(ctx context.Context, args []string) error    { return f.record("list", args) }
func (f *fakeExec) Show(ctx context.Context, args []string) error    { return f.record("show", args) }
func (f *fakeExec) AddNote(ctx context.Context, args []string) error { return f.record("addnote", args) }
func (f *fakeExec) EditNote(ctx context.Context, args []string) error {
	return f.record("editnote", args)
}
func (f *fakeExec) RemoveNote(ctx context.Context, args []string) error {
	return f.record("rmnote", args)
}
func (f *fakeExec) AddPassword(ctx context.Context, args []string) error {
	return f.record("addpassword", args)
}
func (f *fakeExec) EditPassword(ctx context.Context, args []string) error {
	return f.record("editpassword", args)
}
func (f *fakeExec) RemovePassword(ctx context.Context, args []string) error {
	return f.record("rmpassword", args)
}
func (f *fakeExec) AddDocument(ctx context.Context, args []string) error {
	return f.record("adddoc", args)
}
func (f *fakeExec) RemoveDocument(ctx context.Context, args []string) error {
	return f.record("rmdoc", args)
}
func (f *fakeExec) Export(ctx context.Context, args []string) error { return f.record("export", args) }
func (f *fakeExec) Stats(ctx context.Context, args []string) error  { return f.record("stats", args) }

// capturePrint replaces printlnFn and returns everything printed.
func capturePrint(t *testing.T) *strings.Builder {
	t.Helper()
	var sb strings.Builder
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) { return fmt.Fprintln(&sb, a...) }
	t.Cleanup(func() { printlnFn = orig })
	return &sb
}

func run(exec execIface, lines ...string) {
	r := bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	runREPL(context.Background(), exec, func() string { return "" }, r)
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	capturePrint(t)

	exec := &fakeExec{}
	run(exec,
		"help",
		"login a@b.com",
		"help",
		"open recipes",
		"addfolder Pasta dishes",
		"cd f1",
		"l",
		"addnote",
		"export d1 /tmp/out",
		"foobar",
		"exit",
		"home",
	)

	assert.Equal(t, []string{"login", "open", "addfolder", "cd", "list", "addnote", "export"}, exec.calls)
	assert.Equal(t, []string{"Pasta", "dishes"}, exec.args[2])
	assert.Equal(t, []string{"d1", "/tmp/out"}, exec.args[6])
}

func TestRunREPL_GatesVaultCommandsWhenAnonymous(t *testing.T) {
	out := capturePrint(t)

	exec := &fakeExec{}
	run(exec, "open notes", "list", "logout", "quit")

	assert.Empty(t, exec.calls)
	assert.Equal(t, 3, strings.Count(out.String(), errNotLoggedIn.Error()))
}

func TestRunREPL_ErrorsArePrintedAndLoopContinues(t *testing.T) {
	out := capturePrint(t)

	exec := &fakeExec{loggedIn: true, err: errors.New("boom")}
	run(exec, "rmnote x", "rmpassword y", "exit")

	require.Equal(t, []string{"rmnote", "rmpassword"}, exec.calls)
	assert.Equal(t, 2, strings.Count(out.String(), "boom"))
	assert.Contains(t, out.String(), "Bye!")
}

func TestRunREPL_EOFEndsLoop(t *testing.T) {
	capturePrint(t)

	exec := &fakeExec{loggedIn: true}
	run(exec, "", "   ", "home")

	assert.Equal(t, []string{"home"}, exec.calls)
}

func TestRunREPL_HelpDependsOnSession(t *testing.T) {
	out := capturePrint(t)
	run(&fakeExec{}, "help", "exit")
	assert.Contains(t, out.String(), helpAnonymous)

	out = capturePrint(t)
	run(&fakeExec{loggedIn: true}, "help", "exit")
	assert.Contains(t, out.String(), "addpassword")
}

func TestUsageError(t *testing.T) {
	assert.Equal(t, "usage: cd <folderId>", usageError("cd <folderId>").Error())
}

func TestRunREPL_StopsWhenContextDone(t *testing.T) {
	out := capturePrint(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{loggedIn: true}
	r := bufio.NewReader(strings.NewReader("home\n"))
	runREPL(ctx, exec, func() string { return "" }, r)

	assert.Empty(t, exec.calls)
	assert.Empty(t, out.String())
}
