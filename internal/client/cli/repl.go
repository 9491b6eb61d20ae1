package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool

	Login(ctx context.Context, args []string) error
	Signup(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	Profile(ctx context.Context, args []string) error
	EditProfile(ctx context.Context, args []string) error
	Avatar(ctx context.Context, args []string) error

	Home(ctx context.Context, args []string) error
	Open(ctx context.Context, args []string) error
	Folders(ctx context.Context, args []string) error
	AddFolder(ctx context.Context, args []string) error
	RemoveFolder(ctx context.Context, args []string) error
	Cd(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error

	AddNote(ctx context.Context, args []string) error
	EditNote(ctx context.Context, args []string) error
	RemoveNote(ctx context.Context, args []string) error
	AddPassword(ctx context.Context, args []string) error
	EditPassword(ctx context.Context, args []string) error
	RemovePassword(ctx context.Context, args []string) error
	AddDocument(ctx context.Context, args []string) error
	RemoveDocument(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
	Stats(ctx context.Context, args []string) error
}

const (
	helpAnonymous = "Available commands: signup, login, help, exit"
	helpSignedIn  = `Available commands:
  home                          list activated categories
  open <category>               open notes, passwords, documents or any custom category
  folders                       list folders of the open category
  addfolder [name]              create a folder in the open category
  rmfolder <folderId>           delete a folder and everything in it
  cd <folderId> | cd ..         enter or leave a folder
  (l)ist                        list items of the current folder
  show <id>                     show a note, password or document
  addnote | editnote <id> | rmnote <id>
  addpassword | editpassword <id> | rmpassword <id>
  adddoc <path> [name] | rmdoc <id> | export <docId> <path>
  profile | editprofile | avatar <path>
  stats                         item counts and storage usage
  logout | exit`
)

// runREPL starts the read–eval–print loop.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to a. While not logged in only signup, login, help and exit are
// accepted. Errors returned by handlers are printed and the loop continues.
// The loop exits on EOF, when ctx is done, or when the user types "exit" or
// "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	errColor := color.New(color.FgRed)
	promptColor := color.New(color.FgCyan, color.Bold)

	for ctx.Err() == nil {
		printlnFn(promptColor.Sprintf("vault%s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			if !errors.Is(err, io.EOF) {
				printlnFn(errColor.Sprint("read error: ", err))
			}
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if done := dispatch(ctx, a, cmd, args, errColor); done {
			return
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string, errColor *color.Color) bool {
	var err error

	switch cmd {
	case "help":
		if a.isLoggedIn() {
			printlnFn(helpSignedIn)
		} else {
			printlnFn(helpAnonymous)
		}
		return false

	case "exit", "quit":
		printlnFn("Bye!")
		return true

	case "signup":
		err = a.Signup(ctx, args)

	case "login":
		err = a.Login(ctx, args)

	default:
		if !a.isLoggedIn() {
			if isCommand(cmd) {
				err = errNotLoggedIn
			} else {
				printlnFn("Unknown command:", cmd)
				return false
			}
			break
		}
		err = dispatchVault(ctx, a, cmd, args)
	}

	if err != nil {
		printlnFn(errColor.Sprint("error: ", err))
	}
	return false
}

func dispatchVault(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "logout":
		return a.Logout(ctx, args)
	case "profile":
		return a.Profile(ctx, args)
	case "editprofile":
		return a.EditProfile(ctx, args)
	case "avatar":
		return a.Avatar(ctx, args)
	case "home":
		return a.Home(ctx, args)
	case "open":
		return a.Open(ctx, args)
	case "folders":
		return a.Folders(ctx, args)
	case "addfolder":
		return a.AddFolder(ctx, args)
	case "rmfolder":
		return a.RemoveFolder(ctx, args)
	case "cd":
		return a.Cd(ctx, args)
	case "l", "list":
		return a.List(ctx, args)
	case "show":
		return a.Show(ctx, args)
	case "addnote":
		return a.AddNote(ctx, args)
	case "editnote":
		return a.EditNote(ctx, args)
	case "rmnote":
		return a.RemoveNote(ctx, args)
	case "addpassword":
		return a.AddPassword(ctx, args)
	case "editpassword":
		return a.EditPassword(ctx, args)
	case "rmpassword":
		return a.RemovePassword(ctx, args)
	case "adddoc":
		return a.AddDocument(ctx, args)
	case "rmdoc":
		return a.RemoveDocument(ctx, args)
	case "export":
		return a.Export(ctx, args)
	case "stats":
		return a.Stats(ctx, args)
	}
	printlnFn("Unknown command:", cmd)
	return nil
}

var vaultCommands = map[string]struct{}{
	"logout": {}, "profile": {}, "editprofile": {}, "avatar": {},
	"home": {}, "open": {}, "folders": {}, "addfolder": {}, "rmfolder": {}, "cd": {},
	"l": {}, "list": {}, "show": {},
	"addnote": {}, "editnote": {}, "rmnote": {},
	"addpassword": {}, "editpassword": {}, "rmpassword": {},
	"adddoc": {}, "rmdoc": {}, "export": {}, "stats": {},
}

func isCommand(cmd string) bool {
	_, ok := vaultCommands[cmd]
	return ok
}
