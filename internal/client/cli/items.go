package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophvault/internal/client/documents"
	"github.com/dmitrijs2005/gophvault/internal/client/models"
	"github.com/dmitrijs2005/gophvault/internal/common"
)

const timeLayout = "2006-01-02 15:04"

// List prints the items of the current folder. Built-in categories show
// their own item kind; custom categories show whatever the folder holds.
func (a *App) List(_ context.Context, _ []string) error {
	f, err := a.currentFolder()
	if err != nil {
		return err
	}

	a.printf("%s\n", a.title.Sprintf("%s / %s", f.Category.Label(), f.Name))

	notes := a.vault.NotesInFolder(f.ID)
	passwords := a.vault.PasswordsInFolder(f.ID)
	docs := a.vault.DocumentsInFolder(f.ID)

	if len(notes)+len(passwords)+len(docs) == 0 {
		a.printf("  empty\n")
		return nil
	}
	for _, n := range notes {
		a.printf("  %s  %s  %s\n", a.dim.Sprint(n.ID), n.Title, a.dim.Sprint(n.UpdatedAt.Local().Format(timeLayout)))
	}
	for _, p := range passwords {
		a.printf("  %s  %s  %s\n", a.dim.Sprint(p.ID), p.Title, p.Username)
	}
	for _, d := range docs {
		a.printf("  %s  %s  %s, %s\n", a.dim.Sprint(d.ID), d.Name, d.FileName, models.FormatSize(d.FileSize))
	}
	return nil
}

// Show prints one item; passwords are revealed.
func (a *App) Show(_ context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("show <id>")
	}
	id := args[0]

	for _, n := range a.vault.Notes() {
		if n.ID == id {
			a.printf("%s\n%s\n", a.title.Sprint(n.Title), n.Content)
			a.printf("%s\n", a.dim.Sprintf("updated %s", n.UpdatedAt.Local().Format(timeLayout)))
			return nil
		}
	}
	for _, p := range a.vault.Passwords() {
		if p.ID == id {
			a.printf("%s\n", a.title.Sprint(p.Title))
			a.printf("  username: %s\n  password: %s\n", p.Username, a.accent.Sprint(p.Password))
			if p.URL != "" {
				a.printf("  url:      %s\n", p.URL)
			}
			return nil
		}
	}
	if d, ok := a.vault.Document(id); ok {
		a.printf("%s\n  file: %s\n  type: %s\n  size: %s\n", a.title.Sprint(d.Name), d.FileName, d.FileType, models.FormatSize(d.FileSize))
		return nil
	}
	return fmt.Errorf("item %s: %w", id, common.ErrorNotFound)
}

// Notes

func (a *App) AddNote(ctx context.Context, _ []string) error {
	f, err := a.currentFolder()
	if err != nil {
		return err
	}
	title, err := a.ask("Title")
	if err != nil {
		return err
	}
	if title == "" {
		return errEmptyName
	}
	content, err := GetMultiline(a.reader, "Content", a.out)
	if err != nil {
		return err
	}

	n, err := a.vault.AddNote(ctx, title, content, f.ID)
	if err != nil {
		return err
	}
	a.printf("Note %s added (%s)\n", a.accent.Sprint(n.Title), n.ID)
	return nil
}

func (a *App) EditNote(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("editnote <id>")
	}
	var note *models.Note
	for _, n := range a.vault.Notes() {
		if n.ID == args[0] {
			note = &n
			break
		}
	}
	if note == nil {
		return fmt.Errorf("note %s: %w", args[0], common.ErrorNotFound)
	}

	title, err := GetOptionalText(a.reader, "Title", note.Title, a.out)
	if err != nil {
		return err
	}
	content, err := GetMultiline(a.reader, "Content (empty keeps the current text)", a.out)
	if err != nil {
		return err
	}
	if content == "" {
		content = note.Content
	}

	if err := a.vault.UpdateNote(ctx, note.ID, title, content); err != nil {
		return err
	}
	a.printf("Note updated\n")
	return nil
}

func (a *App) RemoveNote(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("rmnote <id>")
	}
	if err := a.vault.DeleteNote(ctx, args[0]); err != nil {
		return err
	}
	a.printf("Note deleted\n")
	return nil
}

// Passwords

func (a *App) AddPassword(ctx context.Context, _ []string) error {
	f, err := a.currentFolder()
	if err != nil {
		return err
	}

	title, err := a.ask("Title")
	if err != nil {
		return err
	}
	if title == "" {
		return errEmptyName
	}
	username, err := a.ask("Username")
	if err != nil {
		return err
	}
	secret, err := GetPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(secret)
	url, err := a.ask("URL (optional)")
	if err != nil {
		return err
	}

	p, err := a.vault.AddPassword(ctx, title, username, string(secret), url, f.ID)
	if err != nil {
		return err
	}
	a.printf("Password %s added (%s)\n", a.accent.Sprint(p.Title), p.ID)
	return nil
}

func (a *App) EditPassword(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("editpassword <id>")
	}
	var cur *models.Password
	for _, p := range a.vault.Passwords() {
		if p.ID == args[0] {
			cur = &p
			break
		}
	}
	if cur == nil {
		return fmt.Errorf("password %s: %w", args[0], common.ErrorNotFound)
	}

	title, err := GetOptionalText(a.reader, "Title", cur.Title, a.out)
	if err != nil {
		return err
	}
	username, err := GetOptionalText(a.reader, "Username", cur.Username, a.out)
	if err != nil {
		return err
	}
	secret, err := GetPassword(a.reader, "Password (empty keeps the current one)", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(secret)
	password := cur.Password
	if len(secret) > 0 {
		password = string(secret)
	}
	url, err := GetOptionalText(a.reader, "URL", cur.URL, a.out)
	if err != nil {
		return err
	}

	if err := a.vault.UpdatePassword(ctx, cur.ID, title, username, password, url); err != nil {
		return err
	}
	a.printf("Password updated\n")
	return nil
}

func (a *App) RemovePassword(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("rmpassword <id>")
	}
	if err := a.vault.DeletePassword(ctx, args[0]); err != nil {
		return err
	}
	a.printf("Password deleted\n")
	return nil
}

// Documents

// AddDocument reads a file from disk into the current folder. An optional
// name after the path replaces the default (file name without extension).
func (a *App) AddDocument(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("adddoc <path> [name]")
	}
	f, err := a.currentFolder()
	if err != nil {
		return err
	}

	in, err := documents.Load(args[0])
	if err != nil {
		return err
	}
	if len(args) > 1 {
		in.Name = strings.Join(args[1:], " ")
	}

	d, err := a.vault.AddDocument(ctx, in, f.ID)
	if err != nil {
		return err
	}
	a.printf("Document %s added (%s, %s)\n", a.accent.Sprint(d.Name), d.FileType, models.FormatSize(d.FileSize))
	return nil
}

func (a *App) RemoveDocument(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("rmdoc <id>")
	}
	if err := a.vault.DeleteDocument(ctx, args[0]); err != nil {
		return err
	}
	a.printf("Document deleted\n")
	return nil
}

// Export writes a stored document back to disk.
func (a *App) Export(_ context.Context, args []string) error {
	if len(args) != 2 {
		return usageError("export <docId> <path>")
	}
	d, ok := a.vault.Document(args[0])
	if !ok {
		return fmt.Errorf("document %s: %w", args[0], common.ErrorNotFound)
	}
	if err := documents.Export(d, args[1]); err != nil {
		return err
	}
	a.printf("Saved %s to %s\n", d.FileName, args[1])
	return nil
}

var _ execIface = (*App)(nil)
