package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/gophvault/internal/client/models"
)

// Home clears the selection and lists the activated categories.
func (a *App) Home(ctx context.Context, _ []string) error {
	if err := a.vault.SetSelectedFolder(ctx, ""); err != nil {
		return err
	}
	if err := a.vault.SetSelectedCategory(ctx, models.CategoryNone); err != nil {
		return err
	}

	activated := a.vault.ActivatedCategories()
	if len(activated) == 0 {
		a.printf("Your vault is empty. Try 'open notes', 'open passwords' or 'open documents'.\n")
		return nil
	}

	a.printf("%s\n", a.title.Sprint("Categories"))
	for _, c := range activated {
		folders := len(a.vault.FoldersByCategory(c))
		if c.IsBuiltin() {
			a.printf("  %-12s %d items, %d folders\n", c.Label(), a.vault.CategoryCount(c), folders)
		} else {
			a.printf("  %-12s %d folders\n", c.Label(), folders)
		}
	}
	return nil
}

// Open selects a category, activating it on first use.
func (a *App) Open(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("open <category>")
	}
	c := models.NormalizeCategory(strings.Join(args, " "))
	if c == models.CategoryNone {
		return usageError("open <category>")
	}

	if err := a.vault.SetSelectedFolder(ctx, ""); err != nil {
		return err
	}
	if err := a.vault.SetSelectedCategory(ctx, c); err != nil {
		return err
	}
	return a.Folders(ctx, nil)
}

func (a *App) Folders(_ context.Context, _ []string) error {
	c := a.vault.SelectedCategory()
	if c == models.CategoryNone {
		return errNoCategory
	}

	folders := a.vault.FoldersByCategory(c)
	a.printf("%s\n", a.title.Sprint(c.Label()))
	if len(folders) == 0 {
		a.printf("  no folders yet, create one with 'addfolder <name>'\n")
		return nil
	}
	for _, f := range folders {
		a.printf("  %s  %s %s\n", a.dim.Sprint(f.ID), f.Name, a.dim.Sprintf("(%d)", a.itemCount(f)))
	}
	return nil
}

func (a *App) AddFolder(ctx context.Context, args []string) error {
	c := a.vault.SelectedCategory()
	if c == models.CategoryNone {
		return errNoCategory
	}

	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		var err error
		if name, err = a.ask("Folder name"); err != nil {
			return err
		}
	}
	if name == "" {
		return errEmptyName
	}

	f, err := a.vault.AddFolder(ctx, name, c)
	if err != nil {
		return err
	}
	a.printf("Folder %s created (%s)\n", a.accent.Sprint(f.Name), f.ID)
	return nil
}

func (a *App) RemoveFolder(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("rmfolder <folderId>")
	}
	id := args[0]

	f, ok := a.vault.Folder(id)
	if !ok {
		return errUnknownFolder
	}
	if err := a.vault.DeleteFolder(ctx, id); err != nil {
		return err
	}
	if a.vault.SelectedFolderID() == id {
		if err := a.vault.SetSelectedFolder(ctx, ""); err != nil {
			return err
		}
	}
	a.printf("Folder %s deleted\n", f.Name)
	return nil
}

// Cd enters a folder of the open category; "cd .." leaves it.
func (a *App) Cd(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("cd <folderId> | cd ..")
	}
	if args[0] == ".." {
		return a.vault.SetSelectedFolder(ctx, "")
	}

	c := a.vault.SelectedCategory()
	if c == models.CategoryNone {
		return errNoCategory
	}
	f, ok := a.vault.Folder(args[0])
	if !ok || f.Category != c {
		return errUnknownFolder
	}
	if err := a.vault.SetSelectedFolder(ctx, f.ID); err != nil {
		return err
	}
	return a.List(ctx, nil)
}

// Stats prints item counts and how much of the storage budget is used.
func (a *App) Stats(ctx context.Context, _ []string) error {
	snap := a.vault.Snapshot()

	var docBytes int64
	for _, d := range snap.Documents {
		docBytes += d.FileSize
	}

	a.printf("%s\n", a.title.Sprint("Vault"))
	a.printf("  folders:    %d\n", len(snap.Folders))
	a.printf("  notes:      %d\n", len(snap.Notes))
	a.printf("  passwords:  %d\n", len(snap.Passwords))
	a.printf("  documents:  %d (%s)\n", len(snap.Documents), models.FormatSize(docBytes))
	a.printf("  categories: %d\n", len(snap.ActivatedCategories))

	used, quota, err := a.vault.Usage(ctx)
	if err != nil {
		return err
	}
	if quota > 0 {
		a.printf("  storage:    %s of %s\n", models.FormatSize(used), models.FormatSize(quota))
	} else {
		a.printf("  storage:    %s\n", models.FormatSize(used))
	}
	return nil
}

// currentFolder returns the selected folder or errNoFolder.
func (a *App) currentFolder() (models.Folder, error) {
	f, ok := a.vault.Folder(a.vault.SelectedFolderID())
	if !ok {
		return models.Folder{}, errNoFolder
	}
	return f, nil
}

func (a *App) itemCount(f models.Folder) int {
	return len(a.vault.NotesInFolder(f.ID)) +
		len(a.vault.PasswordsInFolder(f.ID)) +
		len(a.vault.DocumentsInFolder(f.ID))
}
