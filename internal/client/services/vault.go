package services

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrijs2005/gophvault/internal/client/models"
	"github.com/dmitrijs2005/gophvault/internal/client/storage"
	"github.com/dmitrijs2005/gophvault/internal/common"
)

// VaultStore is the single authority over vault content and navigation state.
//
// Mutations persist exactly the collections they touch before updating
// memory; an error means neither changed. Update and delete of unknown ids
// are no-ops that still re-persist the unchanged collection. After Dispose
// every mutation returns common.ErrStoreDisposed.
//
// Readers return copies.
type VaultStore interface {
	AddFolder(ctx context.Context, name string, category models.Category) (models.Folder, error)
	DeleteFolder(ctx context.Context, id string) error

	AddNote(ctx context.Context, title, content, folderID string) (models.Note, error)
	UpdateNote(ctx context.Context, id, title, content string) error
	DeleteNote(ctx context.Context, id string) error

	AddPassword(ctx context.Context, title, username, password, url, folderID string) (models.Password, error)
	UpdatePassword(ctx context.Context, id, title, username, password, url string) error
	DeletePassword(ctx context.Context, id string) error

	AddDocument(ctx context.Context, in models.DocumentInput, folderID string) (models.Document, error)
	DeleteDocument(ctx context.Context, id string) error

	SetSelectedCategory(ctx context.Context, category models.Category) error
	SetSelectedFolder(ctx context.Context, folderID string) error

	Folders() []models.Folder
	Notes() []models.Note
	Passwords() []models.Password
	Documents() []models.Document
	ActivatedCategories() []models.Category
	SelectedCategory() models.Category
	SelectedFolderID() string

	Folder(id string) (models.Folder, bool)
	FoldersByCategory(category models.Category) []models.Folder
	NotesInFolder(folderID string) []models.Note
	PasswordsInFolder(folderID string) []models.Password
	DocumentsInFolder(folderID string) []models.Document
	Document(id string) (models.Document, bool)
	CategoryCount(category models.Category) int
	Snapshot() Snapshot
	// Usage reports the bytes held by the underlying storage and its quota.
	Usage(ctx context.Context) (used, quota int64, err error)

	Dispose()
}

// Snapshot is a point-in-time copy of the whole vault state.
type Snapshot struct {
	Folders             []models.Folder
	Notes               []models.Note
	Passwords           []models.Password
	Documents           []models.Document
	ActivatedCategories []models.Category
	SelectedCategory    models.Category
	SelectedFolderID    string
}

type vaultStore struct {
	mu      sync.RWMutex
	adapter *storage.Adapter
	opts    options

	folders   []models.Folder
	notes     []models.Note
	passwords []models.Password
	documents []models.Document
	activated []models.Category

	selectedCategory models.Category
	selectedFolderID string

	disposed bool
}

// NewVaultStore loads the vault from adapter. Categories that already hold
// items are merged into the activated set in memory only; the merged set is
// written the next time a category is selected.
func NewVaultStore(ctx context.Context, adapter *storage.Adapter, opts ...Option) (VaultStore, error) {
	s := &vaultStore{adapter: adapter, opts: newOptions(opts)}

	var err error
	if s.folders, err = storage.LoadSlice[models.Folder](ctx, adapter, storage.KeyFolders); err != nil {
		return nil, fmt.Errorf("load folders: %w", err)
	}
	if s.notes, err = storage.LoadSlice[models.Note](ctx, adapter, storage.KeyNotes); err != nil {
		return nil, fmt.Errorf("load notes: %w", err)
	}
	if s.passwords, err = storage.LoadSlice[models.Password](ctx, adapter, storage.KeyPasswords); err != nil {
		return nil, fmt.Errorf("load passwords: %w", err)
	}
	if s.documents, err = storage.LoadSlice[models.Document](ctx, adapter, storage.KeyDocuments); err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}
	stored, err := storage.LoadSlice[models.Category](ctx, adapter, storage.KeyActivatedCategories)
	if err != nil {
		return nil, fmt.Errorf("load activated categories: %w", err)
	}

	s.activated = ReconcileCategories(stored, s.notes, s.passwords, s.documents)

	s.opts.log.Info(ctx, "vault loaded",
		"folders", len(s.folders),
		"notes", len(s.notes),
		"passwords", len(s.passwords),
		"documents", len(s.documents),
		"activated", len(s.activated))

	return s, nil
}

// ReconcileCategories returns stored with duplicates removed, followed by each
// built-in category whose collection is non-empty and not yet present.
func ReconcileCategories(stored []models.Category, notes []models.Note, passwords []models.Password, documents []models.Document) []models.Category {
	out := make([]models.Category, 0, len(stored)+3)
	add := func(c models.Category) {
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}

	for _, c := range stored {
		add(c)
	}
	if len(notes) > 0 {
		add(models.CategoryNotes)
	}
	if len(passwords) > 0 {
		add(models.CategoryPasswords)
	}
	if len(documents) > 0 {
		add(models.CategoryDocuments)
	}
	return out
}

func (s *vaultStore) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disposed = true
}

func (s *vaultStore) checkOpen() error {
	if s.disposed {
		return common.ErrStoreDisposed
	}
	return nil
}

// Folders

func (s *vaultStore) AddFolder(ctx context.Context, name string, category models.Category) (models.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen(); err != nil {
		return models.Folder{}, err
	}

	now := s.opts.now()
	folder := models.Folder{
		ID:        s.opts.newID(),
		Name:      name,
		Category:  category,
		CreatedAt: now,
		UpdatedAt: now,
	}

	folders := append(slices.Clone(s.folders), folder)
	if err := s.adapter.Save(ctx, storage.KeyFolders, folders); err != nil {
		return models.Folder{}, fmt.Errorf("add folder: %w", err)
	}
	s.folders = folders

	s.opts.log.Info(ctx, "folder added", "id", folder.ID, "category", string(category))
	return folder, nil
}

// DeleteFolder removes the folder and every item filed under it. All four
// collections are written in one batch.
func (s *vaultStore) DeleteFolder(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen(); err != nil {
		return err
	}

	folders := slices.DeleteFunc(slices.Clone(s.folders), func(f models.Folder) bool { return f.ID == id })
	notes := slices.DeleteFunc(slices.Clone(s.notes), func(n models.Note) bool { return n.FolderID == id })
	passwords := slices.DeleteFunc(slices.Clone(s.passwords), func(p models.Password) bool { return p.FolderID == id })
	documents := slices.DeleteFunc(slices.Clone(s.documents), func(d models.Document) bool { return d.FolderID == id })

	err := s.adapter.SaveBatch(ctx, []storage.Entry{
		{Key: storage.KeyFolders, Value: folders},
		{Key: storage.KeyNotes, Value: notes},
		{Key: storage.KeyPasswords, Value: passwords},
		{Key: storage.KeyDocuments, Value: documents},
	})
	if err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}

	removed := len(s.notes) - len(notes) + len(s.passwords) - len(passwords) + len(s.documents) - len(documents)
	s.folders, s.notes, s.passwords, s.documents = folders, notes, passwords, documents

	s.opts.log.Info(ctx, "folder deleted", "id", id, "items", removed)
	return nil
}

// Notes

func (s *vaultStore) AddNote(ctx context.Context, title, content, folderID string) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen(); err != nil {
		return models.Note{}, err
	}

	now := s.opts.now()
	note := models.Note{
		ID:        s.opts.newID(),
		Title:     title,
		Content:   content,
		FolderID:  folderID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	notes := append(slices.Clone(s.notes), note)
	if err := s.adapter.Save(ctx, storage.KeyNotes, notes); err != nil {
		return models.Note{}, fmt.Errorf("add note: %w", err)
	}
	s.notes = notes

	s.opts.log.Info(ctx, "note added", "id", note.ID, "folder", folderID)
	return note, nil
}

func (s *vaultStore) UpdateNote(ctx context.Context, id, title, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen(); err != nil {
		return err
	}

	now := s.opts.now()
	notes := slices.Clone(s.notes)
	for i := range notes {
		if notes[i].ID == id {
			notes[i].Title = title
			notes[i].Content = content
			notes[i].UpdatedAt = now
		}
	}

	if err := s.adapter.Save(ctx, storage.KeyNotes, notes); err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	s.notes = notes
	return nil
}

func (s *vaultStore) DeleteNote(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen(); err != nil {
		return err
	}

	notes := slices.DeleteFunc(slices.Clone(s.notes), func(n models.Note) bool { return n.ID == id })
	if err := s.adapter.Save(ctx, storage.KeyNotes, notes); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	s.notes = notes
	return nil
}

// Passwords

func (s *vaultStore) AddPassword(ctx context.Context, title, username, password, url, folderID string) (models.Password, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen(); err != nil {
		return models.Password{}, err
	}

	now := s.opts.now()
	p := models.Password{
		ID:        s.opts.newID(),
		Title:     title,
		Username:  username,
		Password:  password,
		URL:       url,
		FolderID:  folderID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	passwords := append(slices.Clone(s.passwords), p)
	if err := s.adapter.Save(ctx, storage.KeyPasswords, passwords); err != nil {
		return models.Password{}, fmt.Errorf("add password: %w", err)
	}
	s.passwords = passwords

	// never log the secret
	s.opts.log.Info(ctx, "password added", "id", p.ID, "folder", folderID)
	return p, nil
}

func (s *vaultStore) UpdatePassword(ctx context.Context, id, title, username, password, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen(); err != nil {
		return err
	}

	now := s.opts.now()
	passwords := slices.Clone(s.passwords)
	for i := range passwords {
		if passwords[i].ID == id {
			passwords[i].Title = title
			passwords[i].Username = username
			passwords[i].Password = password
			passwords[i].URL = url
			passwords[i].UpdatedAt = now
		}
	}

	if err := s.adapter.Save(ctx, storage.KeyPasswords, passwords); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	s.passwords = passwords
	return nil
}

func (s *vaultStore) DeletePassword(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen(); err != nil {
		return err
	}

	passwords := slices.DeleteFunc(slices.Clone(s.passwords), func(p models.Password) bool { return p.ID == id })
	if err := s.adapter.Save(ctx, storage.KeyPasswords, passwords); err != nil {
		return fmt.Errorf("delete password: %w", err)
	}
	s.passwords = passwords
	return nil
}

// Documents

func (s *vaultStore) AddDocument(ctx context.Context, in models.DocumentInput, folderID string) (models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen(); err != nil {
		return models.Document{}, err
	}

	now := s.opts.now()
	doc := models.Document{
		ID:        s.opts.newID(),
		Name:      in.Name,
		FileName:  in.FileName,
		FileType:  in.FileType,
		FileSize:  in.FileSize,
		FileData:  in.FileData,
		FolderID:  folderID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	documents := append(slices.Clone(s.documents), doc)
	if err := s.adapter.Save(ctx, storage.KeyDocuments, documents); err != nil {
		return models.Document{}, fmt.Errorf("add document: %w", err)
	}
	s.documents = documents

	s.opts.log.Info(ctx, "document added", "id", doc.ID, "folder", folderID, "size", doc.FileSize)
	return doc, nil
}

func (s *vaultStore) DeleteDocument(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen(); err != nil {
		return err
	}

	documents := slices.DeleteFunc(slices.Clone(s.documents), func(d models.Document) bool { return d.ID == id })
	if err := s.adapter.Save(ctx, storage.KeyDocuments, documents); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	s.documents = documents
	return nil
}

// Navigation

// SetSelectedCategory selects category (CategoryNone goes home). A category
// seen for the first time joins the activated set. The activated set is
// persisted on every call.
func (s *vaultStore) SetSelectedCategory(ctx context.Context, category models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen(); err != nil {
		return err
	}

	activated := slices.Clone(s.activated)
	if category != models.CategoryNone && !slices.Contains(activated, category) {
		activated = append(activated, category)
	}

	if err := s.adapter.Save(ctx, storage.KeyActivatedCategories, activated); err != nil {
		return fmt.Errorf("select category: %w", err)
	}
	if len(activated) > len(s.activated) {
		s.opts.log.Info(ctx, "category activated", "category", string(category))
	}
	s.activated = activated
	s.selectedCategory = category
	return nil
}

// SetSelectedFolder is memory-only; "" clears the selection.
func (s *vaultStore) SetSelectedFolder(ctx context.Context, folderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOpen(); err != nil {
		return err
	}
	s.selectedFolderID = folderID
	return nil
}

// Readers

func (s *vaultStore) Folders() []models.Folder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.folders)
}

func (s *vaultStore) Notes() []models.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.notes)
}

func (s *vaultStore) Passwords() []models.Password {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.passwords)
}

func (s *vaultStore) Documents() []models.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.documents)
}

func (s *vaultStore) ActivatedCategories() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.activated)
}

func (s *vaultStore) SelectedCategory() models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedCategory
}

func (s *vaultStore) SelectedFolderID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedFolderID
}

func (s *vaultStore) Folder(id string) (models.Folder, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := slices.IndexFunc(s.folders, func(f models.Folder) bool { return f.ID == id })
	if i < 0 {
		return models.Folder{}, false
	}
	return s.folders[i], true
}

func (s *vaultStore) Document(id string) (models.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := slices.IndexFunc(s.documents, func(d models.Document) bool { return d.ID == id })
	if i < 0 {
		return models.Document{}, false
	}
	return s.documents[i], true
}

func (s *vaultStore) FoldersByCategory(category models.Category) []models.Folder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.folders, func(f models.Folder) bool { return f.Category == category })
}

func (s *vaultStore) NotesInFolder(folderID string) []models.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.notes, func(n models.Note) bool { return n.FolderID == folderID })
}

func (s *vaultStore) PasswordsInFolder(folderID string) []models.Password {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.passwords, func(p models.Password) bool { return p.FolderID == folderID })
}

func (s *vaultStore) DocumentsInFolder(folderID string) []models.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.documents, func(d models.Document) bool { return d.FolderID == folderID })
}

// CategoryCount returns the number of items of a built-in category, 0 for
// any other category.
func (s *vaultStore) CategoryCount(category models.Category) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch category {
	case models.CategoryNotes:
		return len(s.notes)
	case models.CategoryPasswords:
		return len(s.passwords)
	case models.CategoryDocuments:
		return len(s.documents)
	}
	return 0
}

func (s *vaultStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Folders:             slices.Clone(s.folders),
		Notes:               slices.Clone(s.notes),
		Passwords:           slices.Clone(s.passwords),
		Documents:           slices.Clone(s.documents),
		ActivatedCategories: slices.Clone(s.activated),
		SelectedCategory:    s.selectedCategory,
		SelectedFolderID:    s.selectedFolderID,
	}
}

func (s *vaultStore) Usage(ctx context.Context) (int64, int64, error) {
	used, err := s.adapter.Usage(ctx)
	if err != nil {
		return 0, 0, err
	}
	return used, s.adapter.Quota(), nil
}

func filter[T any](in []T, keep func(T) bool) []T {
	out := make([]T, 0)
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

var _ VaultStore = (*vaultStore)(nil)
