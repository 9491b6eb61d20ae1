package storage

// Key is a logical storage key.
type Key string

const (
	KeyUser                Key = "vault_user"
	KeyFolders             Key = "vault_folders"
	KeyNotes               Key = "vault_notes"
	KeyPasswords           Key = "vault_passwords"
	KeyDocuments           Key = "vault_documents"
	KeyActivatedCategories Key = "vault_activated_categories"
)

// VaultKeys are the keys owned by the vault store. Logging out never touches them.
var VaultKeys = []Key{KeyFolders, KeyNotes, KeyPasswords, KeyDocuments, KeyActivatedCategories}
