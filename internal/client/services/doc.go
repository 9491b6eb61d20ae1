// Package services holds the two state containers of the vault client.
//
// VaultStore owns folders, notes, passwords, documents and the navigation
// state (selected category and folder, activated categories). SessionStore
// owns the local user profile. Both are created explicitly around a
// storage.Adapter, load their state on construction and write every change
// through before exposing it, so memory and storage never disagree.
package services
