// Package cli provides the interactive Quilt command-line client.
//
// It wires configuration, local storage, API services, and an interactive REPL
// that supports online/offline operation. Typical flow: prompt for an access
// token, start a background connectivity watcher, and execute user commands.
//
// Key features:
//   - Login / Logout with a locally persisted session
//   - Browse conversations and read message history, online or offline
//   - Send messages with an optimistic outbox
//   - Manage projects, assistants, settings and the model catalog
//   - Full refresh via the sync command
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
