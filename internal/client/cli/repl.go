package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isSignedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	ListConversations(ctx context.Context) error
	OpenConversation(ctx context.Context) error
	NewConversation(ctx context.Context) error
	SetPinned(ctx context.Context, pinned bool) error
	DeleteConversation(ctx context.Context) error
	ShowMessages(ctx context.Context) error
	Send(ctx context.Context) error
	Star(ctx context.Context) error
	Outbox(ctx context.Context) error
	ListProjects(ctx context.Context) error
	ShowProject(ctx context.Context) error
	ListAssistants(ctx context.Context) error
	ListModels(ctx context.Context) error
	ListProviders(ctx context.Context) error
	ShowSettings(ctx context.Context) error
	Sync(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the Quilt CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not signed in:
//	  - help           — show available commands
//	  - login          — save an access token
//	  - exit | quit    — leave the program
//
//	Signed in:
//	  - help           — show available commands
//	  - list | l       — list conversations
//	  - open           — select a conversation (interactive ID prompt)
//	  - new            — start a conversation
//	  - pin | unpin    — pin or unpin the selected conversation
//	  - delconv        — delete the selected conversation
//	  - messages | m   — show message history for the selected conversation
//	  - send           — send a message in the selected conversation
//	  - star           — star a message
//	  - outbox         — show unconfirmed sends
//	  - projects       — list projects
//	  - project        — show one project with members and files
//	  - assistants     — list assistants
//	  - models         — list the caller's models
//	  - providers      — list providers
//	  - settings       — show user settings
//	  - sync           — refresh every cached set from the server
//	  - logout         — log out
//	  - exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("quilt %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isSignedIn() {
				printlnFn("Available commands: (l)ist, open, new, pin, unpin, delconv, (m)essages, send, star, outbox, projects, project, assistants, models, providers, settings, sync, logout, exit")
			} else {
				printlnFn("Available commands: login, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "l", "list":
			_ = a.ListConversations(ctx)

		case "open":
			_ = a.OpenConversation(ctx)

		case "new":
			_ = a.NewConversation(ctx)

		case "pin":
			_ = a.SetPinned(ctx, true)

		case "unpin":
			_ = a.SetPinned(ctx, false)

		case "delconv":
			_ = a.DeleteConversation(ctx)

		case "m", "messages":
			_ = a.ShowMessages(ctx)

		case "send":
			_ = a.Send(ctx)

		case "star":
			_ = a.Star(ctx)

		case "outbox":
			_ = a.Outbox(ctx)

		case "projects":
			_ = a.ListProjects(ctx)

		case "project":
			_ = a.ShowProject(ctx)

		case "assistants":
			_ = a.ListAssistants(ctx)

		case "models":
			_ = a.ListModels(ctx)

		case "providers":
			_ = a.ListProviders(ctx)

		case "settings":
			_ = a.ShowSettings(ctx)

		case "sync":
			_ = a.Sync(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
