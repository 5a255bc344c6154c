package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
)

func (a *App) getStatus() string {
	s := ""
	if a.currentConversation != "" {
		s = shortID(a.currentConversation) + " "
	}
	if a.Mode != "" {
		s = s + string(a.Mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// shortID truncates server-issued identifiers for prompt display.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to Quilt CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	if !a.isSignedIn() {
		_ = a.Login(ctx)
	}

	go func() {
		a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}()

	runREPL(ctx, a, a.getStatus, scanner)
}
