package cli

import (
	"context"
	"fmt"
	"log"
)

// ShowSettings prints the user's feature toggles and usage counters.
func (a *App) ShowSettings(ctx context.Context) error {
	s, err := a.settings.Get(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}

	fmt.Printf("privacy mode:        %s\n", onOff(s.PrivacyMode))
	fmt.Printf("context memory:      %s\n", onOff(s.ContextMemoryEnabled))
	fmt.Printf("persistent memory:   %s\n", onOff(s.PersistentMemoryEnabled))
	fmt.Printf("youtube transcripts: %s\n", onOff(s.YoutubeTranscriptsEnabled))
	fmt.Printf("web scraping:        %s\n", onOff(s.WebScrapingEnabled))
	fmt.Printf("mcp:                 %s\n", onOff(s.MCPEnabled))
	fmt.Printf("follow-up questions: %s\n", onOff(s.FollowUpQuestionsEnabled))
	fmt.Printf("free messages used:  %d\n", s.FreeMessagesUsed)
	fmt.Printf("daily messages used: %d\n", s.DailyMessagesUsed)
	return nil
}

// Sync refreshes every cached set from the server.
func (a *App) Sync(ctx context.Context) error {
	if err := a.syncer.SyncAll(ctx); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	fmt.Println("Sync complete")
	return nil
}
