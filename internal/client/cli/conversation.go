package cli

import (
	"context"
	"fmt"
	"log"
	"os"
)

// ListConversations prints one line per conversation, pinned first, and marks
// the currently selected one.
func (a *App) ListConversations(ctx context.Context) error {
	list, err := a.conversations.List(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	for _, c := range list {
		marker := " "
		if c.ID == a.currentConversation {
			marker = "*"
		}
		pin := " "
		if c.Pinned {
			pin = "!"
		}
		fmt.Printf("%s %s [%s]%s %s\n", marker, shortID(c.ID), c.UpdatedAt.Local().Format("2006-01-02 15:04"), pin, c.Title)
	}
	return nil
}

// OpenConversation selects the conversation the chat commands operate on.
// A prefix of the ID is enough as long as it is unambiguous.
func (a *App) OpenConversation(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Enter conversation id", os.Stdout)
	if err != nil {
		return err
	}

	full, err := a.resolveConversationID(ctx, id)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	a.currentConversation = full
	return a.ShowMessages(ctx)
}

// NewConversation creates a conversation and selects it.
func (a *App) NewConversation(ctx context.Context) error {
	title, err := GetSimpleText(a.reader, "Enter title", os.Stdout)
	if err != nil {
		return err
	}
	projectID, err := GetOptionalText(a.reader, "Enter project id", os.Stdout)
	if err != nil {
		return err
	}

	c, err := a.conversations.Create(ctx, title, projectID)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	a.currentConversation = c.ID
	fmt.Printf("Created %s\n", shortID(c.ID))
	return nil
}

// SetPinned pins or unpins the selected conversation.
func (a *App) SetPinned(ctx context.Context, pinned bool) error {
	if a.currentConversation == "" {
		fmt.Println("No conversation selected; use 'open' first")
		return nil
	}
	if err := a.conversations.SetPinned(ctx, a.currentConversation, pinned); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	return nil
}

// DeleteConversation removes the selected conversation after confirmation.
func (a *App) DeleteConversation(ctx context.Context) error {
	if a.currentConversation == "" {
		fmt.Println("No conversation selected; use 'open' first")
		return nil
	}

	answer, err := GetSimpleText(a.reader, fmt.Sprintf("Delete conversation %s? (y/N)", shortID(a.currentConversation)), os.Stdout)
	if err != nil {
		return err
	}
	if answer != "y" && answer != "yes" {
		return nil
	}

	if err := a.conversations.Delete(ctx, a.currentConversation); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	a.currentConversation = ""
	return nil
}

// resolveConversationID expands an ID prefix against the cached conversation
// list. Exact matches win; a prefix must match exactly one conversation.
func (a *App) resolveConversationID(ctx context.Context, prefix string) (string, error) {
	list, err := a.conversations.List(ctx)
	if err != nil {
		return "", err
	}

	var match string
	for _, c := range list {
		if c.ID == prefix {
			return c.ID, nil
		}
		if len(prefix) > 0 && len(c.ID) > len(prefix) && c.ID[:len(prefix)] == prefix {
			if match != "" {
				return "", fmt.Errorf("ambiguous id prefix %q", prefix)
			}
			match = c.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("no conversation matches %q", prefix)
	}
	return match, nil
}
