package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/quiltchat/quilt/internal/client/api"
	"github.com/quiltchat/quilt/internal/client/models"
)

// ShowMessages prints the history of the selected conversation in insertion
// order, followed by any unconfirmed sends.
func (a *App) ShowMessages(ctx context.Context) error {
	if a.currentConversation == "" {
		fmt.Println("No conversation selected; use 'open' first")
		return nil
	}

	msgs, err := a.messages.ListForConversation(ctx, a.currentConversation)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	for _, m := range msgs {
		printMessage(m)
	}

	outstanding, err := a.messages.Outstanding(ctx, a.currentConversation)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	for _, p := range outstanding {
		fmt.Printf("[sending] %s\n", p.Content)
	}
	return nil
}

func printMessage(m *models.Message) {
	star := ""
	if m.Starred {
		star = " *"
	}
	model := ""
	if m.ModelID != nil {
		model = " (" + *m.ModelID + ")"
	}
	fmt.Printf("%s [%s]%s%s:\n%s\n", shortID(m.ID), m.Role, model, star, m.Content)
	for _, img := range m.Images {
		fmt.Printf("  image: %s\n", img.URL)
	}
	for _, doc := range m.Documents {
		name := doc.URL
		if doc.FileName != nil {
			name = *doc.FileName
		}
		fmt.Printf("  document: %s\n", name)
	}
}

// Send reads a message body and submits it to the selected conversation. The
// message stays visible in the outbox until the server confirms it.
func (a *App) Send(ctx context.Context) error {
	if a.currentConversation == "" {
		fmt.Println("No conversation selected; use 'open' first")
		return nil
	}

	content, err := GetMultiline(a.reader, "Enter message", os.Stdout)
	if err != nil {
		return err
	}
	if content == "" {
		return nil
	}
	modelID, err := GetOptionalText(a.reader, "Enter model id", os.Stdout)
	if err != nil {
		return err
	}

	reply, err := a.messages.Send(ctx, api.SendMessageRequest{
		ConversationID: a.currentConversation,
		Content:        content,
		ModelID:        modelID,
	})
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	printMessage(reply)
	return nil
}

// Star toggles the star on a message by ID.
func (a *App) Star(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Enter message id", os.Stdout)
	if err != nil {
		return err
	}
	answer, err := GetSimpleText(a.reader, "Star it? (y/n)", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.messages.SetStarred(ctx, id, answer == "y" || answer == "yes"); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	return nil
}

// Outbox lists queued sends for the selected conversation with their state.
func (a *App) Outbox(ctx context.Context) error {
	if a.currentConversation == "" {
		fmt.Println("No conversation selected; use 'open' first")
		return nil
	}

	outstanding, err := a.messages.Outstanding(ctx, a.currentConversation)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if len(outstanding) == 0 {
		fmt.Println("Outbox is empty")
		return nil
	}
	for _, p := range outstanding {
		fmt.Printf("%s [%s] %s\n", shortID(p.CorrelationID), p.CreatedAt.Local().Format("15:04:05"), p.Content)
	}
	return nil
}
