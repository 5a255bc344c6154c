package cli

import (
	"context"
	"fmt"
	"log"
)

// ListAssistants prints the saved assistants, default first.
func (a *App) ListAssistants(ctx context.Context) error {
	list, err := a.assistants.List(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	for _, as := range list {
		def := ""
		if as.IsDefault {
			def = " (default)"
		}
		model := ""
		if as.DefaultModelID != nil {
			model = " model=" + *as.DefaultModelID
		}
		fmt.Printf("%s%s%s %s\n", shortID(as.ID), def, model, as.Name)
	}
	return nil
}
