package cli

import (
	"context"
	"fmt"
	"log"
)

// ListModels prints the caller's per-model configuration.
func (a *App) ListModels(ctx context.Context) error {
	list, err := a.catalog.UserModels(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	for _, m := range list {
		state := "off"
		if m.Enabled {
			state = "on"
		}
		pin := ""
		if m.Pinned {
			pin = " !"
		}
		fmt.Printf("%-40s %-12s [%s]%s\n", m.ModelID, m.Provider, state, pin)
	}
	return nil
}

// ListProviders prints provider availability and pricing.
func (a *App) ListProviders(ctx context.Context) error {
	list, err := a.catalog.Providers(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	for _, p := range list {
		state := "unavailable"
		if p.Available {
			state = "available"
		}
		line := fmt.Sprintf("%-20s %s", p.Name, state)
		if p.InputCostPerM != nil && p.OutputCostPerM != nil {
			line += fmt.Sprintf(" in=$%.2f/M out=$%.2f/M", *p.InputCostPerM, *p.OutputCostPerM)
		}
		fmt.Println(line)
	}
	return nil
}
