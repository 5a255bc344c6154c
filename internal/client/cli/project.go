package cli

import (
	"context"
	"fmt"
	"log"
	"os"
)

// ListProjects prints one line per project.
func (a *App) ListProjects(ctx context.Context) error {
	list, err := a.projects.List(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	for _, p := range list {
		shared := ""
		if p.IsShared {
			shared = " (shared)"
		}
		fmt.Printf("%s [%s]%s %s\n", shortID(p.ID), p.Role, shared, p.Name)
	}
	return nil
}

// ShowProject prints one project with its members, files and conversations.
func (a *App) ShowProject(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Enter project id", os.Stdout)
	if err != nil {
		return err
	}

	p, err := a.projects.Get(ctx, id)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	fmt.Println(p.Name)
	if p.Description != nil {
		fmt.Println(*p.Description)
	}
	if p.SystemPrompt != nil {
		fmt.Printf("System prompt: %s\n", *p.SystemPrompt)
	}

	members, err := a.projects.Members(ctx, p.ID)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	for _, m := range members {
		who := m.UserID
		if m.User.Email != nil {
			who = *m.User.Email
		}
		fmt.Printf("  member: %s [%s]\n", who, m.Role)
	}

	files, err := a.projects.Files(ctx, p.ID)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	for _, f := range files {
		fmt.Printf("  file: %s (%s)\n", f.FileName, f.FileType)
	}
	return nil
}
