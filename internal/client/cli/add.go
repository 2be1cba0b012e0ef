package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/taskwire/taskwire/internal/client/session"
	"github.com/taskwire/taskwire/pkg/api"
)

func RunAdd(ctx context.Context, args []string, sess *session.Manager) error {
	var title string
	var err error

	if len(args) > 0 {
		title = strings.TrimSpace(strings.Join(args, " "))
	} else {
		title, err = readInput("Title: ")
		if err != nil {
			return fmt.Errorf("failed to read title: %w", err)
		}
	}
	if title == "" {
		return fmt.Errorf("title cannot be empty. Usage: taskwire add <title>")
	}

	description, err := readInput("Description (optional): ")
	if err != nil {
		return fmt.Errorf("failed to read description: %w", err)
	}

	task, err := sess.CreateTask(ctx, api.CreateTaskRequest{
		Title:       title,
		Description: description,
	})
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("✓ Task created with ID %d\n", task.ID)
	printTask(task)

	return nil
}
