package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/taskwire/taskwire/internal/client/session"
	"github.com/taskwire/taskwire/pkg/api"
)

func RunGet(ctx context.Context, args []string, sess *session.Manager) error {
	if len(args) == 0 {
		return fmt.Errorf("missing task id. Usage: taskwire get <id>")
	}

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	task, err := sess.GetTask(ctx, id)
	if err != nil {
		return err
	}

	printTask(task)
	return nil
}

func printTask(task *api.Task) {
	fmt.Printf("ID:          %d\n", task.ID)
	fmt.Printf("Title:       %s\n", task.Title)
	fmt.Printf("Status:      %s\n", task.Status)
	if task.Description != "" {
		fmt.Printf("Description: %s\n", task.Description)
	}
	fmt.Printf("Created:     %s\n", task.CreatedAt.Format(time.RFC3339))
	fmt.Printf("Updated:     %s\n", task.UpdatedAt.Format(time.RFC3339))
}
