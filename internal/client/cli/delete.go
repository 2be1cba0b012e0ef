package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/taskwire/taskwire/internal/client/session"
)

func RunDelete(ctx context.Context, args []string, sess *session.Manager) error {
	if len(args) == 0 {
		return fmt.Errorf("missing task id. Usage: taskwire delete <id>")
	}

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	task, err := sess.GetTask(ctx, id)
	if err != nil {
		return err
	}

	fmt.Printf("About to delete task %d: %s\n", task.ID, task.Title)
	confirm, err := readInput("Are you sure? (y/N): ")
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	if !strings.EqualFold(confirm, "y") && !strings.EqualFold(confirm, "yes") {
		fmt.Println("Cancelled.")
		return nil
	}

	if err := sess.DeleteTask(ctx, id); err != nil {
		return err
	}

	fmt.Printf("✓ Task %d deleted.\n", id)
	return nil
}
