package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/taskwire/taskwire/internal/client/session"
	"github.com/taskwire/taskwire/internal/models"
	"github.com/taskwire/taskwire/pkg/api"
)

func RunUpdate(ctx context.Context, args []string, sess *session.Manager) error {
	if len(args) == 0 {
		return fmt.Errorf("missing task id. Usage: taskwire update <id>")
	}

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	current, err := sess.GetTask(ctx, id)
	if err != nil {
		return err
	}

	fmt.Println("=== Update Task ===")
	fmt.Println("Press Enter to keep the current value.")
	fmt.Println()

	var req api.UpdateTaskRequest

	title, err := readInput(fmt.Sprintf("Title [%s]: ", current.Title))
	if err != nil {
		return fmt.Errorf("failed to read title: %w", err)
	}
	if title != "" {
		req.Title = &title
	}

	description, err := readInput(fmt.Sprintf("Description [%s]: ", current.Description))
	if err != nil {
		return fmt.Errorf("failed to read description: %w", err)
	}
	if description != "" {
		req.Description = &description
	}

	status, err := readInput(fmt.Sprintf("Status [%s]: ", current.Status))
	if err != nil {
		return fmt.Errorf("failed to read status: %w", err)
	}
	if status != "" {
		status = strings.ToUpper(status)
		if !models.ValidStatus(status) {
			return fmt.Errorf("unknown status: %s. Use: TODO, IN_PROGRESS, or COMPLETED", status)
		}
		req.Status = &status
	}

	if req.Title == nil && req.Description == nil && req.Status == nil {
		fmt.Println("Nothing to update.")
		return nil
	}

	task, err := sess.UpdateTask(ctx, id, req)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("✓ Task updated.")
	printTask(task)

	return nil
}

// RunDone marks a task as completed without the interactive prompt.
func RunDone(ctx context.Context, args []string, sess *session.Manager) error {
	if len(args) == 0 {
		return fmt.Errorf("missing task id. Usage: taskwire done <id>")
	}

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	status := string(models.StatusCompleted)
	task, err := sess.UpdateTask(ctx, id, api.UpdateTaskRequest{Status: &status})
	if err != nil {
		return err
	}

	fmt.Printf("✓ Task %d marked as %s: %s\n", task.ID, task.Status, task.Title)
	return nil
}
