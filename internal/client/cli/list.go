package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/taskwire/taskwire/internal/client/session"
	"github.com/taskwire/taskwire/internal/models"
)

func RunList(ctx context.Context, args []string, sess *session.Manager) error {
	var statusFilter string
	if len(args) > 0 {
		statusFilter = strings.ToUpper(args[0])
		if !models.ValidStatus(statusFilter) {
			return fmt.Errorf("unknown status: %s. Use: TODO, IN_PROGRESS, or COMPLETED", args[0])
		}
	}

	tasks, err := sess.ListTasks(ctx)
	if err != nil {
		return err
	}

	if statusFilter != "" {
		filtered := tasks[:0]
		for _, t := range tasks {
			if t.Status == statusFilter {
				filtered = append(filtered, t)
			}
		}
		tasks = filtered
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks found.")
		fmt.Println()
		fmt.Println("Use 'taskwire add <title>' to create your first task.")
		return nil
	}

	fmt.Printf("Found %d task(s):\n", len(tasks))
	fmt.Println()

	for _, t := range tasks {
		fmt.Printf("%4d  [%s]  %s\n", t.ID, t.Status, t.Title)
	}
	fmt.Println()
	fmt.Println("Use 'taskwire get <id>' to view full details.")

	return nil
}
