package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/term"
)

func PrintUsage() {
	fmt.Println("Taskwire Client")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  taskwire [OPTIONS] COMMAND")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version      Show version information")
	fmt.Println("  --server URL   Server URL (default: http://localhost:8080)")
	fmt.Println("  --db PATH      Path to local database (default: taskwire-client.db)")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  register                Register new user")
	fmt.Println("  login                   Login to server")
	fmt.Println("  logout                  Logout from server")
	fmt.Println("  status                  Show authentication status")
	fmt.Println("  add <title>             Create a new task")
	fmt.Println("  list [status]           List tasks, optionally filtered by status")
	fmt.Println("  get <id>                Show task details")
	fmt.Println("  update <id>             Update a task interactively")
	fmt.Println("  done <id>               Mark a task as completed")
	fmt.Println("  delete <id>             Delete a task")
	fmt.Println()
	fmt.Println("Task statuses: TODO, IN_PROGRESS, COMPLETED")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  taskwire register")
	fmt.Println("  taskwire login")
	fmt.Println("  taskwire add \"Write release notes\"")
	fmt.Println("  taskwire list IN_PROGRESS")
	fmt.Println("  taskwire done 42")
	fmt.Println("  taskwire --server https://example.com login")
}

// readInput reads a line from stdin
func readInput(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// readPassword reads a password without echoing it
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(passwordBytes), nil
}

// parseID parses a numeric task id from a command argument
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id: %s", arg)
	}
	return id, nil
}
