package cli

import (
	"context"
	"fmt"

	"github.com/taskwire/taskwire/internal/client/session"
)

func RunLogin(ctx context.Context, sess *session.Manager) error {
	fmt.Println("=== Login ===")
	fmt.Println()

	email, err := readInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	password, err := readPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	fmt.Println()
	fmt.Println("Logging in...")

	resp, err := sess.Login(ctx, email, password)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("✓ Login successful!")
	fmt.Printf("Logged in as %s (%s)\n", resp.User.Username, resp.User.Email)

	return nil
}
