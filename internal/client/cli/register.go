package cli

import (
	"context"
	"fmt"

	"github.com/taskwire/taskwire/internal/client/session"
)

func RunRegister(ctx context.Context, sess *session.Manager) error {
	fmt.Println("=== Registration ===")
	fmt.Println()

	username, err := readInput("Username: ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}

	email, err := readInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	password, err := readPassword("Password (min 6 chars): ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	confirmPassword, err := readPassword("Confirm password: ")
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}

	if password != confirmPassword {
		return fmt.Errorf("passwords do not match")
	}

	fmt.Println()
	fmt.Println("Registering user...")

	resp, err := sess.Register(ctx, username, email, password)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("✓ Registration successful!")
	fmt.Printf("User ID:  %d\n", resp.User.ID)
	fmt.Printf("Username: %s\n", resp.User.Username)
	fmt.Printf("Email:    %s\n", resp.User.Email)
	fmt.Println()
	fmt.Println("You are now logged in.")

	return nil
}
