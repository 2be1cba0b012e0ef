package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/taskwire/taskwire/internal/client/session"
)

func RunStatus(ctx context.Context, sess *session.Manager) error {
	fmt.Println("=== Authentication Status ===")
	fmt.Println()

	auth, err := sess.Check(ctx)
	if errors.Is(err, session.ErrNotAuthenticated) || errors.Is(err, session.ErrSessionExpired) {
		fmt.Println("Status: Not authenticated")
		fmt.Println()
		fmt.Println("Run 'taskwire login' to authenticate.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check session: %w", err)
	}

	expiresAt := time.Unix(auth.ExpiresAt, 0)
	remaining := time.Until(expiresAt)

	fmt.Println("Status: Authenticated")
	fmt.Printf("Username: %s\n", auth.Username)
	fmt.Printf("Email:    %s\n", auth.Email)
	fmt.Printf("Access token expires: %s\n", expiresAt.Format(time.RFC3339))
	if remaining > 0 {
		fmt.Printf("Time remaining: %s\n", remaining.Round(time.Second))
	}

	return nil
}
