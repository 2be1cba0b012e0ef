package cli

import (
	"context"
	"fmt"

	"github.com/taskwire/taskwire/internal/client/session"
)

func RunLogout(ctx context.Context, sess *session.Manager) error {
	if err := sess.Logout(ctx); err != nil {
		// Local session is already cleared at this point, so only warn.
		fmt.Printf("Warning: server logout failed: %v\n", err)
	}

	fmt.Println("✓ Logged out.")
	return nil
}
