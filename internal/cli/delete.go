package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewDeleteCmd creates a Cobra "delete" command that removes a single cache
// entry. Deleting a key that does not exist is not an error.
func NewDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "Delete a cache entry",
		Args:  cobra.ExactArgs(1),
		Example: `  # Delete one entry
  memocache delete api:user:42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeleteCmd(cmd, args[0])
		},
	}
}

func runDeleteCmd(cmd *cobra.Command, key string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	before, err := store.Size(ctx)
	if err != nil {
		return fmt.Errorf("failed to read cache size: %w", err)
	}

	if err := store.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}

	after, err := store.Size(ctx)
	if err != nil {
		return fmt.Errorf("failed to read cache size: %w", err)
	}

	if after < before {
		cmd.Printf("Deleted cache entry %q.\n", key)
	} else {
		cmd.Printf("No cache entry for %q, nothing to delete.\n", key)
	}
	return nil
}
