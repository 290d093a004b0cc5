package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewClearCmd creates a Cobra "clear" command that removes every cache entry.
// Without --force it asks for confirmation on interactive terminals and
// refuses to run on non-interactive ones.
func NewClearCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all cache entries",
		Example: `  # Clear the cache after confirming
  memocache clear

  # Clear without prompting
  memocache clear --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runClearCmd(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt")

	return cmd
}

func runClearCmd(cmd *cobra.Command, force bool) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	count, err := store.Size(ctx)
	if err != nil {
		return fmt.Errorf("failed to read cache size: %w", err)
	}

	if count == 0 {
		cmd.Println("Cache is already empty.")
		return nil
	}

	if !force {
		message := fmt.Sprintf("Remove all %d cache entries from %s?", count, store.Directory())
		result := ConfirmDestructive(cmd.OutOrStdout(), cmd.InOrStdin(), message)
		if !result.Accepted {
			cmd.Println("Aborted. Use --force to clear without confirmation.")
			return nil
		}
	}

	if err := store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	cmd.Printf("Removed %d cache entries.\n", count)
	return nil
}
