package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jparkin/mnemo/internal/engine"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Wipe all study data (cards, history, sessions)",
	RunE:  runReset,
}

func init() {
	resetCmd.Flags().String("db", "", "path to the SQLite database")
	resetCmd.Flags().Bool("yes", false, "skip the confirmation prompt")
}

func runReset(cmd *cobra.Command, args []string) error {
	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		return fmt.Errorf("refusing to wipe data without --yes")
	}

	db, err := openStore(cmd)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := engine.New(db).ResetAll(); err != nil {
		return err
	}
	fmt.Println("all study data reset")
	return nil
}
