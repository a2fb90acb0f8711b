package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jparkin/mnemo/internal/engine"
	"github.com/jparkin/mnemo/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the study dashboard",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().String("db", "", "path to the SQLite database")
}

func openStore(cmd *cobra.Command) (*store.DB, error) {
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve db path: %w", err)
		}
	}
	return store.Open(dbPath)
}

func runStats(cmd *cobra.Command, args []string) error {
	db, err := openStore(cmd)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	eng := engine.New(db)
	st, err := eng.Stats()
	if err != nil {
		return err
	}

	fmt.Printf("cards:          %d (%d mastered)\n", st.TotalCards, st.MasteredCards)
	fmt.Printf("due today:      %d\n", st.CardsDueToday)
	fmt.Printf("reviewed today: %d\n", st.CardsReviewedToday)
	fmt.Printf("streak:         %d day(s), longest %d\n", st.CurrentStreak, st.LongestStreak)
	if st.LastStudyDate != nil {
		fmt.Printf("last studied:   %s\n", st.LastStudyDate.Format("2006-01-02"))
	} else {
		fmt.Fprintln(os.Stdout, "last studied:   never")
	}
	return nil
}
