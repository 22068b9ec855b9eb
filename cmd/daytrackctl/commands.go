package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/daytrack/internal/db"
	"github.com/daytrack/internal/service"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const dateFormat = "2006-01-02"

func addReplay(topLevel *cobra.Command) {
	var date string
	var all bool

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Commit staged daily entry snapshots into the database",
		Example: `
daytrackctl replay --date 2024-05-01
daytrackctl replay --all
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if all == (date != "") {
				return errors.New("use exactly one of --date or --all")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, store, _, err := openStores()
			if err != nil {
				return err
			}
			entries := service.NewDailyEntryService(gdb, store)

			if all {
				committed, err := entries.ReplayPending()
				for _, day := range committed {
					cmd.Printf("committed %s\n", day)
				}
				if err != nil {
					return err
				}
				if len(committed) == 0 {
					cmd.Println("nothing to replay")
				}
				return nil
			}

			id, err := entries.Commit(date)
			if err != nil {
				return err
			}
			cmd.Printf("committed %s as entry %d\n", date, id)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "replay a single date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&all, "all", false, "replay every staged date that is not yet recorded")
	topLevel.AddCommand(cmd)
}

func addRecompute(topLevel *cobra.Command) {
	var date string

	cmd := &cobra.Command{
		Use:   "recompute",
		Short: "Recompute the work day aggregate from closed fragments",
		Example: `
daytrackctl recompute
daytrackctl recompute --date 2024-05-01
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, _, cfg, err := openStores()
			if err != nil {
				return err
			}

			day := db.NormalizeDay(time.Now().In(cfg.Timezone))
			if date != "" {
				parsed, err := time.Parse(dateFormat, date)
				if err != nil {
					return fmt.Errorf("invalid --date %q: %w", date, err)
				}
				day = db.NormalizeDay(parsed)
			}

			_, totals, err := service.NewWorkStatsService(gdb).Recompute(day)
			if err != nil {
				return err
			}
			cmd.Printf("%s worked=%d management=%d kaos=%d total=%d\n",
				day.Format(dateFormat), totals.WorkedMinutes, totals.ManagementMinutes, totals.KaosMinutes, totals.Total())
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "day to recompute (YYYY-MM-DD), defaults to today")
	topLevel.AddCommand(cmd)
}

func addSeed(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert demo counters and moods into an empty database",
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, _, _, err := openStores()
			if err != nil {
				return err
			}
			return seed(cmd, gdb)
		},
	}
	topLevel.AddCommand(cmd)
}

func seed(cmd *cobra.Command, gdb *gorm.DB) error {
	moods := service.NewMoodService(gdb)
	existingMoods, err := moods.List()
	if err != nil {
		return err
	}
	if len(existingMoods) == 0 {
		for _, item := range []struct{ emoji, name string }{
			{"😀", "focused"},
			{"😐", "neutral"},
			{"😫", "drained"},
		} {
			if _, err := moods.Create(item.emoji, item.name); err != nil {
				return err
			}
		}
		cmd.Println("seeded moods")
	}

	counters := service.NewCounterService(gdb)
	existingCounters, err := counters.List()
	if err != nil {
		return err
	}
	if len(existingCounters) == 0 {
		coffeeLimit, waterGoal := 3, 8
		for _, input := range []service.CounterInput{
			{Emoji: "☕", Name: "coffee", Threshold: &coffeeLimit},
			{Emoji: "💧", Name: "water", Threshold: &waterGoal, ExceedingIsGood: true},
			{Emoji: "📞", Name: "interruptions"},
		} {
			if _, err := counters.Create(input); err != nil {
				return err
			}
		}
		cmd.Println("seeded counters")
	}

	return nil
}

func addOwner(topLevel *cobra.Command) {
	var username, password string

	cmd := &cobra.Command{
		Use:   "owner",
		Short: "Create the owner account or reset its password",
		Example: `
daytrackctl owner --username me --password 's3cret'
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if username == "" || password == "" {
				return errors.New("--username and --password are required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, _, _, err := openStores()
			if err != nil {
				return err
			}
			if err := db.EnsureOwner(gdb, username, password); err != nil {
				return fmt.Errorf("ensure owner: %w", err)
			}
			cmd.Printf("owner %s is ready\n", username)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "owner user name")
	cmd.Flags().StringVar(&password, "password", "", "owner password")
	topLevel.AddCommand(cmd)
}
