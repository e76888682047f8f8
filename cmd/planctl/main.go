package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"trip-planner-service/internal/adapters/repositories"
)

// planctl is the ops companion to the server: schema init, place
// seeding, and saved-plan housekeeping against the same SQLite file.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	var dbPath string

	root := &cobra.Command{
		Use:          "planctl",
		Short:        "Trip planner database and plan administration",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&dbPath, "db", envOr("DB_PATH", "data/app.db"), "path to the SQLite database")

	root.AddCommand(
		initCmd(&dbPath),
		seedCmd(&dbPath),
		plansCmd(&dbPath),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func openDB(dbPath string) (*sql.DB, error) {
	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database %q: %w", dbPath, err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("verify sqlite connection to %q: %w", dbPath, err)
	}
	return sqlDB, nil
}

func initCmd(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sqlDB, err := openDB(*dbPath)
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			if err := repositories.InitSchema(sqlDB); err != nil {
				return err
			}
			cmd.Println("schema ready")
			return nil
		},
	}
}

func seedCmd(dbPath *string) *cobra.Command {
	var seedPath string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load suggested places from a JSON file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sqlDB, err := openDB(*dbPath)
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			if err := repositories.InitSchema(sqlDB); err != nil {
				return err
			}
			if err := repositories.SeedFromJSON(sqlDB, seedPath); err != nil {
				return err
			}
			cmd.Printf("seeded from %s\n", seedPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&seedPath, "file", envOr("SEED_PATH", "data/seeds/places.json"), "seed JSON file")
	return cmd
}

func plansCmd(dbPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "Inspect and delete saved plans",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved plans",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sqlDB, err := openDB(*dbPath)
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			repo := repositories.NewSqlitePlanRepository(sqlDB)
			plans, err := repo.List(context.Background())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDESTINATION\tDAYS\tCREATED")
			for _, p := range plans {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n",
					p.ID, p.Destination, len(p.Days), p.CreatedAt.Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <plan-id>",
		Short: "Delete a saved plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sqlDB, err := openDB(*dbPath)
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			repo := repositories.NewSqlitePlanRepository(sqlDB)
			if err := repo.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			cmd.Printf("deleted %s\n", args[0])
			return nil
		},
	})

	return cmd
}
