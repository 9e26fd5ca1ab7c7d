package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/frahmantamala/campus-ops/internal/seed"
	"github.com/frahmantamala/campus-ops/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	clearData bool
	seedDemo  bool
	seedPath  string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with starter data",
	Long:  `Seed the admin account and base clubs from a YAML file. With --demo, also seed sample students, resources, events and bookings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		raw, err := os.ReadFile(seedPath)
		if err != nil {
			return fmt.Errorf("failed to read seed file: %w", err)
		}
		data, err := seed.Parse(raw)
		if err != nil {
			return err
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()
		gormDB, err := initGorm(db)
		if err != nil {
			return err
		}

		ctx := context.Background()
		seeder := seed.New(gormDB, seed.Options{
			Demo:       seedDemo,
			BCryptCost: cfg.Security.BCryptCost,
		}, logger.LoggerWrapper())

		if clearData {
			if err := seeder.Clear(ctx); err != nil {
				return fmt.Errorf("failed to clear data: %w", err)
			}
		}
		if err := seeder.Apply(ctx, data); err != nil {
			return fmt.Errorf("failed to seed: %w", err)
		}
		fmt.Println("seed complete")
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before seeding")
	seedCmd.Flags().BoolVar(&seedDemo, "demo", false, "Also seed demo students, resources, events and bookings")
	seedCmd.Flags().StringVarP(&seedPath, "file", "f", "db/seed/seed.yml", "seed data file")
}
