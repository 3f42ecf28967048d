package commands

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/mentorlabs/maestrobridge/internal/app"
	"github.com/mentorlabs/maestrobridge/internal/database"
)

// MigrateCommand returns the migrate command for managing the history schema.
func MigrateCommand() *cli.Command {
	return &cli.Command{
		Name:   "migrate",
		Usage:  "Manage the history database schema",
		Hidden: true,
		Subcommands: []*cli.Command{
			{
				Name:  "up",
				Usage: "Apply all pending migrations",
				Action: func(c *cli.Context) error {
					application, err := app.FromContext(c)
					if err != nil {
						return err
					}

					if err := database.InitDB(application.Config); err != nil {
						return fmt.Errorf("initializing database: %w", err)
					}

					version, err := database.RunMigrations()
					if err != nil {
						return err
					}

					fmt.Printf("Database schema is at version %d\n", version)
					return nil
				},
			},
			{
				Name:  "down",
				Usage: "Revert migrations",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "steps",
						Usage: "Number of migrations to revert",
						Value: 1,
					},
				},
				Action: func(c *cli.Context) error {
					application, err := app.FromContext(c)
					if err != nil {
						return err
					}

					if err := database.InitDB(application.Config); err != nil {
						return fmt.Errorf("initializing database: %w", err)
					}

					steps := c.Int("steps")
					if err := database.RevertMigrations(steps); err != nil {
						return err
					}

					fmt.Printf("Reverted %d migration(s)\n", steps)
					return nil
				},
			},
		},
	}
}
