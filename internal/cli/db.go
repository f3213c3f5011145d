package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weegaboo/agro-mvp/internal/adapters/repositories"
)

var dbSeedPath string

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database management",
}

var dbInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the database schema and optionally seed projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := openDB()
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := repositories.InitSchema(conn); err != nil {
			return err
		}
		PrintSuccess("schema ready")

		if dbSeedPath != "" {
			if err := repositories.SeedFromJSON(conn, dbSeedPath); err != nil {
				return err
			}
			PrintSuccess(fmt.Sprintf("seeded projects from %s", dbSeedPath))
		}
		return nil
	},
}

func init() {
	dbInitCmd.Flags().StringVar(&dbSeedPath, "seed", "", "JSON file with project documents to seed")
	dbCmd.AddCommand(dbInitCmd)
}
