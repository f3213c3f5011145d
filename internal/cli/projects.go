package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weegaboo/agro-mvp/internal/adapters/repositories"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List stored mission projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := openDB()
		if err != nil {
			return err
		}
		defer conn.Close()

		repo := repositories.NewSqliteProjectRepository(conn)
		names, err := repo.ListProjects(context.Background())
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(names)
		}

		if len(names) == 0 {
			PrintInfo("No projects found")
			return nil
		}
		PrintInfo("Stored projects:")
		for _, n := range names {
			PrintInfo(fmt.Sprintf("  %s", n))
		}
		return nil
	},
}
