// Package cli implements the agroplan command line interface.
package cli

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	jsonOutput bool
)

// rootCmd is the root command for agroplan.
var rootCmd = &cobra.Command{
	Use:     "agroplan",
	Version: "dev",
	Short:   "Mission planner for fixed-wing agricultural aircraft",
	Long: `agroplan plans spraying missions: it orders coverage swaths under the
aircraft's turning constraint, splits the route into fuel- and
payload-feasible trips, profiles altitude over permitted no-fly zones and
exports autopilot-ready waypoint files.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found (using environment variables)")
		}
	},
}

func SetVersion(v string) {
	if v == "" {
		return
	}
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(dbCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
