package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/weegaboo/agro-mvp/internal/adapters/repositories"
	"github.com/weegaboo/agro-mvp/internal/services"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export <project>",
	Short: "Export a planned mission to waypoint or overlay files",
	Long: `Plan the named project and write the result to disk: one QGC WPL 110
waypoint file per trip (--format wpl) or a single KML overlay
(--format kml).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToLower(exportFormat)
		if format != "wpl" && format != "kml" {
			return fmt.Errorf("unknown format %q (want wpl or kml)", exportFormat)
		}

		conn, err := openDB()
		if err != nil {
			return err
		}
		defer conn.Close()

		tc, pg, err := newTransitCache(conn)
		if err != nil {
			return err
		}
		if pg != nil {
			defer pg.Close()
		}

		mp, err := newMissionPlanner(tc)
		if err != nil {
			return err
		}

		ctx := context.Background()
		repo := repositories.NewSqliteProjectRepository(conn)
		project, err := repo.GetProject(ctx, args[0])
		if err != nil {
			return err
		}

		plan, proj, err := services.BuildFieldPlan(project, mp.Opts.NFZBufferM)
		if err != nil {
			return err
		}

		mission, err := mp.Plan(ctx, project)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(exportOut, 0o755); err != nil {
			return fmt.Errorf("create output dir %q: %w", exportOut, err)
		}

		overfly := mp.Opts.Overfly
		overfly.BaseAltM = mp.Opts.Transit.CruiseAltAGL

		switch format {
		case "wpl":
			exportOpts := services.DefaultExportOptions()
			exportOpts.CruiseAltAGL = mp.Opts.Transit.CruiseAltAGL
			exportOpts.Takeoff = mp.Opts.Transit.Takeoff
			exportOpts.Landing = mp.Opts.Transit.Landing

			files, err := services.ExportMissionWPL(proj, plan, mission, overfly, exportOpts)
			if err != nil {
				return err
			}
			for i, text := range files {
				name := filepath.Join(exportOut, fmt.Sprintf("%s_trip%02d.waypoints", project.Name, i+1))
				if err := os.WriteFile(name, []byte(text), 0o644); err != nil {
					return fmt.Errorf("write %q: %w", name, err)
				}
				PrintSuccess(fmt.Sprintf("wrote %s", name))
			}

		case "kml":
			name := filepath.Join(exportOut, project.Name+".kml")
			f, err := os.Create(name)
			if err != nil {
				return fmt.Errorf("create %q: %w", name, err)
			}
			if err := services.WriteMissionKML(f, plan, mission, proj, overfly); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %q: %w", name, err)
			}
			PrintSuccess(fmt.Sprintf("wrote %s", name))
		}

		for _, wmsg := range mission.Log.Warnings() {
			PrintWarning(wmsg)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "wpl", "Output format: wpl or kml")
	exportCmd.Flags().StringVar(&exportOut, "out", "out", "Output directory")
}
