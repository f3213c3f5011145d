package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weegaboo/agro-mvp/internal/adapters/repositories"
	"github.com/weegaboo/agro-mvp/internal/domain"
)

var planCmd = &cobra.Command{
	Use:   "plan <project>",
	Short: "Plan a mission for a stored project",
	Long: `Run the full planning pipeline for the named project: swath
sequencing, trip splitting and altitude profiling. Prints the resulting
route, trips and mission estimate.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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

		mission, err := mp.Plan(ctx, project)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(missionSummary(mission))
		}

		printMission(mission)
		return nil
	},
}

type missionSummaryOut struct {
	Project  string          `json:"project"`
	Swaths   int             `json:"swaths"`
	Trips    int             `json:"trips"`
	Estimate domain.Estimate `json:"estimate"`
	Warnings []string        `json:"warnings"`
}

func missionSummary(m *domain.Mission) missionSummaryOut {
	return missionSummaryOut{
		Project:  m.Project,
		Swaths:   len(m.Route),
		Trips:    len(m.Split.Trips),
		Estimate: m.Estimate,
		Warnings: m.Log.Warnings(),
	}
}

func printMission(m *domain.Mission) {
	PrintSuccess(fmt.Sprintf("mission planned for %q", m.Project))
	PrintLabelValue("swaths", fmt.Sprintf("%d", len(m.Route)))
	PrintLabelValue("trips", fmt.Sprintf("%d", len(m.Split.Trips)))
	for i, t := range m.Split.Trips {
		PrintLabelValue(
			fmt.Sprintf("trip %d", i+1),
			fmt.Sprintf("swaths %d..%d, transit %.0f m, fuel %.1f L, mix %.1f L",
				t.StartIdx+1, t.EndIdx+1, t.TransitLenM(), t.FuelUsedL, t.MixUsedL),
		)
	}
	e := m.Estimate
	PrintLabelValue("total length", fmt.Sprintf("%.1f km", e.LengthTotalM/1000))
	PrintLabelValue("total time", fmt.Sprintf("%.0f min", e.TimeTotalMin))
	PrintLabelValue("fuel", fmt.Sprintf("%.1f L", e.FuelL))
	PrintLabelValue("mix", fmt.Sprintf("%.1f L", e.MixL))
	PrintLabelValue("sprayed area", fmt.Sprintf("%.1f ha of %.1f ha", e.SprayedAreaHa, e.FieldAreaHa))
	for _, wmsg := range m.Log.Warnings() {
		PrintWarning(wmsg)
	}
}
