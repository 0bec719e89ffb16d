package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/yukikurage/okr-dashboard/internal/client"
	"github.com/yukikurage/okr-dashboard/internal/report"
)

func (a *app) dashboardCmd() *cobra.Command {
	var pdfPath string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show user, task and deadline statistics (administrators only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := a.session.Client.Dashboard(cmd.Context())
			if err != nil {
				return err
			}

			if pdfPath == "" {
				renderDashboard(cmd.OutOrStdout(), stats)
				return nil
			}

			err = writePDF(pdfPath, func(f *os.File) error {
				return report.Dashboard(f, stats, time.Now())
			})
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Wrote %s", pdfPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&pdfPath, "pdf", "", "write the dashboard to this PDF file")
	return guarded(client.RouteDashboard, cmd)
}
