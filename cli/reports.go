package cli

import (
	"github.com/spf13/cobra"
)

func NewReportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [text|json]",
		Short: "Session reports",
		Long:  `Render the accumulated ledger of a session.`,
	}

	textCmd := &cobra.Command{
		Use:   "text <session_id>",
		Short: "Text report",
		Long:  `Print the session ledger as a human readable report.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			report, err := lsdk.TextReport(args[0])
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			cmd.Println(report)
		},
	}

	jsonCmd := &cobra.Command{
		Use:   "json <session_id>",
		Short: "Structured report",
		Long:  `Print the session ledger as a structured JSON report.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			report, err := lsdk.StructuredReport(args[0])
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, report)
		},
	}

	cmd.AddCommand(textCmd)
	cmd.AddCommand(jsonCmd)

	return cmd
}
