package cli

import (
	"github.com/absmach/fledger/pkg/sdk"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	defOffset   uint64 = 0
	defLimit    uint64 = 10
	interactive bool
)

var lsdk sdk.SDK

func SetLedgerSDK(s sdk.SDK) {
	lsdk = s
}

func NewSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions [create|view|list|delete]",
		Short: "Sessions management",
		Long:  `Create, view, list and delete recording sessions.`,
	}

	createCmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create session",
		Long: `Create a recording session. With --interactive the name is prompted
for; without a name one is generated.`,
		Run: func(cmd *cobra.Command, args []string) {
			var name string
			switch {
			case interactive:
				form := huh.NewForm(
					huh.NewGroup(
						huh.NewInput().
							Title("Session name").
							Description("Leave empty to generate one").
							Value(&name),
					),
				)
				if err := form.Run(); err != nil {
					logErrorCmd(*cmd, err)

					return
				}
			case len(args) == 1:
				name = args[0]
			case len(args) > 1:
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			s, err := lsdk.CreateSession(sdk.Session{Name: name})
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, s)
		},
	}
	createCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "prompt for session fields")

	viewCmd := &cobra.Command{
		Use:   "view <id>",
		Short: "View session",
		Long:  `View session.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			s, err := lsdk.GetSession(args[0])
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, s)
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions",
		Long:  `List sessions.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 0 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			page, err := lsdk.ListSessions(defOffset, defLimit)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, page)
		},
	}
	listCmd.Flags().Uint64Var(&defOffset, "offset", defOffset, "pagination offset")
	listCmd.Flags().Uint64Var(&defLimit, "limit", defLimit, "pagination limit")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete session",
		Long:  `Delete session and its ledger.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			if err := lsdk.DeleteSession(args[0]); err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logSuccessCmd(*cmd, "Session deleted")
		},
	}

	cmd.AddCommand(createCmd)
	cmd.AddCommand(viewCmd)
	cmd.AddCommand(listCmd)
	cmd.AddCommand(deleteCmd)

	return cmd
}
