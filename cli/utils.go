package cli

import (
	"fmt"

	"github.com/fatih/color"
	prettyjson "github.com/hokaccha/go-prettyjson"
	"github.com/spf13/cobra"
)

var (
	errColor     = color.New(color.FgRed, color.Bold)
	successColor = color.New(color.FgGreen)
	usageColor   = color.New(color.FgYellow)
)

func logJSONCmd(cmd cobra.Command, iList ...interface{}) {
	for _, i := range iList {
		out, err := prettyjson.Marshal(i)
		if err != nil {
			logErrorCmd(cmd, err)

			return
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
	}
}

func logErrorCmd(cmd cobra.Command, err error) {
	fmt.Fprintln(cmd.ErrOrStderr(), errColor.Sprintf("error: %s", err))
}

func logSuccessCmd(cmd cobra.Command, msg string) {
	fmt.Fprintln(cmd.OutOrStdout(), successColor.Sprint(msg))
}

func logUsageCmd(cmd cobra.Command, u string) {
	fmt.Fprintln(cmd.OutOrStdout(), usageColor.Sprintf("usage: %s", u))
}
