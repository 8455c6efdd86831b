package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// Short channel names accepted on the command line, mapped to the
// channels the service knows.
var (
	lossChannels = map[string]string{
		"distributed": "loss/distributed",
		"centralized": "loss/centralized",
	}
	metricsChannels = map[string]string{
		"fit":         "metrics/fit",
		"eval":        "metrics/eval",
		"centralized": "metrics/centralized",
	}
)

func NewRecordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record [loss|metrics]",
		Short: "Record round results",
		Long:  `Append loss values and metric maps to a session ledger.`,
	}

	lossCmd := &cobra.Command{
		Use:   "loss <session_id> <channel> <round> <loss>",
		Short: "Record loss",
		Long:  `Record a loss value for a round. Channel is "distributed" or "centralized".`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 4 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			channel, ok := lossChannels[args[1]]
			if !ok {
				logErrorCmd(*cmd, fmt.Errorf("unknown loss channel %q", args[1]))

				return
			}
			round, err := strconv.Atoi(args[2])
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			loss, err := strconv.ParseFloat(args[3], 64)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}

			if err := lsdk.RecordLoss(args[0], channel, round, loss); err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logSuccessCmd(*cmd, "Loss recorded")
		},
	}

	metricsCmd := &cobra.Command{
		Use:   "metrics <session_id> <channel> <round> <metrics_json>",
		Short: "Record metrics",
		Long: `Record a metrics map for a round. Channel is "fit", "eval" or
"centralized". Metrics are passed as a JSON object, e.g. '{"accuracy": 0.91}'.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 4 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			channel, ok := metricsChannels[args[1]]
			if !ok {
				logErrorCmd(*cmd, fmt.Errorf("unknown metrics channel %q", args[1]))

				return
			}
			round, err := strconv.Atoi(args[2])
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			var metrics map[string]any
			if err := json.Unmarshal([]byte(args[3]), &metrics); err != nil {
				logErrorCmd(*cmd, err)

				return
			}

			if err := lsdk.RecordMetrics(args[0], channel, round, metrics); err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logSuccessCmd(*cmd, "Metrics recorded")
		},
	}

	cmd.AddCommand(lossCmd)
	cmd.AddCommand(metricsCmd)

	return cmd
}
