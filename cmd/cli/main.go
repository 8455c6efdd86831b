package main

import (
	"log"

	"github.com/absmach/fledger/cli"
	"github.com/absmach/fledger/pkg/sdk"
	"github.com/spf13/cobra"
)

const (
	defLedgerURL       = "http://localhost:7070"
	defTLSVerification = false
)

func main() {
	ledgerURL := defLedgerURL
	tlsVerification := defTLSVerification

	rootCmd := &cobra.Command{
		Use:   "fledger-cli",
		Short: "Fledger CLI",
		Long:  `Fledger CLI is a command line interface for interacting with the round ledger service.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			sdkConf := sdk.Config{
				LedgerURL:       ledgerURL,
				TLSVerification: tlsVerification,
			}
			s := sdk.NewSDK(sdkConf)
			cli.SetLedgerSDK(s)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&ledgerURL, "ledger-url", "l", defLedgerURL, "ledger service URL")
	rootCmd.PersistentFlags().BoolVarP(&tlsVerification, "tls-verification", "t", defTLSVerification, "verify TLS certificates")

	rootCmd.AddCommand(cli.NewSessionsCmd())
	rootCmd.AddCommand(cli.NewRecordsCmd())
	rootCmd.AddCommand(cli.NewReportsCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
