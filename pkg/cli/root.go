// Package cli implements the issuegate command-line client.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var (
		host  string
		token string
	)

	rootCmd := &cobra.Command{
		Use:           "issuegate",
		Short:         "Issuegate CLI",
		Long:          "Command-line client for the issuegate issue visibility API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			// Precedence: flag > env > default.
			if !cmd.Flags().Changed("host") {
				if v := os.Getenv("ISSUEGATE_HOST"); v != "" {
					host = v
				}
			}
			if !cmd.Flags().Changed("token") {
				if v := os.Getenv("ISSUEGATE_TOKEN"); v != "" {
					token = v
				}
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&host, "host", "http://localhost:8080", "API host")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "JWT bearer token")

	client := func() *Client { return NewClient(host, token) }

	rootCmd.AddCommand(
		newWhoamiCmd(client),
		newTokenCmd(),
		newIssuesCmd(client),
		newPrincipalsCmd(client),
	)
	return rootCmd
}
