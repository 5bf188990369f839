package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gitlab.com/dirk.krummacker/contact-requests-service/internal/config"
	"gitlab.com/dirk.krummacker/contact-requests-service/internal/report"
)

// Usage examples on the command line:
// > go run ./cmd/report
// > API_BASE_URL=http://localhost:8080 go run ./cmd/report
// > go run ./cmd/report --api-url http://localhost:8080 --demo-url http://localhost:3000/demo
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command that prints the manual test guide for the contact requests API.
func newRootCmd() *cobra.Command {
	var configFile, apiURL, demoURL string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the manual test guide for the contact requests API",
		Long: `Print a self-contained guide for exercising the contact requests endpoint by hand:
the sample record, the expected answer, ready to paste curl commands and a
deployment checklist. Nothing is sent, the output only depends on the URLs.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return err
			}
			opts := report.DefaultOptions()
			opts.APIBaseURL = cfg.Report.APIBaseURL
			opts.DemoURL = cfg.Report.DemoURL
			if cmd.Flags().Changed("api-url") {
				opts.APIBaseURL = apiURL
			}
			if cmd.Flags().Changed("demo-url") {
				opts.DemoURL = demoURL
			}
			if err := report.Write(cmd.OutOrStdout(), opts); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&configFile, "config", os.Getenv("CONFIG_FILE"), "optional YAML configuration file")
	cmd.Flags().StringVar(&apiURL, "api-url", "", "base URL of the API, overrides API_BASE_URL")
	cmd.Flags().StringVar(&demoURL, "demo-url", "", "URL of the demo page, overrides DEMO_URL")
	return cmd
}
