package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"gitlab.com/dirk.krummacker/contact-requests-service/internal/client"
	"gitlab.com/dirk.krummacker/contact-requests-service/internal/report"
	apimodel "gitlab.com/dirk.krummacker/contact-requests-service/pkg/model"
)

// Usage examples on the command line:
// > go run ./cmd/client submit
// > go run ./cmd/client list --status new --limit 10
// > go run ./cmd/client stats --url https://api.qava.ai
// > go run ./cmd/client bench --sizes 100,500,1000
//
// The benchmark needs a service started with RATE_LIMIT_RPS=0, otherwise the submissions are
// rejected after the burst.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var baseURL string
	var timeout time.Duration
	root := &cobra.Command{
		Use:   "client",
		Short: "Talk to a running contact requests service",
		Long: `Send the sample contact request, read contact requests and statistics back, or
measure the latency of the endpoints.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "base URL of the service")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "timeout of a single request")

	newClient := func() *client.Client {
		return client.New(baseURL, nil)
	}
	withTimeout := func(cmd *cobra.Command) (context.Context, context.CancelFunc) {
		return context.WithTimeout(cmd.Context(), timeout)
	}

	submit := &cobra.Command{
		Use:   "submit",
		Short: "Submit the sample contact record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd)
			defer cancel()
			created, err := newClient().Submit(ctx, report.SampleContactRecord())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), created)
		},
	}

	var query client.ListQuery
	var status, companySize, country string
	list := &cobra.Command{
		Use:   "list",
		Short: "List contact requests, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			query.Status = apimodel.Status(status)
			query.CompanySize = apimodel.CompanySize(companySize)
			query.Country = apimodel.Country(country)
			ctx, cancel := withTimeout(cmd)
			defer cancel()
			contactRequests, err := newClient().List(ctx, query)
			if err != nil {
				return err
			}
			for _, contactRequest := range contactRequests {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-11s  %s\n", contactRequest.Id, contactRequest.Status, contactRequest)
			}
			return nil
		},
	}
	list.Flags().StringVar(&status, "status", "", "only contact requests with this status")
	list.Flags().StringVar(&companySize, "company-size", "", "only contact requests with this company size")
	list.Flags().StringVar(&country, "country", "", "only contact requests from this country")
	list.Flags().StringVar(&query.Source, "source", "", "only contact requests from this source")
	list.Flags().StringVar(&query.Search, "search", "", "text to look for in names, email, company and additional info")
	list.Flags().IntVar(&query.Limit, "limit", 0, "maximum number of contact requests")
	list.Flags().IntVar(&query.Offset, "offset", 0, "number of contact requests to skip")

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Print the number of contact requests per status, company size and country",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd)
			defer cancel()
			result, err := newClient().Stats(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	var sizes []int
	bench := &cobra.Command{
		Use:   "bench",
		Short: "Measure the average latency of POST, GET list and GET stats in microseconds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBenchmark(cmd.Context(), cmd.OutOrStdout(), newClient(), sizes)
		},
	}
	bench.Flags().IntSliceVar(&sizes, "sizes", []int{100, 500, 1000, 5000}, "number of requests per row")

	root.AddCommand(submit, list, stats, bench)
	return root
}

// runBenchmark sends loops requests to each endpoint for every size and prints the average
// duration per request.
func runBenchmark(ctx context.Context, out io.Writer, c *client.Client, sizes []int) error {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  Elements      POST       GET     STATS ")
	fmt.Fprintln(out, "-----------------------------------------")
	sample := report.SampleContactRecord()
	sample.Source = "bench"
	calls := []func() error{
		func() error {
			_, err := c.Submit(ctx, sample)
			return err
		},
		func() error {
			_, err := c.List(ctx, client.ListQuery{Source: "bench", Limit: 50})
			return err
		},
		func() error {
			_, err := c.Stats(ctx)
			return err
		},
	}
	for _, loops := range sizes {
		if loops <= 0 {
			return fmt.Errorf("invalid size %d", loops)
		}
		fmt.Fprintf(out, "%10d", loops)
		for _, call := range calls {
			average, err := callInLoop(loops, call)
			if err != nil {
				fmt.Fprintln(out)
				return err
			}
			fmt.Fprintf(out, "%10d", average.Microseconds())
		}
		fmt.Fprintln(out)
	}
	return nil
}

// callInLoop calls f loops times and returns the average duration of a call.
func callInLoop(loops int, f func() error) (time.Duration, error) {
	var duration time.Duration
	for i := 0; i < loops; i++ {
		before := time.Now()
		if err := f(); err != nil {
			return 0, err
		}
		duration += time.Since(before)
	}
	return duration / time.Duration(loops), nil
}

func printJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
