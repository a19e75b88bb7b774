package main

import (
	"fmt"
	"io"

	"github.com/hoanghai1803/llmchecker/internal/checker"
	"github.com/hoanghai1803/llmchecker/internal/discovery"
	"github.com/hoanghai1803/llmchecker/internal/models"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run one discovery cycle and print the activity log.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		provider, err := discovery.New(cfg)
		if err != nil {
			return fmt.Errorf("creating discovery provider: %w", err)
		}

		chk := checker.New(provider, checker.NewLogSink(), checker.Options{
			ValidateDelay: cfg.ValidateDelay(),
		})
		chk.LogStartup(version)

		res := chk.RunCycle(cmd.Context())

		out := cmd.OutOrStdout()
		for _, ev := range chk.Sink().Events() {
			printEvent(out, ev)
		}
		fmt.Fprintln(out)
		printStats(out, chk.Stats())

		return res.Err
	},
}

func printEvent(w io.Writer, ev models.LogEvent) {
	fmt.Fprintf(w, "%s %-7s [%s] %s\n",
		ev.Timestamp.Local().Format("15:04:05"), ev.Level, ev.Module, ev.Message)
}

func printStats(w io.Writer, s models.Stats) {
	fmt.Fprintf(w, "Status:       %s\n", s.Status)
	fmt.Fprintf(w, "Total models: %d\n", s.TotalModels)
	fmt.Fprintf(w, "DB size:      %s\n", s.DBSize)
	fmt.Fprintf(w, "API requests: %d\n", s.APIRequests)
	fmt.Fprintf(w, "Last check:   %s\n", s.LastCheck.Local().Format("2006-01-02 15:04:05"))
}
