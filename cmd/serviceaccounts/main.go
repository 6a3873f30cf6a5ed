package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/brittonthompson/serviceaccounts/internal/config"
	"github.com/brittonthompson/serviceaccounts/internal/export"
	"github.com/brittonthompson/serviceaccounts/internal/logging"
	"github.com/brittonthompson/serviceaccounts/internal/probe"
	"github.com/brittonthompson/serviceaccounts/internal/scan"
	"github.com/brittonthompson/serviceaccounts/internal/winquery"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "serviceaccounts",
	Short: "Service account inventory",
	Long:  `Inventories the accounts running Windows services and scheduled tasks across a set of hosts for credential-rotation planning.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("serviceaccounts %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", buildDate)
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan hosts for service accounts",
	Long:  `Enumerate services and scheduled tasks on each host and write the discovered service accounts to a CSV file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if hosts, _ := cmd.Flags().GetStringSlice("hosts"); len(hosts) > 0 {
			cfg.Hosts = hosts
		}
		if output, _ := cmd.Flags().GetString("output"); output != "" {
			cfg.OutputPath = output
		}
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			cfg.LogLevel = "debug"
		}

		return runScan(cfg)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringSliceP("hosts", "H", nil, "Hosts to scan (default: local host)")
	scanCmd.Flags().StringP("output", "o", "", "Output CSV path")
	scanCmd.Flags().BoolP("verbose", "v", false, "Verbose logging")

	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runScan(cfg *config.Config) error {
	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer logger.Sync()

	hosts := make([]scan.HostTarget, 0, len(cfg.Hosts))
	for _, name := range cfg.Hosts {
		hosts = append(hosts, scan.NewHostTarget(name))
	}
	if len(hosts) == 0 {
		hosts = append(hosts, scan.NewHostTarget(""))
	}

	orchestrator := scan.NewOrchestrator(
		probe.New(cfg.ProbeTimeout, logger),
		winquery.VersionQuery{},
		scan.NewServiceSource(winquery.ServiceQuery{}, logger),
		scan.NewTaskSource(winquery.TaskQuery{}, scan.ExclusionSet(cfg.Exclusions), logger),
		logger,
	)

	statuses := orchestrator.Run(hosts)
	for _, st := range statuses {
		if !st.Reachable {
			fmt.Printf("%s: unreachable, skipped\n", st.Host)
			continue
		}
		fmt.Printf("%s: %d service account(s), %d task account(s)\n", st.Host, st.Services, st.Tasks)
		for _, warn := range st.Warnings {
			fmt.Printf("  warning: %s\n", warn)
		}
	}

	records := orchestrator.Results()
	if err := export.WriteCSV(cfg.OutputPath, records); err != nil {
		// Collected results stay usable even when the write fails.
		logger.Warn("failed to write results", zap.Error(err))
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		return nil
	}

	fmt.Printf("wrote %d record(s) to %s\n", len(records), cfg.OutputPath)
	if hostnames := summarizeHosts(statuses); hostnames != "" {
		logger.Info("scan complete", zap.String("hosts", hostnames), zap.Int("records", len(records)))
	}
	return nil
}

func summarizeHosts(statuses []scan.HostStatus) string {
	names := make([]string, 0, len(statuses))
	for _, st := range statuses {
		names = append(names, st.Host)
	}
	return strings.Join(names, ",")
}
