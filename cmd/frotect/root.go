package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "frotect",
		Short: "Frotect - server log monitoring dashboard",
		Long: `Frotect replays server log and network events into a terminal
dashboard with a live log terminal, a per-category bar chart, KPI cards
and a report analyzer. It can also serve the mock dashboard API.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("frotect {{.Version}}\n")
	root.PersistentFlags().String("config", "", "config file (default is $HOME/.config/frotect/config.yml)")

	root.AddCommand(newDashboardCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newReplayCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("Frotect - Server Log Dashboard\n")
			cmd.Printf("  Version:    %s\n", version)
			cmd.Printf("  Commit:     %s\n", commit)
			cmd.Printf("  Built:      %s\n", buildTime)
			cmd.Printf("  Go version: %s\n", goVersion)
		},
	}
}

// configFromCmd loads the layered config with cmd's flags bound on top.
func configFromCmd(cmd *cobra.Command) (appConfig, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return appConfig{}, err
	}
	return loadConfig(path, cmd.Flags())
}
