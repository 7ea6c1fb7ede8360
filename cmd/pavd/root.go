package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var rootCmd = &cobra.Command{
	Use:   "pavd <subcommand>",
	Short: "computes proportional approval voting committees",
	Long: `computes winning committees under proportional approval voting,
either for a ballots file or served over the redis protocol`,
	Run: nil,
}

func init() {
	cobra.OnInitialize()
	addElectionFlags(rootCmd.PersistentFlags())
}

func addElectionFlags(flags *pflag.FlagSet) {
	flags.StringP("config-file", "c", "", "Path to the config file (eg ./config.yaml) [Optional]")
	flags.Int("committee-size", 1, "Number of seats in the committee")
	flags.String("apportionment-method", "d_hondt",
		"One of d_hondt, sainte_lague, sainte_lague_1_2, sainte_lague_1_4")
	flags.String("eligible-candidates", "", "Comma separated candidates to restrict to [Optional]")
	flags.Int("workers", 0, "Number of scoring goroutines, 0 means one per CPU")
	flags.Duration("compute-timeout", 0, "Abort computations taking longer than this, 0 disables")
	flags.Bool("profiling", false, "Write a CPU profile to the working directory")
	flags.String("log-level", "info", "One of panic, fatal, error, warn, info, debug, trace")
}
