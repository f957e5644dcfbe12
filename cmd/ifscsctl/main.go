// Command ifscsctl loads a set-constraint system from a YAML file,
// solves it, and reports least-solution results or a debug dump of
// the underlying inductive-form graph.
package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	log     = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "ifscsctl",
	Short: "Solve inductive-form set-constraint systems",
	Long:  "ifscsctl loads a set-constraint system from a YAML file, solves it, and reports least-solution results.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(graphCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Fatal("ifscsctl failed")
	}
}
