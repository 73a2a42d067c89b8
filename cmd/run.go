package cmd

import (
	"fmt"
	"strings"

	"github.com/brownplt/BlockLang-sub000/parser"
	"github.com/brownplt/BlockLang-sub000/ray"
	"github.com/brownplt/BlockLang-sub000/ray/raymetrics"
	"github.com/brownplt/BlockLang-sub000/repl"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var (
	runExpression bool
	runPrint      bool
	runMetrics    bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [flags] FILE...",
	Short: "Run ray code",
	Long:  `Run ray code supplied via the command line or a file.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var config []ray.Config
		reg := prometheus.NewRegistry()
		if runMetrics {
			config = append(config, ray.WithObserver(raymetrics.New(reg)))
		}
		in, logger, err := newInterpreter(cmd, config...)
		if err != nil {
			return err
		}
		defer logger.Sync()

		restore := repl.StopOnInterrupt(in, logger)
		defer restore()

		var printValue func(*parser.Statement, ray.Value)
		if runPrint {
			printValue = func(stmt *parser.Statement, v ray.Value) {
				if !stmt.IsDefinition() {
					fmt.Fprintln(cmd.OutOrStdout(), ray.Display(v))
				}
			}
		}
		for i, arg := range args {
			if runExpression {
				name := fmt.Sprintf("expr%d", i+1)
				err = parser.Load(in, name, strings.NewReader(arg), printValue)
			} else {
				err = loadFile(in, arg, printValue)
			}
			if err != nil {
				break
			}
		}
		if runMetrics {
			merr := raymetrics.WriteText(cmd.ErrOrStderr(), reg)
			if err == nil {
				err = merr
			}
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	// Here flags for the run command are defined
	runCmd.Flags().BoolVarP(&runExpression, "expression", "e", false,
		"Interpret arguments as ray expressions")
	runCmd.Flags().BoolVarP(&runPrint, "print", "p", false,
		"Print expression values to stdout")
	runCmd.Flags().BoolVar(&runMetrics, "metrics", false,
		"Write interpreter metrics to stderr when finished")
}
