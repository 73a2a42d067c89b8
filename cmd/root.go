package cmd

import (
	"fmt"
	"os"

	"github.com/brownplt/BlockLang-sub000/internal/rayconfig"
	"github.com/brownplt/BlockLang-sub000/parser"
	"github.com/brownplt/BlockLang-sub000/ray"
	"github.com/brownplt/BlockLang-sub000/ray/raylib"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	rootConfigFile string
	rootLogLevel   string
	rootCallLimit  int
	rootMaxStack   int
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ray",
	Short: "Run programs written in the ray language",
	Long: `Ray is a small functional language with keyword arguments, rest
parameters and a guard against runaway recursion.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.  This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rootConfigFile, "config", "",
		"Read interpreter settings from a YAML file")
	flags.StringVar(&rootLogLevel, "log-level", "",
		"Log level (debug, info, warn, error)")
	flags.IntVar(&rootCallLimit, "call-limit", 0,
		"Consecutive calls to one function allowed before evaluation stops")
	flags.IntVar(&rootMaxStack, "max-stack", 0,
		"Maximum call stack height")
}

// loadSettings reads the settings file, if any, and applies flag overrides.
func loadSettings(cmd *cobra.Command) (*rayconfig.Settings, error) {
	s := rayconfig.Default()
	if rootConfigFile != "" {
		var err error
		s, err = rayconfig.Load(rootConfigFile)
		if err != nil {
			return nil, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		s.LogLevel = rootLogLevel
	}
	if flags.Changed("call-limit") {
		s.FunctionCallLimit = rootCallLimit
	}
	if flags.Changed("max-stack") {
		s.MaxStackHeight = rootMaxStack
	}
	err := s.Validate()
	if err != nil {
		return nil, err
	}
	return s, nil
}

// newInterpreter returns an interpreter configured by the command line with
// the standard library and any preloaded files.
func newInterpreter(cmd *cobra.Command, config ...ray.Config) (*ray.Interpreter, *zap.Logger, error) {
	s, err := loadSettings(cmd)
	if err != nil {
		return nil, nil, err
	}
	logger, err := s.Logger()
	if err != nil {
		return nil, nil, err
	}
	config = append(s.Options(), config...)
	config = append(config, ray.WithLogger(logger), ray.WithStderr(cmd.ErrOrStderr()))
	in, err := raylib.New(config...)
	if err != nil {
		return nil, nil, err
	}
	for _, path := range s.Preload {
		err := loadFile(in, path, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("preload: %w", err)
		}
		logger.Debug("preloaded file", zap.String("path", path))
	}
	return in, logger, nil
}

func loadFile(in *ray.Interpreter, path string, fn func(*parser.Statement, ray.Value)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return parser.Load(in, path, f, fn)
}
