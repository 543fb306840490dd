package cli

import (
	"fmt"
	"os"

	"github.com/andywolf/typegate/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "typegate",
	Short: "Typegate - structural type-constraint checking for data values",
	Long: `Typegate validates values against structural type constraints ("hints").

Hints are written in a compact expression grammar: plain types (int, str),
unions (int | str), containers (Sequence[int], Mapping[str, int],
Tuple[int, str]), and refinements (Annotated[int, positive]). Values are
read from YAML or JSON documents and checked against a hint; on failure
typegate names the exact offending sub-value.

Example:
  typegate check --hint 'Sequence[int]' values.yaml`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Set version for --version flag
	rootCmd.Version = version.Short()
	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .typegate.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable verbose output")
	rootCmd.PersistentFlags().Bool("expand-numeric-tower", false, "let float accept int, and complex accept float and int")
	rootCmd.PersistentFlags().Bool("color", false, "colorize diagnostic output")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("expand_numeric_tower", rootCmd.PersistentFlags().Lookup("expand-numeric-tower"))
	_ = viper.BindPFlag("colorize_output", rootCmd.PersistentFlags().Lookup("color"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error getting working directory:", err)
			os.Exit(1)
		}

		viper.AddConfigPath(cwd)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".typegate")
	}

	viper.SetEnvPrefix("TYPEGATE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}
