package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andywolf/typegate/internal/config"
	"github.com/andywolf/typegate/internal/hint"
	"github.com/andywolf/typegate/internal/logic"
	"github.com/andywolf/typegate/internal/reduce"
)

var reduceShowLogic bool

var reduceCmd = &cobra.Command{
	Use:   "reduce <hint>",
	Short: "Reduce a hint expression to canonical form",
	Long: `Reduce parses the given hint expression, reduces it to the canonical
form the checker evaluates, and prints the result. With --logic the check
expression generated for the reduced hint's shape is printed as well.

Example:
  typegate reduce 'NewType[UserId, int] | None'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := hint.Parse(args[0])
		if err != nil {
			return fmt.Errorf("failed to parse hint %q: %w", args[0], err)
		}

		conf, err := config.Load()
		if err != nil {
			return err
		}

		reduced, err := reduce.Reduce(h, conf)
		if err != nil {
			return fmt.Errorf("failed to reduce hint: %w", err)
		}
		fmt.Println(reduced)

		if reduceShowLogic {
			sign, ok := hint.SignOf(reduced)
			if !ok {
				return nil
			}
			l, ok := logic.For(sign)
			if !ok {
				return nil
			}
			expr := l.RenderCheck(map[string]string{
				"pith":   "value",
				"type":   string(l.Kind),
				"random": "r",
			})
			fmt.Println(expr)
		}
		return nil
	},
}

func init() {
	reduceCmd.Flags().BoolVar(&reduceShowLogic, "logic", false, "also print the generated check expression for the reduced hint")
	rootCmd.AddCommand(reduceCmd)
}
