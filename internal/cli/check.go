package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/andywolf/typegate/internal/config"
	"github.com/andywolf/typegate/internal/engine"
	"github.com/andywolf/typegate/internal/trace"
)

var (
	checkHint  string
	checkTrace string
)

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Check a value document against a hint",
	Long: `Check reads a YAML or JSON document and validates it against the hint
given with --hint. On success it prints "ok"; on violation it prints the
explanation naming the offending sub-value and exits non-zero.

With no file argument the document is read from stdin.

Example:
  typegate check --hint 'Tuple[int, Sequence[str]]' values.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pith, err := readDocument(args)
		if err != nil {
			return err
		}

		conf, err := config.Load()
		if err != nil {
			return err
		}

		var sink engine.Sink
		if checkTrace != "" {
			fileSink, err := trace.NewFileSink(checkTrace)
			if err != nil {
				return fmt.Errorf("failed to open trace sink: %w", err)
			}
			defer func() { _ = fileSink.Close() }()
			sink = fileSink
		}

		err = engine.New(conf, sink).CheckSpelled(pith, checkHint)
		if err == nil {
			fmt.Println("ok")
			return nil
		}

		var violation *engine.Violation
		if errors.As(err, &violation) {
			fmt.Fprintln(os.Stderr, violation.Explanation)
			// Suppress cobra's usage dump: the hint and document were
			// well-formed, the value just failed the check.
			cmd.SilenceUsage = true
		}
		return err
	},
}

// readDocument decodes the YAML (or JSON) document named by args, or stdin
// when no file is given, into a plain Go value.
func readDocument(args []string) (any, error) {
	var data []byte
	var err error
	if len(args) == 1 && args[0] != "-" {
		data, err = os.ReadFile(args[0])
		if err != nil {
			return nil, fmt.Errorf("failed to read document: %w", err)
		}
	} else {
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
	}

	var pith any
	if err := yaml.Unmarshal(data, &pith); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return pith, nil
}

func init() {
	checkCmd.Flags().StringVar(&checkHint, "hint", "", "hint expression to check against (required)")
	checkCmd.Flags().StringVar(&checkTrace, "trace", "", "directory to write a JSONL trace of the check")
	_ = checkCmd.MarkFlagRequired("hint")
	rootCmd.AddCommand(checkCmd)
}
