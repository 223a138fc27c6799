package scan

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"arlindohall.com/glox/scanner"
)

func GetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scan [file]",
		Short: "Prints the tokens of a source file, one source line per row",
		Args:  cobra.ExactArgs(1),
		RunE:  runCommand,
	}
}

func runCommand(cmd *cobra.Command, args []string) error {
	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("could not open source: %w", err)
	}
	defer file.Close()

	tokens, err := scanner.New(bufio.NewReader(file)).ScanTokens()

	scanner.DebugTokens(cmd.OutOrStdout(), tokens)

	return err
}
