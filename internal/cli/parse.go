package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/viant/remotely/model"
	"github.com/viant/remotely/service/parser"
)

func (a *app) newParseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Validate a batch and print its canonical form, one command per line",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var reader io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				file, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer file.Close()
				reader = file
			}
			data, err := io.ReadAll(reader)
			if err != nil {
				return err
			}
			batch, err := parser.Parse(string(data))
			if err != nil {
				return err
			}
			return printBatch(cmd.OutOrStdout(), batch)
		},
	}
}

func printBatch(w io.Writer, batch *model.Batch) error {
	for _, command := range batch.Commands {
		if _, err := fmt.Fprintln(w, command.String()); err != nil {
			return err
		}
	}
	return nil
}
