package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/profiler/internal/core"
)

func newSheetsCommand(_ *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sheets <file.xlsx>",
		Short: "List the worksheets of a workbook in file order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := readUpload(args[0])
			if err != nil {
				return err
			}
			if ext, _ := core.ValidateUpload(file.Name, file.Size); ext != core.ExtXLSX {
				return fmt.Errorf("%s is not a workbook", file.Name)
			}
			names, err := core.SheetNames(file.Content)
			if err != nil {
				return userError(fmt.Errorf("%s: %w", file.Name, err))
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
