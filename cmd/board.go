package cmd

import (
	"fmt"

	boardadapter "github.com/bnema/frontdesk/internal/adapters/render/board"
	"github.com/spf13/cobra"
)

func newBoardCmd(app *app) *cobra.Command {
	var barWidth int

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Render the opening board for the configured inventory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fd, err := app.openDesk(cmd.Context())
			if err != nil {
				return err
			}

			output, err := app.renderBoard(fd.board(), boardadapter.RenderOptions{BarWidth: barWidth, HideEmpty: true})
			if err != nil {
				return fmt.Errorf("render board: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), output)
			return err
		},
	}

	cmd.Flags().IntVar(&barWidth, "bar-width", 0, "width of the availability bars")
	return cmd
}
