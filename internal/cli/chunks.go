package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dontpanic/pkg/atlas"
)

// chunksCommand prints the tile range table of a tileset.
func (c *CLI) chunksCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "chunks <tileset-root>",
		Short:             "Show how the tile index space maps onto spritesheets",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTilesetRoot,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			prog := newProgress(logger)

			idx, err := atlas.Open(args[0], atlas.WithLogger(logger))
			if err != nil {
				return err
			}

			spin := newSheetSpinner(ctx, cmd.ErrOrStderr(), idx)
			spin.Start()
			ranges := idx.Ranges()
			sheets := spin.Stop()
			if err := ctx.Err(); err != nil {
				return err
			}
			prog.indexed(idx, sheets)

			printKeyValue("Manifest", idx.Path())
			w, h := idx.TileSize()
			printKeyValue("Tile size", fmt.Sprintf("%dx%d", w, h))
			printKeyValue("Ids", strconv.Itoa(idx.IDCount()))
			printNewline()
			fmt.Fprintln(cmd.OutOrStdout(), chunkTable(idx.Chunks(), ranges))
			return nil
		},
	}
}

// chunkTable renders one row per chunk. Placeholder chunks are dimmed.
func chunkTable(chunks []atlas.Chunk, ranges []atlas.Range) string {
	rows := make([][]string, len(ranges))
	for i, r := range ranges {
		file := chunks[r.Chunk].File
		if file == "" {
			file = "—"
		}
		rows[i] = []string{
			strconv.Itoa(r.Chunk),
			file,
			fmt.Sprintf("%dx%d", r.Columns, r.Rows),
			strconv.Itoa(r.Start),
			strconv.Itoa(r.End),
			strconv.Itoa(len(chunks[r.Chunk].Tiles)),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "File", "Grid", "Start", "End", "Entries").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			if !chunks[ranges[row].Chunk].HasFile() {
				return cellStyle.Foreground(colorDim)
			}
			switch col {
			case 1:
				return cellStyle.Foreground(colorWhite)
			case 3, 4:
				return cellStyle.Foreground(colorCyan)
			}
			return cellStyle.Foreground(colorGray)
		})

	return t.Render()
}
