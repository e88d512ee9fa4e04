package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dontpanic/pkg/atlas"
	apperr "github.com/matzehuels/dontpanic/pkg/errors"
)

// resolved is one line of resolve output.
type resolved struct {
	ID    string `json:"id"`
	Found bool   `json:"found"`
	atlas.Tile
}

// resolveCommand looks up symbolic ids in a tileset.
func (c *CLI) resolveCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:               "resolve <tileset-root> <id>...",
		Short:             "Show where ids live in the spritesheets",
		Args:              cobra.MinimumNArgs(2),
		ValidArgsFunction: completeTileIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := atlas.Open(args[0], atlas.WithLogger(loggerFromContext(cmd.Context())))
			if err != nil {
				return err
			}
			results := resolveIDs(idx, args[1:])

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}

			missing := 0
			for _, r := range results {
				if !r.Found {
					missing++
					printWarning("%s: no tile entry", r.ID)
					continue
				}
				printSuccess("%s", StyleHighlight.Render(r.ID))
				printLayer("fg", r.FG)
				printLayer("bg", r.BG)
			}
			if missing > 0 {
				return apperr.New(apperr.ErrCodeAssetMissing, "%d of %d ids not found", missing, len(results))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func resolveIDs(idx *atlas.Index, ids []string) []resolved {
	out := make([]resolved, len(ids))
	for i, id := range ids {
		tile, ok := idx.FindTile(id)
		out[i] = resolved{ID: id, Found: ok, Tile: tile}
	}
	return out
}

func printLayer(name string, pos *atlas.TilePosition) {
	if pos == nil {
		printDetail("%s  none", name)
		return
	}
	printDetail("%s  %s col %d row %d (%dx%d, offset %d,%d)",
		name, pos.File, pos.Col, pos.Row, pos.Width, pos.Height, pos.OffsetX, pos.OffsetY)
}
