package cli

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dontpanic/pkg/pipeline"
)

// renderFlags holds the command-line flags for the render command. Flags
// the user sets win over the config file, which wins over the defaults.
type renderFlags struct {
	output     string // output directory
	config     string // TOML options file
	variations int    // number of images
	seedStep   uint64 // variation n uses seed n*seedStep
	workers    int    // parallel variations
	phrase     string // words to draw, split on spaces
	noLegend   bool   // skip <base>_index.png
	refresh    bool   // ignore cached artifacts
	cache      cacheFlags
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render <tileset-root> [base-name]",
		Short: "Render phrase variations and a legend to PNG",
		Long: `Render loads tile_config.json from the tileset root (or the file itself),
writes <base-name>_index.png with the sprites in use, and then renders
<base-name>_1.png … <base-name>_N.png, variation n seeded with n*seed-step.`,
		Example: `  dontpanic render ./gfx/UNDEAD_PEOPLE
  dontpanic render ./gfx/UNDEAD_PEOPLE towel -n 3 --phrase "so long"
  dontpanic render ./gfx/UNDEAD_PEOPLE --config panic.toml --workers 4`,
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: completeTilesetRoot,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, args)
			if err != nil {
				return err
			}
			return c.runRender(cmd, opts, flags.cache)
		},
	}

	flags.register(cmd)

	return cmd
}

func (f *renderFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.output, "output", "o", pipeline.DefaultOutputDir, "output directory")
	fs.StringVar(&f.config, "config", "", "TOML file with render options")
	fs.IntVarP(&f.variations, "variations", "n", pipeline.DefaultVariations, "number of variations")
	fs.Uint64Var(&f.seedStep, "seed-step", pipeline.DefaultSeedStep, "seed distance between variations")
	fs.IntVar(&f.workers, "workers", pipeline.DefaultWorkers, "variations rendered in parallel")
	fs.StringVar(&f.phrase, "phrase", strings.Join(pipeline.DefaultWords, " "), "phrase to draw")
	fs.BoolVar(&f.noLegend, "no-legend", false, "skip the legend image")
	fs.BoolVar(&f.refresh, "refresh", false, "re-render even when cached")
	f.cache.register(cmd)
}

// options resolves defaults, the config file, args and flags into Options.
func (f *renderFlags) options(cmd *cobra.Command, args []string) (pipeline.Options, error) {
	opts := pipeline.DefaultOptions()
	if f.config != "" {
		var err error
		if opts, err = pipeline.LoadOptions(f.config); err != nil {
			return pipeline.Options{}, err
		}
	}

	opts.Root = args[0]
	if len(args) > 1 {
		opts.BaseName = args[1]
	}

	changed := cmd.Flags().Changed
	if changed("output") || opts.OutputDir == "" {
		opts.OutputDir = f.output
	}
	if changed("variations") {
		opts.Variations = f.variations
	}
	if changed("seed-step") {
		opts.SeedStep = f.seedStep
	}
	if changed("workers") {
		opts.Workers = f.workers
	}
	if changed("phrase") {
		opts.Words = pipeline.SplitPhrase(f.phrase)
	}
	if f.noLegend {
		opts.Legend = false
	}
	opts.Refresh = f.refresh

	return opts, opts.Validate()
}

func (c *CLI) runRender(cmd *cobra.Command, opts pipeline.Options, cf cacheFlags) error {
	ctx := cmd.Context()
	runner, err := c.newRunner(ctx, cf)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	printInfo("Rendering %s", StyleHighlight.Render(fmt.Sprintf("%q", opts.Phrase())))
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}

	printNewline()
	printSuccess("Rendered %d variation(s) in %s", len(result.Files), result.Duration.Round(time.Millisecond))
	printKeyValue("Manifest", result.Manifest)
	printRunStats(result.Stats, len(result.Files), result.CacheHits)
	if result.Legend != "" {
		printFile(result.Legend)
	}
	for _, f := range result.Files {
		printFile(f)
	}
	for _, id := range slices.Sorted(maps.Keys(result.Stats.Unresolved)) {
		printWarning("%s not in tileset (%d cells)", id, result.Stats.Unresolved[id])
	}
	printNewline()
	printNextStep("Preview other seeds", fmt.Sprintf("%s serve %s", appName, opts.Root))
	return nil
}
