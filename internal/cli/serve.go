package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/dontpanic/internal/server"
	"github.com/matzehuels/dontpanic/pkg/pipeline"
)

// serveCommand starts the HTTP preview server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr   string
		config string
		cf     cacheFlags
	)

	cmd := &cobra.Command{
		Use:               "serve <tileset-root>",
		Short:             "Serve variations over HTTP",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTilesetRoot,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.DefaultOptions()
			if config != "" {
				var err error
				if opts, err = pipeline.LoadOptions(config); err != nil {
					return err
				}
			}
			opts.Root = args[0]
			if err := opts.Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, cf)
			if err != nil {
				return err
			}
			defer runner.Cache.Close()

			idx, err := runner.LoadIndex(ctx, opts.Root)
			if err != nil {
				return err
			}

			printSuccess("Serving %s", idx.Path())
			printDetail("Legend:    %s", StyleLink.Render("http://"+addr+"/legend.png"))
			printDetail("Variation: %s", StyleLink.Render("http://"+addr+"/variations/1.png?phrase=dont+panic"))
			return server.New(runner, idx, opts).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:8042", "listen address")
	cmd.Flags().StringVar(&config, "config", "", "TOML file with render options")
	cf.register(cmd)
	return cmd
}
