package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dontpanic/pkg/atlas"
)

// completionCommand prints a shell completion script. Besides commands
// and flags the scripts complete tileset directories and, for resolve,
// the ids listed in the tileset's manifest.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion <bash|zsh|fish|powershell>",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for the given shell.

Tileset roots complete to directories. After "dontpanic resolve <root>",
ids complete from that tileset's tile_config.json.`,
		Example: `  source <(dontpanic completion bash)
  dontpanic completion zsh > "${fpath[1]}/_dontpanic"
  dontpanic completion fish > ~/.config/fish/completions/dontpanic.fish`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			default:
				return root.GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// completeTilesetRoot completes the first positional argument to a
// directory.
func completeTilesetRoot(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return nil, cobra.ShellCompDirectiveFilterDirs
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

// completeTileIDs completes the tileset root, then ids from its manifest
// that start with toComplete and are not on the command line yet.
func completeTileIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return completeTilesetRoot(cmd, args, toComplete)
	}
	idx, err := atlas.Open(args[0])
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	given := make(map[string]bool, len(args)-1)
	for _, id := range args[1:] {
		given[id] = true
	}
	var ids []string
	for _, id := range idx.IDs() {
		if strings.HasPrefix(id, toComplete) && !given[id] {
			ids = append(ids, id)
		}
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}
