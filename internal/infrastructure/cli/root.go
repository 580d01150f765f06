package cli

import (
	"github.com/spf13/cobra"

	"github.com/arf/areacheck/internal/app"
	"github.com/arf/areacheck/internal/infrastructure/cli/commands"
	"github.com/arf/areacheck/internal/infrastructure/config"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose    bool
	ConfigPath string
}

// NewRootCmd wires the cobra root command. The container is built after flag
// parsing so --config and --verbose apply.
func NewRootCmd(opts Options) *cobra.Command {
	container := &app.Container{}

	root := &cobra.Command{
		Use:   "areacheck",
		Short: "areacheck - point-in-region lab client",
		Long: "areacheck submits (x, y, r) points to a calculation service, keeps the\n" +
			"results in a history table and plots the last point on the region diagram.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipsContainer(cmd) {
				loader := config.NewFileLoader(opts.ConfigPath)
				container.ConfigLoader = loader
				container.ConfigProvider = loader
				return nil
			}
			built, err := app.BuildContainer(cmd.Context(), app.Options{
				Verbose:    opts.Verbose,
				ConfigPath: opts.ConfigPath,
			})
			if err != nil {
				return err
			}
			*container = *built
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return container.Close()
		},
	}

	root.PersistentFlags().StringVar(&opts.ConfigPath, "config", opts.ConfigPath, "Config file (default ~/.areacheck/config.yaml)")
	root.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", opts.Verbose, "Enable debug logging")

	root.AddCommand(newSubmitCommand(container))
	root.AddCommand(newReplayCommand(container))
	root.AddCommand(newGraphCommand(container))
	root.AddCommand(newServeCommand(container))
	root.AddCommand(commands.NewHistoryCommand(container))
	root.AddCommand(commands.NewConfigCommand(container))
	root.AddCommand(commands.NewDoctorCommand(container))
	root.AddCommand(commands.NewVersionCommand())
	return root
}

func skipsContainer(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[commands.SkipContainerAnnotation] == "true" {
			return true
		}
	}
	return false
}
