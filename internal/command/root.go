package command

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/huddlechat/huddle/internal/api"
	"github.com/huddlechat/huddle/internal/core"
)

const AppName = "huddle"

// Version is overwritten at build time using -ldflags.
var Version = "dev"

func NewRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           AppName,
		Short:         "Huddle - terminal client for team messaging",
		Long:          "Huddle is a terminal client for team chat: channels, direct threads, replies and reactions.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.Version = version
	cmd.SetVersionTemplate(AppName + " version {{.Version}}\n")
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().String("server", "", "server URL (overrides config)")
	cmd.PersistentFlags().Bool("json", false, "output in JSON format")

	cmd.AddCommand(
		NewLoginCmd(),
		NewChannelsCmd(),
		NewChatCmd(),
		NewDMCmd(),
		NewPostCmd(),
		NewReadCmd(),
		NewSearchCmd(),
		NewInvitationsCmd(),
	)

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd(Version).Execute()
}

// loadClient builds an API client from the saved config, honoring the
// --server override.
func loadClient(cmd *cobra.Command) (*api.Client, *core.Config, error) {
	config, err := core.ReadConfig()
	if err != nil {
		return nil, nil, err
	}
	if config == nil {
		return nil, nil, fmt.Errorf("not logged in. Run '%s login' first", AppName)
	}
	if server, _ := cmd.Flags().GetString("server"); server != "" {
		config.ServerURL = server
	}
	return api.New(config.ServerURL, config.Token), config, nil
}
