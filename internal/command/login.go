package command

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/huddlechat/huddle/internal/api"
	"github.com/huddlechat/huddle/internal/core"
)

// NewLoginCmd creates the login command.
func NewLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <server-url>",
		Short: "Log in and save credentials",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			serverURL := strings.TrimRight(args[0], "/")

			username, _ := cmd.Flags().GetString("username")
			if username == "" {
				fmt.Fprint(cmd.OutOrStdout(), "username: ")
				reader := bufio.NewReader(cmd.InOrStdin())
				line, err := reader.ReadString('\n')
				if err != nil {
					return err
				}
				username = strings.TrimSpace(line)
			}

			fmt.Fprint(cmd.OutOrStdout(), "password: ")
			passwordBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Fprintln(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			token, err := api.Login(cmd.Context(), serverURL, username, string(passwordBytes))
			if err != nil {
				return err
			}

			client := api.New(serverURL, token.AccessToken)
			user, err := client.Me(cmd.Context())
			if err != nil {
				return err
			}

			err = core.WriteConfig(core.Config{
				ServerURL: serverURL,
				Token:     token.AccessToken,
				UserID:    user.ID,
				Username:  user.Username,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", user.Username)
			return nil
		},
	}
	cmd.Flags().String("username", "", "username (prompted when omitted)")
	return cmd
}
