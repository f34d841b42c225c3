package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/warp/payroll-ledger/auth"
)

func newPasswdCmd(a *app) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "passwd USER",
		Short: "Set an operator password",
		Long: `Set an operator password. The password is read from --password or,
when that is empty, from the first line of stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return errors.New("password must not be empty")
			}
			if err := auth.NewAuthenticator(a.ledger).SetPassword(cmd.Context(), args[0], password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "password updated for %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "new password")
	return cmd
}
