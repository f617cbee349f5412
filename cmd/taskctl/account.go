package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login <username> <password>",
		Short: "Log in and remember the session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.auth.SetUsername(args[0])
			a.auth.SetPassword(args[1])
			resp, err := await(a.auth.Login(cmd.Context()), &a.auth.LoginState)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "logged in as %s (id %d)\n", resp.Username, resp.ID)
			return nil
		},
	}
}

func newSignupCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "signup <username> <password>",
		Short: "Create an account and log in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.auth.SetUsername(args[0])
			a.auth.SetPassword(args[1])
			resp, err := await(a.auth.Signup(cmd.Context()), &a.auth.SignupState)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "signed up as %s (id %d)\n", resp.Username, resp.ID)
			return nil
		},
	}
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.auth.Logout()
		},
	}
}

func newWhoamiCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s (id %d)\n", a.session.Username(), a.session.UserID())
			return nil
		},
	}
}

func newProfileCommand(a *app) *cobra.Command {
	var username, password, confirm string
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Change username or password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			a.profile.SetUsername(username)
			a.profile.SetPassword(password)
			a.profile.SetConfirmPassword(confirm)
			u, err := await(a.profile.Update(cmd.Context()), &a.profile.UpdateState)
			if err != nil {
				return err
			}
			return a.print(u)
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "new username")
	cmd.Flags().StringVar(&password, "password", "", "new password")
	cmd.Flags().StringVar(&confirm, "confirm", "", "new password again")
	return cmd
}
