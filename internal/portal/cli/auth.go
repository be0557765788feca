// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taibuivan/pwdregistry/internal/identity"
)

func newLoginCommand(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				if !a.interactive() {
					return errMissingInput("email", "password")
				}
				if err := promptCredentials(&email, &password); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			if _, err := a.client.SignIn(ctx, strings.TrimSpace(email), password); err != nil {
				if errors.Is(err, identity.ErrEmailNotConfirmed) {
					return fmt.Errorf("email not confirmed: check your inbox or run `pwdportal resend-confirmation --email %s`", email)
				}
				return err
			}

			current := a.settled(ctx)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderSuccess("Signed in"))
			fmt.Fprintln(out, renderSession(current))

			landing := a.cfg.Policy().Redirects.Lookup(current.RoleName())
			result, err := a.nav.Navigate(ctx, landing)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, mutedStyle.Render("next: pwdportal open "+result.Route.Path))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	return cmd
}

func newRegisterCommand(a *app) *cobra.Command {
	var input identity.SignUpInput

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if input.Email == "" || input.Password == "" || input.FirstName == "" || input.LastName == "" {
				if !a.interactive() {
					return errMissingInput("email", "password", "first-name", "last-name")
				}
				if err := promptSignUp(&input); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			input.Email = strings.TrimSpace(input.Email)

			taken, err := a.client.CheckEmailExists(ctx, input.Email)
			if err != nil {
				return err
			}
			if taken {
				return fmt.Errorf("%s is already registered: run `pwdportal login`", input.Email)
			}

			created, err := a.client.SignUp(ctx, input)
			if err != nil {
				return err
			}

			a.logger.Debug("portal_signed_up", slog.String("identity_id", created.ID))
			fmt.Fprintln(cmd.OutOrStdout(), renderSuccess("Account created for "+created.Email))
			fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("Confirm your email with the link we sent, then run `pwdportal login`."))
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Email, "email", "", "account email")
	cmd.Flags().StringVar(&input.Password, "password", "", "account password")
	cmd.Flags().StringVar(&input.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&input.MiddleName, "middle-name", "", "middle name")
	cmd.Flags().StringVar(&input.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&input.Mobile, "mobile", "", "mobile number")
	return cmd
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.holder.SignOut(cmd.Context()); err != nil {
				a.logger.Warn("portal_sign_out_failed", slog.Any("error", err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderSuccess("Signed out"))
			return nil
		},
	}
}

func newEmailCheckCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "email-check <email>",
		Short: "Check whether an email is already registered",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := strings.TrimSpace(args[0])

			taken, err := a.client.CheckEmailExists(cmd.Context(), email)
			if err != nil {
				return err
			}
			if taken {
				fmt.Fprintln(cmd.OutOrStdout(), email+" is already registered")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), email+" is available")
			return nil
		},
	}
}

func newConfirmCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "confirm <token>",
		Short: "Confirm an email address with the token from the confirmation link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.VerifyEmail(cmd.Context(), strings.TrimSpace(args[0])); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderSuccess("Email confirmed, you can now sign in"))
			return nil
		},
	}
}

func newResendCommand(a *app) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "resend-confirmation",
		Short: "Send a new confirmation link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				if !a.interactive() {
					return errMissingInput("email")
				}
				if err := promptEmail(&email); err != nil {
					return err
				}
			}

			if err := a.client.ResendConfirmation(cmd.Context(), strings.TrimSpace(email)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderSuccess("If this email awaits confirmation, a new link is on its way"))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}
