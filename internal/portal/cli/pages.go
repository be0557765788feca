// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/taibuivan/pwdregistry/internal/portal/client"
	"github.com/taibuivan/pwdregistry/internal/portal/routes"
	"github.com/taibuivan/pwdregistry/internal/registry"
)

func newWhoamiCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in identity and role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), renderSession(a.settled(cmd.Context())))
			return nil
		},
	}
}

type openFlags struct {
	file            string
	page            int
	limit           int
	disabilityTypes []string
	city            string
}

func newOpenCommand(a *app) *cobra.Command {
	var flags openFlags

	cmd := &cobra.Command{
		Use:   "open <route>",
		Short: "Open a portal page, following the access guard's redirects",
		Long: `Open a portal page.

Protected pages check the signed-in role first. A denied request is sent to
the sign-in page, or to the home page of your role.

Pages:
  /               Home
  /dashboard      Your account (signed in)
  /pwd/register   File a PWD registration (role user)
  /admin          Browse registrations (role admin)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a.settled(ctx)

			result, err := a.nav.Navigate(ctx, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderRoute(result))

			switch result.Route.Path {
			case routes.SignIn:
				fmt.Fprintln(out, mutedStyle.Render("Run `pwdportal login` to sign in."))
			case routes.SignUp:
				fmt.Fprintln(out, mutedStyle.Render("Run `pwdportal register` to create an account."))
			case routes.Dashboard:
				fmt.Fprintln(out, renderSession(result.Session))
			case routes.Registration:
				return a.submitRegistration(cmd, flags.file)
			case routes.Admin:
				page, meta, err := a.client.ListRegistrations(ctx, client.ListOptions{
					Page:            flags.page,
					Limit:           flags.limit,
					DisabilityTypes: flags.disabilityTypes,
					City:            flags.city,
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(out, renderRegistrations(page, meta))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.file, "file", "f", "", "registration to submit, as YAML or JSON (/pwd/register)")
	cmd.Flags().IntVar(&flags.page, "page", 1, "page number (/admin)")
	cmd.Flags().IntVar(&flags.limit, "limit", 20, "page size (/admin)")
	cmd.Flags().StringSliceVar(&flags.disabilityTypes, "disability-type", nil, "filter by disability type, repeatable (/admin)")
	cmd.Flags().StringVar(&flags.city, "city", "", "filter by city (/admin)")
	return cmd
}

func (a *app) submitRegistration(cmd *cobra.Command, file string) error {
	var input registry.Input

	switch {
	case file != "":
		loaded, err := loadRegistration(file)
		if err != nil {
			return err
		}
		input = loaded
	case a.interactive():
		if err := promptRegistration(&input); err != nil {
			return err
		}
	default:
		return errMissingInput("file")
	}

	created, err := a.client.SubmitRegistration(cmd.Context(), input)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderSuccess("Registration submitted"))
	fmt.Fprintln(cmd.OutOrStdout(), renderRegistration(created))
	return nil
}

// loadRegistration reads a registration from a YAML or JSON file. Keys follow
// the API's JSON names. Unquoted dates stay in their written form.
func loadRegistration(path string) (registry.Input, error) {
	var input registry.Input

	data, err := os.ReadFile(path)
	if err != nil {
		return input, fmt.Errorf("reading registration: %w", err)
	}
	if err := yaml.Unmarshal(data, &input); err != nil {
		return input, fmt.Errorf("parsing registration: %w", err)
	}
	return input, nil
}
