// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/taibuivan/pwdregistry/internal/identity"
	"github.com/taibuivan/pwdregistry/internal/platform/validate"
	"github.com/taibuivan/pwdregistry/internal/registry"
)

// IsInteractive reports whether stdin is a terminal.
func IsInteractive() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// errMissingInput is returned when a required value is neither flagged nor
// promptable.
func errMissingInput(flags ...string) error {
	return fmt.Errorf("missing required input: pass --%s or run in a terminal", strings.Join(flags, ", --"))
}

func required(field string) func(string) error {
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func runForm(groups ...*huh.Group) error {
	if err := huh.NewForm(groups...).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return errors.New("cancelled")
		}
		return fmt.Errorf("prompt failed: %w", err)
	}
	return nil
}

// promptCredentials asks for whichever of email and password is empty.
func promptCredentials(email, password *string) error {
	var fields []huh.Field
	if *email == "" {
		fields = append(fields, huh.NewInput().
			Title("Email").
			Value(email).
			Validate(required("email")))
	}
	if *password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(password).
			Validate(required("password")))
	}
	if len(fields) == 0 {
		return nil
	}
	return runForm(huh.NewGroup(fields...))
}

func promptEmail(email *string) error {
	return runForm(huh.NewGroup(
		huh.NewInput().Title("Email").Value(email).Validate(required("email")),
	))
}

// promptSignUp fills the missing fields of input.
func promptSignUp(input *identity.SignUpInput) error {
	return runForm(
		huh.NewGroup(
			huh.NewInput().Title("Email").Value(&input.Email).Validate(required("email")),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&input.Password).Validate(required("password")),
		),
		huh.NewGroup(
			huh.NewInput().Title("First name").Value(&input.FirstName).Validate(required("first name")),
			huh.NewInput().Title("Middle name").Value(&input.MiddleName),
			huh.NewInput().Title("Last name").Value(&input.LastName).Validate(required("last name")),
			huh.NewInput().Title("Mobile").Value(&input.Mobile),
		),
	)
}

// promptRegistration walks the applicant through the registration form.
func promptRegistration(input *registry.Input) error {
	var year, skills string
	if input.Education.YearCompleted > 0 {
		year = strconv.Itoa(input.Education.YearCompleted)
	}
	skills = strings.Join(input.Skills, ", ")

	err := runForm(
		huh.NewGroup(
			huh.NewInput().Title("Full name").Value(&input.PersonalInfo.Name).Validate(required("name")),
			huh.NewInput().Title("Email").Value(&input.PersonalInfo.Email),
			huh.NewInput().Title("Phone").Value(&input.PersonalInfo.Phone),
			huh.NewInput().Title("Date of birth").Placeholder(validate.DateLayout).Value(&input.PersonalInfo.DateOfBirth),
			huh.NewSelect[string]().Title("Gender").Options(huh.NewOptions(registry.Genders...)...).Value(&input.PersonalInfo.Gender),
		).Title("Personal information"),
		huh.NewGroup(
			huh.NewInput().Title("Disability type").Value(&input.DisabilityInfo.Type).Validate(required("disability type")),
			huh.NewSelect[string]().Title("Severity").Options(huh.NewOptions(registry.Severities...)...).Value(&input.DisabilityInfo.Severity),
			huh.NewInput().Title("Diagnosis date").Placeholder(validate.DateLayout).Value(&input.DisabilityInfo.DiagnosisDate),
		).Title("Disability"),
		huh.NewGroup(
			huh.NewInput().Title("Highest education").Value(&input.Education.Level),
			huh.NewInput().Title("Institution").Value(&input.Education.Institution),
			huh.NewInput().Title("Year completed").Value(&year),
			huh.NewInput().Title("Skills").Description("Comma separated").Value(&skills),
		).Title("Education and skills"),
		huh.NewGroup(
			huh.NewInput().Title("Street").Value(&input.Address.Street),
			huh.NewInput().Title("City").Value(&input.Address.City).Validate(required("city")),
			huh.NewInput().Title("State").Value(&input.Address.State),
			huh.NewInput().Title("Pincode").Value(&input.Address.Pincode),
			huh.NewInput().Title("Government ID URL").Value(&input.GovernmentIDURL),
		).Title("Address"),
	)
	if err != nil {
		return err
	}

	input.Skills = splitList(skills)
	if year = strings.TrimSpace(year); year != "" {
		parsed, err := strconv.Atoi(year)
		if err != nil {
			return fmt.Errorf("year completed must be a number")
		}
		input.Education.YearCompleted = parsed
	}
	return nil
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
