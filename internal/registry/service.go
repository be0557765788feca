// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package registry

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/pwdregistry/internal/platform/ctxutil"
	"github.com/taibuivan/pwdregistry/internal/platform/validate"
	"github.com/taibuivan/pwdregistry/pkg/pointer"
	"github.com/taibuivan/pwdregistry/pkg/slice"
	"github.com/taibuivan/pwdregistry/pkg/uuid"
)

// Service implements the registration use cases.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds the registration service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// List returns one page of registrations, newest first.
func (service *Service) List(ctx context.Context, filter Filter, limit, offset int) ([]*Registration, int, error) {
	return service.repo.List(ctx, filter, limit, offset)
}

// Get returns one registration.
func (service *Service) Get(ctx context.Context, id string) (*Registration, error) {
	if err := (&validate.Validator{}).UUID("id", id).Err(); err != nil {
		return nil, err
	}
	return service.repo.Get(ctx, id)
}

// Submit validates and stores a new registration on behalf of submitterID.
func (service *Service) Submit(ctx context.Context, submitterID string, input Input) (*Registration, error) {
	registration := &Registration{
		ID:              uuid.New(),
		SubmittedBy:     submitterID,
		PersonalInfo:    input.PersonalInfo,
		DisabilityInfo:  input.DisabilityInfo,
		Education:       input.Education,
		Skills:          input.Skills,
		Address:         input.Address,
		GovernmentIDURL: input.GovernmentIDURL,
	}
	normalize(registration)

	if err := service.check(registration); err != nil {
		return nil, err
	}

	if err := service.repo.Create(ctx, registration); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(ctx).Info("registration_submitted",
		slog.String("registration_id", registration.ID),
		slog.String("submitted_by", submitterID),
	)
	return registration, nil
}

// Amend applies patch to an existing registration.
func (service *Service) Amend(ctx context.Context, id string, patch Patch) (*Registration, error) {
	registration, err := service.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	registration.PersonalInfo = pointer.Fallback(patch.PersonalInfo, registration.PersonalInfo)
	registration.DisabilityInfo = pointer.Fallback(patch.DisabilityInfo, registration.DisabilityInfo)
	registration.Education = pointer.Fallback(patch.Education, registration.Education)
	registration.Skills = pointer.Fallback(patch.Skills, registration.Skills)
	registration.Address = pointer.Fallback(patch.Address, registration.Address)
	registration.GovernmentIDURL = pointer.Fallback(patch.GovernmentIDURL, registration.GovernmentIDURL)
	normalize(registration)

	if err := service.check(registration); err != nil {
		return nil, err
	}

	if err := service.repo.Update(ctx, registration); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(ctx).Info("registration_amended", slog.String("registration_id", id))
	return registration, nil
}

// Remove deletes a registration.
func (service *Service) Remove(ctx context.Context, id string) error {
	if err := (&validate.Validator{}).UUID("id", id).Err(); err != nil {
		return err
	}
	if err := service.repo.Delete(ctx, id); err != nil {
		return err
	}

	ctxutil.GetLogger(ctx).Warn("registration_removed", slog.String("registration_id", id))
	return nil
}

// normalize trims text fields, lowercases enumerations and tidies skills.
func normalize(registration *Registration) {
	personal := &registration.PersonalInfo
	personal.Name = strings.TrimSpace(personal.Name)
	personal.Email = strings.ToLower(strings.TrimSpace(personal.Email))
	personal.Phone = strings.TrimSpace(personal.Phone)
	personal.Gender = strings.ToLower(strings.TrimSpace(personal.Gender))

	disability := &registration.DisabilityInfo
	disability.Type = strings.TrimSpace(disability.Type)
	disability.Severity = strings.ToLower(strings.TrimSpace(disability.Severity))

	registration.Address.City = strings.TrimSpace(registration.Address.City)
	registration.Address.Pincode = strings.TrimSpace(registration.Address.Pincode)
	registration.GovernmentIDURL = strings.TrimSpace(registration.GovernmentIDURL)

	skills := slice.Filter(slice.Map(registration.Skills, strings.TrimSpace), func(skill string) bool {
		return skill != ""
	})
	registration.Skills = slice.Dedupe(skills, strings.ToLower)
	if registration.Skills == nil {
		registration.Skills = []string{}
	}
}

func (service *Service) check(registration *Registration) error {
	personal := registration.PersonalInfo
	disability := registration.DisabilityInfo
	education := registration.Education

	validator := &validate.Validator{}
	validator.Required(FieldName, personal.Name).
		MaxLen(FieldName, personal.Name, MaxTextLength).
		Mobile(FieldPhone, personal.Phone).
		Date(FieldDateOfBirth, personal.DateOfBirth).
		Required(FieldDisabilityType, disability.Type).
		MaxLen(FieldDisabilityType, disability.Type, MaxTextLength).
		Date(FieldDiagnosisDate, disability.DiagnosisDate).
		MaxLen(FieldEducationLevel, education.Level, MaxTextLength).
		MaxLen(FieldCity, registration.Address.City, MaxTextLength).
		MaxLen(FieldPincode, registration.Address.Pincode, MaxPincodeSize).
		URL(FieldGovernmentIDURL, registration.GovernmentIDURL).
		Custom(FieldSkills, len(registration.Skills) > MaxSkills, fmt.Sprintf("At most %d skills", MaxSkills))

	if personal.Email != "" {
		validator.Email(FieldEmail, personal.Email)
	}
	if personal.Gender != "" {
		validator.OneOf(FieldGender, personal.Gender, Genders...)
	}
	if disability.Severity != "" {
		validator.OneOf(FieldSeverity, disability.Severity, Severities...)
	}
	if education.YearCompleted != 0 {
		validator.Range(FieldYearCompleted, education.YearCompleted, MinYear, service.now().Year())
	}
	if dob, err := time.Parse(validate.DateLayout, personal.DateOfBirth); err == nil {
		validator.Custom(FieldDateOfBirth, dob.After(service.now()), "Must be in the past")
	}

	return validator.Err()
}
