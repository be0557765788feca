// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/pwdregistry/internal/platform/database/schema"
	"github.com/taibuivan/pwdregistry/internal/platform/dberr"
	"github.com/taibuivan/pwdregistry/internal/platform/postgres"
)

const resourceName = "Registration"

var table = schema.PwdRegistration

// likeEscaper neutralizes LIKE wildcards using the default backslash escape.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// selectColumns mirrors [scanRegistration].
var selectColumns = strings.Join([]string{
	table.ID,
	"COALESCE(" + table.SubmittedBy + "::text, '')",
	table.PersonalInfo,
	table.DisabilityInfo,
	table.Education,
	table.Skills,
	table.Address,
	"COALESCE(" + table.GovernmentIDURL + ", '')",
	table.CreatedAt,
	table.UpdatedAt,
}, ", ")

// PostgresRepository implements [Repository] over pwd.registration.
type PostgresRepository struct {
	db postgres.Querier
}

// NewRepository builds the Postgres registration repository.
func NewRepository(db postgres.Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// sections is the JSONB encoding of a registration's body.
type sections struct {
	personal   []byte
	disability []byte
	education  []byte
	skills     []byte
	address    []byte
}

func encodeSections(registration *Registration) (sections, error) {
	var (
		out sections
		err error
	)
	skills := registration.Skills
	if skills == nil {
		skills = []string{}
	}
	if out.personal, err = json.Marshal(registration.PersonalInfo); err != nil {
		return out, err
	}
	if out.disability, err = json.Marshal(registration.DisabilityInfo); err != nil {
		return out, err
	}
	if out.education, err = json.Marshal(registration.Education); err != nil {
		return out, err
	}
	if out.skills, err = json.Marshal(skills); err != nil {
		return out, err
	}
	if out.address, err = json.Marshal(registration.Address); err != nil {
		return out, err
	}
	return out, nil
}

func scanRegistration(row pgx.Row) (*Registration, error) {
	var (
		registration Registration
		raw          sections
	)
	err := row.Scan(
		&registration.ID,
		&registration.SubmittedBy,
		&raw.personal,
		&raw.disability,
		&raw.education,
		&raw.skills,
		&raw.address,
		&registration.GovernmentIDURL,
		&registration.CreatedAt,
		&registration.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	for _, part := range []struct {
		data   []byte
		target any
	}{
		{raw.personal, &registration.PersonalInfo},
		{raw.disability, &registration.DisabilityInfo},
		{raw.education, &registration.Education},
		{raw.skills, &registration.Skills},
		{raw.address, &registration.Address},
	} {
		if len(part.data) == 0 {
			continue
		}
		if err := json.Unmarshal(part.data, part.target); err != nil {
			return nil, fmt.Errorf("postgres_registration_repo_decode_failed: %w", err)
		}
	}
	return &registration, nil
}

// List returns a page ordered by creation time, newest first.
func (repository *PostgresRepository) List(ctx context.Context, filter Filter, limit, offset int) ([]*Registration, int, error) {
	var (
		conditions []string
		args       []any
	)

	if len(filter.DisabilityTypes) > 0 {
		types := make([]string, 0, len(filter.DisabilityTypes))
		for _, t := range filter.DisabilityTypes {
			types = append(types, strings.ToLower(t))
		}
		args = append(args, types)
		conditions = append(conditions, fmt.Sprintf("LOWER(%s) = ANY($%d)", table.JSONField(table.DisabilityInfo, "type"), len(args)))
	}
	if filter.City != "" {
		args = append(args, "%"+likeEscaper.Replace(filter.City)+"%")
		conditions = append(conditions, fmt.Sprintf("%s ILIKE $%d", table.JSONField(table.Address, "city"), len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := repository.db.QueryRow(ctx, "SELECT count(*) FROM "+table.Table+where, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, resourceName)
	}

	query := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s DESC, %s DESC LIMIT $%d OFFSET $%d",
		selectColumns, table.Table, where, table.CreatedAt, table.ID, len(args)+1, len(args)+2)

	rows, err := repository.db.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceName)
	}
	defer rows.Close()

	registrations := []*Registration{}
	for rows.Next() {
		registration, err := scanRegistration(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, resourceName)
		}
		registrations = append(registrations, registration)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, resourceName)
	}

	return registrations, total, nil
}

// Get reads one registration.
func (repository *PostgresRepository) Get(ctx context.Context, id string) (*Registration, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", selectColumns, table.Table, table.ID)

	registration, err := scanRegistration(repository.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}
	return registration, nil
}

// Create inserts registration and fills its timestamps.
func (repository *PostgresRepository) Create(ctx context.Context, registration *Registration) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, NULLIF($2, '')::uuid, $3, $4, $5, $6, $7, NULLIF($8, ''), NOW(), NOW())
		RETURNING %s, %s`,
		table.Table, strings.Join(table.Columns(), ", "), table.CreatedAt, table.UpdatedAt)

	encoded, err := encodeSections(registration)
	if err != nil {
		return fmt.Errorf("postgres_registration_repo_encode_failed: %w", err)
	}

	err = repository.db.QueryRow(ctx, query,
		registration.ID,
		registration.SubmittedBy,
		encoded.personal,
		encoded.disability,
		encoded.education,
		encoded.skills,
		encoded.address,
		registration.GovernmentIDURL,
	).Scan(&registration.CreatedAt, &registration.UpdatedAt)
	return dberr.Wrap(err, resourceName)
}

// Update rewrites every section and bumps updatedat.
func (repository *PostgresRepository) Update(ctx context.Context, registration *Registration) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5,
		    %s = $6, %s = NULLIF($7, ''), %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		table.Table,
		table.PersonalInfo, table.DisabilityInfo, table.Education, table.Skills,
		table.Address, table.GovernmentIDURL, table.UpdatedAt,
		table.ID,
		table.UpdatedAt)

	encoded, err := encodeSections(registration)
	if err != nil {
		return fmt.Errorf("postgres_registration_repo_encode_failed: %w", err)
	}

	err = repository.db.QueryRow(ctx, query,
		registration.ID,
		encoded.personal,
		encoded.disability,
		encoded.education,
		encoded.skills,
		encoded.address,
		registration.GovernmentIDURL,
	).Scan(&registration.UpdatedAt)
	return dberr.Wrap(err, resourceName)
}

// Delete removes a registration. Missing rows are NotFound.
func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := repository.db.Exec(ctx, "DELETE FROM "+table.Table+" WHERE "+table.ID+" = $1", id)
	if err != nil {
		return dberr.Wrap(err, resourceName)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resourceName)
	}
	return nil
}
