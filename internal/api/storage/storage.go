package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Arpan-gl/Rural-Job-recommender/internal/api/domain"
	"github.com/Arpan-gl/Rural-Job-recommender/internal/api/model"
	"github.com/Arpan-gl/Rural-Job-recommender/shared/postgresql"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// uniqueViolation is the Postgres error code for unique constraint violations
const uniqueViolation = "23505"

type Storage struct {
	db *sqlx.DB
}

func NewStorage(pg *postgresql.Client) *Storage {
	return &Storage{
		db: pg.GetDB(),
	}
}

func (s *Storage) CreateUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (
			id, email, password, name,
			skills, preferred_roles, experience_years, location,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8,
			$9, $10
		)
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Email,
		user.Password,
		user.Name,
		user.Skills,
		user.PreferredRoles,
		user.ExperienceYears,
		user.Location,
		user.CreatedAt,
		user.UpdatedAt,
	)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return domain.ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	query := `
		SELECT
			id, email, password, name,
			skills, preferred_roles, experience_years, location,
			created_at, updated_at
		FROM users
		WHERE email = $1
	`

	err := s.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

func (s *Storage) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	query := `
		SELECT
			id, email, password, name,
			skills, preferred_roles, experience_years, location,
			created_at, updated_at
		FROM users
		WHERE id = $1
	`

	err := s.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// UpdateUserProfile overwrites the user's extracted skills and preferred
// roles wholesale, as each successful analysis does.
func (s *Storage) UpdateUserProfile(ctx context.Context, userID string, skills, preferredRoles []string) error {
	query := `
		UPDATE users
		SET skills = $2, preferred_roles = $3, updated_at = now()
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query, userID, pq.StringArray(skills), pq.StringArray(preferredRoles))
	if err != nil {
		return fmt.Errorf("failed to update user profile: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update user profile: %w", err)
	}
	if rows == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

// UpsertJob inserts a job keyed by URL, or returns the existing row when the
// URL was already seen. The conflict branch deliberately rewrites nothing but
// the URL itself so stored jobs stay immutable; the single statement closes
// the lookup-then-insert race.
func (s *Storage) UpsertJob(ctx context.Context, job *model.Job) (*model.Job, error) {
	var stored model.Job
	query := `
		INSERT INTO jobs (
			id, title, company, location,
			description, source, url, requirements, created_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8, $9
		)
		ON CONFLICT (url) DO UPDATE SET url = EXCLUDED.url
		RETURNING
			id, title, company, location,
			description, source, url, requirements, created_at
	`

	err := s.db.GetContext(
		ctx,
		&stored,
		query,
		job.ID,
		job.Title,
		job.Company,
		job.Location,
		job.Description,
		job.Source,
		job.URL,
		job.Requirements,
		job.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert job: %w", err)
	}

	return &stored, nil
}

// UpsertMatch creates the match for (user, job) or overwrites its score and
// skill lists when the pair already exists. One atomic statement backed by
// the unique constraint, so concurrent analyses cannot duplicate the pair.
func (s *Storage) UpsertMatch(ctx context.Context, match *model.Match) error {
	query := `
		INSERT INTO matches (
			id, user_id, job_id, match_score,
			skills_matched, skills_missing, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8
		)
		ON CONFLICT (user_id, job_id) DO UPDATE SET
			match_score = EXCLUDED.match_score,
			skills_matched = EXCLUDED.skills_matched,
			skills_missing = EXCLUDED.skills_missing,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		match.ID,
		match.UserID,
		match.JobID,
		match.MatchScore,
		match.SkillsMatched,
		match.SkillsMissing,
		match.CreatedAt,
		match.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert match: %w", err)
	}

	return nil
}

// ListMatchesForUser returns the user's matches joined with their jobs,
// best score first, capped at limit. Ties keep insertion order via the
// match created_at secondary key.
func (s *Storage) ListMatchesForUser(ctx context.Context, userID string, limit int) ([]model.MatchedJob, error) {
	query := `
		SELECT
			j.id AS job_id, j.title, j.company, j.location,
			j.description, j.source, j.url,
			m.match_score, m.skills_matched, m.skills_missing,
			j.created_at
		FROM matches m
		JOIN jobs j ON j.id = m.job_id
		WHERE m.user_id = $1
		ORDER BY m.match_score DESC, m.created_at ASC
		LIMIT $2
	`

	matches := []model.MatchedJob{}
	err := s.db.SelectContext(ctx, &matches, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	return matches, nil
}
