package model

import (
	"time"

	"github.com/lib/pq"
)

// User is a registered account plus the profile attributes the analyzer
// overwrites on each successful run. Password holds the bcrypt hash and is
// never serialized to clients.
type User struct {
	ID              string         `db:"id"`
	Email           string         `db:"email"`
	Password        string         `db:"password"`
	Name            string         `db:"name"`
	Skills          pq.StringArray `db:"skills"`
	PreferredRoles  pq.StringArray `db:"preferred_roles"`
	ExperienceYears int            `db:"experience_years"`
	Location        string         `db:"location"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

// Job is a posting keyed by URL; once created its fields are immutable.
type Job struct {
	ID           string         `db:"id"`
	Title        string         `db:"title"`
	Company      string         `db:"company"`
	Location     string         `db:"location"`
	Description  string         `db:"description"`
	Source       string         `db:"source"`
	URL          string         `db:"url"`
	Requirements pq.StringArray `db:"requirements"`
	CreatedAt    time.Time      `db:"created_at"`
}

// Match links one user to one job with the externally computed score and
// skill overlap. At most one row exists per (UserID, JobID).
type Match struct {
	ID            string         `db:"id"`
	UserID        string         `db:"user_id"`
	JobID         string         `db:"job_id"`
	MatchScore    float64        `db:"match_score"`
	SkillsMatched pq.StringArray `db:"skills_matched"`
	SkillsMissing pq.StringArray `db:"skills_missing"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

// MatchedJob is the flat match-joined-with-job projection served to clients.
type MatchedJob struct {
	JobID         string         `db:"job_id"`
	Title         string         `db:"title"`
	Company       string         `db:"company"`
	Location      string         `db:"location"`
	Description   string         `db:"description"`
	Source        string         `db:"source"`
	URL           string         `db:"url"`
	MatchScore    float64        `db:"match_score"`
	SkillsMatched pq.StringArray `db:"skills_matched"`
	SkillsMissing pq.StringArray `db:"skills_missing"`
	CreatedAt     time.Time      `db:"created_at"`
}
