package dto

import (
	"time"

	"github.com/Arpan-gl/Rural-Job-recommender/internal/api/model"
)

type AnalyzeRequest struct {
	Query string `json:"query" binding:"required"`
}

// MatchedJobDTO is a job with the caller's match data attached, as returned
// by both the analyze and matches endpoints.
type MatchedJobDTO struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Company       string    `json:"company"`
	Location      string    `json:"location"`
	Description   string    `json:"description"`
	Source        string    `json:"source"`
	URL           string    `json:"url"`
	MatchScore    float64   `json:"match_score"`
	SkillsMatched []string  `json:"skills_matched"`
	SkillsMissing []string  `json:"skills_missing"`
	CreatedAt     time.Time `json:"createdAt"`
}

// AnalyzeResponseData is the data envelope of a successful analysis.
type AnalyzeResponseData struct {
	Skills          []string        `json:"skills"`
	JobTitles       []string        `json:"job_titles"`
	Locations       []string        `json:"locations"`
	ExperienceLevel string          `json:"experience_level"`
	Jobs            []MatchedJobDTO `json:"jobs"`
	TotalFound      int             `json:"total_found"`
}

func NewMatchedJobDTO(m *model.MatchedJob) MatchedJobDTO {
	return MatchedJobDTO{
		ID:            m.JobID,
		Title:         m.Title,
		Company:       m.Company,
		Location:      m.Location,
		Description:   m.Description,
		Source:        m.Source,
		URL:           m.URL,
		MatchScore:    m.MatchScore,
		SkillsMatched: stringSlice(m.SkillsMatched),
		SkillsMissing: stringSlice(m.SkillsMissing),
		CreatedAt:     m.CreatedAt,
	}
}
