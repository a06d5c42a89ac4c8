package aiservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const (
	contentType = "application/json"

	// DefaultScore is assigned when the upstream omits a match score
	DefaultScore = 50
)

// Candidate is one job proposed by the recommendation service. MatchScore is
// a pointer so an absent score can be told apart from an explicit zero.
type Candidate struct {
	Title         string   `json:"title"`
	Company       string   `json:"company"`
	Location      string   `json:"location"`
	Description   string   `json:"description"`
	Source        string   `json:"source"`
	URL           string   `json:"url"`
	MatchScore    *float64 `json:"match_score"`
	SkillsMatched []string `json:"skills_matched"`
	SkillsMissing []string `json:"skills_missing"`
}

// Score returns the candidate's match score clamped to [0, 100],
// or DefaultScore when the upstream omitted it.
func (c *Candidate) Score() float64 {
	if c.MatchScore == nil {
		return DefaultScore
	}

	score := *c.MatchScore
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// valid reports whether the candidate carries the fields a Job row needs.
func (c *Candidate) valid() bool {
	return c.Title != "" && c.Company != "" && c.URL != ""
}

// Recommendation is the validated payload of a successful analysis call.
type Recommendation struct {
	Skills          []string    `json:"skills"`
	JobTitles       []string    `json:"job_titles"`
	Locations       []string    `json:"locations"`
	ExperienceLevel string      `json:"experience_level"`
	BestMatches     []Candidate `json:"best_matches"`
	OtherJobs       []Candidate `json:"other_jobs"`
	TotalJobsFound  int         `json:"total_jobs_found"`
}

// Candidates returns best matches followed by the remaining jobs, in the
// order the service produced them.
func (r *Recommendation) Candidates() []Candidate {
	out := make([]Candidate, 0, len(r.BestMatches)+len(r.OtherJobs))
	out = append(out, r.BestMatches...)
	out = append(out, r.OtherJobs...)
	return out
}

// Client talks to the external AI recommendation service.
type Client struct {
	url        string
	logger     *slog.Logger
	HTTPClient *http.Client
}

// Config holds AI service client configuration
type Config struct {
	URL     string
	Timeout time.Duration
}

// NewClient creates a client for the recommendation service. The timeout
// bounds the whole request; there are no retries.
func NewClient(config *Config, logger *slog.Logger) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		url:    config.URL,
		logger: logger,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Recommend sends the free-text query to the recommendation service and
// returns its validated response. Any transport error, non-200 status, or
// undecodable body is reported as a single opaque failure; the caller treats
// all of them as upstream unavailability.
func (c *Client) Recommend(ctx context.Context, query string) (*Recommendation, error) {
	payload, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	c.logger.Debug("Calling AI service", slog.String("url", c.url))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ai service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ai service returned bad status: %s", resp.Status)
	}

	var rec Recommendation
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode ai service response: %w", err)
	}

	c.normalize(&rec)

	return &rec, nil
}

// normalize validates the duck-typed upstream payload at the boundary:
// nil lists become empty ones and candidates missing the fields a Job row
// needs are dropped with a warning.
func (c *Client) normalize(rec *Recommendation) {
	if rec.Skills == nil {
		rec.Skills = []string{}
	}
	if rec.JobTitles == nil {
		rec.JobTitles = []string{}
	}
	if rec.Locations == nil {
		rec.Locations = []string{}
	}

	rec.BestMatches = c.dropInvalid(rec.BestMatches)
	rec.OtherJobs = c.dropInvalid(rec.OtherJobs)
}

func (c *Client) dropInvalid(candidates []Candidate) []Candidate {
	out := make([]Candidate, 0, len(candidates))
	for _, cand := range candidates {
		if !cand.valid() {
			c.logger.Warn("Dropping malformed job candidate from AI response",
				slog.String("title", cand.Title),
				slog.String("url", cand.URL),
			)
			continue
		}

		if cand.SkillsMatched == nil {
			cand.SkillsMatched = []string{}
		}
		if cand.SkillsMissing == nil {
			cand.SkillsMissing = []string{}
		}

		out = append(out, cand)
	}
	return out
}
