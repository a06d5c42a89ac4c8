package handler

import (
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/Arpan-gl/Rural-Job-recommender/internal/api/domain"
	"github.com/Arpan-gl/Rural-Job-recommender/internal/api/dto"
	"github.com/Arpan-gl/Rural-Job-recommender/internal/api/model"
	"github.com/Arpan-gl/Rural-Job-recommender/shared/aiservice"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Analyze handles POST /api/recommender/analyze.
// It forwards the free-text query to the AI service, overwrites the user's
// extracted profile, upserts every returned candidate as a job plus a match,
// and responds with the top-scored results.
func (h *RecommenderHandler) Analyze(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Unauthorized",
		})
		return
	}

	var req dto.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Query is required",
		})
		return
	}

	ctx := c.Request.Context()

	rec, err := h.ai.Recommend(ctx, req.Query)
	if err != nil {
		h.logger.Error("AI service call failed",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "AI service is temporarily unavailable. Please try again later.",
		})
		return
	}

	// Best effort: a failed profile write must not abort the analysis.
	if err := h.users.UpdateUserProfile(ctx, user.ID, rec.Skills, rec.JobTitles); err != nil {
		h.logger.Warn("Failed to update user profile from analysis",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	results := []dto.MatchedJobDTO{}
	for _, cand := range rec.Candidates() {
		matched, err := h.persistCandidate(c, user.ID, &cand)
		if err != nil {
			// One bad candidate must not abort the rest
			h.logger.Warn("Skipping job candidate",
				slog.String("user_id", user.ID),
				slog.String("url", cand.URL),
				slog.String("error", err.Error()),
			)
			continue
		}

		results = append(results, *matched)
	}

	// Score descending; equal scores keep the order the AI produced them in
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchScore > results[j].MatchScore
	})

	if len(results) > domain.MaxMatchResults {
		results = results[:domain.MaxMatchResults]
	}

	h.logger.Info("Query analyzed",
		slog.String("user_id", user.ID),
		slog.Int("jobs_returned", len(results)),
		slog.Int("total_found", rec.TotalJobsFound),
	)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Successfully analyzed and found job matches",
		"data": dto.AnalyzeResponseData{
			Skills:          rec.Skills,
			JobTitles:       rec.JobTitles,
			Locations:       rec.Locations,
			ExperienceLevel: rec.ExperienceLevel,
			Jobs:            results,
			TotalFound:      rec.TotalJobsFound,
		},
	})
}

// persistCandidate upserts one candidate's job and match rows and returns
// the projection that goes into the response.
func (h *RecommenderHandler) persistCandidate(c *gin.Context, userID string, cand *aiservice.Candidate) (*dto.MatchedJobDTO, error) {
	ctx := c.Request.Context()
	now := time.Now()

	job, err := h.matches.UpsertJob(ctx, &model.Job{
		ID:           uuid.New().String(),
		Title:        cand.Title,
		Company:      cand.Company,
		Location:     cand.Location,
		Description:  cand.Description,
		Source:       cand.Source,
		URL:          cand.URL,
		Requirements: pq.StringArray{},
		CreatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	score := cand.Score()

	if err := h.matches.UpsertMatch(ctx, &model.Match{
		ID:            uuid.New().String(),
		UserID:        userID,
		JobID:         job.ID,
		MatchScore:    score,
		SkillsMatched: pq.StringArray(cand.SkillsMatched),
		SkillsMissing: pq.StringArray(cand.SkillsMissing),
		CreatedAt:     now,
		UpdatedAt:     now,
	}); err != nil {
		return nil, err
	}

	return &dto.MatchedJobDTO{
		ID:            job.ID,
		Title:         job.Title,
		Company:       job.Company,
		Location:      job.Location,
		Description:   job.Description,
		Source:        job.Source,
		URL:           job.URL,
		MatchScore:    score,
		SkillsMatched: cand.SkillsMatched,
		SkillsMissing: cand.SkillsMissing,
		CreatedAt:     job.CreatedAt,
	}, nil
}

// GetMatches handles GET /api/recommender/matches
func (h *RecommenderHandler) GetMatches(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Unauthorized",
		})
		return
	}

	matches, err := h.matches.ListMatchesForUser(c.Request.Context(), user.ID, domain.MaxMatchResults)
	if err != nil {
		h.logger.Error("Failed to list matches",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Internal server error",
		})
		return
	}

	data := make([]dto.MatchedJobDTO, 0, len(matches))
	for i := range matches {
		data = append(data, dto.NewMatchedJobDTO(&matches[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}
