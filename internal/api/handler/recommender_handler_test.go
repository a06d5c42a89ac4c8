package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/Arpan-gl/Rural-Job-recommender/internal/api/dto"
	"github.com/Arpan-gl/Rural-Job-recommender/internal/api/model"
	"github.com/Arpan-gl/Rural-Job-recommender/shared/aiservice"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type analyzeEnvelope struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message"`
	Data    dto.AnalyzeResponseData `json:"data"`
}

func newRecommenderHandler(store *fakeStore, ai *fakeAnalyzer) *RecommenderHandler {
	return &RecommenderHandler{
		logger:  discardLogger(),
		users:   store,
		matches: store,
		ai:      ai,
	}
}

func testUser() *model.User {
	return &model.User{
		ID:    "user-1",
		Email: "user@example.com",
		Name:  "Test User",
	}
}

func score(f float64) *float64 { return &f }

func candidate(url string, s *float64) aiservice.Candidate {
	return aiservice.Candidate{
		Title:         "Job " + url,
		Company:       "Acme",
		URL:           url,
		MatchScore:    s,
		SkillsMatched: []string{},
		SkillsMissing: []string{},
	}
}

func TestAnalyzeSortsByScoreAndCapsAtTen(t *testing.T) {
	store := newFakeStore()
	user := testUser()
	store.addUser(user)

	// 12 candidates: scores 5..60 in best_matches, plus two ties in other_jobs
	var best []aiservice.Candidate
	for i := 1; i <= 10; i++ {
		best = append(best, candidate(fmt.Sprintf("https://x/%d", i), score(float64(i*5))))
	}
	other := []aiservice.Candidate{
		candidate("https://x/tie-a", score(40)),
		candidate("https://x/tie-b", score(40)),
	}

	ai := &fakeAnalyzer{rec: &aiservice.Recommendation{
		Skills:          []string{"Go"},
		JobTitles:       []string{"Backend"},
		Locations:       []string{"Remote"},
		ExperienceLevel: "mid",
		BestMatches:     best,
		OtherJobs:       other,
		TotalJobsFound:  12,
	}}

	h := newRecommenderHandler(store, ai)

	c, w := testRequest(http.MethodPost, "/api/recommender/analyze", map[string]string{"query": "go backend"})
	c.Set(ContextUserKey, user)
	h.Analyze(c)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp analyzeEnvelope
	decodeBody(t, w, &resp)

	assert.True(t, resp.Success)
	assert.Equal(t, 12, resp.Data.TotalFound)
	assert.Equal(t, "mid", resp.Data.ExperienceLevel)
	require.Len(t, resp.Data.Jobs, 10)

	for i := 1; i < len(resp.Data.Jobs); i++ {
		assert.GreaterOrEqual(t, resp.Data.Jobs[i-1].MatchScore, resp.Data.Jobs[i].MatchScore,
			"jobs must be sorted by score descending")
	}

	// Equal scores keep input order: x/8 (40) before the two other_jobs ties
	var at40 []string
	for _, j := range resp.Data.Jobs {
		if j.MatchScore == 40 {
			at40 = append(at40, j.URL)
		}
	}
	assert.Equal(t, []string{"https://x/8", "https://x/tie-a", "https://x/tie-b"}, at40)
}

func TestAnalyzeRejectsMissingQueryBeforeCallingAI(t *testing.T) {
	tests := []struct {
		name string
		body any
	}{
		{"no body", nil},
		{"empty object", map[string]string{}},
		{"empty query", map[string]string{"query": ""}},
		{"whitespace query", map[string]string{"query": "   "}},
		{"non-string query", map[string]any{"query": 123}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			user := testUser()
			store.addUser(user)
			ai := &fakeAnalyzer{rec: &aiservice.Recommendation{}}
			h := newRecommenderHandler(store, ai)

			c, w := testRequest(http.MethodPost, "/api/recommender/analyze", tt.body)
			c.Set(ContextUserKey, user)
			h.Analyze(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "Query is required")
			assert.Zero(t, ai.calls, "no outbound AI call may happen on invalid input")
			assert.Zero(t, store.jobUpserts)
		})
	}
}

func TestAnalyzeAIFailureWritesNothing(t *testing.T) {
	store := newFakeStore()
	user := testUser()
	store.addUser(user)
	ai := &fakeAnalyzer{err: errors.New("connection refused")}
	h := newRecommenderHandler(store, ai)

	c, w := testRequest(http.MethodPost, "/api/recommender/analyze", map[string]string{"query": "anything"})
	c.Set(ContextUserKey, user)
	h.Analyze(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "AI service is temporarily unavailable. Please try again later.")
	assert.Zero(t, store.profileCalls)
	assert.Zero(t, store.jobUpserts)
	assert.Zero(t, store.matchUpserts)
}

func TestAnalyzeResubmitOverwritesInsteadOfDuplicating(t *testing.T) {
	store := newFakeStore()
	user := testUser()
	store.addUser(user)

	rec := &aiservice.Recommendation{
		BestMatches:    []aiservice.Candidate{candidate("https://x/1", score(90))},
		TotalJobsFound: 1,
	}
	ai := &fakeAnalyzer{rec: rec}
	h := newRecommenderHandler(store, ai)

	for i := 0; i < 2; i++ {
		if i == 1 {
			rec.BestMatches[0].MatchScore = score(75)
		}
		c, w := testRequest(http.MethodPost, "/api/recommender/analyze", map[string]string{"query": "same query"})
		c.Set(ContextUserKey, user)
		h.Analyze(c)
		require.Equal(t, http.StatusOK, w.Code)
	}

	assert.Len(t, store.jobsByURL, 1, "second run must reuse the job row")
	assert.Len(t, store.matches, 1, "second run must overwrite the match row")

	job := store.jobsByURL["https://x/1"]
	match := store.matches[user.ID+"|"+job.ID]
	require.NotNil(t, match)
	assert.Equal(t, 75.0, match.MatchScore, "score is overwritten on resubmit")
}

func TestAnalyzeSkipsFailedCandidate(t *testing.T) {
	store := newFakeStore()
	user := testUser()
	store.addUser(user)
	store.failJobURL = "https://x/2"

	ai := &fakeAnalyzer{rec: &aiservice.Recommendation{
		BestMatches: []aiservice.Candidate{
			candidate("https://x/1", score(90)),
			candidate("https://x/2", score(80)),
			candidate("https://x/3", score(70)),
		},
		TotalJobsFound: 3,
	}}
	h := newRecommenderHandler(store, ai)

	c, w := testRequest(http.MethodPost, "/api/recommender/analyze", map[string]string{"query": "query"})
	c.Set(ContextUserKey, user)
	h.Analyze(c)

	require.Equal(t, http.StatusOK, w.Code)

	var resp analyzeEnvelope
	decodeBody(t, w, &resp)

	require.Len(t, resp.Data.Jobs, 2, "well-formed candidates survive one bad one")
	assert.Equal(t, "https://x/1", resp.Data.Jobs[0].URL)
	assert.Equal(t, "https://x/3", resp.Data.Jobs[1].URL)
	assert.Len(t, store.matches, 2)
}

func TestAnalyzeProfileUpdateFailureIsNotFatal(t *testing.T) {
	store := newFakeStore()
	user := testUser()
	store.addUser(user)
	store.profileErr = errors.New("simulated profile failure")

	ai := &fakeAnalyzer{rec: &aiservice.Recommendation{
		Skills:         []string{"Mobile Repair"},
		BestMatches:    []aiservice.Candidate{candidate("https://x/1", score(90))},
		TotalJobsFound: 1,
	}}
	h := newRecommenderHandler(store, ai)

	c, w := testRequest(http.MethodPost, "/api/recommender/analyze", map[string]string{"query": "query"})
	c.Set(ContextUserKey, user)
	h.Analyze(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, store.profileCalls)
	assert.Len(t, store.matches, 1, "match persistence proceeds past a profile failure")
}

func TestAnalyzeOverwritesUserProfile(t *testing.T) {
	store := newFakeStore()
	user := testUser()
	user.Skills = pq.StringArray{"Old Skill"}
	store.addUser(user)

	ai := &fakeAnalyzer{rec: &aiservice.Recommendation{
		Skills:    []string{"Mobile Repair", "Electronics"},
		JobTitles: []string{"Repair Tech"},
	}}
	h := newRecommenderHandler(store, ai)

	c, w := testRequest(http.MethodPost, "/api/recommender/analyze", map[string]string{"query": "3 years mobile repair experience"})
	c.Set(ContextUserKey, user)
	h.Analyze(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Mobile Repair", "Electronics"}, []string(store.usersByID[user.ID].Skills))
	assert.Equal(t, []string{"Repair Tech"}, []string(store.usersByID[user.ID].PreferredRoles))
}

func TestAnalyzeDefaultsMissingScore(t *testing.T) {
	store := newFakeStore()
	user := testUser()
	store.addUser(user)

	ai := &fakeAnalyzer{rec: &aiservice.Recommendation{
		BestMatches:    []aiservice.Candidate{candidate("https://x/1", nil)},
		TotalJobsFound: 1,
	}}
	h := newRecommenderHandler(store, ai)

	c, w := testRequest(http.MethodPost, "/api/recommender/analyze", map[string]string{"query": "query"})
	c.Set(ContextUserKey, user)
	h.Analyze(c)

	require.Equal(t, http.StatusOK, w.Code)

	var resp analyzeEnvelope
	decodeBody(t, w, &resp)
	require.Len(t, resp.Data.Jobs, 1)
	assert.Equal(t, float64(aiservice.DefaultScore), resp.Data.Jobs[0].MatchScore)
}

func TestGetMatchesEmptyListIsNotAnError(t *testing.T) {
	store := newFakeStore()
	user := testUser()
	store.addUser(user)
	h := newRecommenderHandler(store, &fakeAnalyzer{})

	c, w := testRequest(http.MethodGet, "/api/recommender/matches", nil)
	c.Set(ContextUserKey, user)
	h.GetMatches(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data":[]`)
}

func TestGetMatchesReturnsProjection(t *testing.T) {
	store := newFakeStore()
	user := testUser()
	store.addUser(user)
	store.listResult = []model.MatchedJob{
		{
			JobID:         "job-1",
			Title:         "Repair Tech",
			Company:       "FixIt",
			URL:           "https://x/1",
			MatchScore:    90,
			SkillsMatched: pq.StringArray{"Mobile Repair"},
			SkillsMissing: pq.StringArray{"Customer Service"},
		},
		{
			JobID:      "job-2",
			Title:      "Electronics Tech",
			Company:    "Sparks",
			URL:        "https://x/2",
			MatchScore: 70,
		},
	}
	h := newRecommenderHandler(store, &fakeAnalyzer{})

	c, w := testRequest(http.MethodGet, "/api/recommender/matches", nil)
	c.Set(ContextUserKey, user)
	h.GetMatches(c)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                `json:"success"`
		Data    []dto.MatchedJobDTO `json:"data"`
	}
	decodeBody(t, w, &resp)

	require.Len(t, resp.Data, 2)
	assert.Equal(t, "job-1", resp.Data[0].ID)
	assert.Equal(t, 90.0, resp.Data[0].MatchScore)
	assert.Equal(t, []string{"Mobile Repair"}, resp.Data[0].SkillsMatched)
	assert.Equal(t, []string{}, resp.Data[1].SkillsMatched, "empty skill lists serialize as arrays")
}

func TestGetMatchesStorageFailure(t *testing.T) {
	store := newFakeStore()
	user := testUser()
	store.addUser(user)
	store.listErr = errors.New("simulated db failure")
	h := newRecommenderHandler(store, &fakeAnalyzer{})

	c, w := testRequest(http.MethodGet, "/api/recommender/matches", nil)
	c.Set(ContextUserKey, user)
	h.GetMatches(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
}
