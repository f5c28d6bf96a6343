package service

import (
	"codedrill_backend/internal/model"
	"codedrill_backend/internal/repository"
	"codedrill_backend/internal/util"
	"codedrill_backend/pkg/logger"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const publishedCacheKey = "problems:published"
const publishedCacheTTL = 24 * time.Hour

// TestView is a fixture with its JSON columns parsed for the client.
type TestView struct {
	ID       string      `json:"id"`
	Order    int         `json:"order"`
	Input    []any       `json:"input"`
	Expected interface{} `json:"expected"`
}

// ProblemView is the public problem shape: tags split, tests inline.
type ProblemView struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Slug         string           `json:"slug"`
	Difficulty   model.Difficulty `json:"difficulty"`
	Frequency    string           `json:"frequency"`
	Tags         []string         `json:"tags"`
	Statement    string           `json:"statement"`
	StarterCode  string           `json:"starterCode"`
	FunctionName string           `json:"functionName"`
	VideoURL     string           `json:"videoUrl"`
	SolutionMD   string           `json:"solutionMd"`
	Published    bool             `json:"published"`
	Tests        []TestView       `json:"tests"`
}

type ProblemService struct {
	ProblemRepo *repository.ProblemRepository
	Redis       *redis.Client
}

func NewProblemService(problemRepo *repository.ProblemRepository, rdb *redis.Client) *ProblemService {
	return &ProblemService{
		ProblemRepo: problemRepo,
		Redis:       rdb,
	}
}

func SplitTags(tags string) []string {
	if tags == "" {
		return []string{}
	}
	parts := strings.Split(tags, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func JoinTags(tags []string) string {
	return strings.Join(tags, ",")
}

func (s *ProblemService) toView(problem *model.Problem) (*ProblemView, error) {
	tests, err := s.ProblemRepo.ListTests(problem.ID)
	if err != nil {
		return nil, err
	}

	view := &ProblemView{
		ID:           problem.ID,
		Title:        problem.Title,
		Slug:         problem.Slug,
		Difficulty:   problem.Difficulty,
		Frequency:    problem.Frequency,
		Tags:         SplitTags(problem.Tags),
		Statement:    problem.Statement,
		StarterCode:  problem.StarterCode,
		FunctionName: problem.FunctionName,
		VideoURL:     problem.VideoURL,
		SolutionMD:   problem.SolutionMD,
		Published:    problem.Published,
		Tests:        make([]TestView, 0, len(tests)),
	}

	for _, t := range tests {
		tv := TestView{ID: t.ID, Order: t.OrderIndex}
		if err := json.Unmarshal([]byte(t.InputJSON), &tv.Input); err != nil {
			tv.Input = []any{}
		}
		if err := json.Unmarshal([]byte(t.ExpectedJSON), &tv.Expected); err != nil {
			tv.Expected = nil
		}
		view.Tests = append(view.Tests, tv)
	}

	return view, nil
}

// ListPublished serves the public problem list, cached in redis when
// available. Unpublished problems never appear here.
func (s *ProblemService) ListPublished(ctx context.Context) ([]ProblemView, error) {
	if s.Redis != nil {
		if val, err := s.Redis.Get(ctx, publishedCacheKey).Result(); err == nil {
			var cached []ProblemView
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return cached, nil
			}
		}
	}

	problems, err := s.ProblemRepo.ListPublished()
	if err != nil {
		return nil, err
	}

	views := make([]ProblemView, 0, len(problems))
	for i := range problems {
		view, err := s.toView(&problems[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}

	if s.Redis != nil {
		if encoded, err := json.Marshal(views); err == nil {
			if err := s.Redis.Set(ctx, publishedCacheKey, encoded, publishedCacheTTL).Err(); err != nil {
				logger.Log.Warn("failed to cache published problems", zap.Error(err))
			}
		}
	}

	return views, nil
}

func (s *ProblemService) GetPublished(slug string) (*ProblemView, error) {
	problem, err := s.ProblemRepo.FindBySlug(slug)
	if err != nil || !problem.Published {
		return nil, util.ErrProblemNotFound
	}
	return s.toView(problem)
}

func (s *ProblemService) invalidateCache(ctx context.Context) {
	if s.Redis != nil {
		s.Redis.Del(ctx, publishedCacheKey)
	}
}

// --- admin surface ---

type ProblemInput struct {
	Title        string   `json:"title"`
	Slug         string   `json:"slug"`
	Difficulty   string   `json:"difficulty"`
	Frequency    string   `json:"frequency"`
	Statement    string   `json:"statement"`
	StarterCode  string   `json:"starterCode"`
	FunctionName string   `json:"functionName"`
	Tags         []string `json:"tags"`
	VideoURL     string   `json:"videoUrl"`
	SolutionMD   string   `json:"solutionMd"`
	Published    bool     `json:"published"`
}

type ProblemPatch struct {
	Title        *string   `json:"title"`
	Difficulty   *string   `json:"difficulty"`
	Frequency    *string   `json:"frequency"`
	Statement    *string   `json:"statement"`
	StarterCode  *string   `json:"starterCode"`
	FunctionName *string   `json:"functionName"`
	Tags         *[]string `json:"tags"`
	VideoURL     *string   `json:"videoUrl"`
	SolutionMD   *string   `json:"solutionMd"`
	Published    *bool     `json:"published"`
}

func (s *ProblemService) ListAll() ([]model.Problem, error) {
	return s.ProblemRepo.List()
}

func (s *ProblemService) Create(ctx context.Context, input *ProblemInput) (*model.Problem, error) {
	problemSlug := input.Slug
	if problemSlug == "" {
		problemSlug = slug.Make(input.Title)
	}

	if _, err := s.ProblemRepo.FindBySlug(problemSlug); err == nil {
		return nil, util.ErrSlugTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	problem := &model.Problem{
		Title:        input.Title,
		Slug:         problemSlug,
		Difficulty:   model.Difficulty(input.Difficulty),
		Frequency:    input.Frequency,
		Statement:    input.Statement,
		StarterCode:  input.StarterCode,
		FunctionName: input.FunctionName,
		Tags:         JoinTags(input.Tags),
		VideoURL:     input.VideoURL,
		SolutionMD:   input.SolutionMD,
		Published:    input.Published,
	}
	if problem.Frequency == "" {
		problem.Frequency = "умеренно"
	}

	if err := s.ProblemRepo.Create(problem); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	return problem, nil
}

// Patch merges the provided fields over the stored row; absent fields keep
// their current values.
func (s *ProblemService) Patch(ctx context.Context, problemSlug string, patch *ProblemPatch) (*model.Problem, error) {
	problem, err := s.ProblemRepo.FindBySlug(problemSlug)
	if err != nil {
		return nil, util.ErrProblemNotFound
	}

	if patch.Title != nil {
		problem.Title = *patch.Title
	}
	if patch.Difficulty != nil {
		problem.Difficulty = model.Difficulty(*patch.Difficulty)
	}
	if patch.Frequency != nil {
		problem.Frequency = *patch.Frequency
	}
	if patch.Statement != nil {
		problem.Statement = *patch.Statement
	}
	if patch.StarterCode != nil {
		problem.StarterCode = *patch.StarterCode
	}
	if patch.FunctionName != nil {
		problem.FunctionName = *patch.FunctionName
	}
	if patch.Tags != nil {
		problem.Tags = JoinTags(*patch.Tags)
	}
	if patch.VideoURL != nil {
		problem.VideoURL = *patch.VideoURL
	}
	if patch.SolutionMD != nil {
		problem.SolutionMD = *patch.SolutionMD
	}
	if patch.Published != nil {
		problem.Published = *patch.Published
	}

	if err := s.ProblemRepo.Update(problem); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	return problem, nil
}

func (s *ProblemService) Delete(ctx context.Context, problemSlug string) error {
	if err := s.ProblemRepo.Delete(problemSlug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrProblemNotFound
		}
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

type TestInput struct {
	Order    int             `json:"order"`
	Input    json.RawMessage `json:"input"`
	Expected json.RawMessage `json:"expected"`
}

func (s *ProblemService) ListTests(problemSlug string) ([]model.ProblemTest, error) {
	problem, err := s.ProblemRepo.FindBySlug(problemSlug)
	if err != nil {
		return nil, util.ErrProblemNotFound
	}
	return s.ProblemRepo.ListTests(problem.ID)
}

func (s *ProblemService) CreateTest(ctx context.Context, problemSlug string, input *TestInput) (*model.ProblemTest, error) {
	problem, err := s.ProblemRepo.FindBySlug(problemSlug)
	if err != nil {
		return nil, util.ErrProblemNotFound
	}

	var arr []any
	if err := json.Unmarshal(input.Input, &arr); err != nil {
		return nil, errors.New("input must be a JSON array")
	}

	test := &model.ProblemTest{
		ProblemID:    problem.ID,
		OrderIndex:   input.Order,
		InputJSON:    string(input.Input),
		ExpectedJSON: string(input.Expected),
	}
	if err := s.ProblemRepo.CreateTest(test); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	return test, nil
}

func (s *ProblemService) UpdateTest(ctx context.Context, id string, input *TestInput) (*model.ProblemTest, error) {
	test, err := s.ProblemRepo.FindTestByID(id)
	if err != nil {
		return nil, util.ErrTestNotFound
	}

	var arr []any
	if err := json.Unmarshal(input.Input, &arr); err != nil {
		return nil, errors.New("input must be a JSON array")
	}

	test.OrderIndex = input.Order
	test.InputJSON = string(input.Input)
	test.ExpectedJSON = string(input.Expected)
	if err := s.ProblemRepo.UpdateTest(test); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	return test, nil
}

func (s *ProblemService) DeleteTest(ctx context.Context, id string) error {
	if err := s.ProblemRepo.DeleteTest(id); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}
