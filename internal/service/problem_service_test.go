package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"codedrill_backend/internal/repository"
	"codedrill_backend/internal/util"
)

func newProblems(t *testing.T) *ProblemService {
	t.Helper()
	return NewProblemService(repository.NewProblemRepository(newTestDB(t)), nil)
}

func TestProblemCreate_DerivesSlugFromTitle(t *testing.T) {
	s := newProblems(t)

	problem, err := s.Create(context.Background(), &ProblemInput{
		Title:      "Sum Two Numbers",
		Difficulty: "easy",
		Statement:  "Сложите два числа.",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if problem.Slug != "sum-two-numbers" {
		t.Fatalf("expected derived slug, got %q", problem.Slug)
	}
	if problem.Frequency != "умеренно" {
		t.Fatalf("expected default frequency, got %q", problem.Frequency)
	}
}

func TestProblemCreate_SlugCollision(t *testing.T) {
	s := newProblems(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, &ProblemInput{Title: "First", Slug: "taken", Difficulty: "easy"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Create(ctx, &ProblemInput{Title: "Second", Slug: "taken", Difficulty: "easy"}); !errors.Is(err, util.ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}
}

func TestListPublished_ExcludesDrafts(t *testing.T) {
	s := newProblems(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, &ProblemInput{Title: "Live", Slug: "live", Difficulty: "easy", Published: true}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Create(ctx, &ProblemInput{Title: "Draft", Slug: "draft", Difficulty: "easy"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	views, err := s.ListPublished(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 1 || views[0].Slug != "live" {
		t.Fatalf("expected only the published problem, got %+v", views)
	}
}

func TestGetPublished_DraftIsNotFound(t *testing.T) {
	s := newProblems(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, &ProblemInput{Title: "Draft", Slug: "draft", Difficulty: "easy"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := s.GetPublished("draft"); !errors.Is(err, util.ErrProblemNotFound) {
		t.Fatalf("expected ErrProblemNotFound for a draft, got %v", err)
	}
	if _, err := s.GetPublished("missing"); !errors.Is(err, util.ErrProblemNotFound) {
		t.Fatalf("expected ErrProblemNotFound for a missing slug, got %v", err)
	}
}

func TestProblemView_ParsesTagsAndTests(t *testing.T) {
	s := newProblems(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, &ProblemInput{
		Title:        "Sum",
		Slug:         "sum",
		Difficulty:   "easy",
		FunctionName: "sum",
		Tags:         []string{"математика", "база"},
		Published:    true,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := s.CreateTest(ctx, "sum", &TestInput{
		Order:    0,
		Input:    json.RawMessage(`[1, 2]`),
		Expected: json.RawMessage(`3`),
	}); err != nil {
		t.Fatalf("create test: %v", err)
	}

	view, err := s.GetPublished("sum")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(view.Tags) != 2 || view.Tags[0] != "математика" {
		t.Fatalf("expected split tags, got %+v", view.Tags)
	}
	if len(view.Tests) != 1 {
		t.Fatalf("expected 1 test, got %d", len(view.Tests))
	}
	tc := view.Tests[0]
	if len(tc.Input) != 2 || tc.Input[0] != float64(1) {
		t.Fatalf("expected parsed input array, got %+v", tc.Input)
	}
	if tc.Expected != float64(3) {
		t.Fatalf("expected parsed expected value, got %+v", tc.Expected)
	}
}

func TestCreateTest_RejectsNonArrayInput(t *testing.T) {
	s := newProblems(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, &ProblemInput{Title: "Sum", Slug: "sum", Difficulty: "easy"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := s.CreateTest(ctx, "sum", &TestInput{
		Input:    json.RawMessage(`{"a": 1}`),
		Expected: json.RawMessage(`3`),
	}); err == nil {
		t.Fatalf("expected an error for a non-array input")
	}
}

func TestProblemPatch_MergesFields(t *testing.T) {
	s := newProblems(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, &ProblemInput{Title: "Sum", Slug: "sum", Difficulty: "easy", Statement: "старое"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	published := true
	title := "Сумма"
	problem, err := s.Patch(ctx, "sum", &ProblemPatch{Title: &title, Published: &published})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if problem.Title != "Сумма" || !problem.Published {
		t.Fatalf("expected patched fields applied, got %+v", problem)
	}
	if problem.Statement != "старое" {
		t.Fatalf("absent fields must keep their values, got %q", problem.Statement)
	}
}

func TestProblemDelete_RemovesTests(t *testing.T) {
	s := newProblems(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, &ProblemInput{Title: "Sum", Slug: "sum", Difficulty: "easy"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	test, err := s.CreateTest(ctx, "sum", &TestInput{Input: json.RawMessage(`[]`), Expected: json.RawMessage(`0`)})
	if err != nil {
		t.Fatalf("create test: %v", err)
	}

	if err := s.Delete(ctx, "sum"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.ProblemRepo.FindTestByID(test.ID); err == nil {
		t.Fatalf("expected fixtures deleted with the problem")
	}
	if err := s.Delete(ctx, "sum"); !errors.Is(err, util.ErrProblemNotFound) {
		t.Fatalf("expected ErrProblemNotFound on second delete, got %v", err)
	}
}

func TestProblemDelete_SlugIsReusable(t *testing.T) {
	s := newProblems(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, &ProblemInput{Title: "Sum", Slug: "sum", Difficulty: "easy"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Delete(ctx, "sum"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	recreated, err := s.Create(ctx, &ProblemInput{Title: "Sum", Slug: "sum", Difficulty: "easy"})
	if err != nil {
		t.Fatalf("recreate after delete: %v", err)
	}
	if recreated.Slug != "sum" {
		t.Fatalf("slug = %q, want sum", recreated.Slug)
	}
}

func TestSplitTags(t *testing.T) {
	if got := SplitTags(""); len(got) != 0 {
		t.Fatalf("expected empty slice, got %+v", got)
	}
	got := SplitTags("a, b , ,c")
	if len(got) != 3 || got[1] != "b" {
		t.Fatalf("expected trimmed non-empty tags, got %+v", got)
	}
}
