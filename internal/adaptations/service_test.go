package adaptations

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/teijeiro7/fitmycv/internal/extract"
	"github.com/teijeiro7/fitmycv/internal/llm"
	"github.com/teijeiro7/fitmycv/internal/resumes"
	"github.com/teijeiro7/fitmycv/internal/shared/storage/object/local"
)

type fakeLLM struct {
	adaptFn func(ctx context.Context, in llm.AdaptInput) (llm.AdaptResult, error)
}

func (f *fakeLLM) AdaptResume(ctx context.Context, in llm.AdaptInput) (llm.AdaptResult, error) {
	return f.adaptFn(ctx, in)
}

func (f *fakeLLM) ExtractJobDetails(ctx context.Context, description, url string) (llm.JobDetails, error) {
	return llm.JobDetails{}, errors.New("not implemented")
}

type fakeProjects struct {
	projects []llm.Project
	err      error
}

func (f *fakeProjects) SelectedProjects(ctx context.Context, userID string) ([]llm.Project, error) {
	return f.projects, f.err
}

func newTestService(t *testing.T, client llm.Client) *Service {
	t.Helper()

	store, err := local.New(t.TempDir())
	if err != nil {
		t.Fatalf("local.New: %v", err)
	}
	resumeRepo := resumes.NewMemoryRepo()
	if err := resumeRepo.Create(context.Background(), resumes.Resume{
		ID:            "resume-1",
		UserID:        "user-1",
		Title:         "My CV",
		ExtractedText: "Senior Go developer\nExperience with PostgreSQL and Docker.",
	}); err != nil {
		t.Fatalf("seed resume: %v", err)
	}

	return &Service{
		Resumes:  &resumes.Service{Store: store, Repo: resumeRepo},
		Repo:     NewMemoryRepo(),
		Store:    store,
		LLM:      client,
		Projects: &fakeProjects{},
	}
}

func validRequest() OptimizeRequest {
	return OptimizeRequest{
		ResumeID:       "resume-1",
		JobTitle:       "Backend Engineer",
		JobCompany:     "Acme",
		JobDescription: "We need experience with Go, PostgreSQL and Kubernetes.",
		Keywords:       []string{"go", "postgresql", "kubernetes"},
	}
}

func TestOptimizeWithLLM(t *testing.T) {
	client := &fakeLLM{adaptFn: func(ctx context.Context, in llm.AdaptInput) (llm.AdaptResult, error) {
		if in.JobTitle != "Backend Engineer" {
			t.Errorf("job title = %q", in.JobTitle)
		}
		if !strings.Contains(in.ResumeText, "Senior Go developer") {
			t.Errorf("resume text not forwarded: %q", in.ResumeText)
		}
		return llm.AdaptResult{
			MatchScore:     88,
			Language:       "English",
			LanguageReason: "Posting is in English",
			KeywordsAdded:  []string{"go", "postgresql"},
			OptimizedContent: llm.OptimizedContent{
				Name:    "Ana García",
				Title:   "Backend Engineer",
				Summary: "Go developer with database expertise.",
				Skills:  []string{"Go", "PostgreSQL"},
			},
			ChangesMade: []string{"Emphasized Go experience"},
		}, nil
	}}

	svc := newTestService(t, client)
	adaptation, err := svc.Optimize(context.Background(), "user-1", validRequest())
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}

	if adaptation.MatchScore != 88 {
		t.Errorf("score = %d", adaptation.MatchScore)
	}
	if adaptation.OptimizedContent.Name != "Ana García" {
		t.Errorf("content = %+v", adaptation.OptimizedContent)
	}
	if adaptation.DocxKey == "" {
		t.Error("docx key should be set after optimization")
	}
	if adaptation.GithubProjects == nil || adaptation.KeywordsMissing == nil {
		t.Error("slices should default to empty, not nil")
	}

	stored, err := svc.Repo.GetByID(context.Background(), "user-1", adaptation.ID)
	if err != nil {
		t.Fatalf("stored adaptation: %v", err)
	}
	if stored.JobTitle != "Backend Engineer" {
		t.Errorf("stored = %+v", stored)
	}
}

func TestOptimizeScoresWhenLLMOmitsScore(t *testing.T) {
	client := &fakeLLM{adaptFn: func(ctx context.Context, in llm.AdaptInput) (llm.AdaptResult, error) {
		return llm.AdaptResult{
			Language: "English",
			OptimizedContent: llm.OptimizedContent{
				Name:    "Ana García",
				Title:   "Backend Engineer",
				Summary: "Go developer with database expertise.",
			},
		}, nil
	}}

	svc := newTestService(t, client)
	adaptation, err := svc.Optimize(context.Background(), "user-1", validRequest())
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}

	// go and postgresql match, kubernetes is missing: 2/3 of 100.
	if adaptation.MatchScore != 67 {
		t.Errorf("score = %d, want keyword coverage when match_score is absent", adaptation.MatchScore)
	}
	if adaptation.OptimizedContent.Name != "Ana García" {
		t.Errorf("rewritten content must be kept, got %+v", adaptation.OptimizedContent)
	}

	stored, err := svc.Repo.GetByID(context.Background(), "user-1", adaptation.ID)
	if err != nil {
		t.Fatalf("stored adaptation: %v", err)
	}
	if stored.MatchScore != 67 {
		t.Errorf("stored score = %d", stored.MatchScore)
	}
}

func TestOptimizeFallsBackWhenLLMFails(t *testing.T) {
	client := &fakeLLM{adaptFn: func(ctx context.Context, in llm.AdaptInput) (llm.AdaptResult, error) {
		return llm.AdaptResult{}, errors.New("provider down")
	}}

	svc := newTestService(t, client)
	adaptation, err := svc.Optimize(context.Background(), "user-1", validRequest())
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}

	// go and postgresql match, kubernetes is missing: 2/3 of 100.
	if adaptation.MatchScore != 67 {
		t.Errorf("fallback score = %d", adaptation.MatchScore)
	}
	if len(adaptation.KeywordsMissing) != 1 || adaptation.KeywordsMissing[0] != "kubernetes" {
		t.Errorf("missing = %v", adaptation.KeywordsMissing)
	}
	if adaptation.Language != "English" {
		t.Errorf("language = %q", adaptation.Language)
	}
}

func TestOptimizeWithoutLLMUsesHeuristics(t *testing.T) {
	svc := newTestService(t, nil)
	adaptation, err := svc.Optimize(context.Background(), "user-1", validRequest())
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if adaptation.MatchScore == 0 {
		t.Error("heuristic score should reflect keyword coverage")
	}
	if adaptation.OptimizedContent.Title != "Backend Engineer" {
		t.Errorf("content title = %q", adaptation.OptimizedContent.Title)
	}
}

func TestOptimizeValidation(t *testing.T) {
	svc := newTestService(t, nil)

	cases := []OptimizeRequest{
		{JobTitle: "x", JobDescription: "y"},
		{ResumeID: "resume-1", JobDescription: "y"},
		{ResumeID: "resume-1", JobTitle: "x"},
	}
	for i, req := range cases {
		if _, err := svc.Optimize(context.Background(), "user-1", req); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestOptimizeResumeNotFound(t *testing.T) {
	svc := newTestService(t, nil)
	req := validRequest()
	req.ResumeID = "missing"
	if _, err := svc.Optimize(context.Background(), "user-1", req); !errors.Is(err, resumes.ErrNotFound) {
		t.Fatalf("expected resumes.ErrNotFound, got %v", err)
	}
}

func TestOptimizeOtherUsersResume(t *testing.T) {
	svc := newTestService(t, nil)
	if _, err := svc.Optimize(context.Background(), "user-2", validRequest()); !errors.Is(err, resumes.ErrNotFound) {
		t.Fatalf("expected resumes.ErrNotFound, got %v", err)
	}
}

func TestDocxForRegeneratesMissingDocument(t *testing.T) {
	svc := newTestService(t, nil)
	if err := svc.Repo.Create(context.Background(), Adaptation{
		ID:       "adapt-1",
		UserID:   "user-1",
		ResumeID: "resume-1",
		JobTitle: "Backend Engineer",
		OptimizedContent: llm.OptimizedContent{
			Name:    "Ana García",
			Summary: "Go developer.",
			Skills:  []string{"Go"},
		},
	}); err != nil {
		t.Fatalf("seed adaptation: %v", err)
	}

	adaptation, data, err := svc.DocxFor(context.Background(), "user-1", "adapt-1")
	if err != nil {
		t.Fatalf("DocxFor: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected generated document bytes")
	}
	if adaptation.DocxKey == "" {
		t.Error("regenerated document should be persisted")
	}

	text, err := extract.TextFromBytes(context.Background(), data, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", "cv.docx")
	if err != nil {
		t.Fatalf("TextFromBytes: %v", err)
	}
	if !strings.Contains(text, "Ana García") {
		t.Errorf("document text = %q", text)
	}
}
