package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"glauniversity/ats-matcher/internal/models"
)

type stubGuidance struct {
	text    string
	err     error
	queries []string
}

func (s *stubGuidance) Retrieve(_ context.Context, query string) (string, error) {
	s.queries = append(s.queries, query)
	return s.text, s.err
}

var testProfile = models.StudentProfile{
	Name:      "Asha",
	Email:     "asha@example.com",
	Phone:     "555",
	Skills:    "Go",
	Education: "B.Tech",
}

func TestStudentAnalyzeAsksPromptsInOrder(t *testing.T) {
	stub := &stubGenerator{responses: map[string]string{
		"ATS scanner":               "78",
		"Identify skills":           "Go",
		"not present in the resume": "Kubernetes",
	}}
	service := NewStudentService(NewAnalysisResponder(stub, zap.NewNop()), nil, zap.NewNop())

	result := service.Analyze(context.Background(), testProfile, "Backend role")

	wantTitles := []string{"Match Percentage", "Relevant Skills", "Recommended Skills"}
	wantAnswers := []string{"78", "Go", "Kubernetes"}
	if len(result.Sections) != len(wantTitles) {
		t.Fatalf("expected %d sections, got %d", len(wantTitles), len(result.Sections))
	}
	for i, section := range result.Sections {
		if section.Title != wantTitles[i] {
			t.Fatalf("section %d: got title %q", i, section.Title)
		}
		if section.Response == nil || *section.Response != wantAnswers[i] {
			t.Fatalf("section %d: unexpected response %v", i, section.Response)
		}
		if section.Error != nil {
			t.Fatalf("section %d: unexpected error %q", i, *section.Error)
		}
	}

	calls := stub.calls()
	if len(calls) != 3 {
		t.Fatalf("expected 3 model calls, got %d", len(calls))
	}
	if !strings.HasPrefix(calls[0], "Resume:\nAsha\nasha@example.com\n555") {
		t.Fatalf("resume text missing from request: %q", calls[0])
	}
	if !strings.Contains(result.ResumeText, "Skills:\nGo") {
		t.Fatalf("unexpected resume text: %q", result.ResumeText)
	}
}

func TestStudentAnalyzeReportsFailurePerSection(t *testing.T) {
	stub := &stubGenerator{err: errors.New("quota exceeded")}
	service := NewStudentService(NewAnalysisResponder(stub, zap.NewNop()), nil, zap.NewNop())

	result := service.Analyze(context.Background(), testProfile, "jd")

	if len(result.Sections) != 3 {
		t.Fatalf("expected every section even on failure, got %d", len(result.Sections))
	}
	for _, section := range result.Sections {
		if section.Response != nil {
			t.Fatalf("expected no response for %s", section.Title)
		}
		if section.Error == nil || !strings.Contains(*section.Error, "quota exceeded") {
			t.Fatalf("expected error message for %s", section.Title)
		}
	}
}

func TestStudentAnalyzeAddsGuidanceToGuidedPrompts(t *testing.T) {
	stub := &stubGenerator{response: "ok"}
	guidance := &stubGuidance{text: "Quantify achievements."}
	service := NewStudentService(NewAnalysisResponder(stub, zap.NewNop()), guidance, zap.NewNop())

	service.Analyze(context.Background(), testProfile, "Backend role")

	if len(guidance.queries) != 1 || guidance.queries[0] != "Backend role" {
		t.Fatalf("unexpected guidance queries: %v", guidance.queries)
	}

	calls := stub.calls()
	if strings.Contains(calls[0], "Reference Guidelines") {
		t.Fatalf("score prompt must not carry guidance")
	}
	for _, call := range calls[1:] {
		if !strings.Contains(call, "Reference Guidelines:\nQuantify achievements.") {
			t.Fatalf("guided prompt missing guidance: %q", call)
		}
	}
}

func TestStudentAnalyzeIgnoresGuidanceFailure(t *testing.T) {
	stub := &stubGenerator{response: "ok"}
	guidance := &stubGuidance{err: errors.New("qdrant down")}
	service := NewStudentService(NewAnalysisResponder(stub, zap.NewNop()), guidance, zap.NewNop())

	result := service.Analyze(context.Background(), testProfile, "jd")

	for _, section := range result.Sections {
		if section.Response == nil {
			t.Fatalf("guidance failure must not fail %s", section.Title)
		}
	}
}
