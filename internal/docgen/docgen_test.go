package docgen

import (
	"context"
	"strings"
	"testing"

	"github.com/teijeiro7/fitmycv/internal/extract"
	"github.com/teijeiro7/fitmycv/internal/llm"
)

func TestBuildDocxRoundTrip(t *testing.T) {
	content := llm.OptimizedContent{
		Name:    "Ana García",
		Title:   "Backend Engineer",
		Summary: "Engineer with 6 years of Go & PostgreSQL experience.",
		Experience: []llm.ExperienceItem{
			{
				Title:        "Senior Developer",
				Company:      "Acme <Labs>",
				Date:         "2020 - Present",
				Achievements: []string{"Cut API latency by 40%"},
			},
		},
		Skills: []string{"Go", "PostgreSQL", "Docker"},
		Education: []llm.EducationItem{
			{Degree: "BSc Computer Science", School: "UPM", Year: "2018"},
		},
	}

	data, err := BuildDocx(content)
	if err != nil {
		t.Fatalf("BuildDocx: %v", err)
	}

	// The generated document must survive our own extraction path.
	text, err := extract.TextFromBytes(context.Background(), data, extract.MimeDOCX, "resume.docx")
	if err != nil {
		t.Fatalf("TextFromBytes: %v", err)
	}

	for _, want := range []string{
		"Ana García", "Backend Engineer",
		"Go & PostgreSQL", "Acme <Labs>",
		"Cut API latency by 40%", "Go, PostgreSQL, Docker",
		"BSc Computer Science",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("document missing %q\ntext: %s", want, text)
		}
	}
}

func TestBuildDocxSkipsEmptySections(t *testing.T) {
	data, err := BuildDocx(llm.OptimizedContent{Name: "Ana García"})
	if err != nil {
		t.Fatalf("BuildDocx: %v", err)
	}
	text, err := extract.TextFromBytes(context.Background(), data, extract.MimeDOCX, "resume.docx")
	if err != nil {
		t.Fatalf("TextFromBytes: %v", err)
	}
	if strings.Contains(text, "Experience") || strings.Contains(text, "Skills") {
		t.Fatalf("empty sections should be omitted: %s", text)
	}
}
