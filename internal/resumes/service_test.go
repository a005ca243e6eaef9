package resumes

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/teijeiro7/fitmycv/internal/docgen"
	"github.com/teijeiro7/fitmycv/internal/llm"
	"github.com/teijeiro7/fitmycv/internal/shared/storage/object/local"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	store, err := local.New(t.TempDir())
	if err != nil {
		t.Fatalf("local.New: %v", err)
	}
	return &Service{Store: store, Repo: NewMemoryRepo()}
}

func docxFixture(t *testing.T) []byte {
	t.Helper()
	doc, err := docgen.BuildDocx(llm.OptimizedContent{
		Name:    "Ana García",
		Summary: "Go developer with PostgreSQL experience.",
		Skills:  []string{"Go", "PostgreSQL"},
	})
	if err != nil {
		t.Fatalf("BuildDocx: %v", err)
	}
	return doc
}

func TestUploadExtractsText(t *testing.T) {
	svc := newTestService(t)

	resume, err := svc.Upload(context.Background(), "user-1", "My CV", "cv.docx", bytes.NewReader(docxFixture(t)))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if resume.StorageKey == "" || resume.SizeBytes == 0 {
		t.Fatalf("resume = %+v", resume)
	}
	if !strings.Contains(resume.ExtractedText, "Ana García") {
		t.Fatalf("extracted text = %q", resume.ExtractedText)
	}
}

func TestUploadValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	data := bytes.NewReader([]byte("x"))

	if _, err := svc.Upload(ctx, "user-1", "  ", "cv.pdf", data); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty title: %v", err)
	}
	if _, err := svc.Upload(ctx, "user-1", "My CV", "", data); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing file: %v", err)
	}
	if _, err := svc.Upload(ctx, "user-1", "My CV", "cv.txt", data); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad extension: %v", err)
	}
}

func TestGetIsScopedToOwner(t *testing.T) {
	svc := newTestService(t)

	resume, err := svc.Upload(context.Background(), "user-1", "My CV", "cv.docx", bytes.NewReader(docxFixture(t)))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if _, err := svc.Get(context.Background(), "user-2", resume.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign user, got %v", err)
	}
	if _, err := svc.Get(context.Background(), "user-1", resume.ID); err != nil {
		t.Fatalf("owner Get: %v", err)
	}
}

func TestTextOfDerivesWhenMissing(t *testing.T) {
	svc := newTestService(t)

	resume, err := svc.Upload(context.Background(), "user-1", "My CV", "cv.docx", bytes.NewReader(docxFixture(t)))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	// Simulate an upload where extraction failed at write time.
	resume.ExtractedText = ""
	if err := svc.Repo.Create(context.Background(), resume); err != nil {
		t.Fatalf("reset resume: %v", err)
	}

	_, text, err := svc.TextOf(context.Background(), "user-1", resume.ID)
	if err != nil {
		t.Fatalf("TextOf: %v", err)
	}
	if !strings.Contains(text, "Ana García") {
		t.Fatalf("text = %q", text)
	}
}

func TestOpenFileStreamsOriginal(t *testing.T) {
	svc := newTestService(t)
	doc := docxFixture(t)

	resume, err := svc.Upload(context.Background(), "user-1", "My CV", "cv.docx", bytes.NewReader(doc))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	got, rc, err := svc.OpenFile(context.Background(), "user-1", resume.ID)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer rc.Close()
	if got.OriginalFilename != "cv.docx" {
		t.Fatalf("filename = %q", got.OriginalFilename)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(rc); err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), doc) {
		t.Fatalf("stored bytes differ: %d vs %d", buf.Len(), len(doc))
	}
}
