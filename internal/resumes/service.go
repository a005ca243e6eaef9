package resumes

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/teijeiro7/fitmycv/internal/extract"
	"github.com/teijeiro7/fitmycv/internal/shared/metrics"
	"github.com/teijeiro7/fitmycv/internal/shared/storage/object"
	"github.com/teijeiro7/fitmycv/internal/shared/telemetry"
)

// Service contains business logic for uploaded resumes.
type Service struct {
	Store object.Store
	Repo  Repo
}

// Upload validates the file, saves it to object storage, extracts its text
// and records the resume.
func (s *Service) Upload(ctx context.Context, userID, title, fileName string, r io.Reader) (Resume, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Resume{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if fileName == "" {
		return Resume{}, fmt.Errorf("%w: file is required", ErrInvalidInput)
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext != ".pdf" && ext != ".docx" {
		return Resume{}, fmt.Errorf("%w: only PDF and DOCX files are supported", ErrInvalidInput)
	}

	storageKey, mimeType, size, err := s.Store.Save(ctx, fileName, r)
	if err != nil {
		return Resume{}, err
	}

	resume := Resume{
		ID:               uuid.NewString(),
		UserID:           userID,
		Title:            title,
		OriginalFilename: fileName,
		StorageKey:       storageKey,
		MimeType:         mimeType,
		SizeBytes:        size,
		CreatedAt:        time.Now().UTC(),
	}

	// Extraction failures are not fatal: the file is stored and text can be
	// derived again at optimization time.
	text, err := extract.Text(ctx, s.Store, storageKey, mimeType, fileName)
	if err != nil {
		telemetry.Error("resume.extract_failed", map[string]any{
			"resume_id": resume.ID,
			"mime_type": mimeType,
			"error":     err.Error(),
		})
	} else {
		resume.ExtractedText = text
	}

	if err := s.Repo.Create(ctx, resume); err != nil {
		return Resume{}, err
	}
	metrics.IncResumeUploads()
	return resume, nil
}

// Get returns a resume owned by the user.
func (s *Service) Get(ctx context.Context, userID, resumeID string) (Resume, error) {
	if strings.TrimSpace(resumeID) == "" {
		return Resume{}, fmt.Errorf("%w: resume id is required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, userID, resumeID)
}

// List returns the user's resumes, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Resume, error) {
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// OpenFile returns the stored resume file for download.
func (s *Service) OpenFile(ctx context.Context, userID, resumeID string) (Resume, io.ReadCloser, error) {
	resume, err := s.Repo.GetByID(ctx, userID, resumeID)
	if err != nil {
		return Resume{}, nil, err
	}
	rc, err := s.Store.Open(ctx, resume.StorageKey)
	if err != nil {
		return Resume{}, nil, err
	}
	return resume, rc, nil
}

// TextOf returns extracted resume text, deriving it on demand when the upload
// time extraction failed.
func (s *Service) TextOf(ctx context.Context, userID, resumeID string) (Resume, string, error) {
	resume, err := s.Repo.GetByID(ctx, userID, resumeID)
	if err != nil {
		return Resume{}, "", err
	}
	if resume.ExtractedText != "" {
		return resume, resume.ExtractedText, nil
	}
	text, err := extract.Text(ctx, s.Store, resume.StorageKey, resume.MimeType, resume.OriginalFilename)
	if err != nil {
		return Resume{}, "", fmt.Errorf("resume has no extractable text: %w", err)
	}
	return resume, text, nil
}
