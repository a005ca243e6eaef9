package resumes

import "time"

// Resume is an uploaded resume file owned by a user.
type Resume struct {
	ID               string
	UserID           string
	Title            string
	OriginalFilename string
	StorageKey       string
	MimeType         string
	SizeBytes        int64
	ExtractedText    string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
