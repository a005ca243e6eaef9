package bootstrap

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/teijeiro7/fitmycv/internal/docgen"
	"github.com/teijeiro7/fitmycv/internal/llm"
	"github.com/teijeiro7/fitmycv/internal/shared/config"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	app, err := Build(config.Config{
		Env:             "dev",
		ObjectStoreType: "local",
		LocalStoreDir:   t.TempDir(),
		LLMProvider:     "none",
		UIRedirectURL:   "http://localhost:5173/auth/callback",
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return app
}

func doJSON(t *testing.T, app *App, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)
	return w
}

func registerAndLogin(t *testing.T, app *App) string {
	t.Helper()

	w := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    "ana@example.com",
		"password": "supersecret",
		"fullName": "Ana García",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d body = %s", w.Code, w.Body.String())
	}

	form := "username=ana%40example.com&password=supersecret"
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	lw := httptest.NewRecorder()
	app.Router.ServeHTTP(lw, req)
	if lw.Code != http.StatusOK {
		t.Fatalf("login status = %d body = %s", lw.Code, lw.Body.String())
	}

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.Unmarshal(lw.Body.Bytes(), &resp); err != nil {
		t.Fatalf("login body: %v", err)
	}
	if resp.TokenType != "bearer" || resp.AccessToken == "" {
		t.Fatalf("login response = %+v", resp)
	}
	return resp.AccessToken
}

func uploadResume(t *testing.T, app *App, token string) string {
	t.Helper()

	// A generated DOCX doubles as a realistic upload fixture.
	doc, err := docgen.BuildDocx(llm.OptimizedContent{
		Name:    "Ana García",
		Title:   "Backend Engineer",
		Summary: "Go developer with PostgreSQL and Docker experience.",
		Skills:  []string{"Go", "PostgreSQL", "Docker"},
	})
	if err != nil {
		t.Fatalf("BuildDocx: %v", err)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("title", "My CV"); err != nil {
		t.Fatalf("WriteField: %v", err)
	}
	fw, err := mw.CreateFormFile("file", "cv.docx")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write(doc); err != nil {
		t.Fatalf("write file part: %v", err)
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("upload status = %d body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("upload body: %v", err)
	}
	if resp.ID == "" {
		t.Fatalf("upload response missing id: %s", w.Body.String())
	}
	return resp.ID
}

func TestHealthIsPublic(t *testing.T) {
	app := newTestApp(t)
	w := doJSON(t, app, http.MethodGet, "/api/v1/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d", w.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := newTestApp(t)
	w := doJSON(t, app, http.MethodGet, "/api/v1/resumes", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestUploadAndOptimizeFlow(t *testing.T) {
	app := newTestApp(t)
	token := registerAndLogin(t, app)
	resumeID := uploadResume(t, app, token)

	w := doJSON(t, app, http.MethodPost, "/api/v1/optimize", token, map[string]any{
		"resume_id":       resumeID,
		"job_title":       "Backend Engineer",
		"job_company":     "Acme",
		"job_description": "We need experience with Go, PostgreSQL and Kubernetes.",
		"keywords":        []string{"go", "postgresql", "kubernetes"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("optimize status = %d body = %s", w.Code, w.Body.String())
	}

	var adaptation struct {
		ID         string `json:"id"`
		MatchScore int    `json:"matchScore"`
		HasDocx    bool   `json:"hasDocx"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &adaptation); err != nil {
		t.Fatalf("optimize body: %v", err)
	}
	if adaptation.ID == "" || adaptation.MatchScore == 0 {
		t.Fatalf("adaptation = %+v", adaptation)
	}
	if !adaptation.HasDocx {
		t.Fatalf("expected generated document: %s", w.Body.String())
	}

	hw := doJSON(t, app, http.MethodGet, "/api/v1/optimize/history", token, nil)
	if hw.Code != http.StatusOK {
		t.Fatalf("history status = %d", hw.Code)
	}
	var history []map[string]any
	if err := json.Unmarshal(hw.Body.Bytes(), &history); err != nil {
		t.Fatalf("history body: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history = %v", history)
	}

	dw := doJSON(t, app, http.MethodGet, "/api/v1/optimize/"+adaptation.ID+"/download/docx", token, nil)
	if dw.Code != http.StatusOK {
		t.Fatalf("download status = %d", dw.Code)
	}
	if dw.Body.Len() == 0 {
		t.Fatal("download returned no bytes")
	}

	pw := doJSON(t, app, http.MethodGet, "/api/v1/optimize/"+adaptation.ID+"/download/pdf", token, nil)
	if pw.Code != http.StatusNotImplemented {
		t.Fatalf("pdf download status = %d", pw.Code)
	}
}

func TestScrapeManualDescriptionIsPublic(t *testing.T) {
	app := newTestApp(t)
	w := doJSON(t, app, http.MethodPost, "/api/v1/scrape", "", map[string]any{
		"description": "Backend Engineer\nWe are hiring a Go developer with Docker and Kubernetes experience.",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("scrape status = %d body = %s", w.Code, w.Body.String())
	}
	var posting map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &posting); err != nil {
		t.Fatalf("scrape body: %v", err)
	}
	if posting["title"] != "Backend Engineer" {
		t.Fatalf("posting = %v", posting)
	}
}

func TestOptimizeUnknownResume(t *testing.T) {
	app := newTestApp(t)
	token := registerAndLogin(t, app)

	w := doJSON(t, app, http.MethodPost, "/api/v1/optimize", token, map[string]any{
		"resume_id":       "missing",
		"job_title":       "Backend Engineer",
		"job_description": "desc",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
}
