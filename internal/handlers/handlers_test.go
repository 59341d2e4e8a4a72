package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"

	"writeitgreat/proposal-evaluator/internal/config"
	"writeitgreat/proposal-evaluator/internal/models"
	"writeitgreat/proposal-evaluator/internal/scoring"
	"writeitgreat/proposal-evaluator/internal/services"
)

type stubRepo struct {
	subs      map[string]*models.Submission
	created   []*models.Submission
	createErr error
}

func newStubRepo(subs ...*models.Submission) *stubRepo {
	r := &stubRepo{subs: make(map[string]*models.Submission)}
	for _, s := range subs {
		r.subs[s.ID] = s
	}
	return r
}

func (r *stubRepo) Create(sub *models.Submission) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, sub)
	r.subs[sub.ID] = sub
	return nil
}

func (r *stubRepo) FindByID(id string) (*models.Submission, error) {
	sub, ok := r.subs[id]
	if !ok {
		return nil, fmt.Errorf("submission not found")
	}
	return sub, nil
}

func (r *stubRepo) FindByFingerprint(fingerprint, excludeID string) (*models.Submission, error) {
	return nil, nil
}

func (r *stubRepo) UpdateResult(id string, tier string, totalScore float64, result datatypes.JSON) error {
	return nil
}

func (r *stubRepo) UpdateError(id string, errorMsg string) error {
	return nil
}

func (r *stubRepo) FindStaleProcessing(olderThan time.Time, limit int) ([]models.Submission, error) {
	return nil, nil
}

type stubWorker struct {
	enqueued []string
}

func (w *stubWorker) Start(ctx context.Context) {}
func (w *stubWorker) Stop()                     {}
func (w *stubWorker) EnqueueJob(submissionID string) {
	w.enqueued = append(w.enqueued, submissionID)
}

type stubStorage struct {
	dir     string
	deleted []string
}

func (s *stubStorage) SaveFile(file *multipart.FileHeader) (string, string, error) {
	src, err := file.Open()
	if err != nil {
		return "", "", err
	}
	defer src.Close()

	path := filepath.Join(s.dir, file.Filename)
	dst, err := os.Create(path)
	if err != nil {
		return "", "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", "", err
	}
	return file.Filename, path, nil
}

func (s *stubStorage) GetFilePath(filename string) string {
	return filepath.Join(s.dir, filename)
}

func (s *stubStorage) DeleteFile(filename string) error {
	s.deleted = append(s.deleted, filename)
	return os.Remove(filepath.Join(s.dir, filename))
}

func (s *stubStorage) EnsureUploadDir() error { return nil }

func testScoringConfig() config.ScoringConfig {
	return config.ScoringConfig{
		BucketStep:      5,
		TierThresholds:  scoring.DefaultThresholds(),
		AdvanceStrategy: scoring.StrategyPlatformMetrics,
		ATierCap:        scoring.DefaultATierCap,
		MinTextLength:   200,
		MaxPromptChars:  50000,
	}
}

func submitApp(t *testing.T, repo *stubRepo) (*fiber.App, *stubWorker) {
	t.Helper()

	worker := &stubWorker{}
	storage := &stubStorage{dir: t.TempDir()}
	handler := NewSubmitHandler(repo, storage, services.NewExtractorService(), worker, 1<<20, testScoringConfig())

	app := fiber.New()
	app.Post("/api/v1/submissions", handler.HandleSubmit)
	return app, worker
}

func multipartBody(t *testing.T, fields map[string]string, filename, fileContent string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			t.Fatal(err)
		}
	}
	if filename != "" {
		fw, err := w.CreateFormFile("proposal_file", filename)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte(fileContent)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, w.FormDataContentType()
}

func validFields() map[string]string {
	return map[string]string{
		"author_name":   "Jamie Ortega",
		"author_email":  "jamie@example.com",
		"book_title":    "Growing Heirloom Tomatoes",
		"proposal_type": "full",
	}
}

func proposalText() string {
	return strings.Repeat("A serious book proposal about heirloom tomatoes. ", 10)
}

func TestHandleSubmitAccepted(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	app, worker := submitApp(t, repo)

	fields := validFields()
	fields["platform_metrics"] = `{"email_list": 10000}`
	body, contentType := multipartBody(t, fields, "proposal.txt", proposalText())

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/submissions", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusAccepted {
		t.Fatalf("status = %d, want 202", resp.StatusCode)
	}

	var out models.SubmitResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.SubmissionID, "WIG-") {
		t.Errorf("submission id = %q, want WIG- prefix", out.SubmissionID)
	}
	if out.Status != string(models.StatusProcessing) {
		t.Errorf("status = %q, want processing", out.Status)
	}

	if len(repo.created) != 1 {
		t.Fatalf("created %d submissions, want 1", len(repo.created))
	}
	created := repo.created[0]
	if created.Fingerprint == "" {
		t.Error("submission must carry a fingerprint")
	}
	if string(created.PlatformMetrics) != `{"email_list": 10000}` {
		t.Errorf("platform metrics = %s", created.PlatformMetrics)
	}

	if len(worker.enqueued) != 1 || worker.enqueued[0] != out.SubmissionID {
		t.Errorf("enqueued = %v, want [%s]", worker.enqueued, out.SubmissionID)
	}
}

func TestHandleSubmitMissingFields(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	app, _ := submitApp(t, repo)

	for _, missing := range []string{"author_name", "author_email", "book_title", "proposal_type"} {
		fields := validFields()
		delete(fields, missing)
		body, contentType := multipartBody(t, fields, "proposal.txt", proposalText())

		req, _ := http.NewRequest(http.MethodPost, "/api/v1/submissions", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("missing %s: status = %d, want 400", missing, resp.StatusCode)
		}
	}

	if len(repo.created) != 0 {
		t.Errorf("created %d submissions from invalid requests", len(repo.created))
	}
}

func TestHandleSubmitInvalidMetricsJSON(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	app, _ := submitApp(t, repo)

	fields := validFields()
	fields["platform_metrics"] = "{not json"
	body, contentType := multipartBody(t, fields, "proposal.txt", proposalText())

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/submissions", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestHandleSubmitRejectsUnsupportedFile(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	app, _ := submitApp(t, repo)

	body, contentType := multipartBody(t, validFields(), "proposal.exe", proposalText())

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/submissions", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestHandleSubmitRejectsShortText(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	app, worker := submitApp(t, repo)

	body, contentType := multipartBody(t, validFields(), "proposal.txt", "too short")

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/submissions", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	raw, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(raw), "Could not extract sufficient text") {
		t.Errorf("body = %s, want the extraction error", raw)
	}
	if len(worker.enqueued) != 0 {
		t.Error("nothing must be enqueued for a rejected submission")
	}
}

func TestHandleGetStatus(t *testing.T) {
	t.Parallel()

	processing := &models.Submission{ID: "WIG-P", Status: models.StatusProcessing}
	done := &models.Submission{ID: "WIG-S", Status: models.StatusSubmitted}
	failed := &models.Submission{ID: "WIG-E", Status: models.StatusError}

	app := fiber.New()
	handler := NewStatusHandler(newStubRepo(processing, done, failed))
	app.Get("/api/v1/submissions/:id/status", handler.HandleGetStatus)

	cases := []struct {
		id        string
		wantReady bool
	}{
		{"WIG-P", false},
		{"WIG-S", true},
		{"WIG-E", true},
	}

	for _, tc := range cases {
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/submissions/"+tc.id+"/status", nil)
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("%s: status = %d, want 200", tc.id, resp.StatusCode)
		}

		var out models.StatusResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatal(err)
		}
		if out.Ready != tc.wantReady {
			t.Errorf("%s: ready = %v, want %v", tc.id, out.Ready, tc.wantReady)
		}
	}

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/submissions/WIG-MISSING/status", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("missing id: status = %d, want 404", resp.StatusCode)
	}
}

func TestHandleGetResultRecomputesAdvance(t *testing.T) {
	t.Parallel()

	stored := models.EvaluationResult{
		BookTitle:    "Growing Heirloom Tomatoes",
		ProposalType: "full",
		TotalScore:   90,
		Tier:         scoring.TierA,
		AdvanceEstimate: scoring.AdvanceEstimate{
			LowRange: 99999, HighRange: 99999, Viable: true, Confidence: "High",
		},
	}
	raw, _ := json.Marshal(stored)

	sub := &models.Submission{
		ID:              "WIG-R",
		AuthorName:      "Jamie Ortega",
		BookTitle:       "Growing Heirloom Tomatoes",
		ProposalType:    "full",
		Status:          models.StatusSubmitted,
		PlatformMetrics: datatypes.JSON(`{"email_list": 10000}`),
		Result:          datatypes.JSON(raw),
	}

	app := fiber.New()
	handler := NewResultHandler(newStubRepo(sub), scoring.NewEstimator(scoring.StrategyPlatformMetrics, 0))
	app.Get("/api/v1/submissions/:id", handler.HandleGetResult)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/submissions/WIG-R", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var out models.ResultResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Result == nil {
		t.Fatal("expected a result payload")
	}

	// The stale stored figure must never surface; a 10k email list at tier A
	// computes to exactly [10000,10000].
	if out.Result.AdvanceEstimate.LowRange != 10000 || out.Result.AdvanceEstimate.HighRange != 10000 {
		t.Errorf("advance range = [%d,%d], want recomputed [10000,10000]",
			out.Result.AdvanceEstimate.LowRange, out.Result.AdvanceEstimate.HighRange)
	}
}

func TestHandleGetResultErrorState(t *testing.T) {
	t.Parallel()

	msg := "Evaluation timed out. Please resubmit."
	sub := &models.Submission{
		ID:           "WIG-F",
		Status:       models.StatusError,
		ErrorMessage: &msg,
	}

	app := fiber.New()
	handler := NewResultHandler(newStubRepo(sub), scoring.NewEstimator(scoring.StrategyPlatformMetrics, 0))
	app.Get("/api/v1/submissions/:id", handler.HandleGetResult)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/submissions/WIG-F", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}

	var out models.ResultResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Result != nil {
		t.Error("errored submissions carry no result payload")
	}
	if out.ErrorMessage == nil || *out.ErrorMessage != msg {
		t.Errorf("error_message = %v, want %q", out.ErrorMessage, msg)
	}
}

func TestHandleGetResultUnreadableStoredResult(t *testing.T) {
	t.Parallel()

	sub := &models.Submission{
		ID:     "WIG-X",
		Status: models.StatusSubmitted,
		Result: datatypes.JSON(`{broken`),
	}

	app := fiber.New()
	handler := NewResultHandler(newStubRepo(sub), scoring.NewEstimator(scoring.StrategyPlatformMetrics, 0))
	app.Get("/api/v1/submissions/:id", handler.HandleGetResult)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/submissions/WIG-X", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
}
