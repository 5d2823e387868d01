// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/database"
	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/models"
	"github.com/tomtom215/marquee/internal/review"
	catalogsync "github.com/tomtom215/marquee/internal/sync"
)

//nolint:gochecknoinits // quiet logger for tests
func init() {
	logging.Init(logging.Config{Level: "error", Format: "console", Output: io.Discard})
}

// fakeCatalog serves one category ("popular") of five movies.
type fakeCatalog struct {
	pingErr   error
	readErr   error
	lastPage  int
	lastQuery string
}

func (f *fakeCatalog) ListCategories(context.Context) ([]models.Category, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return []models.Category{{ID: 1, Name: "popular", MovieCount: 5}}, nil
}

func (f *fakeCatalog) ListCategoryPage(_ context.Context, category string, page, pageSize int) (*models.CategoryPage, error) {
	f.lastPage = page
	if f.readErr != nil {
		return nil, f.readErr
	}
	if page < 1 {
		return nil, database.ErrInvalidPage
	}
	if category != "popular" || page > models.TotalPages(5, pageSize) {
		return nil, database.ErrNotFound
	}
	return &models.CategoryPage{
		Page:         page,
		Results:      []models.MovieSummary{{TMDBID: 550, Title: "Fight Club"}},
		TotalPages:   models.TotalPages(5, pageSize),
		TotalResults: 5,
	}, nil
}

func (f *fakeCatalog) SearchMovies(_ context.Context, query string, page, _ int) (*models.CategoryPage, error) {
	f.lastQuery = query
	if !strings.Contains(strings.ToLower("Fight Club"), strings.ToLower(query)) {
		return nil, database.ErrNotFound
	}
	return &models.CategoryPage{Page: page, Results: []models.MovieSummary{{TMDBID: 550, Title: "Fight Club"}}, TotalPages: 1, TotalResults: 1}, nil
}

func (f *fakeCatalog) GetMovieDetail(_ context.Context, tmdbID int64) (*models.MovieDetail, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	if tmdbID != 550 {
		return nil, database.ErrNotFound
	}
	return &models.MovieDetail{
		Movie:  models.Movie{TMDBID: 550, Title: "Fight Club"},
		Genres: []models.Genre{{TMDBID: 18, Name: "Drama"}},
	}, nil
}

func (f *fakeCatalog) Ping(context.Context) error { return f.pingErr }

type fakeSync struct {
	err    error
	report *catalogsync.RunReport
}

func (f *fakeSync) TriggerSync(context.Context) (*catalogsync.RunReport, error) {
	return f.report, f.err
}

func (f *fakeSync) Status() catalogsync.Status {
	return catalogsync.Status{Running: false, LastReport: f.report}
}

type fakeReviews struct {
	got  review.ReviewRequest
	text string
	err  error
}

func (f *fakeReviews) Generate(_ context.Context, req review.ReviewRequest) (string, error) {
	f.got = req
	return f.text, f.err
}

type fakeVideos struct {
	calls atomic.Int32
	err   error
}

func (f *fakeVideos) GetMovieVideos(context.Context, int64) ([]models.Video, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return []models.Video{{Key: "SUXWAEX2jlg", Site: "YouTube", Type: "Trailer"}}, nil
}

type testDeps struct {
	catalog *fakeCatalog
	sync    *fakeSync
	reviews *fakeReviews
	videos  *fakeVideos
}

func newTestHandler(t *testing.T) (*Handler, *testDeps) {
	t.Helper()
	d := &testDeps{
		catalog: &fakeCatalog{},
		sync:    &fakeSync{report: &catalogsync.RunReport{}},
		reviews: &fakeReviews{text: "A sharp satire."},
		videos:  &fakeVideos{},
	}
	cfg := &config.Config{API: config.APIConfig{PageSize: 2}, Server: config.ServerConfig{SyncTimeout: time.Minute}}
	h := NewHandler(cfg, Deps{Catalog: d.catalog, Sync: d.sync, Reviews: d.reviews, Videos: d.videos, Version: "test"})
	t.Cleanup(h.Close)
	return h, d
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestListMovies(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantKey    string
	}{
		{"first page", "?category=popular&page=1", http.StatusOK, "results"},
		{"page defaults to 1", "?category=popular", http.StatusOK, "results"},
		{"last page", "?category=popular&page=3", http.StatusOK, "results"},
		{"past last page", "?category=popular&page=4", http.StatusNotFound, "message"},
		{"unknown category", "?category=nope&page=1", http.StatusNotFound, "message"},
		{"missing category", "?page=1", http.StatusBadRequest, "message"},
		{"page zero", "?category=popular&page=0", http.StatusBadRequest, "message"},
		{"page not a number", "?category=popular&page=abc", http.StatusBadRequest, "message"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler(t)
			rec := httptest.NewRecorder()
			h.ListMovies(rec, httptest.NewRequest(http.MethodGet, "/api/v1/movies"+tt.query, nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if _, ok := decodeBody(t, rec)[tt.wantKey]; !ok {
				t.Errorf("body %s missing %q", rec.Body.String(), tt.wantKey)
			}
		})
	}
}

func TestListMovies_PageShape(t *testing.T) {
	h, d := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.ListMovies(rec, httptest.NewRequest(http.MethodGet, "/api/v1/movies?category=popular", nil))

	var page models.CategoryPage
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatal(err)
	}
	if page.Page != 1 || page.TotalPages != 3 || page.TotalResults != 5 || len(page.Results) != 1 {
		t.Errorf("page = %+v", page)
	}
	if d.catalog.lastPage != 1 {
		t.Errorf("store asked for page %d", d.catalog.lastPage)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestListMovies_StoreFailureHidesDetails(t *testing.T) {
	h, d := newTestHandler(t)
	d.catalog.readErr = &database.StoreError{Op: "list category page", Err: errors.New("disk on fire")}

	rec := httptest.NewRecorder()
	h.ListMovies(rec, httptest.NewRequest(http.MethodGet, "/api/v1/movies?category=popular", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "disk on fire") {
		t.Errorf("internal error leaked: %s", rec.Body.String())
	}
}

func TestSearchMovies(t *testing.T) {
	h, d := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.SearchMovies(rec, httptest.NewRequest(http.MethodGet, "/api/v1/movies/search?query=fight", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if d.catalog.lastQuery != "fight" {
		t.Errorf("query = %q", d.catalog.lastQuery)
	}

	rec = httptest.NewRecorder()
	h.SearchMovies(rec, httptest.NewRequest(http.MethodGet, "/api/v1/movies/search?query=zzz", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("no match status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.SearchMovies(rec, httptest.NewRequest(http.MethodGet, "/api/v1/movies/search", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty query status = %d", rec.Code)
	}
}

func TestCategories(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.Categories(rec, httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil))

	want := `{"categories":[{"id":1,"name":"popular","movie_count":5}]}`
	if rec.Code != http.StatusOK || rec.Body.String() != want {
		t.Errorf("got %d %s, want %s", rec.Code, rec.Body.String(), want)
	}
}

func TestHealth(t *testing.T) {
	h, d := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "healthy" || body["database"] != "connected" || body["version"] != "test" {
		t.Errorf("body = %v", body)
	}

	d.catalog.pingErr = errors.New("closed")
	rec = httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
	if decodeBody(t, rec)["database"] != "disconnected" {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestTriggerSync(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"success", nil, http.StatusOK, syncSuccessMessage},
		{"in progress", catalogsync.ErrSyncInProgress, http.StatusConflict, `{"error":"sync already in progress"}`},
		{"failure", errors.New("tmdb down"), http.StatusInternalServerError, `{"error":"` + syncFailureMessage + `"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, d := newTestHandler(t)
			d.sync.err = tt.err

			rec := httptest.NewRecorder()
			h.TriggerSync(rec, httptest.NewRequest(http.MethodPost, "/api/v1/sync", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body = %s, want %s", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestSyncStatus(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.SyncStatus(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sync/status", nil))

	body := decodeBody(t, rec)
	if body["running"] != false {
		t.Errorf("running = %v", body["running"])
	}
	if _, ok := body["last_report"]; !ok {
		t.Errorf("missing last_report: %s", rec.Body.String())
	}
}
