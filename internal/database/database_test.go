// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/models"
)

// testDBSemaphore serializes DuckDB-backed tests; concurrent CGO connections
// from many tests can hang under CI resource pressure.
var testDBSemaphore = make(chan struct{}, 1)

func setupTestDB(t *testing.T, categories ...string) *DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() { <-testDBSemaphore })

	if len(categories) == 0 {
		categories = []string{"popular", "top_rated"}
	}
	db, err := New(&config.DatabaseConfig{
		Driver:     DriverDuckDB,
		Path:       ":memory:",
		MaxMemory:  "512MB",
		Categories: categories,
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	})
	return db
}

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func strPtr(s string) *string { return &s }

// seedMovie inserts a movie and links it to the named category.
func seedMovie(t *testing.T, db *DB, category string, tmdbID int64, title string, popularity float64) int64 {
	t.Helper()
	ctx := testCtx(t)
	cat, err := db.CategoryByName(ctx, category)
	if err != nil {
		t.Fatalf("CategoryByName(%s): %v", category, err)
	}
	id, _, err := db.InsertMovie(ctx, &models.Movie{
		TMDBID:     tmdbID,
		Title:      title,
		Popularity: popularity,
		PosterPath: strPtr(fmt.Sprintf("/poster-%d.jpg", tmdbID)),
		CategoryID: &cat.ID,
	})
	if err != nil {
		t.Fatalf("InsertMovie(%d): %v", tmdbID, err)
	}
	if err := db.LinkMovieCategory(ctx, id, cat.ID); err != nil {
		t.Fatalf("LinkMovieCategory(%d): %v", tmdbID, err)
	}
	return id
}

func countRows(t *testing.T, db *DB, table string) int64 {
	t.Helper()
	var n int64
	if err := db.Conn().QueryRowContext(testCtx(t), `SELECT COUNT(*) FROM `+table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func TestNew_SeedsCategoriesIdempotently(t *testing.T) {
	db := setupTestDB(t, "popular", "top_rated", "upcoming")
	ctx := testCtx(t)

	if err := db.seedCategories(ctx, []string{"popular", "now_playing"}); err != nil {
		t.Fatalf("seedCategories: %v", err)
	}

	cats, err := db.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	var names []string
	for _, c := range cats {
		names = append(names, c.Name)
	}
	want := []string{"popular", "top_rated", "upcoming", "now_playing"}
	if fmt.Sprint(names) != fmt.Sprint(want) {
		t.Errorf("categories = %v, want %v (ordered by id)", names, want)
	}
}

func TestNew_UnsupportedDriver(t *testing.T) {
	_, err := New(&config.DatabaseConfig{Driver: "sqlite"})
	if err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestInsertGenre_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	ctx := testCtx(t)

	inserted, err := db.InsertGenre(ctx, 28, "Action")
	if err != nil || !inserted {
		t.Fatalf("first insert: inserted=%v err=%v", inserted, err)
	}
	inserted, err = db.InsertGenre(ctx, 28, "Action (renamed)")
	if err != nil {
		t.Fatalf("second insert: %v", err)
	}
	if inserted {
		t.Error("second insert of the same tmdb_id should be ignored")
	}
	if n := countRows(t, db, "genres"); n != 1 {
		t.Errorf("genres rows = %d, want 1", n)
	}

	ids, err := db.GenreIDsByTMDB(ctx, []int64{28, 99999})
	if err != nil {
		t.Fatalf("GenreIDsByTMDB: %v", err)
	}
	if _, ok := ids[28]; !ok {
		t.Error("expected id for genre 28")
	}
	if _, ok := ids[99999]; ok {
		t.Error("unknown genre should be absent")
	}
}

func TestFindOrCreateCollection_ConcurrentCallersConverge(t *testing.T) {
	db := setupTestDB(t)
	ctx := testCtx(t)

	const workers = 8
	ids := make([]int64, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i], errs[i] = db.FindOrCreateCollection(ctx, &models.Collection{
				TMDBID: 10, Name: "Star Wars Collection", PosterPath: strPtr("/sw.jpg"),
			})
		}(i)
	}
	wg.Wait()

	for i := range ids {
		if errs[i] != nil {
			t.Fatalf("worker %d: %v", i, errs[i])
		}
		if ids[i] != ids[0] {
			t.Errorf("worker %d got id %d, want %d", i, ids[i], ids[0])
		}
	}
	if n := countRows(t, db, "collections"); n != 1 {
		t.Errorf("collections rows = %d, want 1", n)
	}
}

func TestRefLockStripe(t *testing.T) {
	used := map[int]bool{}
	for id := int64(1); id <= 10000; id++ {
		for _, table := range []string{"collections", "production_companies"} {
			stripe := refLockStripe(table, id)
			if stripe < 0 || stripe >= refLockStripes {
				t.Fatalf("refLockStripe(%s, %d) = %d out of range", table, id, stripe)
			}
			if again := refLockStripe(table, id); again != stripe {
				t.Fatalf("refLockStripe(%s, %d) not stable: %d then %d", table, id, stripe, again)
			}
			used[stripe] = true
		}
	}
	if len(used) < refLockStripes/2 {
		t.Errorf("only %d of %d stripes used", len(used), refLockStripes)
	}
}

func TestAcquireRefLock_BoundedAndExclusive(t *testing.T) {
	db := &DB{}
	seen := map[*sync.Mutex]bool{}
	for id := int64(1); id <= 5000; id++ {
		mu := db.acquireRefLock("collections", id)
		seen[mu] = true
		mu.Unlock()
	}
	if len(seen) > refLockStripes {
		t.Errorf("%d distinct locks handed out, want at most %d", len(seen), refLockStripes)
	}

	mu := db.acquireRefLock("production_companies", 7)
	if mu.TryLock() {
		t.Fatal("lock for a held key should not be acquirable")
	}
	mu.Unlock()
	if !mu.TryLock() {
		t.Fatal("released lock should be acquirable")
	}
	mu.Unlock()
}

func TestFindOrCreateCompany_ReturnsExistingRow(t *testing.T) {
	db := setupTestDB(t)
	ctx := testCtx(t)

	first, err := db.FindOrCreateCompany(ctx, &models.ProductionCompany{TMDBID: 1, Name: "Lucasfilm", OriginCountry: "US"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := db.FindOrCreateCompany(ctx, &models.ProductionCompany{TMDBID: 1, Name: "Lucasfilm Ltd."})
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("ids differ: %d vs %d", first, second)
	}
}

func TestInsertMovie_InsertOrIgnore(t *testing.T) {
	db := setupTestDB(t)
	ctx := testCtx(t)

	id, inserted, err := db.InsertMovie(ctx, &models.Movie{TMDBID: 550, Title: "Fight Club"})
	if err != nil || !inserted {
		t.Fatalf("first insert: inserted=%v err=%v", inserted, err)
	}
	again, inserted, err := db.InsertMovie(ctx, &models.Movie{TMDBID: 550, Title: "Duplicate"})
	if err != nil {
		t.Fatal(err)
	}
	if inserted || again != id {
		t.Errorf("duplicate insert: inserted=%v id=%d want id %d", inserted, again, id)
	}

	got, err := db.MovieIDByTMDB(ctx, 550)
	if err != nil || got != id {
		t.Errorf("MovieIDByTMDB = %d, %v", got, err)
	}
	if _, err := db.MovieIDByTMDB(ctx, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	existing, err := db.ExistingMovieIDs(ctx, []int64{550, 551})
	if err != nil {
		t.Fatal(err)
	}
	if len(existing) != 1 || existing[550] != id {
		t.Errorf("ExistingMovieIDs = %v", existing)
	}
}

func TestLinks_AreIdempotent(t *testing.T) {
	db := setupTestDB(t)
	ctx := testCtx(t)

	movieID := seedMovie(t, db, "popular", 1, "One", 1)
	cat, _ := db.CategoryByName(ctx, "popular")
	if err := db.LinkMovieCategory(ctx, movieID, cat.ID); err != nil {
		t.Fatalf("relink category: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := db.LinkMovieGenre(ctx, movieID, 5); err != nil {
			t.Fatal(err)
		}
		if err := db.LinkMovieCompany(ctx, movieID, 6); err != nil {
			t.Fatal(err)
		}
		if err := db.LinkMovieCollection(ctx, movieID, 7); err != nil {
			t.Fatal(err)
		}
	}
	for _, table := range []string{"movie_categories", "movie_genres", "movie_production_companies", "movie_collections"} {
		if n := countRows(t, db, table); n != 1 {
			t.Errorf("%s rows = %d, want 1", table, n)
		}
	}
}

func TestEvictOldest_RemovesOldestAndAssociations(t *testing.T) {
	db := setupTestDB(t)
	ctx := testCtx(t)

	var ids []int64
	for i := int64(1); i <= 5; i++ {
		ids = append(ids, seedMovie(t, db, "popular", 100+i, fmt.Sprintf("Movie %d", i), float64(i)))
	}
	if _, err := db.InsertGenre(ctx, 18, "Drama"); err != nil {
		t.Fatal(err)
	}
	genreIDs, _ := db.GenreIDsByTMDB(ctx, []int64{18})
	for _, id := range ids {
		if err := db.LinkMovieGenre(ctx, id, genreIDs[18]); err != nil {
			t.Fatal(err)
		}
	}
	// Oldest movie also appears in a second category; eviction removes it there too.
	topRated, _ := db.CategoryByName(ctx, "top_rated")
	if err := db.LinkMovieCategory(ctx, ids[0], topRated.ID); err != nil {
		t.Fatal(err)
	}

	popular, _ := db.CategoryByName(ctx, "popular")
	evicted, err := db.EvictOldest(ctx, popular.ID, 2)
	if err != nil {
		t.Fatalf("EvictOldest: %v", err)
	}
	if evicted != 2 {
		t.Errorf("evicted = %d, want 2", evicted)
	}

	for _, tmdbID := range []int64{101, 102} {
		if _, err := db.MovieIDByTMDB(ctx, tmdbID); !errors.Is(err, ErrNotFound) {
			t.Errorf("movie %d should be evicted, err=%v", tmdbID, err)
		}
	}
	if _, err := db.MovieIDByTMDB(ctx, 103); err != nil {
		t.Errorf("movie 103 should remain: %v", err)
	}
	if n, _ := db.CountCategoryMovies(ctx, popular.ID); n != 3 {
		t.Errorf("popular count = %d, want 3", n)
	}
	if n, _ := db.CountCategoryMovies(ctx, topRated.ID); n != 0 {
		t.Errorf("top_rated count = %d, want 0", n)
	}
	if n := countRows(t, db, "movie_genres"); n != 3 {
		t.Errorf("movie_genres rows = %d, want 3", n)
	}
	if n := countRows(t, db, "genres"); n != 1 {
		t.Errorf("genres must survive eviction, rows = %d", n)
	}
}

func TestEvictOldest_NothingToDo(t *testing.T) {
	db := setupTestDB(t)
	ctx := testCtx(t)
	popular, _ := db.CategoryByName(ctx, "popular")

	for _, n := range []int{0, -1, 3} {
		evicted, err := db.EvictOldest(ctx, popular.ID, n)
		if err != nil || evicted != 0 {
			t.Errorf("EvictOldest(%d) = %d, %v", n, evicted, err)
		}
	}
}

func TestListCategoryPage(t *testing.T) {
	db := setupTestDB(t)
	ctx := testCtx(t)

	for i := int64(1); i <= 45; i++ {
		seedMovie(t, db, "popular", i, fmt.Sprintf("Movie %02d", i), float64(i))
	}

	page, err := db.ListCategoryPage(ctx, "popular", 1, 20)
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	if page.TotalResults != 45 || page.TotalPages != 3 || page.Page != 1 {
		t.Errorf("page meta = %+v", page)
	}
	if len(page.Results) != 20 || page.Results[0].TMDBID != 1 || page.Results[19].TMDBID != 20 {
		t.Errorf("page 1 window wrong: first=%d len=%d", page.Results[0].TMDBID, len(page.Results))
	}
	if page.Results[0].PosterPath == nil || *page.Results[0].PosterPath != "/poster-1.jpg" {
		t.Errorf("poster_path = %v", page.Results[0].PosterPath)
	}

	last, err := db.ListCategoryPage(ctx, "popular", 3, 20)
	if err != nil {
		t.Fatalf("page 3: %v", err)
	}
	if len(last.Results) != 5 || last.Results[0].TMDBID != 41 {
		t.Errorf("page 3 window wrong: %+v", last.Results)
	}

	tests := []struct {
		name     string
		category string
		page     int
		want     error
	}{
		{"past last page", "popular", 4, ErrNotFound},
		{"unknown category", "documentaries", 1, ErrNotFound},
		{"empty category", "top_rated", 1, ErrNotFound},
		{"page zero", "popular", 0, ErrInvalidPage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.ListCategoryPage(ctx, tt.category, tt.page, 20)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSearchMovies(t *testing.T) {
	db := setupTestDB(t)
	ctx := testCtx(t)

	seedMovie(t, db, "popular", 1, "The Dark Knight", 50)
	seedMovie(t, db, "popular", 2, "Dark Waters", 80)
	seedMovie(t, db, "popular", 3, "Inception", 90)
	seedMovie(t, db, "popular", 4, "100% Wolf", 10)

	page, err := db.SearchMovies(ctx, "dark", 1, 20)
	if err != nil {
		t.Fatalf("SearchMovies: %v", err)
	}
	if page.TotalResults != 2 {
		t.Fatalf("TotalResults = %d, want 2", page.TotalResults)
	}
	if page.Results[0].TMDBID != 2 || page.Results[1].TMDBID != 1 {
		t.Errorf("expected popularity order [2 1], got [%d %d]", page.Results[0].TMDBID, page.Results[1].TMDBID)
	}

	pct, err := db.SearchMovies(ctx, "100%", 1, 20)
	if err != nil || pct.TotalResults != 1 {
		t.Errorf("literal %% search = %+v, %v", pct, err)
	}

	if _, err := db.SearchMovies(ctx, "zzz", 1, 20); !errors.Is(err, ErrNotFound) {
		t.Errorf("no match should be ErrNotFound, got %v", err)
	}
}

func TestGetMovieDetail(t *testing.T) {
	db := setupTestDB(t)
	ctx := testCtx(t)

	movieID := seedMovie(t, db, "popular", 11, "Star Wars", 99)
	if _, err := db.InsertGenre(ctx, 878, "Science Fiction"); err != nil {
		t.Fatal(err)
	}
	if _, err := db.InsertGenre(ctx, 12, "Adventure"); err != nil {
		t.Fatal(err)
	}
	genreIDs, _ := db.GenreIDsByTMDB(ctx, []int64{878, 12})
	for _, gid := range genreIDs {
		if err := db.LinkMovieGenre(ctx, movieID, gid); err != nil {
			t.Fatal(err)
		}
	}
	companyID, err := db.FindOrCreateCompany(ctx, &models.ProductionCompany{TMDBID: 1, Name: "Lucasfilm", LogoPath: strPtr("/l.png")})
	if err != nil {
		t.Fatal(err)
	}
	if err := db.LinkMovieCompany(ctx, movieID, companyID); err != nil {
		t.Fatal(err)
	}
	collectionID, err := db.FindOrCreateCollection(ctx, &models.Collection{TMDBID: 10, Name: "Star Wars Collection"})
	if err != nil {
		t.Fatal(err)
	}
	if err := db.LinkMovieCollection(ctx, movieID, collectionID); err != nil {
		t.Fatal(err)
	}

	d, err := db.GetMovieDetail(ctx, 11)
	if err != nil {
		t.Fatalf("GetMovieDetail: %v", err)
	}
	if d.Title != "Star Wars" || d.TMDBID != 11 {
		t.Errorf("movie = %+v", d.Movie)
	}
	if len(d.Genres) != 2 || d.Genres[0].Name != "Adventure" {
		t.Errorf("genres = %+v", d.Genres)
	}
	if len(d.ProductionCompanies) != 1 || *d.ProductionCompanies[0].LogoPath != "/l.png" {
		t.Errorf("companies = %+v", d.ProductionCompanies)
	}
	if d.BelongsToCollection == nil || d.BelongsToCollection.TMDBID != 10 {
		t.Errorf("collection = %+v", d.BelongsToCollection)
	}
	if d.CreatedAt.IsZero() {
		t.Error("created_at should be set by the store")
	}

	if _, err := db.GetMovieDetail(ctx, 12345); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetMovieDetail_NoAssociations(t *testing.T) {
	db := setupTestDB(t)
	seedMovie(t, db, "popular", 5, "Lonely", 1)

	d, err := db.GetMovieDetail(testCtx(t), 5)
	if err != nil {
		t.Fatal(err)
	}
	if d.Genres == nil || d.ProductionCompanies == nil {
		t.Error("empty associations should be empty slices, not nil")
	}
	if d.BelongsToCollection != nil {
		t.Error("collection should be nil")
	}
}
