// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package sync

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/tomtom215/marquee/internal/models"
	"github.com/tomtom215/marquee/internal/upstream"
)

// fakeStore is an in-memory Store with the same insert-or-ignore semantics
// as the SQL implementation.
type fakeStore struct {
	mu sync.Mutex

	categories  []models.Category
	genres      map[int64]int64 // tmdb -> local
	collections map[int64]int64
	companies   map[int64]int64
	movies      map[int64]*models.Movie // tmdb -> movie

	nextID     int64
	links      []categoryLink
	genreLinks map[[2]int64]bool
	collLinks  map[[2]int64]bool
	compLinks  map[[2]int64]bool

	failGenreInsert  error
	failMovieInsert  map[int64]error
	failCompanyTMDB  map[int64]bool
	failEvict        error
	failListCategory error
}

type categoryLink struct {
	id         int64
	movieID    int64
	categoryID int64
}

func newFakeStore(names ...string) *fakeStore {
	s := &fakeStore{
		genres:          map[int64]int64{},
		collections:     map[int64]int64{},
		companies:       map[int64]int64{},
		movies:          map[int64]*models.Movie{},
		genreLinks:      map[[2]int64]bool{},
		collLinks:       map[[2]int64]bool{},
		compLinks:       map[[2]int64]bool{},
		failMovieInsert: map[int64]error{},
		failCompanyTMDB: map[int64]bool{},
	}
	for i, n := range names {
		s.categories = append(s.categories, models.Category{ID: int64(i + 1), Name: n})
	}
	return s
}

func (s *fakeStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *fakeStore) ListCategories(context.Context) ([]models.Category, error) {
	if s.failListCategory != nil {
		return nil, s.failListCategory
	}
	return append([]models.Category(nil), s.categories...), nil
}

func (s *fakeStore) InsertGenre(_ context.Context, tmdbID int64, _ string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failGenreInsert != nil {
		return false, s.failGenreInsert
	}
	if _, ok := s.genres[tmdbID]; ok {
		return false, nil
	}
	s.genres[tmdbID] = s.id()
	return true, nil
}

func (s *fakeStore) GenreIDsByTMDB(_ context.Context, ids []int64) (map[int64]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[int64]int64{}
	for _, id := range ids {
		if local, ok := s.genres[id]; ok {
			out[id] = local
		}
	}
	return out, nil
}

func (s *fakeStore) FindOrCreateCollection(_ context.Context, c *models.Collection) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.collections[c.TMDBID]; ok {
		return id, nil
	}
	id := s.id()
	s.collections[c.TMDBID] = id
	return id, nil
}

func (s *fakeStore) FindOrCreateCompany(_ context.Context, c *models.ProductionCompany) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCompanyTMDB[c.TMDBID] {
		return 0, fmt.Errorf("company %d: boom", c.TMDBID)
	}
	if id, ok := s.companies[c.TMDBID]; ok {
		return id, nil
	}
	id := s.id()
	s.companies[c.TMDBID] = id
	return id, nil
}

func (s *fakeStore) ExistingMovieIDs(_ context.Context, ids []int64) (map[int64]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[int64]int64{}
	for _, id := range ids {
		if m, ok := s.movies[id]; ok {
			out[id] = m.ID
		}
	}
	return out, nil
}

func (s *fakeStore) InsertMovie(_ context.Context, m *models.Movie) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failMovieInsert[m.TMDBID]; err != nil {
		return 0, false, err
	}
	if existing, ok := s.movies[m.TMDBID]; ok {
		return existing.ID, false, nil
	}
	cp := *m
	cp.ID = s.id()
	s.movies[m.TMDBID] = &cp
	return cp.ID, true, nil
}

func (s *fakeStore) LinkMovieCategory(_ context.Context, movieID, categoryID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.links {
		if l.movieID == movieID && l.categoryID == categoryID {
			return nil
		}
	}
	s.links = append(s.links, categoryLink{id: s.id(), movieID: movieID, categoryID: categoryID})
	return nil
}

func (s *fakeStore) LinkMovieGenre(_ context.Context, movieID, genreID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.genreLinks[[2]int64{movieID, genreID}] = true
	return nil
}

func (s *fakeStore) LinkMovieCollection(_ context.Context, movieID, collectionID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collLinks[[2]int64{movieID, collectionID}] = true
	return nil
}

func (s *fakeStore) LinkMovieCompany(_ context.Context, movieID, companyID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.compLinks[[2]int64{movieID, companyID}] = true
	return nil
}

func (s *fakeStore) CountCategoryMovies(_ context.Context, categoryID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, l := range s.links {
		if l.categoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) EvictOldest(_ context.Context, categoryID int64, n int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failEvict != nil {
		return 0, s.failEvict
	}
	var ours []categoryLink
	for _, l := range s.links {
		if l.categoryID == categoryID {
			ours = append(ours, l)
		}
	}
	sort.Slice(ours, func(i, j int) bool { return ours[i].id < ours[j].id })
	if n > len(ours) {
		n = len(ours)
	}
	victims := map[int64]bool{}
	for _, l := range ours[:n] {
		victims[l.movieID] = true
	}
	kept := s.links[:0]
	for _, l := range s.links {
		if !victims[l.movieID] {
			kept = append(kept, l)
		}
	}
	s.links = kept
	for tmdbID, m := range s.movies {
		if victims[m.ID] {
			delete(s.movies, tmdbID)
		}
	}
	return len(victims), nil
}

// categoryMovies returns the tmdb ids linked to categoryID in link order.
func (s *fakeStore) categoryMovies(categoryID int64) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	byLocal := map[int64]int64{}
	for tmdbID, m := range s.movies {
		byLocal[m.ID] = tmdbID
	}
	var out []int64
	for _, l := range s.links {
		if l.categoryID == categoryID {
			out = append(out, byLocal[l.movieID])
		}
	}
	return out
}

// fakeSource serves canned TMDB data.
type fakeSource struct {
	mu sync.Mutex

	pages       map[string][]MoviePage // category -> pages (index 0 = page 1)
	details     map[int64]*MovieDetail
	genres      []Genre
	genresErr   error
	pageErr     map[string]error
	detailCalls map[int64]int
	pageCalls   int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		pages:       map[string][]MoviePage{},
		details:     map[int64]*MovieDetail{},
		pageErr:     map[string]error{},
		detailCalls: map[int64]int{},
	}
}

func (f *fakeSource) addPage(category string, summaries ...MovieSummary) {
	f.pages[category] = append(f.pages[category], MoviePage{Results: summaries})
	n := len(f.pages[category])
	for i := range f.pages[category] {
		f.pages[category][i].Page = i + 1
		f.pages[category][i].TotalPages = n
	}
}

func (f *fakeSource) addMovie(id int64, title string, genres ...int64) MovieSummary {
	d := &MovieDetail{ID: id, Title: title}
	for _, g := range genres {
		d.Genres = append(d.Genres, Genre{ID: g})
	}
	f.details[id] = d
	return MovieSummary{ID: id, Title: title}
}

func (f *fakeSource) ListCategoryPage(_ context.Context, category string, page int) (*MoviePage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pageCalls++
	if err := f.pageErr[category]; err != nil {
		return nil, err
	}
	pages := f.pages[category]
	if page > len(pages) {
		return &MoviePage{Page: page, TotalPages: len(pages)}, nil
	}
	p := pages[page-1]
	return &p, nil
}

func (f *fakeSource) GetMovieDetail(_ context.Context, id int64) (*MovieDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailCalls[id]++
	d, ok := f.details[id]
	if !ok {
		return nil, &upstream.UpstreamError{Service: "tmdb", StatusCode: 404, Message: "The resource you requested could not be found."}
	}
	cp := *d
	return &cp, nil
}

func (f *fakeSource) GetMovieVideos(context.Context, int64) ([]models.Video, error) {
	return []models.Video{}, nil
}

func (f *fakeSource) ListGenres(context.Context) ([]Genre, error) {
	if f.genresErr != nil {
		return nil, f.genresErr
	}
	return f.genres, nil
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu        sync.Mutex
	progress  []string
	completed []*RunReport
	err       error
}

func (p *recordingPublisher) PublishSyncProgress(_ context.Context, r *SyncReport) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.progress = append(p.progress, r.Category)
	return p.err
}

func (p *recordingPublisher) PublishSyncCompleted(_ context.Context, r *RunReport) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.completed = append(p.completed, r)
	return p.err
}

var errBoom = errors.New("boom")
