// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package models

import "time"

// Category is a TMDB movie list ("popular", "top_rated", ...) seeded from
// configuration. MovieCount is only populated by the category listing.
type Category struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	MovieCount int64  `json:"movie_count"`
}

// Genre is one row of the genres table. The JSON id is the TMDB id so API
// clients can pass it straight back to TMDB.
type Genre struct {
	ID     int64  `json:"-"`
	TMDBID int64  `json:"id"`
	Name   string `json:"name"`
}

// Collection is a TMDB franchise ("belongs_to_collection").
type Collection struct {
	ID           int64   `json:"-"`
	TMDBID       int64   `json:"id"`
	Name         string  `json:"name"`
	PosterPath   *string `json:"poster_path"`
	BackdropPath *string `json:"backdrop_path"`
}

// ProductionCompany is a studio credited on a movie.
type ProductionCompany struct {
	ID            int64   `json:"-"`
	TMDBID        int64   `json:"id"`
	Name          string  `json:"name"`
	LogoPath      *string `json:"logo_path"`
	OriginCountry string  `json:"origin_country"`
}

// Movie mirrors the movies table.
//
// ReleaseDate is kept as TMDB's "YYYY-MM-DD" string; TMDB sends "" for
// unreleased titles, which a DATE column would reject.
type Movie struct {
	ID               int64     `json:"-"`
	TMDBID           int64     `json:"id"`
	IMDbID           *string   `json:"imdb_id"`
	Title            string    `json:"title"`
	OriginalTitle    string    `json:"original_title"`
	OriginalLanguage string    `json:"original_language"`
	Overview         string    `json:"overview"`
	Tagline          string    `json:"tagline"`
	ReleaseDate      string    `json:"release_date"`
	Runtime          int       `json:"runtime"`
	Budget           int64     `json:"budget"`
	Revenue          int64     `json:"revenue"`
	Popularity       float64   `json:"popularity"`
	VoteAverage      float64   `json:"vote_average"`
	VoteCount        int       `json:"vote_count"`
	PosterPath       *string   `json:"poster_path"`
	BackdropPath     *string   `json:"backdrop_path"`
	Status           string    `json:"status"`
	Homepage         string    `json:"homepage"`
	Adult            bool      `json:"adult"`
	Video            bool      `json:"video"`
	CategoryID       *int64    `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
}

// Video is a trailer or clip attached to a movie on TMDB.
type Video struct {
	ID          string `json:"id"`
	ISO6391     string `json:"iso_639_1"`
	ISO31661    string `json:"iso_3166_1"`
	Key         string `json:"key"`
	Name        string `json:"name"`
	Site        string `json:"site"`
	Size        int    `json:"size"`
	Type        string `json:"type"`
	Official    bool   `json:"official"`
	PublishedAt string `json:"published_at"`
}

// MovieDetail is the detail endpoint payload: the stored movie plus its
// associations. Videos are fetched live and omitted when that fetch fails.
type MovieDetail struct {
	Movie
	Genres              []Genre             `json:"genres"`
	ProductionCompanies []ProductionCompany `json:"production_companies"`
	BelongsToCollection *Collection         `json:"belongs_to_collection"`
	Videos              []Video             `json:"videos,omitempty"`
}

// MovieSummary is one row of a list or search page.
type MovieSummary struct {
	TMDBID       int64   `json:"id"`
	Title        string  `json:"title"`
	PosterPath   *string `json:"poster_path"`
	BackdropPath *string `json:"backdrop_path"`
}

// CategoryPage is a paginated window over a category or a search.
type CategoryPage struct {
	Page         int            `json:"page"`
	Results      []MovieSummary `json:"results"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int64          `json:"total_results"`
}

// TotalPages returns ceil(total / pageSize), 0 when either is non-positive.
func TotalPages(total int64, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
