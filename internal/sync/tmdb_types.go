// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package sync

import "github.com/tomtom215/marquee/internal/models"

// MoviePage is one page of a TMDB movie list (/movie/{category}).
type MoviePage struct {
	Page         int            `json:"page"`
	Results      []MovieSummary `json:"results"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
}

// MovieSummary is a list entry. GenreIDs are TMDB genre ids.
type MovieSummary struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	OriginalLanguage string  `json:"original_language"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date"`
	GenreIDs         []int64 `json:"genre_ids"`
	PosterPath       *string `json:"poster_path"`
	BackdropPath     *string `json:"backdrop_path"`
	Popularity       float64 `json:"popularity"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Adult            bool    `json:"adult"`
	Video            bool    `json:"video"`
}

// Genre is a TMDB genre as sent by /genre/movie/list and nested in details.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CollectionRef is a detail's belongs_to_collection.
type CollectionRef struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	PosterPath   *string `json:"poster_path"`
	BackdropPath *string `json:"backdrop_path"`
}

// CompanyRef is one entry of a detail's production_companies.
type CompanyRef struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	LogoPath      *string `json:"logo_path"`
	OriginCountry string  `json:"origin_country"`
}

// MovieDetail is the full /movie/{id} record.
type MovieDetail struct {
	ID                  int64          `json:"id"`
	IMDbID              *string        `json:"imdb_id"`
	Title               string         `json:"title"`
	OriginalTitle       string         `json:"original_title"`
	OriginalLanguage    string         `json:"original_language"`
	Overview            string         `json:"overview"`
	Tagline             string         `json:"tagline"`
	ReleaseDate         string         `json:"release_date"`
	Runtime             int            `json:"runtime"`
	Budget              int64          `json:"budget"`
	Revenue             int64          `json:"revenue"`
	Popularity          float64        `json:"popularity"`
	VoteAverage         float64        `json:"vote_average"`
	VoteCount           int            `json:"vote_count"`
	PosterPath          *string        `json:"poster_path"`
	BackdropPath        *string        `json:"backdrop_path"`
	Status              string         `json:"status"`
	Homepage            string         `json:"homepage"`
	Adult               bool           `json:"adult"`
	Video               bool           `json:"video"`
	Genres              []Genre        `json:"genres"`
	ProductionCompanies []CompanyRef   `json:"production_companies"`
	BelongsToCollection *CollectionRef `json:"belongs_to_collection"`
}

type genreList struct {
	Genres []Genre `json:"genres"`
}

type videoList struct {
	ID      int64          `json:"id"`
	Results []models.Video `json:"results"`
}

// statusError is TMDB's error envelope.
type statusError struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

// toMovie maps the detail to a movies row owned by categoryID.
func (d *MovieDetail) toMovie(categoryID int64) *models.Movie {
	return &models.Movie{
		TMDBID:           d.ID,
		IMDbID:           d.IMDbID,
		Title:            d.Title,
		OriginalTitle:    d.OriginalTitle,
		OriginalLanguage: d.OriginalLanguage,
		Overview:         d.Overview,
		Tagline:          d.Tagline,
		ReleaseDate:      d.ReleaseDate,
		Runtime:          d.Runtime,
		Budget:           d.Budget,
		Revenue:          d.Revenue,
		Popularity:       d.Popularity,
		VoteAverage:      d.VoteAverage,
		VoteCount:        d.VoteCount,
		PosterPath:       d.PosterPath,
		BackdropPath:     d.BackdropPath,
		Status:           d.Status,
		Homepage:         d.Homepage,
		Adult:            d.Adult,
		Video:            d.Video,
		CategoryID:       &categoryID,
	}
}

func (c *CollectionRef) toModel() *models.Collection {
	return &models.Collection{
		TMDBID:       c.ID,
		Name:         c.Name,
		PosterPath:   c.PosterPath,
		BackdropPath: c.BackdropPath,
	}
}

func (c *CompanyRef) toModel() *models.ProductionCompany {
	return &models.ProductionCompany{
		TMDBID:        c.ID,
		Name:          c.Name,
		LogoPath:      c.LogoPath,
		OriginCountry: c.OriginCountry,
	}
}
