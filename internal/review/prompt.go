// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package review

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

const systemPrompt = "You are a helpful assistant that writes movie reviews in a professional tone."

// GenreRef is a genre as sent by API clients. Only the name is used.
type GenreRef struct {
	ID   *int64 `json:"id,omitempty"`
	Name string `json:"name" validate:"required,max=100"`
}

// ReviewRequest describes the movie to review.
type ReviewRequest struct {
	TMDBID   *int64     `json:"tmdb_id,omitempty" validate:"omitempty,min=1"`
	Title    string     `json:"title" validate:"required,max=300"`
	Overview string     `json:"overview" validate:"required,max=5000"`
	Genres   []GenreRef `json:"genres" validate:"max=20,dive"`
}

// Message is one chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Prompt is the system and user message pair sent to the model.
type Prompt struct {
	System string
	User   string
}

// Messages returns the prompt as chat messages.
func (p Prompt) Messages() []Message {
	return []Message{
		{Role: "system", Content: p.System},
		{Role: "user", Content: p.User},
	}
}

// BuildPrompt renders the review prompt. Up to the first two genre names
// qualify the movie; with none the sentence reads "the movie".
func BuildPrompt(req ReviewRequest) Prompt {
	var names []string
	for _, g := range req.Genres {
		if name := strings.TrimSpace(g.Name); name != "" {
			names = append(names, name)
		}
		if len(names) == 2 {
			break
		}
	}

	subject := "movie"
	if len(names) > 0 {
		subject = strings.Join(names, " ") + " movie"
	}

	return Prompt{
		System: systemPrompt,
		User: fmt.Sprintf("Write a review for the %s \"%s\" in one paragraph based on this overview: %s.",
			subject, req.Title, strings.TrimSpace(req.Overview)),
	}
}

// cacheKey identifies a generated review by model and prompt.
func cacheKey(model string, p Prompt) string {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(p.System))
	h.Write([]byte{0})
	h.Write([]byte(p.User))
	return reviewKeyPrefix + hex.EncodeToString(h.Sum(nil))
}
