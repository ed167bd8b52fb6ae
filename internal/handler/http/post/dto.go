// Package post provides HTTP handlers for blog posts: listing, reading,
// creating, updating and deleting, with summary provenance in every view.
package post

import (
	"time"

	"blog-summary/internal/domain/entity"
)

// DTO represents the JSON structure for post data transfer.
type DTO struct {
	ID            int64     `json:"id"`
	AuthorID      int64     `json:"author_id"`
	Author        string    `json:"author"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Summary       string    `json:"summary"`
	SummarySource string    `json:"summary_source"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toDTO(p *entity.Post, author string) DTO {
	return DTO{
		ID:            p.ID,
		AuthorID:      p.AuthorID,
		Author:        author,
		Title:         p.Title,
		Content:       p.Content,
		Summary:       p.Summary,
		SummarySource: p.SummarySource,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
