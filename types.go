package folio

import "time"

// BlogPost is the only content type: stored in SQLite, edited through the
// admin API and rendered by the public pages.
type BlogPost struct {
	ID              int64     `json:"id"`
	Slug            string    `json:"slug"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	ContentPreview  string    `json:"content_preview"`
	MetaTitle       string    `json:"meta_title"`
	MetaDescription string    `json:"meta_description"`
	Author          string    `json:"author"`
	Category        string    `json:"category"`
	Label           string    `json:"label"`
	IsDraft         bool      `json:"is_draft"`
	Views           int       `json:"views"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Link returns the public path of the post.
func (p BlogPost) Link() string {
	return "/blog/" + p.Slug
}

// PostInput is the body accepted by the create and update endpoints.
type PostInput struct {
	Title           string `json:"title"`
	Slug            string `json:"slug"`
	Content         string `json:"content"`
	ContentPreview  string `json:"content_preview"`
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description"`
	Author          string `json:"author"`
	Category        string `json:"category"`
	Label           string `json:"label"`
	IsDraft         bool   `json:"is_draft"`
}

// PostFilter narrows the admin post listing.
type PostFilter struct {
	IsDraft *bool
}
