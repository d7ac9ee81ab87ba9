package entity

import "time"

// Post is owned by AuthorID for its whole lifetime.
type Post struct {
	ID          string    `json:"id"`
	AuthorID    string    `json:"authorId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Text        string    `json:"text"`
	BannerImg   string    `json:"bannerImg"`
	Published   bool      `json:"published"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type PostCounts struct {
	Comments int `json:"comments"`
	Likes    int `json:"likes"`
	Views    int `json:"views"`
}

// PostSummary is a post as listed in the feed. Liked is relative to the viewer.
type PostSummary struct {
	Post
	Author Author     `json:"author"`
	Counts PostCounts `json:"counts"`
	Liked  bool       `json:"liked"`
}

// PostDetail adds the comment thread, oldest first.
type PostDetail struct {
	PostSummary
	Comments []CommentView `json:"comments"`
}
