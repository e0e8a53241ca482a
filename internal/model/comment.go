package model

import (
	"errors"
	"time"
)

// Comment is immutable once created: never edited, never deleted.
// JSON tags match the on-disk comments document.
type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCommentRequest is the request body for POST /posts/{id}/comments.
type CreateCommentRequest struct {
	Text string `json:"text"`
}

// ErrCommentNotFound is returned when a referenced comment id does not exist
var ErrCommentNotFound = errors.New("comment not found")
