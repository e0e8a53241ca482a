package model

import (
	"errors"
	"time"
)

// Post is the stored representation of a post. JSON tags match the on-disk
// posts document. Likes hold usernames; Comments hold comment ids in
// insertion order, which is also display order.
type Post struct {
	ID        int64     `json:"id"`
	Author    string    `json:"author"`
	Caption   string    `json:"caption"`
	ImagePath string    `json:"image_path"` // opaque reference, never opened
	Likes     []string  `json:"likes"`
	Comments  []int64   `json:"comments"`
	CreatedAt time.Time `json:"created_at"`
}

// LikedBy reports whether the named user has liked p.
func (p *Post) LikedBy(username string) bool {
	return containsString(p.Likes, username)
}

// CreatePostRequest is the request body for POST /posts.
// The caption may be empty; no length limit is enforced.
type CreatePostRequest struct {
	Caption   string `json:"caption"`
	ImagePath string `json:"image_path"`
}

// PostView is a post enriched for display: counts, the viewer's like/save
// state, and hydrated comments.
type PostView struct {
	ID           int64     `json:"id"`
	Author       string    `json:"author"`
	Caption      string    `json:"caption"`
	ImagePath    string    `json:"image_path"`
	LikeCount    int       `json:"like_count"`
	CommentCount int       `json:"comment_count"`
	IsLiked      bool      `json:"is_liked"`
	IsSaved      bool      `json:"is_saved"`
	CreatedAt    time.Time `json:"created_at"`
	Comments     []Comment `json:"comments,omitempty"`
}

// LikeResponse reports the membership state after a like toggle, so the
// caller can say "liked" or "unliked".
type LikeResponse struct {
	PostID int64 `json:"post_id"`
	Liked  bool  `json:"liked"`
}

var (
	// ErrPostNotFound is returned when a referenced post id does not exist
	ErrPostNotFound = errors.New("post not found")

	// ErrAlreadySaved reports a repeated save
	ErrAlreadySaved = errors.New("post already saved")

	// ErrNotSaved reports an unsave of a post that is not saved
	ErrNotSaved = errors.New("post not saved")
)
