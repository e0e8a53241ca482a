// Package persist is the persistence gateway: one JSON document per entity
// collection under a data directory. The durable store is authoritative on
// load; after that the in-memory store is, and Save is called synchronously
// after every successful mutation.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"flatgram/internal/model"
	"flatgram/internal/store"
)

// Gateway loads and saves the whole entity store. Refresh tokens are
// deliberately left out: they are volatile session state.
type Gateway interface {
	Load(ctx context.Context, s *store.Store) error
	Save(ctx context.Context, s *store.Store) error
}

// Document file names inside the data directory.
const (
	UsersFile    = "users.json"
	PostsFile    = "posts.json"
	CommentsFile = "comments.json"
	RequestsFile = "follow_requests.json"
	CountersFile = "counters.json"
)

// counters is persisted alongside the collections so identifiers survive
// restarts without being derived from collection length.
type counters struct {
	NextPostID    int64 `json:"next_post_id"`
	NextCommentID int64 `json:"next_comment_id"`
	NextRequestID int64 `json:"next_request_id"`
}

// fileGateway reads and writes the JSON documents under dir.
type fileGateway struct {
	dir string
}

// NewFileGateway creates the data directory if needed and returns a gateway
// over it.
func NewFileGateway(dir string) (Gateway, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &fileGateway{dir: dir}, nil
}

// Load replaces the store's collections with the documents on disk. Missing
// files mean empty collections; a missing counters document is reconstructed
// from the highest ids present.
func (g *fileGateway) Load(ctx context.Context, s *store.Store) error {
	var users map[string]*model.User
	if err := g.readDoc(UsersFile, &users); err != nil {
		return fmt.Errorf("load users: %w", err)
	}

	posts := []*model.Post{}
	if err := g.readDoc(PostsFile, &posts); err != nil {
		return fmt.Errorf("load posts: %w", err)
	}

	comments := []*model.Comment{}
	if err := g.readDoc(CommentsFile, &comments); err != nil {
		return fmt.Errorf("load comments: %w", err)
	}

	requests := []*model.FollowRequest{}
	if err := g.readDoc(RequestsFile, &requests); err != nil {
		return fmt.Errorf("load follow requests: %w", err)
	}

	var c counters
	if err := g.readDoc(CountersFile, &c); err != nil {
		return fmt.Errorf("load counters: %w", err)
	}

	return s.Update(func(st *store.State) error {
		st.ReplaceAll(users, posts, comments, requests, c.NextPostID, c.NextCommentID, c.NextRequestID)
		return nil
	})
}

// Save writes every persisted collection. The write is atomic per document
// (temp file then rename), not across documents; partial-write recovery is
// out of scope.
func (g *fileGateway) Save(ctx context.Context, s *store.Store) error {
	return s.View(func(st *store.State) error {
		if err := g.writeDoc(UsersFile, st.Users); err != nil {
			return fmt.Errorf("save users: %w", err)
		}
		if err := g.writeDoc(PostsFile, st.Posts); err != nil {
			return fmt.Errorf("save posts: %w", err)
		}
		if err := g.writeDoc(CommentsFile, st.Comments); err != nil {
			return fmt.Errorf("save comments: %w", err)
		}
		if err := g.writeDoc(RequestsFile, st.Requests); err != nil {
			return fmt.Errorf("save follow requests: %w", err)
		}
		c := counters{
			NextPostID:    st.NextPostID,
			NextCommentID: st.NextCommentID,
			NextRequestID: st.NextRequestID,
		}
		if err := g.writeDoc(CountersFile, c); err != nil {
			return fmt.Errorf("save counters: %w", err)
		}
		return nil
	})
}

func (g *fileGateway) readDoc(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(g.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, v)
}

func (g *fileGateway) writeDoc(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	path := filepath.Join(g.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
