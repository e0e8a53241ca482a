package service

import (
	"context"
	"time"

	"flatgram/internal/model"
	"flatgram/internal/persist"
	"flatgram/internal/store"
)

// ContentService owns the post/comment/like/save lifecycle. Posts and
// comments are never deleted, so identifiers only ever grow.
type ContentService struct {
	store   *store.Store
	gateway persist.Gateway
}

func NewContentService(s *store.Store, gw persist.Gateway) *ContentService {
	return &ContentService{
		store:   s,
		gateway: gw,
	}
}

// CreatePost makes a new post for the author and appends its id to the
// author's post list. An empty caption is allowed; the image path is kept as
// an opaque reference.
func (s *ContentService) CreatePost(ctx context.Context, author string, req model.CreatePostRequest) (*model.Post, error) {
	var created model.Post

	err := s.store.Update(func(st *store.State) error {
		u, ok := st.UserByName(author)
		if !ok {
			return model.ErrUserNotFound
		}

		post := &model.Post{
			ID:        st.AllocPostID(),
			Author:    author,
			Caption:   req.Caption,
			ImagePath: req.ImagePath,
			Likes:     []string{},
			Comments:  []int64{},
			CreatedAt: time.Now(),
		}
		st.AddPost(post)
		u.Posts = append(u.Posts, post.ID)
		created = *post
		return nil
	})
	if err != nil {
		return nil, err
	}

	persistAfterMutation(ctx, s.gateway, s.store, "ContentService")
	return &created, nil
}

// ToggleLike flips the actor's membership in the post's like set and reports
// the resulting state, so the caller can say "liked" or "unliked". Applying
// it twice always restores the original set.
func (s *ContentService) ToggleLike(ctx context.Context, postID int64, actor string) (bool, error) {
	var liked bool

	err := s.store.Update(func(st *store.State) error {
		if _, ok := st.UserByName(actor); !ok {
			return model.ErrUserNotFound
		}
		post, ok := st.PostByID(postID)
		if !ok {
			return model.ErrPostNotFound
		}

		if post.LikedBy(actor) {
			post.Likes = removeString(post.Likes, actor)
			liked = false
		} else {
			post.Likes = append(post.Likes, actor)
			liked = true
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	persistAfterMutation(ctx, s.gateway, s.store, "ContentService")
	return liked, nil
}

// AddComment appends a comment to the post and to the global comment
// collection. Any user may comment; following the author is not required.
func (s *ContentService) AddComment(ctx context.Context, postID int64, author, text string) (*model.Comment, error) {
	var created model.Comment

	err := s.store.Update(func(st *store.State) error {
		if _, ok := st.UserByName(author); !ok {
			return model.ErrUserNotFound
		}
		post, ok := st.PostByID(postID)
		if !ok {
			return model.ErrPostNotFound
		}

		comment := &model.Comment{
			ID:        st.AllocCommentID(),
			PostID:    postID,
			Author:    author,
			Text:      text,
			CreatedAt: time.Now(),
		}
		st.AddComment(comment)
		post.Comments = append(post.Comments, comment.ID)
		created = *comment
		return nil
	})
	if err != nil {
		return nil, err
	}

	persistAfterMutation(ctx, s.gateway, s.store, "ContentService")
	return &created, nil
}

// SavePost adds the post to the actor's saved list.
func (s *ContentService) SavePost(ctx context.Context, postID int64, actor string) error {
	err := s.store.Update(func(st *store.State) error {
		u, ok := st.UserByName(actor)
		if !ok {
			return model.ErrUserNotFound
		}
		if _, ok := st.PostByID(postID); !ok {
			return model.ErrPostNotFound
		}
		if u.HasSaved(postID) {
			return model.ErrAlreadySaved
		}
		u.SavedPosts = append(u.SavedPosts, postID)
		return nil
	})
	if err != nil {
		return err
	}

	persistAfterMutation(ctx, s.gateway, s.store, "ContentService")
	return nil
}

// UnsavePost removes the post from the actor's saved list.
func (s *ContentService) UnsavePost(ctx context.Context, postID int64, actor string) error {
	err := s.store.Update(func(st *store.State) error {
		u, ok := st.UserByName(actor)
		if !ok {
			return model.ErrUserNotFound
		}
		if !u.HasSaved(postID) {
			return model.ErrNotSaved
		}
		u.SavedPosts = removeInt64(u.SavedPosts, postID)
		return nil
	})
	if err != nil {
		return err
	}

	persistAfterMutation(ctx, s.gateway, s.store, "ContentService")
	return nil
}

// GetPost returns a post with its comments hydrated in insertion order and
// the viewer's like/save flags filled in. A dangling comment id aborts the
// lookup rather than silently shrinking the thread.
func (s *ContentService) GetPost(ctx context.Context, postID int64, viewer string) (*model.PostView, error) {
	var view model.PostView

	err := s.store.View(func(st *store.State) error {
		u, ok := st.UserByName(viewer)
		if !ok {
			return model.ErrUserNotFound
		}
		post, ok := st.PostByID(postID)
		if !ok {
			return model.ErrPostNotFound
		}

		v, err := buildPostView(st, post, u)
		if err != nil {
			return err
		}
		view = *v
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &view, nil
}

// buildPostView assembles the display form of a post for a viewer. Shared
// with the feed service, which is why it takes the state directly.
func buildPostView(st *store.State, post *model.Post, viewer *model.User) (*model.PostView, error) {
	comments := make([]model.Comment, 0, len(post.Comments))
	for _, id := range post.Comments {
		c, ok := st.CommentByID(id)
		if !ok {
			return nil, model.ErrCommentNotFound
		}
		comments = append(comments, *c)
	}

	return &model.PostView{
		ID:           post.ID,
		Author:       post.Author,
		Caption:      post.Caption,
		ImagePath:    post.ImagePath,
		LikeCount:    len(post.Likes),
		CommentCount: len(post.Comments),
		IsLiked:      post.LikedBy(viewer.Username),
		IsSaved:      viewer.HasSaved(post.ID),
		CreatedAt:    post.CreatedAt,
		Comments:     comments,
	}, nil
}
