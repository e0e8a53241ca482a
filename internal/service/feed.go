package service

import (
	"context"

	"flatgram/internal/model"
	"flatgram/internal/store"
)

// FeedService assembles the read-only views over posts. Every view is a
// fresh filter over the store's insertion-ordered post list; nothing here is
// cached or persisted. Visibility is determined entirely by the viewer's
// current following membership, which the relationship engine already keeps
// consistent with blocks and unfollows.
type FeedService struct {
	store *store.Store
}

func NewFeedService(s *store.Store) *FeedService {
	return &FeedService{store: s}
}

// Feed returns the posts authored by accounts the viewer follows, in store
// insertion order.
func (s *FeedService) Feed(ctx context.Context, viewer string) ([]model.PostView, error) {
	return s.collect(viewer, func(p *model.Post, u *model.User) bool {
		return u.Follows(p.Author)
	})
}

// SavedPosts returns the viewer's saved posts, in store insertion order.
func (s *FeedService) SavedPosts(ctx context.Context, viewer string) ([]model.PostView, error) {
	return s.collect(viewer, func(p *model.Post, u *model.User) bool {
		return u.HasSaved(p.ID)
	})
}

// UserPosts returns the posts authored by the named user, in store insertion
// order. Profiles are browsable regardless of follow state, so there is no
// visibility gate here.
func (s *FeedService) UserPosts(ctx context.Context, author, viewer string) ([]model.PostView, error) {
	var views []model.PostView

	err := s.store.View(func(st *store.State) error {
		u, ok := st.UserByName(viewer)
		if !ok {
			return model.ErrUserNotFound
		}
		if _, ok := st.UserByName(author); !ok {
			return model.ErrUserNotFound
		}
		for _, p := range st.Posts {
			if p.Author != author {
				continue
			}
			v, err := buildPostView(st, p, u)
			if err != nil {
				return err
			}
			views = append(views, *v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if views == nil {
		views = []model.PostView{}
	}
	return views, nil
}

func (s *FeedService) collect(viewer string, include func(*model.Post, *model.User) bool) ([]model.PostView, error) {
	var views []model.PostView

	err := s.store.View(func(st *store.State) error {
		u, ok := st.UserByName(viewer)
		if !ok {
			return model.ErrUserNotFound
		}
		for _, p := range st.Posts {
			if !include(p, u) {
				continue
			}
			v, err := buildPostView(st, p, u)
			if err != nil {
				return err
			}
			views = append(views, *v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if views == nil {
		views = []model.PostView{}
	}
	return views, nil
}
