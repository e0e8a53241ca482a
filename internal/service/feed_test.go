package service

import (
	"context"
	"errors"
	"testing"

	"flatgram/internal/model"
)

func TestFeedService_Feed(t *testing.T) {
	s := newTestStore(t, "alice", "bob", "carol")
	content := NewContentService(s, &mockGateway{})
	rel := NewRelationshipService(s, &mockGateway{})
	feed := NewFeedService(s)

	createPost(t, content, "bob", "b1")
	createPost(t, content, "carol", "c1")
	createPost(t, content, "bob", "b2")
	createPost(t, content, "alice", "a1")

	if _, err := rel.Follow(context.Background(), "alice", "bob"); err != nil {
		t.Fatalf("follow: %v", err)
	}

	views, err := feed.Feed(context.Background(), "alice")
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("feed length = %d, want 2", len(views))
	}
	if views[0].Caption != "b1" || views[1].Caption != "b2" {
		t.Errorf("feed order = %q, %q; want b1, b2", views[0].Caption, views[1].Caption)
	}
	for _, v := range views {
		if v.Author != "bob" {
			t.Errorf("feed contains post by %q, want only bob", v.Author)
		}
	}
}

func TestFeedService_Feed_Empty(t *testing.T) {
	s := newTestStore(t, "alice", "bob")
	content := NewContentService(s, &mockGateway{})
	feed := NewFeedService(s)

	createPost(t, content, "bob", "b1")

	views, err := feed.Feed(context.Background(), "alice")
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if views == nil {
		t.Fatal("feed should be an empty slice, not nil")
	}
	if len(views) != 0 {
		t.Errorf("feed length = %d, want 0 for a viewer following nobody", len(views))
	}
}

func TestFeedService_Feed_UnknownViewer(t *testing.T) {
	s := newTestStore(t, "alice")
	feed := NewFeedService(s)

	_, err := feed.Feed(context.Background(), "ghost")
	if !errors.Is(err, model.ErrUserNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrUserNotFound)
	}
}

func TestFeedService_SavedPosts(t *testing.T) {
	s := newTestStore(t, "alice", "bob")
	content := NewContentService(s, &mockGateway{})
	feed := NewFeedService(s)

	p1 := createPost(t, content, "bob", "b1")
	createPost(t, content, "bob", "b2")
	p3 := createPost(t, content, "bob", "b3")

	for _, id := range []int64{p3.ID, p1.ID} {
		if err := content.SavePost(context.Background(), id, "alice"); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	views, err := feed.SavedPosts(context.Background(), "alice")
	if err != nil {
		t.Fatalf("saved: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("saved length = %d, want 2", len(views))
	}
	// Store insertion order, not save order
	if views[0].ID != p1.ID || views[1].ID != p3.ID {
		t.Errorf("saved order = %d, %d; want %d, %d", views[0].ID, views[1].ID, p1.ID, p3.ID)
	}
	if !views[0].IsSaved || !views[1].IsSaved {
		t.Error("saved views should carry IsSaved = true")
	}
}

func TestFeedService_UserPosts(t *testing.T) {
	s := newTestStore(t, "alice", "bob")
	content := NewContentService(s, &mockGateway{})
	feed := NewFeedService(s)

	createPost(t, content, "bob", "b1")
	createPost(t, content, "alice", "a1")
	createPost(t, content, "bob", "b2")

	// alice does not follow bob; his profile posts are still visible
	views, err := feed.UserPosts(context.Background(), "bob", "alice")
	if err != nil {
		t.Fatalf("user posts: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("length = %d, want 2", len(views))
	}
	if views[0].Caption != "b1" || views[1].Caption != "b2" {
		t.Errorf("order = %q, %q; want b1, b2", views[0].Caption, views[1].Caption)
	}

	if _, err := feed.UserPosts(context.Background(), "ghost", "alice"); !errors.Is(err, model.ErrUserNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrUserNotFound)
	}
}
