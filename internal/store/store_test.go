package store

import (
	"sync"
	"testing"
	"time"

	"flatgram/internal/model"
)

func TestStore_AllocIDsAreMonotonic(t *testing.T) {
	s := New()

	err := s.Update(func(st *State) error {
		if id := st.AllocPostID(); id != 1 {
			t.Errorf("first post id = %d, want 1", id)
		}
		if id := st.AllocPostID(); id != 2 {
			t.Errorf("second post id = %d, want 2", id)
		}
		// Comment and request counters run independently
		if id := st.AllocCommentID(); id != 1 {
			t.Errorf("first comment id = %d, want 1", id)
		}
		if id := st.AllocRequestID(); id != 1 {
			t.Errorf("first request id = %d, want 1", id)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
}

func TestStore_IDsNotDerivedFromLength(t *testing.T) {
	s := New()

	// Allocate three ids but only keep one post; the next id must still
	// advance past the allocations, not past the collection length.
	err := s.Update(func(st *State) error {
		st.AllocPostID()
		st.AllocPostID()
		id := st.AllocPostID()
		st.AddPost(&model.Post{ID: id, Author: "alice"})
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	err = s.Update(func(st *State) error {
		if id := st.AllocPostID(); id != 4 {
			t.Errorf("next post id = %d, want 4", id)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
}

func TestStore_Lookups(t *testing.T) {
	s := New()

	err := s.Update(func(st *State) error {
		st.AddUser(model.NewUser("alice", "alice@example.com", "secret"))
		st.AddPost(&model.Post{ID: st.AllocPostID(), Author: "alice"})
		st.AddComment(&model.Comment{ID: st.AllocCommentID(), PostID: 1, Author: "alice"})
		st.AddRequest(&model.FollowRequest{
			ID: st.AllocRequestID(), FromUser: "alice", ToUser: "bob",
			Status: model.RequestPending,
		})
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	err = s.View(func(st *State) error {
		if _, ok := st.UserByName("alice"); !ok {
			t.Error("alice should be found")
		}
		if _, ok := st.UserByName("bob"); ok {
			t.Error("bob should not be found")
		}
		if _, ok := st.PostByID(1); !ok {
			t.Error("post 1 should be found")
		}
		if _, ok := st.CommentByID(1); !ok {
			t.Error("comment 1 should be found")
		}
		if _, ok := st.RequestByID(1); !ok {
			t.Error("request 1 should be found")
		}
		if _, ok := st.PendingRequest("alice", "bob"); !ok {
			t.Error("pending request alice -> bob should be found")
		}
		if _, ok := st.PendingRequest("bob", "alice"); ok {
			t.Error("no request should exist bob -> alice")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestStore_ReplaceAll(t *testing.T) {
	s := New()

	// A freshly unmarshaled record has no username; the key carries it
	users := map[string]*model.User{
		"alice": {Email: "alice@example.com", Password: "secret"},
	}
	posts := []*model.Post{
		{ID: 3, Author: "alice", CreatedAt: time.Now()},
		{ID: 7, Author: "alice", CreatedAt: time.Now()},
	}
	comments := []*model.Comment{{ID: 5, PostID: 3, Author: "alice"}}

	err := s.Update(func(st *State) error {
		st.ReplaceAll(users, posts, comments, nil, 8, 6, 1)
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	err = s.View(func(st *State) error {
		alice, ok := st.UserByName("alice")
		if !ok {
			t.Fatal("alice should be present after reload")
		}
		if alice.Username != "alice" {
			t.Errorf("username = %q, want alice backfilled from the map key", alice.Username)
		}
		if _, ok := st.PostByID(7); !ok {
			t.Error("index should resolve post 7 after reload")
		}
		if _, ok := st.CommentByID(5); !ok {
			t.Error("index should resolve comment 5 after reload")
		}
		if st.NextPostID != 8 || st.NextCommentID != 6 {
			t.Errorf("counters = %d, %d; want 8, 6", st.NextPostID, st.NextCommentID)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestStore_ReplaceAll_ReconstructsCounters(t *testing.T) {
	s := New()

	posts := []*model.Post{{ID: 3, Author: "alice"}, {ID: 7, Author: "alice"}}
	comments := []*model.Comment{{ID: 5, PostID: 3, Author: "alice"}}

	// Zero counters mean an older data directory without counters.json
	err := s.Update(func(st *State) error {
		st.ReplaceAll(nil, posts, comments, nil, 0, 0, 0)
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	err = s.View(func(st *State) error {
		if st.NextPostID != 8 {
			t.Errorf("next post id = %d, want 8 (one past highest)", st.NextPostID)
		}
		if st.NextCommentID != 6 {
			t.Errorf("next comment id = %d, want 6", st.NextCommentID)
		}
		if st.NextRequestID != 1 {
			t.Errorf("next request id = %d, want 1 for empty collection", st.NextRequestID)
		}
		if st.Users == nil {
			t.Error("nil users should be replaced with an empty map")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestStore_ConcurrentUpdates(t *testing.T) {
	s := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Update(func(st *State) error {
				st.AddPost(&model.Post{ID: st.AllocPostID(), Author: "alice"})
				return nil
			})
			if err != nil {
				t.Errorf("update: %v", err)
			}
		}()
	}
	wg.Wait()

	err := s.View(func(st *State) error {
		if len(st.Posts) != 50 {
			t.Errorf("posts = %d, want 50", len(st.Posts))
		}
		seen := make(map[int64]bool)
		for _, p := range st.Posts {
			if seen[p.ID] {
				t.Errorf("id %d allocated twice", p.ID)
			}
			seen[p.ID] = true
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
}
