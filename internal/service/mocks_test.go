package service

import (
	"context"
	"testing"

	"flatgram/internal/model"
	"flatgram/internal/store"
)

// mockGateway implements persist.Gateway with pluggable behavior, the same
// way the repository interfaces are mocked elsewhere: function fields plus
// call counting for assertions.
type mockGateway struct {
	loadFn func(ctx context.Context, s *store.Store) error
	saveFn func(ctx context.Context, s *store.Store) error

	saveCalls int
}

func (m *mockGateway) Load(ctx context.Context, s *store.Store) error {
	if m.loadFn != nil {
		return m.loadFn(ctx, s)
	}
	return nil
}

func (m *mockGateway) Save(ctx context.Context, s *store.Store) error {
	m.saveCalls++
	if m.saveFn != nil {
		return m.saveFn(ctx, s)
	}
	return nil
}

// newTestStore returns a store seeded with public users named by usernames,
// each with password "secret".
func newTestStore(t *testing.T, usernames ...string) *store.Store {
	t.Helper()
	s := store.New()
	err := s.Update(func(st *store.State) error {
		for _, name := range usernames {
			st.AddUser(model.NewUser(name, name+"@example.com", "secret"))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed store: %v", err)
	}
	return s
}

// getUser copies a user out of the store for assertions.
func getUser(t *testing.T, s *store.Store, username string) *model.User {
	t.Helper()
	var u model.User
	err := s.View(func(st *store.State) error {
		found, ok := st.UserByName(username)
		if !ok {
			return model.ErrUserNotFound
		}
		u = *found
		return nil
	})
	if err != nil {
		t.Fatalf("get user %q: %v", username, err)
	}
	return &u
}

// setPrivate flips a seeded user's privacy directly.
func setPrivate(t *testing.T, s *store.Store, username string, private bool) {
	t.Helper()
	err := s.Update(func(st *store.State) error {
		u, ok := st.UserByName(username)
		if !ok {
			return model.ErrUserNotFound
		}
		u.IsPrivate = private
		return nil
	})
	if err != nil {
		t.Fatalf("set privacy for %q: %v", username, err)
	}
}

// requestsByStatus copies all requests matching status out of the store.
func requestsByStatus(t *testing.T, s *store.Store, status string) []model.FollowRequest {
	t.Helper()
	var out []model.FollowRequest
	err := s.View(func(st *store.State) error {
		for _, r := range st.Requests {
			if r.Status == status {
				out = append(out, *r)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("list requests: %v", err)
	}
	return out
}
