package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"flatgram/internal/model"
	"flatgram/internal/persist"
	"flatgram/internal/store"
)

// UserService handles account lifecycle and profile reads. Passwords are
// opaque strings compared verbatim; there is no credential hardening in this
// system and the persisted users document carries the password as given.
type UserService struct {
	store    *store.Store
	gateway  persist.Gateway
	validate *validator.Validate
}

func NewUserService(s *store.Store, gw persist.Gateway) *UserService {
	return &UserService{
		store:    s,
		gateway:  gw,
		validate: validator.New(),
	}
}

// Register creates a new account. Validation failures (malformed email,
// missing fields, password confirmation mismatch) come back as
// validator.ValidationErrors so the caller can re-prompt.
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid registration: %w", err)
	}

	var created model.User
	err := s.store.Update(func(st *store.State) error {
		if _, exists := st.UserByName(req.Username); exists {
			return model.ErrUsernameExists
		}
		u := model.NewUser(req.Username, req.Email, req.Password)
		st.AddUser(u)
		created = *u
		return nil
	})
	if err != nil {
		return nil, err
	}

	persistAfterMutation(ctx, s.gateway, s.store, "UserService")
	return &created, nil
}

// Login authenticates by username and password.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	var found model.User

	err := s.store.View(func(st *store.State) error {
		u, ok := st.UserByName(req.Username)
		if !ok {
			// Don't reveal whether the username exists
			return model.ErrInvalidCredentials
		}
		if u.Password != req.Password {
			return model.ErrInvalidCredentials
		}
		found = *u
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &found, nil
}

// GetProfile returns the outward view of a user, with the viewer's follow
// and block flags filled in when the viewer is someone else.
func (s *UserService) GetProfile(ctx context.Context, username, viewer string) (*model.Profile, error) {
	var profile model.Profile

	err := s.store.View(func(st *store.State) error {
		u, ok := st.UserByName(username)
		if !ok {
			return model.ErrUserNotFound
		}

		profile = model.Profile{
			Username:       u.Username,
			Email:          u.Email,
			Bio:            u.Bio,
			IsPrivate:      u.IsPrivate,
			FollowerCount:  len(u.Followers),
			FollowingCount: len(u.Following),
			PostCount:      len(u.Posts),
			CreatedAt:      u.CreatedAt,
		}

		if viewer != "" && viewer != username {
			if v, ok := st.UserByName(viewer); ok {
				profile.IsFollowing = v.Follows(username)
				profile.IsBlocked = v.HasBlocked(username)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

// UpdateBio replaces the user's bio.
func (s *UserService) UpdateBio(ctx context.Context, username, bio string) error {
	err := s.store.Update(func(st *store.State) error {
		u, ok := st.UserByName(username)
		if !ok {
			return model.ErrUserNotFound
		}
		u.Bio = bio
		return nil
	})
	if err != nil {
		return err
	}

	persistAfterMutation(ctx, s.gateway, s.store, "UserService")
	return nil
}

// SetPrivacy flips the account between public and private. Going public does
// not resolve requests already pending; they stay until accepted.
func (s *UserService) SetPrivacy(ctx context.Context, username string, private bool) error {
	err := s.store.Update(func(st *store.State) error {
		u, ok := st.UserByName(username)
		if !ok {
			return model.ErrUserNotFound
		}
		u.IsPrivate = private
		return nil
	})
	if err != nil {
		return err
	}

	persistAfterMutation(ctx, s.gateway, s.store, "UserService")
	return nil
}

// BlockedUsers returns the usernames the user has blocked, in the order the
// blocks were placed. The list is how a client discovers whom it can
// unblock.
func (s *UserService) BlockedUsers(ctx context.Context, username string) ([]string, error) {
	var blocked []string

	err := s.store.View(func(st *store.State) error {
		u, ok := st.UserByName(username)
		if !ok {
			return model.ErrUserNotFound
		}
		blocked = append([]string{}, u.BlockedUsers...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return blocked, nil
}

// Search finds users whose username contains the query, case-insensitively,
// excluding the viewer themselves.
func (s *UserService) Search(ctx context.Context, query, viewer string) ([]model.UserSummary, error) {
	q := strings.ToLower(query)
	var results []model.UserSummary

	err := s.store.View(func(st *store.State) error {
		v, ok := st.UserByName(viewer)
		if !ok {
			return model.ErrUserNotFound
		}
		for name, u := range st.Users {
			if name == viewer || !strings.Contains(strings.ToLower(name), q) {
				continue
			}
			results = append(results, model.UserSummary{
				Username:       name,
				FollowerCount:  len(u.Followers),
				FollowingCount: len(u.Following),
				IsFollowing:    v.Follows(name),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if results == nil {
		results = []model.UserSummary{}
	}
	// Map iteration order is random; keep output stable.
	sort.Slice(results, func(i, j int) bool {
		return results[i].Username < results[j].Username
	})
	return results, nil
}
