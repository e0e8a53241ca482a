package model

import (
	"errors"
	"time"
)

// User is the stored representation of an account. The username is the
// primary key and never changes; the users document is keyed by it, so it is
// not repeated inside the record and is backfilled from the key on load. The
// JSON tags match the on-disk users document; this struct is never written
// to an HTTP response (handlers return Profile or UserSummary).
type User struct {
	Username     string    `json:"-"`
	Email        string    `json:"email"`
	Password     string    `json:"password"` // opaque credential, compared verbatim
	Bio          string    `json:"bio"`
	Followers    []string  `json:"followers"`
	Following    []string  `json:"following"`
	Posts        []int64   `json:"posts"`
	SavedPosts   []int64   `json:"saved_posts"`
	BlockedUsers []string  `json:"blocked_users"`
	IsPrivate    bool      `json:"is_private"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewUser returns a user with every relationship list initialized, so the
// persisted document always carries arrays rather than nulls.
func NewUser(username, email, password string) *User {
	return &User{
		Username:     username,
		Email:        email,
		Password:     password,
		Followers:    []string{},
		Following:    []string{},
		Posts:        []int64{},
		SavedPosts:   []int64{},
		BlockedUsers: []string{},
		CreatedAt:    time.Now(),
	}
}

// Follows reports whether u follows the named user.
func (u *User) Follows(username string) bool {
	return containsString(u.Following, username)
}

// FollowedBy reports whether the named user follows u.
func (u *User) FollowedBy(username string) bool {
	return containsString(u.Followers, username)
}

// HasBlocked reports whether u has blocked the named user.
func (u *User) HasBlocked(username string) bool {
	return containsString(u.BlockedUsers, username)
}

// HasSaved reports whether u has saved the given post.
func (u *User) HasSaved(postID int64) bool {
	for _, id := range u.SavedPosts {
		if id == postID {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// RegisterRequest is the request body for POST /auth/register.
// Registration re-prompts on validation failure, so the confirmation
// password travels with the request and is checked here, not client-side.
type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Username        string `json:"username" validate:"required"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"eqfield=Password"`
}

// LoginRequest is the request body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateBioRequest is the request body for PUT /me/bio.
type UpdateBioRequest struct {
	Bio string `json:"bio"`
}

// SetPrivacyRequest is the request body for PUT /me/privacy.
type SetPrivacyRequest struct {
	IsPrivate bool `json:"is_private"`
}

// Profile is the outward view of a user: everything from the stored record
// except the credential, plus counts and the viewer's relationship flags.
type Profile struct {
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Bio            string    `json:"bio"`
	IsPrivate      bool      `json:"is_private"`
	FollowerCount  int       `json:"follower_count"`
	FollowingCount int       `json:"following_count"`
	PostCount      int       `json:"post_count"`
	CreatedAt      time.Time `json:"created_at"`
	IsFollowing    bool      `json:"is_following"`
	IsBlocked      bool      `json:"is_blocked"`
}

// UserSummary is the compact form used in search results.
type UserSummary struct {
	Username       string `json:"username"`
	FollowerCount  int    `json:"follower_count"`
	FollowingCount int    `json:"following_count"`
	IsFollowing    bool   `json:"is_following"`
}

var (
	// ErrUserNotFound is returned when a referenced user does not exist
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameExists is returned when registering a taken username
	ErrUsernameExists = errors.New("username already exists")

	// ErrInvalidCredentials is returned when login credentials are incorrect
	ErrInvalidCredentials = errors.New("invalid credentials")
)
