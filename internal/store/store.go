// Package store holds every entity collection in memory for the life of the
// process. It is the single source of truth during a session; the persist
// gateway only snapshots it to disk and refills it on startup.
package store

import (
	"sync"

	"flatgram/internal/model"
)

// State is the set of collections guarded by the store's lock. Users
// reference posts, comments and requests by identifier only; lookups always
// resolve through the indexes here, never through embedded copies.
//
// Identifier counters are explicit and monotonic. They are persisted with
// the data and never derived from collection length, so an id is never
// reused no matter what happens to the collections.
type State struct {
	Users         map[string]*model.User
	Posts         []*model.Post
	Comments      []*model.Comment
	Requests      []*model.FollowRequest
	RefreshTokens map[string]*model.RefreshToken // keyed by token hash, volatile

	NextPostID    int64
	NextCommentID int64
	NextRequestID int64

	postsByID    map[int64]*model.Post
	commentsByID map[int64]*model.Comment
	requestsByID map[int64]*model.FollowRequest
}

// Store wraps State with a single process-wide lock. Every operation —
// precondition checks plus both sides of a symmetric mutation — runs inside
// one Update closure, which keeps the follower/following invariant atomic
// under concurrent sessions.
type Store struct {
	mu    sync.RWMutex
	state State
}

// New returns an empty store with counters starting at 1.
func New() *Store {
	return &Store{
		state: State{
			Users:         make(map[string]*model.User),
			Posts:         []*model.Post{},
			Comments:      []*model.Comment{},
			Requests:      []*model.FollowRequest{},
			RefreshTokens: make(map[string]*model.RefreshToken),
			NextPostID:    1,
			NextCommentID: 1,
			NextRequestID: 1,
			postsByID:     make(map[int64]*model.Post),
			commentsByID:  make(map[int64]*model.Comment),
			requestsByID:  make(map[int64]*model.FollowRequest),
		},
	}
}

// View runs fn under the read lock. fn must not mutate the state.
func (s *Store) View(fn func(*State) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&s.state)
}

// Update runs fn under the write lock. Mutations are not rolled back when fn
// returns an error, so closures must finish validating before they start
// mutating.
func (s *Store) Update(fn func(*State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.state)
}

// UserByName looks up a user by username.
func (st *State) UserByName(username string) (*model.User, bool) {
	u, ok := st.Users[username]
	return u, ok
}

// PostByID looks up a post by id.
func (st *State) PostByID(id int64) (*model.Post, bool) {
	p, ok := st.postsByID[id]
	return p, ok
}

// CommentByID looks up a comment by id.
func (st *State) CommentByID(id int64) (*model.Comment, bool) {
	c, ok := st.commentsByID[id]
	return c, ok
}

// RequestByID looks up a follow request by id.
func (st *State) RequestByID(id int64) (*model.FollowRequest, bool) {
	r, ok := st.requestsByID[id]
	return r, ok
}

// PendingRequest returns the pending request from one user to another, if
// one exists. The workflow checks this before inserting so a pair never has
// two outstanding requests.
func (st *State) PendingRequest(fromUser, toUser string) (*model.FollowRequest, bool) {
	for _, r := range st.Requests {
		if r.FromUser == fromUser && r.ToUser == toUser && r.Status == model.RequestPending {
			return r, true
		}
	}
	return nil, false
}

// AllocPostID hands out the next post id.
func (st *State) AllocPostID() int64 {
	id := st.NextPostID
	st.NextPostID++
	return id
}

// AllocCommentID hands out the next comment id.
func (st *State) AllocCommentID() int64 {
	id := st.NextCommentID
	st.NextCommentID++
	return id
}

// AllocRequestID hands out the next follow request id.
func (st *State) AllocRequestID() int64 {
	id := st.NextRequestID
	st.NextRequestID++
	return id
}

// AddUser inserts a user keyed by username.
func (st *State) AddUser(u *model.User) {
	st.Users[u.Username] = u
}

// AddPost appends a post and indexes it. Insertion order is feed order.
func (st *State) AddPost(p *model.Post) {
	st.Posts = append(st.Posts, p)
	st.postsByID[p.ID] = p
}

// AddComment appends a comment and indexes it.
func (st *State) AddComment(c *model.Comment) {
	st.Comments = append(st.Comments, c)
	st.commentsByID[c.ID] = c
}

// AddRequest appends a follow request and indexes it.
func (st *State) AddRequest(r *model.FollowRequest) {
	st.Requests = append(st.Requests, r)
	st.requestsByID[r.ID] = r
}

// ReplaceAll swaps in freshly loaded collections and rebuilds the indexes.
// Counters at zero (an older data directory without counters.json) are
// reconstructed as one past the highest id seen.
func (st *State) ReplaceAll(users map[string]*model.User, posts []*model.Post, comments []*model.Comment, requests []*model.FollowRequest, nextPostID, nextCommentID, nextRequestID int64) {
	if users == nil {
		users = make(map[string]*model.User)
	}
	// The users document does not repeat the key inside the record
	for name, u := range users {
		u.Username = name
	}
	st.Users = users
	st.Posts = posts
	st.Comments = comments
	st.Requests = requests

	st.postsByID = make(map[int64]*model.Post, len(posts))
	for _, p := range posts {
		st.postsByID[p.ID] = p
	}
	st.commentsByID = make(map[int64]*model.Comment, len(comments))
	for _, c := range comments {
		st.commentsByID[c.ID] = c
	}
	st.requestsByID = make(map[int64]*model.FollowRequest, len(requests))
	for _, r := range requests {
		st.requestsByID[r.ID] = r
	}

	st.NextPostID = nextPostID
	st.NextCommentID = nextCommentID
	st.NextRequestID = nextRequestID
	if st.NextPostID <= 0 {
		st.NextPostID = maxPostID(posts) + 1
	}
	if st.NextCommentID <= 0 {
		st.NextCommentID = maxCommentID(comments) + 1
	}
	if st.NextRequestID <= 0 {
		st.NextRequestID = maxRequestID(requests) + 1
	}
}

func maxPostID(posts []*model.Post) int64 {
	var max int64
	for _, p := range posts {
		if p.ID > max {
			max = p.ID
		}
	}
	return max
}

func maxCommentID(comments []*model.Comment) int64 {
	var max int64
	for _, c := range comments {
		if c.ID > max {
			max = c.ID
		}
	}
	return max
}

func maxRequestID(requests []*model.FollowRequest) int64 {
	var max int64
	for _, r := range requests {
		if r.ID > max {
			max = r.ID
		}
	}
	return max
}
