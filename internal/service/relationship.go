package service

import (
	"context"
	"time"

	"flatgram/internal/model"
	"flatgram/internal/persist"
	"flatgram/internal/store"
)

// RelationshipService owns the follow/unfollow/block/unblock semantics and
// keeps the two sides of every follow edge consistent. Both sides of an edge
// are always written inside a single store.Update, so no reader ever
// observes a half-built edge.
type RelationshipService struct {
	store   *store.Store
	gateway persist.Gateway
}

func NewRelationshipService(s *store.Store, gw persist.Gateway) *RelationshipService {
	return &RelationshipService{
		store:   s,
		gateway: gw,
	}
}

// Follow makes actor follow target, or files a follow request when the
// target account is private. The returned outcome tells the caller which of
// the two happened.
func (s *RelationshipService) Follow(ctx context.Context, actor, target string) (model.FollowOutcome, error) {
	var outcome model.FollowOutcome

	err := s.store.Update(func(st *store.State) error {
		if actor == target {
			return model.ErrSelfRelationship
		}
		a, ok := st.UserByName(actor)
		if !ok {
			return model.ErrUserNotFound
		}
		t, ok := st.UserByName(target)
		if !ok {
			return model.ErrUserNotFound
		}
		if a.HasBlocked(target) || t.HasBlocked(actor) {
			return model.ErrBlockedRelationship
		}
		if t.FollowedBy(actor) {
			return model.ErrAlreadyFollowing
		}

		if t.IsPrivate {
			if _, err := filePendingRequest(st, actor, target); err != nil {
				return err
			}
			outcome = model.FollowRequested
			return nil
		}

		addFollowEdge(a, t)
		outcome = model.FollowEstablished
		return nil
	})
	if err != nil {
		return "", err
	}

	persistAfterMutation(ctx, s.gateway, s.store, "RelationshipService")
	return outcome, nil
}

// Unfollow removes the follow edge between actor and target. Both sides go
// in the same update.
func (s *RelationshipService) Unfollow(ctx context.Context, actor, target string) error {
	err := s.store.Update(func(st *store.State) error {
		a, ok := st.UserByName(actor)
		if !ok {
			return model.ErrUserNotFound
		}
		t, ok := st.UserByName(target)
		if !ok {
			return model.ErrUserNotFound
		}
		if !a.Follows(target) {
			return model.ErrNotFollowing
		}
		removeFollowEdge(a, t)
		return nil
	})
	if err != nil {
		return err
	}

	persistAfterMutation(ctx, s.gateway, s.store, "RelationshipService")
	return nil
}

// Block records the block and severs any follow edge in either direction.
// Blocking always wins over following.
func (s *RelationshipService) Block(ctx context.Context, actor, target string) error {
	err := s.store.Update(func(st *store.State) error {
		if actor == target {
			return model.ErrSelfRelationship
		}
		a, ok := st.UserByName(actor)
		if !ok {
			return model.ErrUserNotFound
		}
		t, ok := st.UserByName(target)
		if !ok {
			return model.ErrUserNotFound
		}
		if a.HasBlocked(target) {
			return model.ErrAlreadyBlocked
		}

		if a.Follows(target) {
			removeFollowEdge(a, t)
		}
		if t.Follows(actor) {
			removeFollowEdge(t, a)
		}
		a.BlockedUsers = append(a.BlockedUsers, target)
		return nil
	})
	if err != nil {
		return err
	}

	persistAfterMutation(ctx, s.gateway, s.store, "RelationshipService")
	return nil
}

// Unblock removes target from actor's block list. A follow edge severed by
// the earlier block is not restored.
func (s *RelationshipService) Unblock(ctx context.Context, actor, target string) error {
	err := s.store.Update(func(st *store.State) error {
		a, ok := st.UserByName(actor)
		if !ok {
			return model.ErrUserNotFound
		}
		if !a.HasBlocked(target) {
			return model.ErrNotBlocked
		}
		a.BlockedUsers = removeString(a.BlockedUsers, target)
		return nil
	})
	if err != nil {
		return err
	}

	persistAfterMutation(ctx, s.gateway, s.store, "RelationshipService")
	return nil
}

// addFollowEdge writes both memberships of the edge actor -> target.
func addFollowEdge(actor, target *model.User) {
	actor.Following = append(actor.Following, target.Username)
	target.Followers = append(target.Followers, actor.Username)
}

// removeFollowEdge removes both memberships of the edge actor -> target.
func removeFollowEdge(actor, target *model.User) {
	actor.Following = removeString(actor.Following, target.Username)
	target.Followers = removeString(target.Followers, actor.Username)
}

// filePendingRequest inserts a pending follow request for the pair, refusing
// a duplicate while one is still outstanding.
func filePendingRequest(st *store.State, fromUser, toUser string) (*model.FollowRequest, error) {
	if _, exists := st.PendingRequest(fromUser, toUser); exists {
		return nil, model.ErrRequestAlreadyPending
	}
	req := &model.FollowRequest{
		ID:        st.AllocRequestID(),
		FromUser:  fromUser,
		ToUser:    toUser,
		Status:    model.RequestPending,
		CreatedAt: time.Now(),
	}
	st.AddRequest(req)
	return req, nil
}

func removeString(list []string, s string) []string {
	out := list[:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}

func removeInt64(list []int64, n int64) []int64 {
	out := list[:0]
	for _, v := range list {
		if v != n {
			out = append(out, v)
		}
	}
	return out
}
