package service

import (
	"context"

	"flatgram/internal/model"
	"flatgram/internal/persist"
	"flatgram/internal/store"
)

// RequestService is the follow-request workflow for private accounts.
// Requests are filed by RelationshipService.Follow when the target is
// private; this service lets the addressee see and accept them. There is no
// decline path and no auto-acceptance: a request stays pending until its
// addressee accepts it. Accepted requests are retained, not deleted.
type RequestService struct {
	store   *store.Store
	gateway persist.Gateway
}

func NewRequestService(s *store.Store, gw persist.Gateway) *RequestService {
	return &RequestService{
		store:   s,
		gateway: gw,
	}
}

// Pending returns the pending requests addressed to the given user, in the
// order they were filed.
func (s *RequestService) Pending(ctx context.Context, toUser string) ([]model.FollowRequest, error) {
	var pending []model.FollowRequest

	err := s.store.View(func(st *store.State) error {
		if _, ok := st.UserByName(toUser); !ok {
			return model.ErrUserNotFound
		}
		for _, r := range st.Requests {
			if r.ToUser == toUser && r.Status == model.RequestPending {
				pending = append(pending, *r)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if pending == nil {
		pending = []model.FollowRequest{}
	}
	return pending, nil
}

// Accept resolves a pending request into a follow edge. Only the addressee
// may accept. The edge is created under the same preconditions as a direct
// follow, so a block in either direction fails the accept and leaves the
// request pending. Accepting an already accepted request is a no-op.
func (s *RequestService) Accept(ctx context.Context, requestID int64, toUser string) error {
	var changed bool

	err := s.store.Update(func(st *store.State) error {
		req, ok := st.RequestByID(requestID)
		if !ok {
			return model.ErrRequestNotFound
		}
		if req.ToUser != toUser {
			return model.ErrNotRequestAddressee
		}
		if req.Status == model.RequestAccepted {
			return nil
		}

		from, ok := st.UserByName(req.FromUser)
		if !ok {
			return model.ErrUserNotFound
		}
		to, ok := st.UserByName(req.ToUser)
		if !ok {
			return model.ErrUserNotFound
		}
		if from.HasBlocked(to.Username) || to.HasBlocked(from.Username) {
			return model.ErrBlockedRelationship
		}

		if !to.FollowedBy(from.Username) {
			addFollowEdge(from, to)
		}
		req.Status = model.RequestAccepted
		changed = true
		return nil
	})
	if err != nil {
		return err
	}

	if changed {
		persistAfterMutation(ctx, s.gateway, s.store, "RequestService")
	}
	return nil
}
