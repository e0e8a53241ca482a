package model

import (
	"errors"
	"time"
)

// Follow request states. A request starts pending and is only ever moved to
// accepted; the record itself is retained either way.
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
)

// FollowRequest gates follow actions on private accounts. At most one
// pending request may exist per (FromUser, ToUser) pair.
// JSON tags match the on-disk follow_requests document.
type FollowRequest struct {
	ID        int64     `json:"id"`
	FromUser  string    `json:"from_user"`
	ToUser    string    `json:"to_user"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

var (
	// ErrRequestAlreadyPending reports a duplicate pending request for a pair
	ErrRequestAlreadyPending = errors.New("follow request already pending")

	// ErrRequestNotFound is returned when a referenced request id does not exist
	ErrRequestNotFound = errors.New("follow request not found")

	// ErrNotRequestAddressee rejects acceptance by anyone but the request's target
	ErrNotRequestAddressee = errors.New("request is addressed to another user")
)
