package model

import "errors"

// FollowOutcome tells the caller what a follow attempt actually did: either
// the edge now exists, or the target is private and a request was filed.
type FollowOutcome string

const (
	// FollowEstablished means both sides of the edge were written.
	FollowEstablished FollowOutcome = "following"

	// FollowRequested means a pending follow request was created instead.
	FollowRequested FollowOutcome = "requested"
)

var (
	// ErrSelfRelationship rejects any relationship operation a user aims at themselves
	ErrSelfRelationship = errors.New("cannot target yourself")

	// ErrAlreadyFollowing reports an existing edge on a repeated follow
	ErrAlreadyFollowing = errors.New("already following this user")

	// ErrNotFollowing reports a missing edge on unfollow
	ErrNotFollowing = errors.New("not following this user")

	// ErrBlockedRelationship rejects a follow when a block exists in either direction
	ErrBlockedRelationship = errors.New("relationship blocked")

	// ErrAlreadyBlocked reports a repeated block
	ErrAlreadyBlocked = errors.New("user is already blocked")

	// ErrNotBlocked reports an unblock of a user who is not blocked
	ErrNotBlocked = errors.New("user is not blocked")
)
