package twitter

import (
	"context"
	"log/slog"
	"sync"

	"github.com/alitto/pond/v2"
)

const defaultLikeConcurrency = 4

type RequesterConfig struct {
	Credentials Credentials
	// SelfID is the authenticated account's user ID, used by GetMyRecentTweets
	SelfID string

	// Requests defaults to an *API built from API
	Requests RequestLayer
	API      APIConfig

	// LikeConcurrency bounds how many background likes run at once
	LikeConcurrency int
}

type Client interface {
	ListFollowers(ctx context.Context) ([]string, error)
	ListFriends(ctx context.Context) ([]string, error)
	GetUser(ctx context.Context, userID string) (*User, error)
	FollowUser(ctx context.Context, userID string) (*User, error)
	UnfollowUser(ctx context.Context, userID string) (*User, error)
	GetRecentTweets(ctx context.Context, userID string, count int) ([]Tweet, error)
	GetMyRecentTweets(ctx context.Context, count int) ([]Tweet, error)
	GetRelevantTweets(ctx context.Context, query string, count int) ([]Tweet, error)
	LikeTweet(ctx context.Context, tweetID string)
}

// Requester is the Client bound to one set of credentials.
type Requester struct {
	credentials Credentials
	selfID      string
	requests    RequestLayer
	likePool    pond.Pool
	closeOnce   sync.Once
}

var _ Client = (*Requester)(nil)

// NewRequester validates the credentials and fails without returning a
// Requester if any of them is empty.
func NewRequester(config RequesterConfig) (*Requester, error) {
	if err := config.Credentials.Validate(); err != nil {
		return nil, err
	}

	requests := config.Requests
	if requests == nil {
		api, err := NewAPI(config.API)
		if err != nil {
			return nil, err
		}
		requests = api
	}

	concurrency := config.LikeConcurrency
	if concurrency <= 0 {
		concurrency = defaultLikeConcurrency
	}

	return &Requester{
		credentials: config.Credentials,
		selfID:      config.SelfID,
		requests:    requests,
		likePool:    pond.NewPool(concurrency),
	}, nil
}

// ListFollowers returns the IDs of accounts following the authenticated user.
func (r *Requester) ListFollowers(ctx context.Context) ([]string, error) {
	return r.requests.AssociatedUsers(ctx, r.credentials, Followers)
}

// ListFriends returns the IDs of accounts the authenticated user follows.
func (r *Requester) ListFriends(ctx context.Context) ([]string, error) {
	return r.requests.AssociatedUsers(ctx, r.credentials, Friends)
}

// GetUser returns nil without an error when the user does not exist.
func (r *Requester) GetUser(ctx context.Context, userID string) (*User, error) {
	return r.requests.User(ctx, r.credentials, userID)
}

func (r *Requester) FollowUser(ctx context.Context, userID string) (*User, error) {
	return r.requests.Friendship(ctx, r.credentials, userID, FriendshipCreate)
}

func (r *Requester) UnfollowUser(ctx context.Context, userID string) (*User, error) {
	return r.requests.Friendship(ctx, r.credentials, userID, FriendshipDestroy)
}

// GetRecentTweets returns at most count tweets from userID's timeline. A
// non-positive count leaves the page size to the API.
func (r *Requester) GetRecentTweets(ctx context.Context, userID string, count int) ([]Tweet, error) {
	return r.requests.TweetCollection(ctx, r.credentials, userID, count)
}

// GetMyRecentTweets is GetRecentTweets for SelfID, which may be empty.
func (r *Requester) GetMyRecentTweets(ctx context.Context, count int) ([]Tweet, error) {
	return r.requests.TweetCollection(ctx, r.credentials, r.selfID, count)
}

func (r *Requester) GetRelevantTweets(ctx context.Context, query string, count int) ([]Tweet, error) {
	return r.requests.SearchTweets(ctx, r.credentials, query, count)
}

// LikeTweet queues the like and returns immediately. The outcome is never
// reported to the caller; failures are only logged.
func (r *Requester) LikeTweet(ctx context.Context, tweetID string) {
	ctx = context.WithoutCancel(ctx)
	err := r.likePool.Go(func() {
		if err := r.requests.LikeTweet(ctx, r.credentials, tweetID); err != nil {
			slog.Warn("failed to like tweet", "tweet_id", tweetID, "error", err)
		}
	})
	if err != nil {
		slog.Warn("failed to queue like", "tweet_id", tweetID, "error", err)
	}
}

// Close waits for queued likes to finish. Likes submitted afterwards are dropped.
func (r *Requester) Close() {
	r.closeOnce.Do(r.likePool.StopAndWait)
}
