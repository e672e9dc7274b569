package twitter

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	method string
	creds  Credentials
	arg    string
	kind   Association
	action FriendshipAction
	count  int
}

// fakeRequests records every call and answers with canned values.
type fakeRequests struct {
	mu    sync.Mutex
	calls []recordedCall

	ids     []string
	user    *User
	tweets  []Tweet
	err     error
	likeErr error
	likes   chan string
}

func (f *fakeRequests) record(call recordedCall) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeRequests) lastCall(t *testing.T) recordedCall {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.calls)
	return f.calls[len(f.calls)-1]
}

func (f *fakeRequests) AssociatedUsers(ctx context.Context, creds Credentials, kind Association) ([]string, error) {
	f.record(recordedCall{method: "AssociatedUsers", creds: creds, kind: kind})
	return f.ids, f.err
}

func (f *fakeRequests) User(ctx context.Context, creds Credentials, userID string) (*User, error) {
	f.record(recordedCall{method: "User", creds: creds, arg: userID})
	return f.user, f.err
}

func (f *fakeRequests) Friendship(ctx context.Context, creds Credentials, userID string, action FriendshipAction) (*User, error) {
	f.record(recordedCall{method: "Friendship", creds: creds, arg: userID, action: action})
	return f.user, f.err
}

func (f *fakeRequests) TweetCollection(ctx context.Context, creds Credentials, userID string, count int) ([]Tweet, error) {
	f.record(recordedCall{method: "TweetCollection", creds: creds, arg: userID, count: count})
	return f.tweets, f.err
}

func (f *fakeRequests) SearchTweets(ctx context.Context, creds Credentials, query string, count int) ([]Tweet, error) {
	f.record(recordedCall{method: "SearchTweets", creds: creds, arg: query, count: count})
	return f.tweets, f.err
}

func (f *fakeRequests) LikeTweet(ctx context.Context, creds Credentials, tweetID string) error {
	f.record(recordedCall{method: "LikeTweet", creds: creds, arg: tweetID})
	if f.likes != nil {
		f.likes <- tweetID
	}
	return f.likeErr
}

func newTestRequester(t *testing.T, fake *fakeRequests, selfID string) *Requester {
	t.Helper()
	requester, err := NewRequester(RequesterConfig{
		Credentials: validCredentials(),
		SelfID:      selfID,
		Requests:    fake,
	})
	require.NoError(t, err)
	t.Cleanup(requester.Close)
	return requester
}

func TestRequester_AssociatedUsers(t *testing.T) {
	fake := &fakeRequests{ids: []string{"3", "1", "2"}}
	requester := newTestRequester(t, fake, "")

	followers, err := requester.ListFollowers(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"3", "1", "2"}, followers)
	require.Equal(t, Followers, fake.lastCall(t).kind)

	_, err = requester.ListFriends(context.Background())
	require.NoError(t, err)
	require.Equal(t, Friends, fake.lastCall(t).kind)
	require.Equal(t, validCredentials(), fake.lastCall(t).creds)
}

func TestRequester_GetUser(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		fake := &fakeRequests{user: &User{ID: "42", ScreenName: "gopher"}}
		requester := newTestRequester(t, fake, "")

		user, err := requester.GetUser(context.Background(), "42")
		require.NoError(t, err)
		require.Equal(t, "gopher", user.ScreenName)
		require.Equal(t, "42", fake.lastCall(t).arg)
	})

	t.Run("not found", func(t *testing.T) {
		requester := newTestRequester(t, &fakeRequests{}, "")

		user, err := requester.GetUser(context.Background(), "nonexistent-id")
		require.NoError(t, err)
		require.Nil(t, user)
	})
}

func TestRequester_Friendship(t *testing.T) {
	fake := &fakeRequests{user: &User{ID: "7"}}
	requester := newTestRequester(t, fake, "")

	user, err := requester.FollowUser(context.Background(), "7")
	require.NoError(t, err)
	require.Equal(t, "7", user.ID)
	require.Equal(t, FriendshipCreate, fake.lastCall(t).action)

	_, err = requester.UnfollowUser(context.Background(), "7")
	require.NoError(t, err)
	require.Equal(t, FriendshipDestroy, fake.lastCall(t).action)

	fake.user = nil
	user, err = requester.UnfollowUser(context.Background(), "missing")
	require.NoError(t, err)
	require.Nil(t, user)
}

func TestRequester_Tweets(t *testing.T) {
	fake := &fakeRequests{tweets: []Tweet{{ID: "2"}, {ID: "1"}}}
	requester := newTestRequester(t, fake, "self-1")

	tweets, err := requester.GetRecentTweets(context.Background(), "99", 5)
	require.NoError(t, err)
	require.Equal(t, []Tweet{{ID: "2"}, {ID: "1"}}, tweets)
	call := fake.lastCall(t)
	require.Equal(t, "99", call.arg)
	require.Equal(t, 5, call.count)

	_, err = requester.GetMyRecentTweets(context.Background(), 0)
	require.NoError(t, err)
	call = fake.lastCall(t)
	require.Equal(t, "self-1", call.arg)
	require.Equal(t, 0, call.count)

	_, err = requester.GetRelevantTweets(context.Background(), "golang", 3)
	require.NoError(t, err)
	call = fake.lastCall(t)
	require.Equal(t, "SearchTweets", call.method)
	require.Equal(t, "golang", call.arg)
	require.Equal(t, 3, call.count)
}

func TestRequester_GetMyRecentTweets_EmptySelfID(t *testing.T) {
	fake := &fakeRequests{}
	requester := newTestRequester(t, fake, "")

	_, err := requester.GetMyRecentTweets(context.Background(), 10)
	require.NoError(t, err)
	call := fake.lastCall(t)
	require.Equal(t, "TweetCollection", call.method)
	require.Equal(t, "", call.arg)
}

func TestRequester_PropagatesErrors(t *testing.T) {
	apiErr := &APIError{StatusCode: 401, Code: 32, Message: "Could not authenticate you."}
	requester := newTestRequester(t, &fakeRequests{err: apiErr}, "")

	_, err := requester.ListFollowers(context.Background())
	require.Same(t, apiErr, err)

	_, err = requester.GetRelevantTweets(context.Background(), "q", 0)
	require.Same(t, apiErr, err)
}

func TestRequester_LikeTweetNeverFails(t *testing.T) {
	fake := &fakeRequests{
		likeErr: errors.New("boom"),
		likes:   make(chan string, 1),
	}
	requester := newTestRequester(t, fake, "")

	ctx, cancel := context.WithCancel(context.Background())
	requester.LikeTweet(ctx, "123")
	cancel()

	require.Equal(t, "123", <-fake.likes)
	requester.Close()
	require.Equal(t, "LikeTweet", fake.lastCall(t).method)
}

func TestRequester_LikeTweetAfterClose(t *testing.T) {
	fake := &fakeRequests{}
	requester := newTestRequester(t, fake, "")
	requester.Close()

	require.NotPanics(t, func() {
		requester.LikeTweet(context.Background(), "123")
	})
}

func TestRequester_InstancesKeepOwnCredentials(t *testing.T) {
	fake := &fakeRequests{}

	first, err := NewRequester(RequesterConfig{Credentials: validCredentials(), Requests: fake})
	require.NoError(t, err)
	defer first.Close()

	other := Credentials{APIKey: "k2", APISecret: "s2", AccessToken: "t2", AccessTokenSecret: "ts2"}
	second, err := NewRequester(RequesterConfig{Credentials: other, Requests: fake})
	require.NoError(t, err)
	defer second.Close()

	_, err = first.ListFriends(context.Background())
	require.NoError(t, err)
	require.Equal(t, validCredentials(), fake.lastCall(t).creds)

	_, err = second.ListFriends(context.Background())
	require.NoError(t, err)
	require.Equal(t, other, fake.lastCall(t).creds)
}
