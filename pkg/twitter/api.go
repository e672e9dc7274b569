package twitter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/NethermindEth/twitter-requester/pkg/utils/metrics"
)

var (
	twitterAPIBaseURL = "https://api.twitter.com/1.1"
)

// Association selects which side of the follow graph AssociatedUsers lists.
type Association string

const (
	Followers Association = "followers"
	Friends   Association = "friends"
)

// FriendshipAction is the verb sent to the friendships endpoint.
type FriendshipAction string

const (
	FriendshipCreate  FriendshipAction = "create"
	FriendshipDestroy FriendshipAction = "destroy"
)

// RequestLayer performs the network round trips for a Requester. Credentials
// travel with every call; implementations hold no per-account state.
type RequestLayer interface {
	AssociatedUsers(ctx context.Context, creds Credentials, kind Association) ([]string, error)
	User(ctx context.Context, creds Credentials, userID string) (*User, error)
	Friendship(ctx context.Context, creds Credentials, userID string, action FriendshipAction) (*User, error)
	TweetCollection(ctx context.Context, creds Credentials, userID string, count int) ([]Tweet, error)
	SearchTweets(ctx context.Context, creds Credentials, query string, count int) ([]Tweet, error)
	LikeTweet(ctx context.Context, creds Credentials, tweetID string) error
}

type APIConfig struct {
	// BaseURL defaults to the public v1.1 endpoint
	BaseURL string
	// HTTPClient supplies the transport signed requests go through
	HTTPClient *http.Client
	Timeout    time.Duration
	// RequestsPerSecond spaces outgoing calls; zero disables pacing
	RequestsPerSecond float64
	// SignerCacheSize bounds how many credential sets keep a signed client
	SignerCacheSize int
	Metrics         *metrics.Recorder
}

// API is the HTTP implementation of RequestLayer.
type API struct {
	baseURL     string
	signer      *signer
	rateLimiter *rate.Limiter
	metrics     *metrics.Recorder
}

var _ RequestLayer = (*API)(nil)

func NewAPI(config APIConfig) (*API, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = twitterAPIBaseURL
	}

	signer, err := newSigner(config.HTTPClient, config.Timeout, config.SignerCacheSize)
	if err != nil {
		return nil, err
	}

	var limiter *rate.Limiter
	if config.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1)
	}

	return &API{
		baseURL:     baseURL,
		signer:      signer,
		rateLimiter: limiter,
		metrics:     config.Metrics,
	}, nil
}

func (a *API) AssociatedUsers(ctx context.Context, creds Credentials, kind Association) ([]string, error) {
	var result IDsResponse
	endpoint := string(kind) + "/ids"
	query := url.Values{"stringify_ids": {"true"}}
	if _, err := a.call(ctx, creds, http.MethodGet, endpoint, query, false, &result); err != nil {
		return nil, err
	}
	return result.IDs, nil
}

func (a *API) User(ctx context.Context, creds Credentials, userID string) (*User, error) {
	var user User
	found, err := a.call(ctx, creds, http.MethodGet, "users/show", url.Values{"user_id": {userID}}, true, &user)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (a *API) Friendship(ctx context.Context, creds Credentials, userID string, action FriendshipAction) (*User, error) {
	var user User
	endpoint := "friendships/" + string(action)
	found, err := a.call(ctx, creds, http.MethodPost, endpoint, url.Values{"user_id": {userID}}, true, &user)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (a *API) TweetCollection(ctx context.Context, creds Credentials, userID string, count int) ([]Tweet, error) {
	query := url.Values{"user_id": {userID}}
	setCount(query, count)

	var tweets []Tweet
	if _, err := a.call(ctx, creds, http.MethodGet, "statuses/user_timeline", query, false, &tweets); err != nil {
		return nil, err
	}
	return truncate(tweets, count), nil
}

func (a *API) SearchTweets(ctx context.Context, creds Credentials, query string, count int) ([]Tweet, error) {
	params := url.Values{"q": {query}}
	setCount(params, count)

	var result SearchResponse
	if _, err := a.call(ctx, creds, http.MethodGet, "search/tweets", params, false, &result); err != nil {
		return nil, err
	}
	return truncate(result.Statuses, count), nil
}

func (a *API) LikeTweet(ctx context.Context, creds Credentials, tweetID string) error {
	_, err := a.call(ctx, creds, http.MethodPost, "favorites/create", url.Values{"id": {tweetID}}, false, nil)
	return err
}

// call signs and sends one request, decoding a 2xx body into out. When
// absentOnNotFound is set a 404 reports found=false instead of an error.
func (a *API) call(ctx context.Context, creds Credentials, method, endpoint string, query url.Values, absentOnNotFound bool, out interface{}) (found bool, err error) {
	start := time.Now()
	outcome := metrics.OutcomeError
	defer func() {
		a.metrics.ObserveRequest(endpoint, outcome, time.Since(start))
		slog.Debug("twitter API call", "endpoint", endpoint, "outcome", outcome, "duration", time.Since(start))
	}()

	reqURL := fmt.Sprintf("%s/%s.json", a.baseURL, endpoint)
	req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	req.URL.RawQuery = query.Encode()

	resp, err := a.doRequest(ctx, creds, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return false, ctxErr(ctx, err)
		}
		return false, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound && absentOnNotFound {
		outcome = metrics.OutcomeNotFound
		return false, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp ErrorResponse
		// Error bodies are best effort; an undecodable one still reports the status.
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		return false, newAPIError(resp.StatusCode, errResp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return false, fmt.Errorf("decode response: %w", err)
		}
	}

	outcome = metrics.OutcomeSuccess
	return true, nil
}

func (a *API) doRequest(ctx context.Context, creds Credentials, req *http.Request) (*http.Response, error) {
	if a.rateLimiter != nil {
		if err := a.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	return a.signer.client(creds).Do(req)
}

// ctxErr prefers the bare context error over the *url.Error wrapping it.
func ctxErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return context.DeadlineExceeded
	}
	return context.Canceled
}

func setCount(query url.Values, count int) {
	if count > 0 {
		query.Set("count", strconv.Itoa(count))
	}
}

func truncate(tweets []Tweet, count int) []Tweet {
	if count > 0 && len(tweets) > count {
		return tweets[:count]
	}
	return tweets
}
