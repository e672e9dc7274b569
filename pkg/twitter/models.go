package twitter

import (
	"errors"
	"fmt"
	"net/http"
)

// Error definitions
var (
	ErrMissingCredential = errors.New("missing credential")
)

// rateLimitErrorCode is the v1.1 error code for "Rate limit exceeded".
const rateLimitErrorCode = 88

type User struct {
	ID              string `json:"id_str"`
	Name            string `json:"name"`
	ScreenName      string `json:"screen_name"`
	Description     string `json:"description,omitempty"`
	Location        string `json:"location,omitempty"`
	Protected       bool   `json:"protected"`
	Verified        bool   `json:"verified"`
	FollowersCount  int    `json:"followers_count"`
	FriendsCount    int    `json:"friends_count"`
	StatusesCount   int    `json:"statuses_count"`
	CreatedAt       string `json:"created_at,omitempty"`
	ProfileImageURL string `json:"profile_image_url_https,omitempty"`
}

type Tweet struct {
	ID                string `json:"id_str"`
	Text              string `json:"text"`
	CreatedAt         string `json:"created_at,omitempty"`
	Lang              string `json:"lang,omitempty"`
	InReplyToStatusID string `json:"in_reply_to_status_id_str,omitempty"`
	InReplyToUserID   string `json:"in_reply_to_user_id_str,omitempty"`
	RetweetCount      int    `json:"retweet_count"`
	FavoriteCount     int    `json:"favorite_count"`
	Favorited         bool   `json:"favorited"`
	User              *User  `json:"user,omitempty"`
}

type ErrorResponse struct {
	Errors []struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

type IDsResponse struct {
	IDs []string `json:"ids"`
}

type SearchResponse struct {
	Statuses []Tweet `json:"statuses"`
}

// APIError is returned for any non-2xx response the request layer does not
// map to an absent value.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("twitter API error: %s", e.Message)
	}
	return fmt.Sprintf("twitter API error: status code %d", e.StatusCode)
}

// IsRateLimited reports whether the API rejected the call for exceeding a rate limit.
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.Code == rateLimitErrorCode
}

func newAPIError(statusCode int, errResp ErrorResponse) *APIError {
	apiErr := &APIError{StatusCode: statusCode}
	if len(errResp.Errors) > 0 {
		apiErr.Code = errResp.Errors[0].Code
		apiErr.Message = errResp.Errors[0].Message
	}
	return apiErr
}
