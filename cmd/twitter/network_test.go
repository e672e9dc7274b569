package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubGraph struct {
	followers []string
	friends   []string
	err       error
}

func (s stubGraph) ListFollowers(ctx context.Context) ([]string, error) {
	return s.followers, nil
}

func (s stubGraph) ListFriends(ctx context.Context) ([]string, error) {
	return s.friends, s.err
}

func TestLoadNetwork(t *testing.T) {
	summary, err := loadNetwork(context.Background(), stubGraph{
		followers: []string{"3", "1", "4"},
		friends:   []string{"1", "5", "3", "9"},
	})
	require.NoError(t, err)
	require.Equal(t, &networkSummary{
		Followers:     3,
		Friends:       4,
		Mutuals:       []string{"1", "3"},
		NotFollowBack: []string{"5", "9"},
		FansOnly:      []string{"4"},
	}, summary)
}

func TestLoadNetwork_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	_, err := loadNetwork(context.Background(), stubGraph{err: boom})
	require.ErrorIs(t, err, boom)
	require.EqualError(t, err, "list friends: boom")
}
