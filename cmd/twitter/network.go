package main

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/NethermindEth/twitter-requester/pkg/twitter"
)

type networkSummary struct {
	Followers     int      `json:"followers"`
	Friends       int      `json:"friends"`
	Mutuals       []string `json:"mutuals"`
	NotFollowBack []string `json:"not_following_back"`
	FansOnly      []string `json:"fans_only"`
}

type followGraph interface {
	ListFollowers(ctx context.Context) ([]string, error)
	ListFriends(ctx context.Context) ([]string, error)
}

func loadNetwork(ctx context.Context, client followGraph) (*networkSummary, error) {
	var followers, friends []string

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ids, err := client.ListFollowers(ctx)
		if err != nil {
			return fmt.Errorf("list followers: %w", err)
		}
		followers = ids
		return nil
	})
	g.Go(func() error {
		ids, err := client.ListFriends(ctx)
		if err != nil {
			return fmt.Errorf("list friends: %w", err)
		}
		friends = ids
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return summarizeNetwork(followers, friends), nil
}

func summarizeNetwork(followers, friends []string) *networkSummary {
	followerSet := make(map[string]struct{}, len(followers))
	for _, id := range followers {
		followerSet[id] = struct{}{}
	}
	friendSet := make(map[string]struct{}, len(friends))
	for _, id := range friends {
		friendSet[id] = struct{}{}
	}

	summary := &networkSummary{
		Followers:     len(followers),
		Friends:       len(friends),
		Mutuals:       []string{},
		NotFollowBack: []string{},
		FansOnly:      []string{},
	}
	for _, id := range friends {
		if _, ok := followerSet[id]; ok {
			summary.Mutuals = append(summary.Mutuals, id)
		} else {
			summary.NotFollowBack = append(summary.NotFollowBack, id)
		}
	}
	for _, id := range followers {
		if _, ok := friendSet[id]; !ok {
			summary.FansOnly = append(summary.FansOnly, id)
		}
	}

	sort.Strings(summary.Mutuals)
	sort.Strings(summary.NotFollowBack)
	sort.Strings(summary.FansOnly)
	return summary
}

func printNetwork(s *networkSummary) {
	fmt.Printf("%s Followers: %d  Friends: %d\n", info("📊"), s.Followers, s.Friends)
	fmt.Printf("%s Mutuals: %d\n", success("✓"), len(s.Mutuals))
	fmt.Printf("%s Not following back: %d\n", warn("⚠️"), len(s.NotFollowBack))
	for _, id := range s.NotFollowBack {
		fmt.Printf("  %s\n", id)
	}
	fmt.Printf("%s Followers you don't follow: %d\n", info("👥"), len(s.FansOnly))
}

var _ followGraph = (*twitter.Requester)(nil)
