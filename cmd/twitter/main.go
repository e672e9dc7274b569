package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/NethermindEth/twitter-requester/pkg/config"
	"github.com/NethermindEth/twitter-requester/pkg/twitter"
	"github.com/NethermindEth/twitter-requester/pkg/utils/errors"
	"github.com/NethermindEth/twitter-requester/pkg/utils/logger"
)

var (
	success = color.New(color.FgGreen).SprintFunc()
	fail    = color.New(color.FgRed).SprintFunc()
	info    = color.New(color.FgCyan).SprintFunc()
	warn    = color.New(color.FgYellow).SprintFunc()
)

type app struct {
	configPath string
	jsonOutput bool
	count      int

	requester *twitter.Requester
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return errors.Wrap(err, errors.TypeConfig, "failed to load config")
	}

	logCfg, err := logger.ParseConfig(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		return errors.Wrap(err, errors.TypeConfig, "failed to configure logger")
	}
	logger.SetDefault(logCfg)

	requester, err := twitter.NewRequester(cfg.RequesterConfig())
	if err != nil {
		return errors.Wrap(err, errors.TypeValidation, "failed to create requester")
	}
	a.requester = requester

	slog.Debug("requester ready", "base_url", cfg.BaseURL, "self_id", cfg.SelfID)
	return nil
}

func (a *app) teardown(cmd *cobra.Command, args []string) {
	if a.requester != nil {
		a.requester.Close()
	}
}

// run shows a spinner around fn unless output is machine-readable.
func (a *app) run(label string, fn func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	ctx := context.Background()

	var s *spinner.Spinner
	if !a.jsonOutput {
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		s.Suffix = " " + label + "..."
		s.Start()
	}
	result, err := fn(ctx)
	if s != nil {
		s.Stop()
	}
	if err != nil {
		if !a.jsonOutput {
			fmt.Printf("%s %s failed\n", fail("❌"), label)
		}
		return nil, errors.Wrap(err, errors.TypeTwitter, strings.ToLower(label))
	}
	return result, nil
}

func (a *app) print(result interface{}) error {
	if a.jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	switch v := result.(type) {
	case []string:
		for _, id := range v {
			fmt.Println(id)
		}
		fmt.Printf("%s %d IDs\n", success("✓"), len(v))
	case *twitter.User:
		if v == nil {
			fmt.Printf("%s User not found\n", warn("⚠️"))
			return nil
		}
		printUser(v)
	case []twitter.Tweet:
		for _, tweet := range v {
			printTweet(tweet)
		}
		fmt.Printf("%s %d tweets\n", success("✓"), len(v))
	case *networkSummary:
		printNetwork(v)
	}
	return nil
}

func printUser(u *twitter.User) {
	fmt.Printf("%s @%s (%s)\n", info("👤"), u.ScreenName, u.Name)
	fmt.Printf("ID: %s\n", color.New(color.FgYellow).Sprint(u.ID))
	if u.Description != "" {
		fmt.Println(u.Description)
	}
	fmt.Printf("Followers: %d  Following: %d  Tweets: %d\n", u.FollowersCount, u.FriendsCount, u.StatusesCount)
}

func printTweet(t twitter.Tweet) {
	author := ""
	if t.User != nil {
		author = "@" + t.User.ScreenName + " "
	}
	fmt.Printf("%s %s%s\n", info("🐦"), author, color.New(color.FgYellow).Sprint(t.ID))
	fmt.Println(strings.TrimSpace(t.Text))
	fmt.Println()
}

func main() {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:               "twitter",
		Short:             "Query and act on a Twitter account",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: a.teardown,
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Optional YAML config file (TWITTER_* environment variables take precedence)")
	rootCmd.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "Print results as JSON")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "followers",
			Short: "List follower IDs of the authenticated account",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.exec("Listing followers", func(ctx context.Context) (interface{}, error) {
					return a.requester.ListFollowers(ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "friends",
			Short: "List IDs the authenticated account follows",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.exec("Listing friends", func(ctx context.Context) (interface{}, error) {
					return a.requester.ListFriends(ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "user ID",
			Short: "Show a user",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.exec("Fetching user", func(ctx context.Context) (interface{}, error) {
					return a.requester.GetUser(ctx, args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "follow ID",
			Short: "Follow a user",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.exec("Following user", func(ctx context.Context) (interface{}, error) {
					return a.requester.FollowUser(ctx, args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "unfollow ID",
			Short: "Unfollow a user",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.exec("Unfollowing user", func(ctx context.Context) (interface{}, error) {
					return a.requester.UnfollowUser(ctx, args[0])
				})
			},
		},
		a.countCommand(&cobra.Command{
			Use:   "tweets ID",
			Short: "Show recent tweets of a user",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.exec("Fetching tweets", func(ctx context.Context) (interface{}, error) {
					return a.requester.GetRecentTweets(ctx, args[0], a.count)
				})
			},
		}),
		a.countCommand(&cobra.Command{
			Use:   "my-tweets",
			Short: "Show recent tweets of the authenticated account (TWITTER_ID)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.exec("Fetching my tweets", func(ctx context.Context) (interface{}, error) {
					return a.requester.GetMyRecentTweets(ctx, a.count)
				})
			},
		}),
		a.countCommand(&cobra.Command{
			Use:   "search QUERY",
			Short: "Search for relevant tweets",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.exec("Searching tweets", func(ctx context.Context) (interface{}, error) {
					return a.requester.GetRelevantTweets(ctx, args[0], a.count)
				})
			},
		}),
		&cobra.Command{
			Use:   "like ID",
			Short: "Like a tweet (fire-and-forget; failures are only logged)",
			Args:  cobra.ExactArgs(1),
			Run: func(cmd *cobra.Command, args []string) {
				a.requester.LikeTweet(context.Background(), args[0])
				if !a.jsonOutput {
					fmt.Printf("%s Like queued for %s\n", success("✓"), args[0])
				}
			},
		},
		&cobra.Command{
			Use:   "network",
			Short: "Compare followers and friends of the authenticated account",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.exec("Loading network", func(ctx context.Context) (interface{}, error) {
					return loadNetwork(ctx, a.requester)
				})
			},
		},
	)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed",
			"error", err,
			"type", errors.TypeOf(err),
		)
		os.Exit(1)
	}
}

func (a *app) exec(label string, fn func(ctx context.Context) (interface{}, error)) error {
	result, err := a.run(label, fn)
	if err != nil {
		return err
	}
	return a.print(result)
}

func (a *app) countCommand(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().IntVar(&a.count, "count", 0, "Maximum number of tweets (0 uses the API default)")
	return cmd
}
