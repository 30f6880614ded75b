// ABOUTME: Non-interactive read commands: list posts, show one post, and watch for new posts.
// ABOUTME: Reads are anonymous; watch polls the list on the configured home interval.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/2389-research/flasker/internal/models"
	"github.com/2389-research/flasker/internal/poller"
)

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "List posts",
	Long:  "Print the post list, newest last.",
	RunE:  runPosts,
}

var postCmd = &cobra.Command{
	Use:   "post <id>",
	Short: "Show a post with its comments",
	Args:  cobra.ExactArgs(1),
	RunE:  runPost,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print new posts as they appear",
	Long:  "Poll the post list and print each post the first time it is seen. Stops on Ctrl+C.",
	RunE:  runWatch,
}

// Flags
var (
	postsLimit    int
	watchInterval time.Duration
)

func init() {
	rootCmd.AddCommand(postsCmd)
	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(watchCmd)

	postsCmd.Flags().IntVar(&postsLimit, "limit", 0, "Only show the newest N posts")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "Poll interval (default: poll.home_interval from config)")
}

func runPosts(cmd *cobra.Command, args []string) error {
	posts, err := globalClient.ListPosts(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list posts: %w", err)
	}
	if postsLimit > 0 && len(posts) > postsLimit {
		posts = posts[len(posts)-postsLimit:]
	}

	if len(posts) == 0 {
		fmt.Println("No posts found.")
		return nil
	}
	for _, p := range posts {
		printPostLine(p)
	}
	return nil
}

func runPost(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid post id %q", args[0])
	}

	post, err := globalClient.GetPost(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to fetch post %d: %w", id, err)
	}
	comments, err := globalClient.ListPostComments(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to fetch comments: %w", err)
	}

	fmt.Printf("%s\n", post.Title)
	fmt.Printf("by user %d", post.UserID)
	if post.Timestamp != "" {
		fmt.Printf(" [%s]", post.Timestamp)
	}
	fmt.Printf("\n\n%s\n", post.Content)

	if len(comments) > 0 {
		fmt.Printf("\nComments (%d)\n", len(comments))
	}
	for _, c := range comments {
		author := c.UserName
		if author == "" {
			author = fmt.Sprintf("user %d", c.UserID)
		}
		fmt.Printf("  %s: %s\n", author, c.Content)
	}
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	interval := watchInterval
	if interval <= 0 {
		d, err := globalConfig.HomeInterval()
		if err != nil {
			return err
		}
		interval = d
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var mu sync.Mutex
	seen := make(map[int]bool)
	handle := poller.Start(func(pollCtx context.Context) {
		posts, err := globalClient.ListPosts(pollCtx)
		if err != nil {
			globalLog.Errorf("Error fetching posts: %v", err)
			fmt.Fprintf(os.Stderr, "fetch failed: %v\n", err)
			return
		}
		mu.Lock()
		defer mu.Unlock()
		for _, p := range posts {
			if !seen[p.ID] {
				seen[p.ID] = true
				printPostLine(p)
			}
		}
	}, interval)

	fmt.Fprintf(os.Stderr, "Watching for posts every %s (Ctrl+C to stop)\n", interval)
	<-ctx.Done()
	handle.Stop()
	return nil
}

func printPostLine(p models.Post) {
	fmt.Printf("%4d  %s", p.ID, p.Title)
	if p.Timestamp != "" {
		fmt.Printf("  [%s]", p.Timestamp)
	}
	fmt.Printf("  (user %d)\n", p.UserID)
}
