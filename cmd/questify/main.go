// Command questify runs the Questify server and talks to one from the
// command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "questify",
		Short: "Lost and found board for your community",
		Long: `Questify lets people post lost and found items, upvote and comment on them,
and reach the person who posted them.

Run "questify serve" to start the web site and JSON API. The other commands
talk to a running server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("server", envOr("QUESTIFY_SERVER", "http://localhost:8080"), "server address for client commands")
	root.PersistentFlags().String("session", "", "session file (default: user config dir)")

	root.AddCommand(
		newServeCmd(),
		newSignupCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newItemsCmd(),
		newPostCmd(),
		newUpvoteCmd(),
		newCommentsCmd(),
		newCommentCmd(),
		newProfileCmd(),
		newShareCmd(),
	)
	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
