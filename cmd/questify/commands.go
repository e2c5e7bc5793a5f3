package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/questify/questify/internal/model"
	"github.com/questify/questify/internal/view"
)

// clipboardWriteAll is swapped out in tests.
var clipboardWriteAll = clipboard.WriteAll

type systemClipboard struct{}

func (systemClipboard) WriteText(text string) error {
	return clipboardWriteAll(text)
}

func newSignupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signup <email>",
		Short: "Create an account and log in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd)
			if err != nil {
				return err
			}
			password, err := readPassword(cmd)
			if err != nil {
				return err
			}
			if _, err := env.client.Signup(cmd.Context(), args[0], password); err != nil {
				return err
			}
			if err := env.remember(model.NormalizeEmail(args[0])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome to Questify, %s!\n", model.NormalizeEmail(args[0]))
			return nil
		},
	}
	cmd.Flags().StringP("password", "p", "", "password (read from stdin when omitted)")
	return cmd
}

func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Log in and remember the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd)
			if err != nil {
				return err
			}
			password, err := readPassword(cmd)
			if err != nil {
				return err
			}
			if _, err := env.client.Login(cmd.Context(), args[0], password); err != nil {
				return err
			}
			if err := env.remember(model.NormalizeEmail(args[0])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s.\n", model.NormalizeEmail(args[0]))
			return nil
		},
	}
	cmd.Flags().StringP("password", "p", "", "password (read from stdin when omitted)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd)
			if err != nil {
				return err
			}
			if err := env.client.Logout(cmd.Context()); err != nil {
				return hint(err)
			}
			if err := env.remember(""); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newItemsCmd() *cobra.Command {
	var itemType, query, category string
	var showContact bool
	cmd := &cobra.Command{
		Use:   "items",
		Short: "List active lost and found items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if itemType != "" && !model.ValidItemType(itemType) {
				return fmt.Errorf("invalid --type %q (want lost or found)", itemType)
			}
			env, err := newEnv(cmd)
			if err != nil {
				return err
			}

			feed := view.NewFeed(env.client, itemType)
			if err := feed.Load(cmd.Context()); err != nil {
				return fmt.Errorf("%s: %w", feed.Err, err)
			}
			items := view.Filter(feed.Items, query, category)

			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "No items found.")
				return nil
			}

			now := time.Now()
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			header := "ID\tTYPE\tTITLE\tCATEGORY\tLOCATION\tUPVOTES\tCOMMENTS\tPOSTED"
			if showContact {
				header += "\tCONTACT"
			}
			fmt.Fprintln(tw, header)
			for _, card := range view.NewCards(env.client, items) {
				it := card.Item
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%s",
					it.ID, it.Type, it.Title, it.Category, it.Location, card.Upvotes, card.Comments, view.Ago(it.CreatedAt, now))
				if showContact {
					contact, err := card.RevealContact()
					if err != nil {
						return hint(err)
					}
					fmt.Fprintf(tw, "\t%s", contact)
				}
				fmt.Fprintln(tw)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&itemType, "type", "t", "", "lost or found (default: both)")
	cmd.Flags().StringVarP(&query, "search", "q", "", "match title, description or location")
	cmd.Flags().StringVar(&category, "category", "all", "category filter")
	cmd.Flags().BoolVar(&showContact, "contact", false, "show contact details (requires login)")
	return cmd
}

func newPostCmd() *cobra.Command {
	var in model.ItemInput
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Post a lost or found item",
		Long:  "Post a lost or found item.\n\nCategories: " + strings.Join(model.Categories, ", "),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd)
			if err != nil {
				return err
			}
			form := view.NewPostForm(env.client)
			form.Input = in
			next, err := form.Submit(cmd.Context())
			if err != nil {
				return hint(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Posted. It is listed at %s%s\n", env.client.BaseURL(), next)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&in.Type, "type", "t", model.ItemTypeLost, "lost or found")
	f.StringVar(&in.Title, "title", "", "item title")
	f.StringVar(&in.Description, "description", "", "what it looks like")
	f.StringVar(&in.Location, "location", "", "where it was lost or found")
	f.StringVar(&in.ContactInfo, "contact", "", "how to reach you")
	f.StringVar(&in.Category, "category", "", "item category")
	f.StringVar(&in.ImageURL, "image-url", "", "optional picture URL")
	return cmd
}

// loadCard fetches an active item as a card with the user's upvote state.
func loadCard(cmd *cobra.Command, env *cliEnv, id string) (*view.Card, error) {
	item, err := env.client.GetItem(cmd.Context(), id)
	if err != nil {
		return nil, err
	}
	if item == nil || item.Status != model.ItemStatusActive {
		return nil, fmt.Errorf("item %s not found", id)
	}
	card := view.NewCard(env.client, *item)
	if err := card.Init(cmd.Context()); err != nil {
		return nil, err
	}
	return card, nil
}

func newUpvoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upvote <item-id>",
		Short: "Toggle your upvote on an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd)
			if err != nil {
				return err
			}
			if !env.client.Authenticated() {
				return hint(model.ErrAuthRequired)
			}
			card, err := loadCard(cmd, env, args[0])
			if err != nil {
				return err
			}
			if err := card.ToggleUpvote(cmd.Context()); err != nil {
				return fmt.Errorf("%s: %w", view.MsgUpvote, hint(err))
			}
			if card.Upvoted {
				fmt.Fprintf(cmd.OutOrStdout(), "Upvoted %q (%d upvotes).\n", card.Item.Title, card.Upvotes)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed upvote from %q (%d upvotes).\n", card.Item.Title, card.Upvotes)
			}
			return nil
		},
	}
}

func newCommentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "comments <item-id>",
		Short: "Show the comments on an item, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd)
			if err != nil {
				return err
			}
			panel := view.NewCommentsPanel(env.client, args[0])
			if err := panel.Open(cmd.Context()); err != nil {
				return fmt.Errorf("%s: %w", panel.Err, err)
			}

			out := cmd.OutOrStdout()
			if panel.Empty() {
				fmt.Fprintln(out, view.MsgCommentsEmpty)
				return nil
			}
			now := time.Now()
			for _, c := range panel.Comments {
				author := c.Author
				if author == "" {
					author = "Anonymous"
				}
				fmt.Fprintf(out, "%s (%s)\n  %s\n", author, view.Ago(c.CreatedAt, now), c.Content)
			}
			return nil
		},
	}
}

func newCommentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "comment <item-id> <text>...",
		Short: "Comment on an item",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd)
			if err != nil {
				return err
			}
			panel := view.NewCommentsPanel(env.client, args[0])
			panel.Draft = strings.Join(args[1:], " ")
			if err := panel.Submit(cmd.Context()); err != nil {
				return hint(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Comment added (%d comments).\n", len(panel.Comments))
			return nil
		},
	}
}

func newShareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "share <item-id>",
		Short: "Copy an item's link to the clipboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd)
			if err != nil {
				return err
			}
			item, err := env.client.GetItem(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if item == nil {
				return fmt.Errorf("item %s not found", args[0])
			}

			card := view.NewCard(env.client, *item)
			link := view.ItemURL(env.client.BaseURL(), card.Item)
			_, err = card.Share(cmd.Context(), env.client.BaseURL(), nil, systemClipboard{})
			switch {
			case errors.Is(err, view.ErrShareFailed):
				fmt.Fprintln(cmd.OutOrStdout(), link)
			case err != nil:
				return err
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "Link copied to clipboard: %s\n", link)
			}
			return nil
		},
	}
}

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show your profile and items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd)
			if err != nil {
				return err
			}
			page, err := view.LoadProfile(cmd.Context(), env.client)
			if err != nil {
				return fmt.Errorf("%s: %w", view.MsgLoadProfile, hint(err))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Email:     %s\n", env.session.Email)
			if page.Profile != nil {
				fmt.Fprintf(out, "Full name: %s\n", page.Profile.FullName)
				fmt.Fprintf(out, "Username:  %s\n", page.Profile.Username)
				if page.Profile.AvatarURL != "" {
					fmt.Fprintf(out, "Avatar:    %s%s\n", env.client.BaseURL(), page.Profile.AvatarURL)
				}
			}

			fmt.Fprintf(out, "\nMy items (%d):\n", len(page.Items))
			now := time.Now()
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, it := range page.Items {
				fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n", it.ID, it.Type, it.Status, it.Title, view.Ago(it.CreatedAt, now))
			}
			return tw.Flush()
		},
	}
	cmd.AddCommand(
		newProfileSetCmd(),
		newProfileAvatarCmd(),
		newProfilePasswordCmd(),
		newProfileDeleteCmd(),
		newProfileResolveCmd(),
	)
	return cmd
}

func newProfileSetCmd() *cobra.Command {
	var in model.ProfileInput
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update your full name and username",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd)
			if err != nil {
				return err
			}
			page := &view.ProfilePage{}
			if err := page.Save(cmd.Context(), env.client, in); err != nil {
				return hint(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Profile updated.")
			return nil
		},
	}
	cmd.Flags().StringVar(&in.FullName, "full-name", "", "full name")
	cmd.Flags().StringVar(&in.Username, "username", "", "username shown on comments")
	return cmd
}

func newProfileAvatarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "avatar <image-file>",
		Short: "Upload a JPEG or PNG profile picture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd)
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			profile, err := env.client.UploadAvatar(cmd.Context(), filepath.Base(args[0]), f)
			if err != nil {
				return hint(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Profile picture updated: %s%s\n", env.client.BaseURL(), profile.AvatarURL)
			return nil
		},
	}
}

func newProfilePasswordCmd() *cobra.Command {
	var current, next string
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change your password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd)
			if err != nil {
				return err
			}
			if err := env.client.ChangePassword(cmd.Context(), current, next); err != nil {
				return hint(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password changed.")
			return nil
		},
	}
	cmd.Flags().StringVar(&current, "current", "", "current password")
	cmd.Flags().StringVar(&next, "new", "", "new password (at least 8 characters)")
	_ = cmd.MarkFlagRequired("current")
	_ = cmd.MarkFlagRequired("new")
	return cmd
}

func newProfileDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <item-id>",
		Short: "Delete one of your items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd)
			if err != nil {
				return err
			}
			page := &view.ProfilePage{}
			if err := page.Delete(cmd.Context(), env.client, args[0]); err != nil {
				return hint(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Item deleted.")
			return nil
		},
	}
}

func newProfileResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <item-id>",
		Short: "Mark one of your items as resolved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd)
			if err != nil {
				return err
			}
			if _, err := env.client.SetItemStatus(cmd.Context(), args[0], model.ItemStatusResolved); err != nil {
				return hint(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Item marked as resolved.")
			return nil
		},
	}
}
