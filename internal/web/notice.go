package web

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/questify/questify/internal/view"
)

type notice struct {
	message string
	isError bool
}

// notices maps the codes passed in ?notice= to the message shown.
var notices = map[string]notice{
	"auth-upvote":       {"Please log in to upvote items.", true},
	"auth-contact":      {"Please log in to contact item owners.", true},
	"auth-comments":     {"Please log in to view and add comments.", true},
	"upvote-failed":     {"Could not update your upvote. Please try again.", true},
	"comment-failed":    {"Could not add your comment. Please try again.", true},
	"comment-empty":     {"Please write something before posting.", true},
	"not-found":         {"That item is no longer available.", true},
	"delete-failed":     {"Could not delete the item.", true},
	"resolve-failed":    {"Could not update the item.", true},
	"avatar-failed":     {"Could not use that picture. Upload a JPEG or PNG image.", true},
	"password-wrong":    {"Current password is incorrect.", true},
	"password-weak":     {"New password must be at least 8 characters.", true},
	"password-mismatch": {"New passwords do not match.", true},
	"password-failed":   {"Could not change your password.", true},
	"profile-failed":    {"Could not save your profile.", true},
	"posted":            {"Your item has been posted.", false},
	"upvoted":           {"Thanks for your upvote.", false},
	"unvoted":           {"Upvote removed.", false},
	"commented":         {"Comment added.", false},
	"profile-saved":     {"Profile updated.", false},
	"avatar-saved":      {"Profile picture updated.", false},
	"password-changed":  {"Password changed.", false},
	"item-deleted":      {"Item deleted.", false},
	"item-resolved":     {"Item marked as resolved.", false},
	"signed-up":         {"Welcome to Questify!", false},
	"logged-out":        {"You have been logged out.", false},
}

// localPath returns p when it is a path on this site, otherwise fallback.
func localPath(p, fallback string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return fallback
	}
	return p
}

// redirectNotice redirects to target with the notice code added to its
// query string.
func redirectNotice(w http.ResponseWriter, r *http.Request, target, code string) {
	u, err := url.Parse(target)
	if err != nil {
		u = &url.URL{Path: "/"}
	}
	q := u.Query()
	q.Set("notice", code)
	u.RawQuery = q.Encode()
	http.Redirect(w, r, u.String(), http.StatusSeeOther)
}

// listingReturn is where a card action sends the user back to.
func listingReturn(r *http.Request, itemType string) string {
	return localPath(r.FormValue("return"), view.ListingPath(itemType))
}
