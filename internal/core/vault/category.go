// Package vault defines the workflow categories, item metadata, and the
// store contract for moving document files between category directories.
package vault

import "path/filepath"

// Category identifies one workflow state. Each category maps 1:1 to a
// directory under the vault root; an item belongs to exactly one category
// between transitions.
type Category string

const (
	CategoryNeedsAction     Category = "needs_action"
	CategoryPendingApproval Category = "pending_approval"
	CategoryApproved        Category = "approved"
	CategoryDone            Category = "done"
	CategoryRejected        Category = "rejected"

	// CategorySocialDraft holds drafts produced by the social pipeline
	// before they are sent for approval.
	CategorySocialDraft Category = "social_draft"

	// CategoryPendingSocial is the nested approval queue for
	// socially-sourced drafts.
	CategoryPendingSocial Category = "pending_social"
)

// relDirs maps each category to its directory relative to the vault root.
var relDirs = map[Category]string{
	CategoryNeedsAction:     "Needs_Action",
	CategoryPendingApproval: "Pending_Approval",
	CategoryApproved:        "Approved",
	CategoryDone:            "Done",
	CategoryRejected:        "Rejected",
	CategorySocialDraft:     filepath.Join("social", "Draft"),
	CategoryPendingSocial:   filepath.Join("Pending_Approval", "social"),
}

// labels maps categories to their human-readable display names.
var labels = map[Category]string{
	CategoryNeedsAction:     "Needs Action",
	CategoryPendingApproval: "Pending Approval",
	CategoryApproved:        "Approved",
	CategoryDone:            "Done",
	CategoryRejected:        "Rejected",
	CategorySocialDraft:     "Social Draft",
	CategoryPendingSocial:   "Pending Approval (Social)",
}

// Primary returns the five top-level workflow categories, in display order.
// The social draft and nested social approval queues are excluded; they feed
// into the primary flow but are not counted as workflow states of their own.
func Primary() []Category {
	return []Category{
		CategoryNeedsAction,
		CategoryPendingApproval,
		CategoryApproved,
		CategoryDone,
		CategoryRejected,
	}
}

// All returns every known category, including the social queues.
func All() []Category {
	return []Category{
		CategoryNeedsAction,
		CategoryPendingApproval,
		CategoryApproved,
		CategoryDone,
		CategoryRejected,
		CategorySocialDraft,
		CategoryPendingSocial,
	}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := relDirs[c]
	return ok
}

// Dir returns the category's directory under the given vault root.
func (c Category) Dir(root string) string {
	return filepath.Join(root, relDirs[c])
}

// Label returns the category's display name, or the raw value if unknown.
func (c Category) Label() string {
	if l, ok := labels[c]; ok {
		return l
	}
	return string(c)
}

// Parse resolves a category from its string value. Returns false if the
// value names no known category.
func Parse(s string) (Category, bool) {
	c := Category(s)
	return c, c.Valid()
}
