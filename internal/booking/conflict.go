package booking

import (
	"fmt"
	"strings"
	"time"

	resourceDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/resource"
)

const (
	// ConflictTimeLayout is how conflicting slots are quoted in rejection reasons.
	ConflictTimeLayout = "2006-01-02 15:04"

	defaultRejectionReason = "Not specified"
)

type Interval struct {
	Start time.Time
	End   time.Time
}

// OverlapsInclusive is the creation-time gate: s1 <= e2 && e1 >= s2.
// Intervals that only touch count as overlapping.
func (a Interval) OverlapsInclusive(b Interval) bool {
	return !a.Start.After(b.End) && !a.End.Before(b.Start)
}

// OverlapsStrict is the review-time test: s1 < e2 && e1 > s2.
func (a Interval) OverlapsStrict(b Interval) bool {
	return a.Start.Before(b.End) && a.End.After(b.Start)
}

// Approves reports whether a new booking on res skips manual review.
func Approves(res *resourceDatamodel.Resource) bool {
	return res.AutoApprove || !res.RequiresApproval
}

// FormatConflict renders one conflicting booking as "<title> <start>–<end>".
func FormatConflict(title string, slot Interval) string {
	return fmt.Sprintf("%s %s–%s", title,
		slot.Start.UTC().Format(ConflictTimeLayout),
		slot.End.UTC().Format(ConflictTimeLayout))
}

// ComposeRejectionReason joins the reviewer's text with the conflicts found.
func ComposeRejectionReason(text string, conflicts []string) string {
	text = strings.TrimSpace(text)
	if len(conflicts) == 0 {
		if text == "" {
			return defaultRejectionReason
		}
		return text
	}

	explanation := "Conflicts with: " + strings.Join(conflicts, "; ")
	if text == "" {
		return explanation
	}
	return fmt.Sprintf("%s (%s)", text, explanation)
}
