package availability

import (
	"fmt"
	"time"

	"github.com/boddenberg/agenda-bfa-go/internal/domain"
)

// IssueKind classifies a finding of Check.
type IssueKind string

const (
	IssueMalformedTime IssueKind = "malformed_time"
	IssueInverted      IssueKind = "inverted"
	IssueOverlap       IssueKind = "overlap"
)

// Issue is one suspicious slot found by Check.
type Issue struct {
	Kind IssueKind `json:"kind"`
	Day  string    `json:"day"`
	Slot int       `json:"slot"`
	With int       `json:"with,omitempty"` // other slot, for overlaps
}

func (i Issue) String() string {
	switch i.Kind {
	case IssueOverlap:
		return fmt.Sprintf("%s: slot %d overlaps slot %d", i.Day, i.Slot, i.With)
	case IssueInverted:
		return fmt.Sprintf("%s: slot %d ends before it starts", i.Day, i.Slot)
	default:
		return fmt.Sprintf("%s: slot %d has a malformed time", i.Day, i.Slot)
	}
}

// Check is an opt-in strict pass over a schedule. The model stores inverted
// and overlapping slots as given; Check only reports them. Closed days are
// skipped.
func Check(w domain.WeeklySchedule) []Issue {
	var issues []Issue
	for _, d := range w {
		if !d.IsOpen {
			continue
		}
		type span struct{ idx, from, to int }
		spans := make([]span, 0, len(d.TimeSlots))
		for i, s := range d.TimeSlots {
			from, errFrom := minuteOfDay(s.Start)
			to, errTo := minuteOfDay(s.End)
			if errFrom != nil || errTo != nil {
				issues = append(issues, Issue{Kind: IssueMalformedTime, Day: d.Day, Slot: i})
				continue
			}
			if from >= to {
				issues = append(issues, Issue{Kind: IssueInverted, Day: d.Day, Slot: i})
				continue
			}
			spans = append(spans, span{i, from, to})
		}
		for a := 0; a < len(spans); a++ {
			for b := a + 1; b < len(spans); b++ {
				if spans[a].from < spans[b].to && spans[b].from < spans[a].to {
					issues = append(issues, Issue{Kind: IssueOverlap, Day: d.Day, Slot: spans[a].idx, With: spans[b].idx})
				}
			}
		}
	}
	return issues
}

// Warnings renders Check's findings as human-readable strings.
func Warnings(w domain.WeeklySchedule) []string {
	issues := Check(w)
	if len(issues) == 0 {
		return nil
	}
	out := make([]string, len(issues))
	for i, is := range issues {
		out[i] = is.String()
	}
	return out
}

func minuteOfDay(hhmm string) (int, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
