package core

import (
	"cmp"
	"slices"
	"time"

	"github.com/go-enry/go-enry/v2"
	"github.com/samber/lo"
)

// TopLanguageCount is how many languages survive into the published list.
const TopLanguageCount = 8

// Weekdays is the fixed display order of the weekday distribution.
var Weekdays = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// PushActivity is one public push event reduced to what the weekday
// distribution needs.
type PushActivity struct {
	CreatedAt time.Time
	Commits   int
}

// FoldLanguageBytes sums per-repository language byte maps into one map and
// returns the grand total alongside it.
func FoldLanguageBytes(perRepo []map[string]int64) (map[string]int64, int64) {
	bytes := lo.Reduce(perRepo, func(acc map[string]int64, langs map[string]int64, _ int) map[string]int64 {
		for name, n := range langs {
			acc[name] += n
		}
		return acc
	}, map[string]int64{})

	return bytes, lo.Sum(lo.Values(bytes))
}

// LanguageShares converts byte counts into percentages of total and keeps the
// limit highest, descending. Percentages are relative to total, so a truncated
// list does not have to sum to 100.
func LanguageShares(bytes map[string]int64, total int64, limit int) []LanguageShare {
	if total <= 0 || len(bytes) == 0 {
		return []LanguageShare{}
	}

	shares := lo.Map(lo.Entries(bytes), func(e lo.Entry[string, int64], _ int) LanguageShare {
		return LanguageShare{
			Name:       e.Key,
			Percentage: float64(e.Value) / float64(total) * 100.0,
			Color:      enry.GetColor(e.Key),
		}
	})

	slices.SortFunc(shares, func(a, b LanguageShare) int {
		if c := cmp.Compare(b.Percentage, a.Percentage); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})

	if limit >= 0 && len(shares) > limit {
		shares = shares[:limit]
	}
	return shares
}

func weekdayIndex(t time.Time, loc *time.Location) int {
	if loc != nil {
		t = t.In(loc)
	}
	return (int(t.Weekday()) + 6) % 7
}

// CountWeekdays buckets push events (by commit count) and individual commit
// dates into Mon..Sun. The two sources are added without deduplication.
func CountWeekdays(pushes []PushActivity, commits []time.Time, loc *time.Location) [7]int {
	var counts [7]int

	for _, p := range pushes {
		counts[weekdayIndex(p.CreatedAt, loc)] += p.Commits
	}
	for _, c := range commits {
		counts[weekdayIndex(c, loc)]++
	}

	return counts
}

// WeekdayDistribution turns bucket counts into percentages of their sum. All
// entries are zero when there were no commits at all.
func WeekdayDistribution(counts [7]int) []WeekdayShare {
	total := lo.Sum(counts[:])

	out := make([]WeekdayShare, len(Weekdays))
	for i, name := range Weekdays {
		out[i] = WeekdayShare{Name: name}
		if total > 0 {
			out[i].Percentage = float64(counts[i]) / float64(total) * 100.0
		}
	}
	return out
}
