package service

import (
	"sort"
	"time"

	"github.com/yildirimyagiz/menem-sub000/internal/models"
)

// DateBucket is one calendar day's worth of messages, ascending by
// timestamp.
type DateBucket struct {
	Date     time.Time        `json:"date"`
	Label    string           `json:"label"`
	Messages []models.Message `json:"messages"`
}

const bucketLabelLayout = "January 2, 2006"

// Grouper turns a flat message list into date buckets. It carries an
// explicit two-phase Ready state: until Start is called, Group returns
// nil so no caller renders against a half-initialized pipeline.
type Grouper struct {
	loc   *time.Location
	ready bool
}

func NewGrouper(loc *time.Location) *Grouper {
	if loc == nil {
		loc = time.UTC
	}
	return &Grouper{loc: loc}
}

func (g *Grouper) Start()      { g.ready = true }
func (g *Grouper) Ready() bool { return g.ready }

// Group is a pure function of its input: same list in, same buckets
// out. Soft-deleted messages and messages with a zero timestamp are
// excluded; buckets ascend by date and messages ascend within each
// bucket (ties broken by id for determinism).
func (g *Grouper) Group(msgs []models.Message) []DateBucket {
	if !g.ready {
		return nil
	}

	active := make([]models.Message, 0, len(msgs))
	for _, m := range msgs {
		if m.IsDeleted() || m.Timestamp.IsZero() {
			continue
		}
		active = append(active, m)
	}

	sort.SliceStable(active, func(i, j int) bool {
		if active[i].Timestamp.Equal(active[j].Timestamp) {
			return active[i].ID < active[j].ID
		}
		return active[i].Timestamp.Before(active[j].Timestamp)
	})

	buckets := []DateBucket{}
	for _, m := range active {
		day := dayOf(m.Timestamp, g.loc)
		if n := len(buckets); n > 0 && buckets[n-1].Date.Equal(day) {
			buckets[n-1].Messages = append(buckets[n-1].Messages, m)
			continue
		}
		buckets = append(buckets, DateBucket{
			Date:     day,
			Label:    day.Format(bucketLabelLayout),
			Messages: []models.Message{m},
		})
	}
	return buckets
}

func dayOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
