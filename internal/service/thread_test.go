package service

import (
	"reflect"
	"testing"
	"time"

	"github.com/yildirimyagiz/menem-sub000/internal/models"
)

func msgAt(id string, ts time.Time) models.Message {
	return models.Message{ID: id, ChannelID: "ch1", SenderID: "u1", ReceiverID: "u2", Content: "m-" + id, Timestamp: ts}
}

func startedGrouper() *Grouper {
	g := NewGrouper(time.UTC)
	g.Start()
	return g
}

func TestGroupEmptyInput(t *testing.T) {
	g := startedGrouper()
	buckets := g.Group(nil)
	if buckets == nil {
		t.Fatal("expected empty non-nil result")
	}
	if len(buckets) != 0 {
		t.Fatalf("expected 0 buckets, got %d", len(buckets))
	}
}

func TestGroupNotReady(t *testing.T) {
	g := NewGrouper(time.UTC)
	if got := g.Group([]models.Message{msgAt("a", time.Now())}); got != nil {
		t.Fatal("grouper must not process data before Start")
	}
	if g.Ready() {
		t.Fatal("grouper should report not ready")
	}
}

func TestGroupSameDayOrdering(t *testing.T) {
	g := startedGrouper()
	t1 := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	t2 := t1.Add(2 * time.Hour)

	// Arrival order is reversed; grouping must restore time order.
	buckets := g.Group([]models.Message{msgAt("b", t2), msgAt("a", t1)})
	if len(buckets) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(buckets))
	}
	b := buckets[0]
	if b.Label != "March 14, 2026" {
		t.Errorf("label = %q", b.Label)
	}
	if len(b.Messages) != 2 || b.Messages[0].ID != "a" || b.Messages[1].ID != "b" {
		t.Fatalf("wrong order: %v", []string{b.Messages[0].ID, b.Messages[1].ID})
	}
}

func TestGroupMultipleDaysAscending(t *testing.T) {
	g := startedGrouper()
	d1 := time.Date(2026, 3, 13, 23, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 3, 14, 1, 0, 0, 0, time.UTC)
	d3 := time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC)

	buckets := g.Group([]models.Message{msgAt("c", d3), msgAt("a", d1), msgAt("b", d2)})
	if len(buckets) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(buckets))
	}
	for i := 1; i < len(buckets); i++ {
		if !buckets[i-1].Date.Before(buckets[i].Date) {
			t.Errorf("bucket %d not after bucket %d", i, i-1)
		}
	}
}

func TestGroupAdjacentPairsOrdered(t *testing.T) {
	g := startedGrouper()
	base := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	msgs := []models.Message{
		msgAt("e", base.Add(50*time.Hour)),
		msgAt("a", base.Add(1*time.Hour)),
		msgAt("d", base.Add(30*time.Hour)),
		msgAt("b", base.Add(2*time.Hour)),
		msgAt("c", base.Add(3*time.Hour)),
	}
	for _, b := range g.Group(msgs) {
		for i := 1; i < len(b.Messages); i++ {
			m1, m2 := b.Messages[i-1], b.Messages[i]
			if m1.Timestamp.After(m2.Timestamp) {
				t.Errorf("bucket %s: %s after %s", b.Label, m1.ID, m2.ID)
			}
		}
	}
}

func TestGroupIdempotent(t *testing.T) {
	g := startedGrouper()
	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	msgs := []models.Message{
		msgAt("b", base.Add(time.Minute)),
		msgAt("a", base),
		msgAt("c", base.Add(26*time.Hour)),
	}
	first := g.Group(msgs)
	second := g.Group(msgs)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("grouping the same input twice must yield identical buckets")
	}
}

func TestGroupDeterministicOnEqualTimestamps(t *testing.T) {
	g := startedGrouper()
	ts := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	a := g.Group([]models.Message{msgAt("b", ts), msgAt("a", ts)})
	b := g.Group([]models.Message{msgAt("a", ts), msgAt("b", ts)})
	if !reflect.DeepEqual(a, b) {
		t.Fatal("equal-timestamp messages must group deterministically regardless of input order")
	}
}

func TestGroupExcludesDeletedAndZeroTimestamps(t *testing.T) {
	g := startedGrouper()
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	deleted := msgAt("gone", now)
	deleted.DeletedAt = &now

	buckets := g.Group([]models.Message{
		msgAt("keep", now),
		deleted,
		msgAt("unparseable", time.Time{}),
	})
	if len(buckets) != 1 || len(buckets[0].Messages) != 1 {
		t.Fatalf("expected single kept message, got %+v", buckets)
	}
	if buckets[0].Messages[0].ID != "keep" {
		t.Errorf("kept = %s", buckets[0].Messages[0].ID)
	}
}

func TestGroupRespectsLocation(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	g := NewGrouper(loc)
	g.Start()

	// 23:00 UTC on the 13th is already the 14th at UTC+10.
	buckets := g.Group([]models.Message{msgAt("a", time.Date(2026, 3, 13, 23, 0, 0, 0, time.UTC))})
	if len(buckets) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(buckets))
	}
	if buckets[0].Label != "March 14, 2026" {
		t.Errorf("label = %q, want March 14, 2026", buckets[0].Label)
	}
}
