package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/narenratnam1/DaanarRX-sub001/internal/model"
)

func unit(daanaID string, qty int) model.Unit {
	return model.Unit{DaanaID: daanaID, MedGeneric: "amoxicillin", QtyTotal: qty, Status: model.StatusInStock}
}

func TestSnapshotReplaceAndGet(t *testing.T) {
	s := NewUnitSnapshot()
	s.Replace([]model.Unit{unit("UNIT-1", 10), unit("UNIT-2", 5)})

	if s.Len() != 2 {
		t.Fatalf("want 2, got %d", s.Len())
	}
	got, ok := s.Get("UNIT-1")
	if !ok || got.QtyTotal != 10 {
		t.Fatalf("got %+v, %v", got, ok)
	}
	if _, ok := s.Get("UNIT-404"); ok {
		t.Fatal("want miss")
	}

	// A second Replace drops units absent from the new load
	s.Replace([]model.Unit{unit("UNIT-2", 5)})
	if _, ok := s.Get("UNIT-1"); ok {
		t.Fatal("replaced-away unit still present")
	}
}

func TestSnapshotGetReturnsCopy(t *testing.T) {
	s := NewUnitSnapshot()
	s.Replace([]model.Unit{unit("UNIT-1", 10)})

	got, _ := s.Get("UNIT-1")
	got.QtyTotal = 0

	again, _ := s.Get("UNIT-1")
	if again.QtyTotal != 10 {
		t.Fatal("callers must not be able to mutate the snapshot through Get")
	}
}

func TestSnapshotUpsertAndRemove(t *testing.T) {
	s := NewUnitSnapshot()

	s.Upsert(unit("UNIT-1", 10))
	if got, ok := s.Get("UNIT-1"); !ok || got.QtyTotal != 10 {
		t.Fatalf("got %+v, %v", got, ok)
	}

	s.Upsert(unit("UNIT-1", 6))
	if got, _ := s.Get("UNIT-1"); got.QtyTotal != 6 {
		t.Fatalf("upsert should replace, got qty %d", got.QtyTotal)
	}

	s.Remove("UNIT-1")
	if _, ok := s.Get("UNIT-1"); ok {
		t.Fatal("removed unit still present")
	}
	s.Remove("UNIT-1") // removing a missing unit is fine
}

func TestSnapshotFilter(t *testing.T) {
	s := NewUnitSnapshot()
	s.Replace([]model.Unit{unit("UNIT-1", 10), unit("UNIT-2", 0), unit("UNIT-3", 3)})

	got := s.Filter(func(u *model.Unit) bool { return u.QtyTotal > 0 })
	if len(got) != 2 {
		t.Fatalf("want 2, got %d", len(got))
	}
	for _, u := range got {
		if u.QtyTotal == 0 {
			t.Fatalf("predicate not applied: %+v", u)
		}
	}
}

func TestSnapshotConcurrentAccess(t *testing.T) {
	s := NewUnitSnapshot()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("UNIT-%d", n)
			for j := 0; j < 100; j++ {
				s.Upsert(unit(id, j))
				s.Get(id)
				s.Filter(func(u *model.Unit) bool { return u.QtyTotal > 50 })
				s.Len()
			}
			s.Remove(id)
		}(i)
	}
	wg.Wait()

	if s.Len() != 0 {
		t.Fatalf("want empty snapshot, got %d", s.Len())
	}
}
