package book

import (
	"reflect"
	"testing"
)

func TestBidLadderBestIsHighest(t *testing.T) {
	l := newBidLadder()
	for _, p := range []int{50, 65, 40, 60} {
		l.getOrCreate(p)
	}

	if best, ok := l.bestPrice(); !ok || best != 65 {
		t.Errorf("best bid = (%d, %v), want (65, true)", best, ok)
	}
	if got := l.sortedPrices(); !reflect.DeepEqual(got, []int{65, 60, 50, 40}) {
		t.Errorf("sorted bids = %v", got)
	}
}

func TestAskLadderBestIsLowest(t *testing.T) {
	l := newAskLadder()
	for _, p := range []int{70, 66, 80} {
		l.getOrCreate(p)
	}

	if best, ok := l.bestPrice(); !ok || best != 66 {
		t.Errorf("best ask = (%d, %v), want (66, true)", best, ok)
	}
	if got := l.sortedPrices(); !reflect.DeepEqual(got, []int{66, 70, 80}) {
		t.Errorf("sorted asks = %v", got)
	}
}

func TestLadderPrune(t *testing.T) {
	l := newBidLadder()
	l.getOrCreate(50)
	l.getOrCreate(60)

	l.prune(60)
	if best, _ := l.bestPrice(); best != 50 {
		t.Errorf("best after prune = %d, want 50", best)
	}
	if l.depth() != 1 {
		t.Errorf("depth = %d, want 1", l.depth())
	}

	l.prune(50)
	if _, ok := l.bestPrice(); ok {
		t.Error("empty ladder still reports a best price")
	}
}

func TestLadderWalkStops(t *testing.T) {
	l := newAskLadder()
	for _, p := range []int{10, 20, 30} {
		l.getOrCreate(p)
	}

	var visited []int
	l.walk(func(lvl *PriceLevel) bool {
		visited = append(visited, lvl.Price())
		return len(visited) < 2
	})
	if !reflect.DeepEqual(visited, []int{10, 20}) {
		t.Errorf("walk visited %v, want [10 20]", visited)
	}
}

func TestPriceLevelQueue(t *testing.T) {
	lvl := newPriceLevel(50)
	a := &Order{ID: "a", Remaining: 10}
	b := &Order{ID: "b", Remaining: 20}
	lvl.add(a)
	lvl.add(b)

	if lvl.TotalQuantity() != 30 {
		t.Errorf("total quantity = %d, want 30", lvl.TotalQuantity())
	}

	// replace keeps position
	b2 := &Order{ID: "b", Remaining: 25}
	if !lvl.replace(b2) {
		t.Fatal("replace failed")
	}
	if got := lvl.Orders(); got[1] != b2 {
		t.Error("replace moved the order")
	}

	if removed := lvl.remove("a"); removed != a {
		t.Error("remove returned wrong order")
	}
	if lvl.Len() != 1 || lvl.find("a") != nil {
		t.Error("removed order still present")
	}
	if lvl.remove("ghost") != nil {
		t.Error("removing an absent id returned an order")
	}
}
