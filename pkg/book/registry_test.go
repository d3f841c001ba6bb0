package book

import (
	"reflect"
	"testing"
)

func TestRegistryOpenAndGet(t *testing.T) {
	r := NewRegistry(nil)

	b, err := r.Open("MARKET-A")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if b.Ticker() != "MARKET-A" {
		t.Errorf("ticker = %s", b.Ticker())
	}

	if _, err := r.Open("MARKET-A"); err == nil {
		t.Error("expected error opening the same ticker twice")
	}
	if _, err := r.Open(""); err == nil {
		t.Error("expected error opening an empty ticker")
	}

	got, ok := r.Get("MARKET-A")
	if !ok || got != b {
		t.Error("Get did not return the opened book")
	}
	if _, ok := r.Get("MARKET-B"); ok {
		t.Error("Get returned a book for an unopened ticker")
	}
}

func TestRegistryListSorted(t *testing.T) {
	r := NewRegistry(nil)
	for _, ticker := range []string{"ZETA", "ALPHA", "MID"} {
		if _, err := r.Open(ticker); err != nil {
			t.Fatalf("open %s: %v", ticker, err)
		}
	}

	want := []string{"ALPHA", "MID", "ZETA"}
	if got := r.List(); !reflect.DeepEqual(got, want) {
		t.Errorf("List = %v, want %v", got, want)
	}
	if r.Count() != 3 {
		t.Errorf("Count = %d, want 3", r.Count())
	}
}

func TestRegistryClose(t *testing.T) {
	r := NewRegistry(nil)
	r.Open("MARKET-A")

	if err := r.Close("MARKET-A"); err != nil {
		t.Fatalf("close: %v", err)
	}
	if r.Exists("MARKET-A") {
		t.Error("book still present after close")
	}
	if err := r.Close("MARKET-A"); err == nil {
		t.Error("expected error closing an unopened ticker")
	}
}

// TestRegistryAttachListener: an attached listener observes books opened both
// before and after attachment.
func TestRegistryAttachListener(t *testing.T) {
	r := NewRegistry(nil)
	before, _ := r.Open("BEFORE")

	rec := &recordingListener{}
	r.AttachListener(rec)

	after, _ := r.Open("AFTER")

	mustAccept(t, submit(t, before, "o1", Yes, Buy, 50, 10))
	mustAccept(t, submit(t, after, "o2", Yes, Buy, 50, 10))

	if len(rec.added) != 2 {
		t.Errorf("listener observed %d adds, want 2 (both books)", len(rec.added))
	}
}
