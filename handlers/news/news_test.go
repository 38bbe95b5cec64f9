package news

import "testing"

func TestFeedCarriesCuratedEntries(t *testing.T) {
	h := NewNewsHandler()

	if len(h.items) != 5 {
		t.Fatalf("feed has %d items, want 5", len(h.items))
	}
	first := h.items[0]
	if first.ID != "1" || first.Title != "TON Launches New Developer Program" {
		t.Errorf("first item = %+v", first)
	}
	if first.ImageURL == "" {
		t.Error("first item should carry an image")
	}
	for _, item := range h.items {
		if item.Source != "telegram" && item.Source != "twitter" {
			t.Errorf("item %s has source %q", item.ID, item.Source)
		}
		if item.Content == "" || item.URL == "" || item.Date == "" {
			t.Errorf("item %s is missing fields: %+v", item.ID, item)
		}
	}
}
