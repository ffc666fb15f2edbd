package item

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fastseller/fastseller/internal/store"
)

func newRepo(t *testing.T) *LocalRepository {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "items.db"))
	if err != nil {
		t.Fatalf("store.Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return NewLocalRepository(s)
}

func fp(v float64) *float64 { return &v }
func sp(v string) *string   { return &v }

func TestCreateThenGet(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, Draft{
		Title:       "Bici da corsa",
		Description: "Telaio in alluminio, ottimo stato",
		Price:       "120,00",
		Category:    "sport",
		Owner:       "marco",
		OwnerID:     "u1",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("created item has no id")
	}
	if created.Price == nil || *created.Price != 120 {
		t.Fatalf("comma price not normalized: %v", created.Price)
	}
	if created.OwnerName != "marco" {
		t.Errorf("owner name should default to owner username, got %q", created.OwnerName)
	}
	if created.CreatedAt == nil {
		t.Error("creation time not stamped")
	}

	got, err := repo.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil {
		t.Fatal("Get returned nil for a stored item")
	}
	if got.Title != created.Title || got.ID != created.ID || *got.Price != *created.Price {
		t.Errorf("Get mismatch: got %+v, created %+v", got, created)
	}
}

func TestGetUnknownIDIsNilNil(t *testing.T) {
	repo := newRepo(t)
	got, err := repo.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for unknown id, got %+v", got)
	}
}

func TestCreateValidation(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		draft Draft
	}{
		{"empty title", Draft{Title: "   ", Price: 10}},
		{"negative price", Draft{Title: "ok", Price: -1}},
		{"price too high", Draft{Title: "ok", Price: 1000000}},
		{"garbage price", Draft{Title: "ok", Price: "dieci"}},
		{"latitude only", Draft{Title: "ok", Price: 10, Latitude: fp(45)}},
		{"latitude out of range", Draft{Title: "ok", Price: 10, Latitude: fp(91), Longitude: fp(9)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.Create(ctx, tt.draft)
			if !IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}

	items, err := repo.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("rejected drafts must not be stored, found %d items", len(items))
	}
}

func TestUpdateMergesPartialPatch(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, Draft{Title: "Lampada", Description: "vintage", Price: 30, Owner: "anna"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := repo.Update(ctx, created.ID, Patch{Price: "35,50"})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Price == nil || *updated.Price != 35.5 {
		t.Fatalf("patched price = %v, want 35.5", updated.Price)
	}
	if updated.Title != "Lampada" || updated.Description != "vintage" {
		t.Errorf("untouched fields changed: %+v", updated)
	}
	if updated.ID != created.ID {
		t.Errorf("id must be immutable, got %q", updated.ID)
	}
	if updated.UpdatedAt == nil {
		t.Error("update time not stamped")
	}
}

func TestUpdateRecomputesOwnerName(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, Draft{Title: "Sedia", Price: 15, Owner: "anna"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := repo.Update(ctx, created.ID, Patch{Owner: sp(""), OwnerName: sp("")})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.OwnerName != DefaultOwnerName {
		t.Errorf("blank owner should fall back to %q, got %q", DefaultOwnerName, updated.OwnerName)
	}
}

func TestUpdateUnknownIDIsNilNil(t *testing.T) {
	repo := newRepo(t)
	updated, err := repo.Update(context.Background(), "missing", Patch{Title: sp("x")})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated != nil {
		t.Fatalf("expected nil for unknown id, got %+v", updated)
	}
}

func TestDelete(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, Draft{Title: "Zaino", Price: 20})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	ok, err := repo.Delete(ctx, created.ID)
	if err != nil || !ok {
		t.Fatalf("Delete = (%v, %v), want (true, nil)", ok, err)
	}
	got, err := repo.Get(ctx, created.ID)
	if err != nil || got != nil {
		t.Fatalf("item still readable after delete: (%+v, %v)", got, err)
	}

	ok, err = repo.Delete(ctx, created.ID)
	if err != nil || ok {
		t.Fatalf("second Delete = (%v, %v), want (false, nil)", ok, err)
	}
}

func seedListings(t *testing.T, repo *LocalRepository) {
	t.Helper()
	ctx := context.Background()
	drafts := []Draft{
		{Title: "Zaino trekking", Description: "capiente", Price: 40, Category: "sport", OwnerID: "u1", Latitude: fp(45.4642), Longitude: fp(9.19)},
		{Title: "Bici pieghevole", Description: "come nuova", Price: 150, Category: "sport", OwnerID: "u2", Latitude: fp(45.07), Longitude: fp(7.69)},
		{Title: "Abat-jour", Description: "luce calda", Price: 12, Category: "casa", OwnerID: "u1"},
		{Title: "chitarra classica", Description: "corde nuove", Price: 80, Category: "musica", OwnerID: "u3", Latitude: fp(41.9028), Longitude: fp(12.4964)},
	}
	for _, d := range drafts {
		if _, err := repo.Create(ctx, d); err != nil {
			t.Fatalf("seed Create(%q) failed: %v", d.Title, err)
		}
	}
}

func titles(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

func TestListFilters(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	seedListings(t, repo)

	t.Run("search matches title and description", func(t *testing.T) {
		items, err := repo.List(ctx, Filter{Search: "NUOV"})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("search NUOV matched %v", titles(items))
		}
	})

	t.Run("category is case-insensitive", func(t *testing.T) {
		items, err := repo.List(ctx, Filter{Category: "SPORT"})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("category SPORT matched %v", titles(items))
		}
	})

	t.Run("seller filter", func(t *testing.T) {
		items, err := repo.List(ctx, Filter{SellerID: "u1"})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("seller u1 matched %v", titles(items))
		}
	})

	t.Run("price range", func(t *testing.T) {
		items, err := repo.List(ctx, Filter{MinPrice: fp(40), MaxPrice: fp(100)})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("price 40..100 matched %v", titles(items))
		}
	})

	t.Run("default order is title ascending, accent and case aware", func(t *testing.T) {
		items, err := repo.List(ctx, Filter{})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		got := titles(items)
		want := []string{"Abat-jour", "Bici pieghevole", "chitarra classica", "Zaino trekking"}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("default order = %v, want %v", got, want)
			}
		}
	})

	t.Run("order by price descending", func(t *testing.T) {
		items, err := repo.List(ctx, Filter{OrderBy: "price", OrderDir: "desc"})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if items[0].Title != "Bici pieghevole" || items[len(items)-1].Title != "Abat-jour" {
			t.Fatalf("price desc order = %v", titles(items))
		}
	})
}

func TestListGeoRadius(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	seedListings(t, repo)

	// Center on Milan with a 200 km radius: Turin is in, Rome is out, and the
	// listing without coordinates is excluded.
	items, err := repo.List(ctx, Filter{Latitude: fp(45.4642), Longitude: fp(9.19), RadiusKm: fp(200)})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("radius 200km matched %v", titles(items))
	}
	if items[0].Title != "Zaino trekking" {
		t.Errorf("nearest first, got %v", titles(items))
	}
	for _, it := range items {
		if it.DistanceKm == nil {
			t.Errorf("%q missing computed distance", it.Title)
		}
	}

	// The attached distance is ephemeral: a later plain read has none.
	plain, err := repo.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	for _, it := range plain {
		if it.DistanceKm != nil {
			t.Errorf("%q persisted a distance", it.Title)
		}
	}
}

func TestListPagination(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	seedListings(t, repo)

	page1, err := repo.List(ctx, Filter{PerPage: 3, Page: 1})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	page2, err := repo.List(ctx, Filter{PerPage: 3, Page: 2})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(page1) != 3 || len(page2) != 1 {
		t.Fatalf("pagination sizes = %d, %d; want 3, 1", len(page1), len(page2))
	}

	empty, err := repo.List(ctx, Filter{PerPage: 3, Page: 9})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("past-the-end page should be empty, got %v", titles(empty))
	}
}
