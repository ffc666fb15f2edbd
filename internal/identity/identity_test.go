package identity

import (
	"encoding/json"
	"testing"

	"github.com/fastseller/fastseller/internal/auth"
	"github.com/fastseller/fastseller/internal/item"
)

func TestOwnerKey(t *testing.T) {
	tests := []struct {
		name string
		user *auth.User
		want string
	}{
		{"nil user", nil, GuestKey},
		{"empty user", &auth.User{}, GuestKey},
		{"id wins", &auth.User{ID: "u1", Email: "a@b.it", Username: "anna"}, "user:u1"},
		{"email next", &auth.User{Email: "a@b.it", Username: "anna"}, "email:a@b.it"},
		{"username last", &auth.User{Username: "anna"}, "username:anna"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OwnerKey(tt.user); got != tt.want {
				t.Errorf("OwnerKey = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsOwnedBy(t *testing.T) {
	anna := &auth.User{ID: "u1", Username: "anna", Email: "anna@example.it"}

	tests := []struct {
		name string
		item *item.Item
		user *auth.User
		want bool
	}{
		{"nil item", nil, anna, false},
		{"nil user", &item.Item{OwnerID: "u1"}, nil, false},
		{"strict id match", &item.Item{OwnerID: "u1"}, anna, true},
		{"username match", &item.Item{Owner: "anna"}, anna, true},
		{"username case and spaces", &item.Item{Owner: "  ANNA  "}, anna, true},
		{"email in ownerName", &item.Item{OwnerName: "Anna@Example.it"}, anna, true},
		{"no overlap", &item.Item{OwnerID: "u2", Owner: "marco"}, anna, false},
		{"empty fields never match", &item.Item{}, &auth.User{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOwnedBy(tt.item, tt.user); got != tt.want {
				t.Errorf("IsOwnedBy = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsOwnedByNumericWireID(t *testing.T) {
	// An upstream record whose ownerId arrives as a JSON number must still
	// match a user whose id is the string "42".
	var wire struct {
		OwnerID json.Number `json:"ownerId"`
	}
	if err := json.Unmarshal([]byte(`{"ownerId": 42}`), &wire); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	it := &item.Item{OwnerID: wire.OwnerID.String()}
	u := &auth.User{ID: "42"}
	if !IsOwnedBy(it, u) {
		t.Error("numeric wire id should match string user id")
	}
}
