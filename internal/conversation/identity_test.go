package conversation

import (
	"errors"
	"math/rand"
	"testing"
)

func TestDeriveKey_TwoParticipants(t *testing.T) {
	key, err := DeriveKey([]string{"bob", "alice"})
	if err != nil {
		t.Fatalf("DeriveKey returned error: %v", err)
	}
	if key != "alice-bob" {
		t.Fatalf("key = %q; want %q", key, "alice-bob")
	}

	// Same pair, other order.
	key2, err := DeriveKey([]string{"alice", "bob"})
	if err != nil {
		t.Fatalf("DeriveKey returned error: %v", err)
	}
	if key2 != key {
		t.Fatalf("permutation changed key: %q vs %q", key2, key)
	}
}

func TestDeriveKey_GroupForm(t *testing.T) {
	key, err := DeriveKey([]string{"charlie", "alice", "bob"})
	if err != nil {
		t.Fatalf("DeriveKey returned error: %v", err)
	}
	if key != "group-alice-bob-charlie" {
		t.Fatalf("key = %q; want %q", key, "group-alice-bob-charlie")
	}
}

func TestDeriveKey_PermutationInvariant(t *testing.T) {
	ids := []string{"dora", "alice", "bob", "charlie", "eve"}
	want, err := DeriveKey(ids)
	if err != nil {
		t.Fatalf("DeriveKey returned error: %v", err)
	}

	r := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := append([]string(nil), ids...)
		r.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		got, err := DeriveKey(shuffled)
		if err != nil {
			t.Fatalf("DeriveKey(%v) returned error: %v", shuffled, err)
		}
		if got != want {
			t.Fatalf("DeriveKey(%v) = %q; want %q", shuffled, got, want)
		}
	}
}

func TestDeriveKey_DeduplicatesBeforeCounting(t *testing.T) {
	// Two names, one duplicated: still a direct conversation.
	key, err := DeriveKey([]string{"bob", "alice", "bob"})
	if err != nil {
		t.Fatalf("DeriveKey returned error: %v", err)
	}
	if key != "alice-bob" {
		t.Fatalf("key = %q; want %q", key, "alice-bob")
	}

	// One distinct name repeated: invalid.
	if _, err := DeriveKey([]string{"alice", "alice"}); !errors.Is(err, ErrInvalidParticipants) {
		t.Fatalf("err = %v; want ErrInvalidParticipants", err)
	}
}

func TestDeriveKey_TooFewParticipants(t *testing.T) {
	for _, in := range [][]string{nil, {}, {"alice"}, {"", ""}, {"alice", ""}} {
		if _, err := DeriveKey(in); !errors.Is(err, ErrInvalidParticipants) {
			t.Errorf("DeriveKey(%v) err = %v; want ErrInvalidParticipants", in, err)
		}
	}
}

func TestIsMember(t *testing.T) {
	participants := []string{"alice", "bob", "charlie"}
	key, err := DeriveKey(participants)
	if err != nil {
		t.Fatalf("DeriveKey returned error: %v", err)
	}

	for _, p := range participants {
		if !IsMember(key, p) {
			t.Errorf("IsMember(%q, %q) = false; want true", key, p)
		}
	}
	for _, outsider := range []string{"eve", "ali", "alicee", "group", ""} {
		if IsMember(key, outsider) {
			t.Errorf("IsMember(%q, %q) = true; want false", key, outsider)
		}
	}
}

func TestIsMember_DirectKey(t *testing.T) {
	if !IsMember("alice-bob", "alice") || !IsMember("alice-bob", "bob") {
		t.Fatal("direct key members not recognized")
	}
	if IsMember("bob-dave", "eve") {
		t.Fatal("eve must not be a member of bob-dave")
	}
}

func TestParticipants(t *testing.T) {
	got := Participants("group-alice-bob-charlie")
	want := []string{"alice", "bob", "charlie"}
	if len(got) != len(want) {
		t.Fatalf("Participants = %v; want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Participants = %v; want %v", got, want)
		}
	}
	if Participants("") != nil {
		t.Fatal("Participants(\"\") should be nil")
	}
}
