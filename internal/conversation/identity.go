// Package conversation derives canonical conversation identities and answers
// membership questions about them.
//
// A conversation has no persisted identity of its own: its key is recomputed
// from the participant set every time it is needed, both when writing (send,
// upload) and when reading (history, download). Because the key is derived
// from the sorted, deduplicated participant set, any permutation of the same
// participants yields the identical key.
//
// Key forms:
//   - two participants:  "alice-bob" (sorted, joined with "-")
//   - three or more:     "group-alice-bob-charlie" (sorted, "group" prefix)
//
// Membership is tested by parsing the key back into its participant set.
// Identifiers must therefore not contain the separator; the transport layer
// enforces that constraint on usernames before they reach this package.
package conversation

import (
	"errors"
	"sort"
	"strings"
)

// Separator joins participant identifiers inside a conversation key.
const Separator = "-"

// GroupPrefix marks keys of conversations with three or more participants.
const GroupPrefix = "group"

// ErrInvalidParticipants is returned when fewer than two distinct
// participant identifiers are supplied for key derivation.
var ErrInvalidParticipants = errors.New("a conversation requires at least two distinct participants")

// DeriveKey computes the canonical key for the given participant set.
//
// Identifiers are deduplicated and sorted lexicographically (case-sensitive,
// as given). Exactly two participants produce the direct form "a-b"; three or
// more produce the group form "group-a-b-c". Fewer than two distinct,
// non-empty identifiers yield ErrInvalidParticipants.
func DeriveKey(participants []string) (string, error) {
	set := make(map[string]struct{}, len(participants))
	for _, p := range participants {
		if p == "" {
			continue
		}
		set[p] = struct{}{}
	}
	if len(set) < 2 {
		return "", ErrInvalidParticipants
	}

	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if len(ids) == 2 {
		return ids[0] + Separator + ids[1], nil
	}
	return GroupPrefix + Separator + strings.Join(ids, Separator), nil
}

// IsMember reports whether id belongs to the participant set encoded in key.
//
// The key is parsed by stripping the optional group prefix and splitting on
// the separator. This string-level test is the sole authorization primitive;
// no membership table exists.
func IsMember(key, id string) bool {
	if key == "" || id == "" {
		return false
	}
	for _, p := range Participants(key) {
		if p == id {
			return true
		}
	}
	return false
}

// Participants returns the participant identifiers encoded in key, in the
// sorted order they were joined in. An empty key yields nil.
func Participants(key string) []string {
	if key == "" {
		return nil
	}
	key = strings.TrimPrefix(key, GroupPrefix+Separator)
	return strings.Split(key, Separator)
}
