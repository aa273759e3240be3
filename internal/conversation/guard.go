package conversation

import "errors"

// ErrNotMember is returned by Guard.Authorize when the requester is not part
// of the conversation. The message is stable and shown to clients verbatim.
var ErrNotMember = errors.New("not part of this conversation")

// Guard authorizes requesters against conversation keys. It is a pure check
// with no side effects and is applied uniformly before every conversation
// read (history, download) and write (send, upload).
//
// The zero value is ready to use.
type Guard struct{}

// Authorize returns nil when requesterID is a member of the conversation
// identified by key, and ErrNotMember otherwise.
func (Guard) Authorize(requesterID, key string) error {
	if !IsMember(key, requesterID) {
		return ErrNotMember
	}
	return nil
}
