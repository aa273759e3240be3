package domain

import "testing"

func TestTableNames(t *testing.T) {
	cases := map[string]string{
		ChatMessage{}.TableName():  "chat_messages",
		Notification{}.TableName(): "notifications",
		User{}.TableName():         "users",
	}
	for got, want := range cases {
		if got != want {
			t.Errorf("TableName = %q; want %q", got, want)
		}
	}
}

func TestAttachmentInvariant(t *testing.T) {
	// A message without an attachment leaves all attachment fields zero.
	m := ChatMessage{ID: "m1", ConversationKey: "alice-bob", SenderID: "alice", Text: "hi"}
	if m.HasAttachment || m.FileName != "" || m.ContentType != "" || m.Data != nil || m.Size != 0 {
		t.Fatal("zero-value message must not carry attachment fields")
	}
}
