package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/carewire/go-hospital-backend/internal/conversation"
	"github.com/carewire/go-hospital-backend/internal/domain"
	"github.com/carewire/go-hospital-backend/internal/repo"
)

// ----- Fakes -----

type fakeMessageRepo struct {
	created []*domain.ChatMessage
	listKey string
	items   []domain.ChatMessage
	listErr error

	attachmentID string
	attachment   *domain.ChatMessage
	attErr       error

	createErr error
}

func (r *fakeMessageRepo) CreateMessage(ctx context.Context, db *gorm.DB, m *domain.ChatMessage) (*domain.ChatMessage, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	m.ID = "m1"
	r.created = append(r.created, m)
	return m, nil
}

func (r *fakeMessageRepo) ListMessages(ctx context.Context, db *gorm.DB, key string, offset, limit int) ([]domain.ChatMessage, error) {
	r.listKey = key
	return r.items, r.listErr
}

func (r *fakeMessageRepo) CountMessages(ctx context.Context, db *gorm.DB, key string) (int64, error) {
	return int64(len(r.items)), nil
}

func (r *fakeMessageRepo) GetAttachment(ctx context.Context, db *gorm.DB, id string) (*domain.ChatMessage, error) {
	r.attachmentID = id
	return r.attachment, r.attErr
}

type fakeDirectory struct {
	known map[string]bool
	err   error
}

func (d *fakeDirectory) UserExists(ctx context.Context, db *gorm.DB, username string) (bool, error) {
	return d.known[username], d.err
}

type push struct {
	userID, category, title, body string
}

type fakePusher struct {
	pushes []push
}

func (p *fakePusher) Push(ctx context.Context, userID, category, title, body string) {
	p.pushes = append(p.pushes, push{userID, category, title, body})
}

func newTestService() (*ChatService, *fakeMessageRepo, *fakePusher) {
	r := &fakeMessageRepo{}
	p := &fakePusher{}
	d := &fakeDirectory{known: map[string]bool{"alice": true, "bob": true, "charlie": true}}
	return NewChatService(nil, r, d, p), r, p
}

// ----- Tests -----

func TestStartConversation_GroupKey(t *testing.T) {
	s, _, _ := newTestService()

	key, err := s.StartConversation(context.Background(), "alice", "charlie, bob")
	if err != nil {
		t.Fatalf("StartConversation: %v", err)
	}
	if key != "group-alice-bob-charlie" {
		t.Fatalf("key = %q; want %q", key, "group-alice-bob-charlie")
	}
}

func TestStartConversation_DirectKey(t *testing.T) {
	s, _, _ := newTestService()

	key, err := s.StartConversation(context.Background(), "bob", "alice")
	if err != nil {
		t.Fatalf("StartConversation: %v", err)
	}
	if key != "alice-bob" {
		t.Fatalf("key = %q; want %q", key, "alice-bob")
	}
}

func TestStartConversation_UnknownRecipient(t *testing.T) {
	s, _, _ := newTestService()

	// "mallory" is not in the directory; only the requester remains.
	_, err := s.StartConversation(context.Background(), "alice", "mallory")
	if !errors.Is(err, conversation.ErrInvalidParticipants) {
		t.Fatalf("err = %v; want ErrInvalidParticipants", err)
	}
}

func TestStartConversation_DirectoryError(t *testing.T) {
	r := &fakeMessageRepo{}
	d := &fakeDirectory{err: errors.New("db gone")}
	s := NewChatService(nil, r, d, &fakePusher{})

	if _, err := s.StartConversation(context.Background(), "alice", "bob"); err == nil {
		t.Fatal("expected directory error to propagate")
	}
}

func TestSendMessage_PersistsAndNotifies(t *testing.T) {
	s, r, p := newTestService()

	m, err := s.SendMessage(context.Background(), "alice", domain.RolePatient, "alice-bob", "  hello  ")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if m.ID == "" {
		t.Fatal("expected assigned id")
	}
	if m.Text != "hello" {
		t.Fatalf("text = %q; want trimmed %q", m.Text, "hello")
	}
	if len(r.created) != 1 {
		t.Fatalf("created %d messages; want 1", len(r.created))
	}

	if len(p.pushes) != 1 {
		t.Fatalf("pushes = %d; want 1", len(p.pushes))
	}
	got := p.pushes[0]
	if got.userID != "bob" || got.category != domain.CategoryChat {
		t.Fatalf("push = %+v", got)
	}
	if got.title != "New message from alice" || got.body != "hello" {
		t.Fatalf("push content = %+v", got)
	}
}

func TestSendMessage_GroupNotifiesAllOthers(t *testing.T) {
	s, _, p := newTestService()

	if _, err := s.SendMessage(context.Background(), "bob", domain.RoleDoctor, "group-alice-bob-charlie", "hi all"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	targets := map[string]bool{}
	for _, pu := range p.pushes {
		targets[pu.userID] = true
	}
	if len(p.pushes) != 2 || !targets["alice"] || !targets["charlie"] || targets["bob"] {
		t.Fatalf("pushes = %+v", p.pushes)
	}
}

func TestSendMessage_DeniedForOutsider(t *testing.T) {
	s, r, p := newTestService()

	_, err := s.SendMessage(context.Background(), "eve", domain.RolePatient, "alice-bob", "hi")
	if !errors.Is(err, conversation.ErrNotMember) {
		t.Fatalf("err = %v; want ErrNotMember", err)
	}
	if len(r.created) != 0 || len(p.pushes) != 0 {
		t.Fatal("denied send must not persist or push")
	}
}

func TestSendMessage_EmptyText(t *testing.T) {
	s, _, _ := newTestService()

	if _, err := s.SendMessage(context.Background(), "alice", domain.RolePatient, "alice-bob", "   "); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("err = %v; want ErrEmptyMessage", err)
	}
}

func TestSendMessage_StorageFailureSurfacesAndSkipsPush(t *testing.T) {
	s, r, p := newTestService()
	r.createErr = errors.New("disk full")

	if _, err := s.SendMessage(context.Background(), "alice", domain.RolePatient, "alice-bob", "hi"); err == nil {
		t.Fatal("expected storage failure to surface")
	}
	if len(p.pushes) != 0 {
		t.Fatal("failed persist must not push")
	}
}

func TestUploadAttachment(t *testing.T) {
	s, r, p := newTestService()
	payload := []byte{0x1, 0x2, 0x3}

	m, err := s.UploadAttachment(context.Background(), "bob", domain.RoleDoctor, "alice-bob", "scan.png", "image/png", payload, "")
	if err != nil {
		t.Fatalf("UploadAttachment: %v", err)
	}
	if !m.HasAttachment || m.Size != 3 || m.FileName != "scan.png" || m.ContentType != "image/png" {
		t.Fatalf("message = %+v", m)
	}
	if len(r.created) != 1 {
		t.Fatalf("created = %d; want 1", len(r.created))
	}
	if len(p.pushes) != 1 || p.pushes[0].body != "sent an attachment: scan.png" {
		t.Fatalf("pushes = %+v", p.pushes)
	}
}

func TestUploadAttachment_IncompleteRejected(t *testing.T) {
	s, _, _ := newTestService()

	cases := []struct {
		name, file, ct string
		data           []byte
	}{
		{"no name", "", "image/png", []byte{1}},
		{"no content type", "a.png", "", []byte{1}},
		{"no bytes", "a.png", "image/png", nil},
	}
	for _, tc := range cases {
		if _, err := s.UploadAttachment(context.Background(), "alice", domain.RolePatient, "alice-bob", tc.file, tc.ct, tc.data, ""); !errors.Is(err, ErrNoAttachment) {
			t.Errorf("%s: err = %v; want ErrNoAttachment", tc.name, err)
		}
	}
}

func TestGetHistory_Authorized(t *testing.T) {
	s, r, _ := newTestService()
	r.items = []domain.ChatMessage{{ID: "m1", Text: "hi"}}

	items, err := s.GetHistory(context.Background(), "alice", "alice-bob", 0, 0)
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if len(items) != 1 || r.listKey != "alice-bob" {
		t.Fatalf("items = %v, listKey = %q", items, r.listKey)
	}
}

func TestGetHistory_Denied(t *testing.T) {
	s, _, _ := newTestService()

	_, err := s.GetHistory(context.Background(), "eve", "bob-dave", 0, 0)
	if !errors.Is(err, conversation.ErrNotMember) {
		t.Fatalf("err = %v; want ErrNotMember", err)
	}
	if err.Error() != "not part of this conversation" {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestDownloadAttachment(t *testing.T) {
	s, r, _ := newTestService()
	r.attachment = &domain.ChatMessage{
		ID:              "m9",
		ConversationKey: "alice-bob",
		HasAttachment:   true,
		FileName:        "notes.txt",
		ContentType:     "text/plain",
		Data:            []byte("hello"),
	}

	m, err := s.DownloadAttachment(context.Background(), "alice", "m9")
	if err != nil {
		t.Fatalf("DownloadAttachment: %v", err)
	}
	if m.FileName != "notes.txt" || r.attachmentID != "m9" {
		t.Fatalf("m = %+v", m)
	}

	// A non-member is denied even though the row exists.
	if _, err := s.DownloadAttachment(context.Background(), "eve", "m9"); !errors.Is(err, conversation.ErrNotMember) {
		t.Fatalf("err = %v; want ErrNotMember", err)
	}
}

func TestDownloadAttachment_NotFound(t *testing.T) {
	s, r, _ := newTestService()
	r.attErr = repo.ErrNotFound

	if _, err := s.DownloadAttachment(context.Background(), "alice", "missing"); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("err = %v; want ErrNotFound", err)
	}
}

func TestPreview_Truncates(t *testing.T) {
	s, _, _ := newTestService()
	s.PreviewMaxLen = 5
	if got := s.preview("1234567890"); got != "12345…" {
		t.Fatalf("preview = %q", got)
	}
	if got := s.preview("1234"); got != "1234" {
		t.Fatalf("preview = %q", got)
	}
}

func TestSplitRecipients(t *testing.T) {
	got := splitRecipients(" charlie,  bob\tdave\n")
	want := []string{"charlie", "bob", "dave"}
	if len(got) != len(want) {
		t.Fatalf("splitRecipients = %v; want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("splitRecipients = %v; want %v", got, want)
		}
	}
}
