package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/adilzhan-s/lostfound/internal/apperrors"
	"github.com/adilzhan-s/lostfound/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory fakes for the store/sink/judge interfaces. They mirror the mongo
// repositories' observable behavior, including the all-or-nothing CAS
// semantics of ApplyStatusChanges.

type fakeItemStore struct {
	mu    sync.Mutex
	items map[string]*models.Item
	seq   int
	// beforeApply, when set, runs at the start of ApplyStatusChanges. Tests
	// use it to interleave a competing writer.
	beforeApply func()
}

func newFakeItemStore() *fakeItemStore {
	return &fakeItemStore{items: make(map[string]*models.Item)}
}

func (f *fakeItemStore) put(item *models.Item) *models.Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *item
	f.items[copied.ItemID] = &copied
	return &copied
}

func (f *fakeItemStore) CreateItem(_ context.Context, item *models.Item) (*models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	item.ItemID = fmt.Sprintf("%s%09d", models.ItemIDPrefix(item.Type), 100000000+f.seq)
	if item.PostTime.IsZero() {
		item.PostTime = time.Now()
	}
	copied := *item
	f.items[copied.ItemID] = &copied
	return item, nil
}

func (f *fakeItemStore) GetItem(_ context.Context, id string) (*models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[id]
	if !ok {
		return nil, fmt.Errorf("item %s: %w", id, apperrors.ErrNotFound)
	}
	copied := *item
	return &copied, nil
}

func (f *fakeItemStore) ApplyStatusChanges(_ context.Context, changes []models.StatusChange) error {
	if f.beforeApply != nil {
		f.beforeApply()
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	// Validate the whole batch before touching anything, mirroring the
	// transactional repository.
	for _, change := range changes {
		item, ok := f.items[change.ItemID]
		if !ok || item.Status != change.FromStatus {
			return fmt.Errorf("item %s is no longer %s: %w",
				change.ItemID, change.FromStatus, apperrors.ErrConflict)
		}
	}
	for _, change := range changes {
		item := f.items[change.ItemID]
		item.Status = change.ToStatus
		if change.MatchItemID != nil {
			item.MatchItemID = *change.MatchItemID
		}
	}
	return nil
}

func (f *fakeItemStore) UpdateStatus(_ context.Context, id string, status models.ItemStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[id]
	if !ok {
		return fmt.Errorf("item %s: %w", id, apperrors.ErrNotFound)
	}
	item.Status = status
	return nil
}

func (f *fakeItemStore) UpdateDetails(_ context.Context, id string, patch models.ItemPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[id]
	if !ok {
		return fmt.Errorf("item %s: %w", id, apperrors.ErrNotFound)
	}
	if patch.Name != "" {
		item.Name = patch.Name
	}
	if patch.Category != "" {
		item.Category = patch.Category
	}
	if patch.Color != "" {
		item.Color = patch.Color
	}
	if patch.Location != "" {
		item.Location = patch.Location
	}
	if patch.Description != "" {
		item.Description = patch.Description
	}
	if patch.ImageURL != "" {
		item.ImageURL = patch.ImageURL
	}
	return nil
}

func (f *fakeItemStore) ListByTypeAndStatus(_ context.Context, itemType models.ItemType, status models.ItemStatus, excludeOwner primitive.ObjectID) ([]models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Item
	for _, item := range f.items {
		if item.Type == itemType && item.Status == status && item.UserID != excludeOwner {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (f *fakeItemStore) ListItems(_ context.Context, itemType models.ItemType, search string, categories []string) ([]models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Item
	for _, item := range f.items {
		if item.Type != itemType || item.Status == models.StatusDeleted {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(item.Name), strings.ToLower(search)) {
			continue
		}
		out = append(out, *item)
	}
	return out, nil
}

func (f *fakeItemStore) ListUserItems(_ context.Context, userID primitive.ObjectID, itemType models.ItemType, status models.ItemStatus) ([]models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Item
	for _, item := range f.items {
		if item.UserID != userID || item.Status == models.StatusDeleted {
			continue
		}
		if itemType != "" && item.Type != itemType {
			continue
		}
		if status != "" && item.Status != status {
			continue
		}
		out = append(out, *item)
	}
	return out, nil
}

type fakeUserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	f := &fakeUserStore{users: make(map[primitive.ObjectID]*models.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserStore) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserStore) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id.Hex(), apperrors.ErrNotFound)
	}
	return user, nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, apperrors.ErrNotFound)
}

func (f *fakeUserStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", username, apperrors.ErrNotFound)
}

type sinkEntry struct {
	UserID primitive.ObjectID
	Type   models.NotificationType
	Item1  string
	Item2  string
	Text   string
}

type fakeSink struct {
	mu      sync.Mutex
	entries []sinkEntry
	failErr error
}

func (f *fakeSink) Notify(_ context.Context, userID primitive.ObjectID, message string, notifType models.NotificationType, item1, item2 string) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, sinkEntry{UserID: userID, Type: notifType, Item1: item1, Item2: item2, Text: message})
	return nil
}

func (f *fakeSink) forUser(userID primitive.ObjectID) []sinkEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sinkEntry
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out
}

type fakeMessageStore struct {
	mu       sync.Mutex
	messages []models.Message
	clock    time.Time
}

func newFakeMessageStore() *fakeMessageStore {
	return &fakeMessageStore{clock: time.Now()}
}

func (f *fakeMessageStore) InsertMessage(_ context.Context, msg *models.Message) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg.ID = primitive.NewObjectID()
	f.clock = f.clock.Add(time.Second)
	msg.SentTime = f.clock
	f.messages = append(f.messages, *msg)
	return msg, nil
}

func (f *fakeMessageStore) GetMessagesByPair(_ context.Context, lostItemID, foundItemID string) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Message
	for _, m := range f.messages {
		if m.LostItemID == lostItemID && m.FoundItemID == foundItemID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessageStore) GetLatestMessagesForUser(_ context.Context, userID primitive.ObjectID) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	type pairKey struct{ lost, found string }
	latest := make(map[pairKey]models.Message)
	for _, m := range f.messages {
		if m.SenderID != userID && m.ReceiverID != userID {
			continue
		}
		key := pairKey{m.LostItemID, m.FoundItemID}
		if existing, ok := latest[key]; !ok || m.SentTime.After(existing.SentTime) {
			latest[key] = m
		}
	}
	out := make([]models.Message, 0, len(latest))
	for _, m := range latest {
		out = append(out, m)
	}
	return out, nil
}

type fakeJudge struct {
	mu    sync.Mutex
	calls [][2]string
	fn    func(ctx context.Context, lostDesc, foundDesc string) (bool, error)
}

func (f *fakeJudge) Judge(ctx context.Context, lostDesc, foundDesc string) (bool, error) {
	f.mu.Lock()
	f.calls = append(f.calls, [2]string{lostDesc, foundDesc})
	f.mu.Unlock()
	return f.fn(ctx, lostDesc, foundDesc)
}

type fakeMailer struct {
	sent chan string
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{sent: make(chan string, 16)}
}

func (f *fakeMailer) Send(to, subject, body string) error {
	f.sent <- to
	return nil
}
