package chat

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/suPer8Hu/chat-studio/internal/ai"
	"github.com/suPer8Hu/chat-studio/internal/common"
	"github.com/suPer8Hu/chat-studio/internal/observability"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrEmptyMessage    = errors.New("message is empty")
	ErrSendInProgress  = errors.New("a message is already being sent for this session")
	ErrInvalidRole     = errors.New("invalid message role")
)

const defaultSendTimeout = 90 * time.Second

// session holds one conversation. op serializes log mutation and
// persistence for this session only; the remaining fields are guarded by
// Store.mu. op is never acquired while holding Store.mu.
type session struct {
	id string

	op       sync.Mutex
	messages []Message
	loaded   bool

	title        string
	createdAt    time.Time
	lastActivity time.Time
	preview      string
	count        int
	context      string
	sending      bool
	deleted      bool
}

// Store is the conversation session store: a set of sessions with one
// selected, each with an append-only message log persisted through a
// LogStore.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*session
	order    []string // creation order, newest first
	selected string

	indexMu sync.Mutex
	repo    *Repo

	provider    ai.Provider
	notifier    Notifier
	now         func() time.Time
	sendTimeout time.Duration
}

type Option func(*Store)

func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithSendTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.sendTimeout = d
		}
	}
}

func NewStore(provider ai.Provider, logs LogStore, opts ...Option) *Store {
	s := &Store{
		sessions:    make(map[string]*session),
		repo:        NewRepo(logs),
		provider:    provider,
		now:         time.Now,
		sendTimeout: defaultSendTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore rebuilds the session list from the persisted index. Logs are
// loaded lazily on first access. The most recently active session becomes
// selected.
func (s *Store) Restore(ctx context.Context) error {
	entries, err := s.repo.loadIndex(ctx)
	if err != nil {
		return err
	}

	sessions := make(map[string]*session, len(entries))
	order := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			continue
		}
		if _, dup := sessions[e.ID]; dup {
			continue
		}
		title := strings.TrimSpace(e.Title)
		if title == "" {
			title = DefaultTitle
		}
		sessions[e.ID] = &session{
			id:           e.ID,
			title:        title,
			createdAt:    e.CreatedAt,
			lastActivity: e.LastActivity,
			preview:      e.Preview,
			count:        e.MessageCount,
			context:      e.Context,
		}
		order = append(order, e.ID)
	}

	s.mu.Lock()
	s.sessions = sessions
	s.order = order
	s.selected = ""
	if listed := s.listedLocked(""); len(listed) > 0 {
		s.selected = listed[0].ID
	}
	s.mu.Unlock()

	observability.FromContext(ctx).Info("sessions restored", "count", len(order))
	return nil
}

// Create allocates an empty session titled DefaultTitle and selects it.
func (s *Store) Create(ctx context.Context) (Session, error) {
	id, err := common.NewULID()
	if err != nil {
		return Session{}, fmt.Errorf("new session id: %w", err)
	}
	now := s.now()
	sess := &session{
		id:           id,
		title:        DefaultTitle,
		createdAt:    now,
		lastActivity: now,
		loaded:       true,
	}

	s.mu.Lock()
	s.sessions[id] = sess
	s.order = append([]string{id}, s.order...)
	s.selected = id
	snap := s.snapshotLocked(sess)
	s.mu.Unlock()

	if err := s.persistIndex(ctx); err != nil {
		return snap, err
	}
	return snap, nil
}

// Select makes id the selected session and loads its persisted log. An
// unknown id leaves the selection untouched.
func (s *Store) Select(ctx context.Context, id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return ErrSessionNotFound
	}
	s.selected = id
	s.mu.Unlock()

	sess.op.Lock()
	defer sess.op.Unlock()
	return s.loadLocked(ctx, sess)
}

// Selected returns the selected session id, or "" when nothing is selected.
func (s *Store) Selected() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// Rename sets a new title. A title that is blank after trimming is ignored.
func (s *Store) Rename(ctx context.Context, id, title string) (Session, error) {
	title = strings.TrimSpace(title)

	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return Session{}, ErrSessionNotFound
	}
	if title == "" || title == sess.title {
		snap := s.snapshotLocked(sess)
		s.mu.Unlock()
		return snap, nil
	}
	sess.title = title
	snap := s.snapshotLocked(sess)
	s.mu.Unlock()

	return snap, s.persistIndex(ctx)
}

// Delete removes a session and its persisted log and returns the new
// selection. When the selected session is removed the selection moves to
// the session listed after it, else the one before it, else to none.
func (s *Store) Delete(ctx context.Context, id string) (string, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return s.Selected(), ErrSessionNotFound
	}

	// Waits for an in-flight append so it cannot rewrite the log after removal.
	sess.op.Lock()
	defer sess.op.Unlock()
	s.mu.RLock()
	gone := sess.deleted
	s.mu.RUnlock()
	if gone {
		return s.Selected(), ErrSessionNotFound
	}
	// The index drops the session before its log goes, so a failure at
	// either step never leaves an indexed session without its log.
	s.indexMu.Lock()
	defer s.indexMu.Unlock()
	if err := s.writeIndexLocked(ctx, id); err != nil {
		return s.Selected(), err
	}
	if err := s.repo.RemoveLog(ctx, id); err != nil {
		if rerr := s.writeIndexLocked(ctx, ""); rerr != nil {
			observability.FromContext(ctx).Error("restore index after failed delete", "session_id", id, "err", rerr)
		}
		return s.Selected(), err
	}
	sess.messages = nil

	s.mu.Lock()
	if s.selected == id {
		s.selected = s.neighbourLocked(id)
	}
	sess.deleted = true
	delete(s.sessions, id)
	for i, sid := range s.order {
		if sid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	selected := s.selected
	s.mu.Unlock()

	return selected, nil
}

// neighbourLocked picks the session listed after id, or the one before it.
func (s *Store) neighbourLocked(id string) string {
	listed := s.listedLocked("")
	for i, snap := range listed {
		if snap.ID != id {
			continue
		}
		if i+1 < len(listed) {
			return listed[i+1].ID
		}
		if i > 0 {
			return listed[i-1].ID
		}
		return ""
	}
	return ""
}

// Get returns a snapshot of one session.
func (s *Store) Get(id string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return s.snapshotLocked(sess), nil
}

// Sessions lists sessions by last activity, most recent first. A non-empty
// query keeps only titles containing it, case-insensitively.
func (s *Store) Sessions(query string) []Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listedLocked(query)
}

func (s *Store) listedLocked(query string) []Session {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]Session, 0, len(s.order))
	for _, id := range s.order {
		sess := s.sessions[id]
		if query != "" && !strings.Contains(strings.ToLower(sess.title), query) {
			continue
		}
		out = append(out, s.snapshotLocked(sess))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastActivity.After(out[j].LastActivity)
	})
	return out
}

func (s *Store) snapshotLocked(sess *session) Session {
	return Session{
		ID:           sess.id,
		Title:        sess.title,
		CreatedAt:    sess.createdAt,
		LastActivity: sess.lastActivity,
		Preview:      sess.preview,
		MessageCount: sess.count,
		HasContext:   sess.context != "",
		Sending:      sess.sending,
	}
}

// Messages returns a copy of a session's log in insertion order.
func (s *Store) Messages(ctx context.Context, id string) ([]Message, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	sess.op.Lock()
	defer sess.op.Unlock()
	if err := s.loadLocked(ctx, sess); err != nil {
		return nil, err
	}
	out := make([]Message, len(sess.messages))
	copy(out, sess.messages)
	return out, nil
}

// Append adds m to the end of a session's log and persists the full log
// before returning. Missing ID, kind and timestamp are filled in, and the
// timestamp never goes backwards within the log. If persisting fails the
// message stays in memory and the error is returned.
func (s *Store) Append(ctx context.Context, id string, m Message) (Message, error) {
	if m.Role != RoleUser && m.Role != RoleAssistant {
		return Message{}, fmt.Errorf("%w: %q", ErrInvalidRole, m.Role)
	}
	sess, err := s.lookup(id)
	if err != nil {
		return Message{}, err
	}

	sess.op.Lock()
	if err := s.loadLocked(ctx, sess); err != nil {
		sess.op.Unlock()
		return Message{}, err
	}
	if sess.deleted {
		sess.op.Unlock()
		return Message{}, ErrSessionNotFound
	}

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Kind == "" {
		m.Kind = KindText
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = s.now()
	}
	if n := len(sess.messages); n > 0 && m.Timestamp.Before(sess.messages[n-1].Timestamp) {
		m.Timestamp = sess.messages[n-1].Timestamp
	}
	sess.messages = append(sess.messages, m)

	s.mu.Lock()
	sess.lastActivity = m.Timestamp
	sess.preview = preview(m.Content)
	sess.count = len(sess.messages)
	s.mu.Unlock()

	saveErr := s.repo.SaveLog(ctx, id, sess.messages)
	sess.op.Unlock()

	log := observability.FromContext(ctx)
	if saveErr != nil {
		log.Warn("persist log failed", "session_id", id, "message_id", m.ID, "err", saveErr)
		return m, saveErr
	}
	if err := s.persistIndex(ctx); err != nil {
		log.Warn("persist session index failed", "session_id", id, "err", err)
	}
	s.notify(ctx, id, m)
	return m, nil
}

func (s *Store) notify(ctx context.Context, id string, m Message) {
	if s.notifier == nil {
		return
	}
	ev := Event{Type: EventMessageAppended, SessionID: id, Message: m, At: s.now()}
	if err := s.notifier.MessageAppended(ctx, ev); err != nil {
		observability.FromContext(ctx).Warn("notify message appended failed", "session_id", id, "message_id", m.ID, "err", err)
	}
}

// AttachContext stores extracted attachment text on a session. It is sent
// along with every later message from that session.
func (s *Store) AttachContext(ctx context.Context, id, text string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return ErrSessionNotFound
	}
	sess.context = text
	s.mu.Unlock()
	return s.persistIndex(ctx)
}

func (s *Store) ClearContext(ctx context.Context, id string) error {
	return s.AttachContext(ctx, id, "")
}

// Sending reports whether a send is pending for the session.
func (s *Store) Sending(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return ok && sess.sending
}

func (s *Store) lookup(id string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// loadLocked reads the persisted log once. Caller holds sess.op.
func (s *Store) loadLocked(ctx context.Context, sess *session) error {
	if sess.loaded || sess.deleted {
		return nil
	}
	msgs, err := s.repo.LoadLog(ctx, sess.id)
	if err != nil {
		return err
	}
	sess.messages = msgs
	sess.loaded = true

	s.mu.Lock()
	sess.count = len(msgs)
	if n := len(msgs); n > 0 {
		last := msgs[n-1]
		sess.preview = preview(last.Content)
		if last.Timestamp.After(sess.lastActivity) {
			sess.lastActivity = last.Timestamp
		}
	}
	s.mu.Unlock()
	return nil
}

func (s *Store) persistIndex(ctx context.Context) error {
	s.indexMu.Lock()
	defer s.indexMu.Unlock()
	return s.writeIndexLocked(ctx, "")
}

// writeIndexLocked persists the session index, leaving out skip when set.
// Caller holds indexMu.
func (s *Store) writeIndexLocked(ctx context.Context, skip string) error {
	s.mu.RLock()
	entries := make([]indexEntry, 0, len(s.order))
	for _, id := range s.order {
		if id == skip {
			continue
		}
		sess := s.sessions[id]
		entries = append(entries, indexEntry{
			ID:           sess.id,
			Title:        sess.title,
			CreatedAt:    sess.createdAt,
			LastActivity: sess.lastActivity,
			Preview:      sess.preview,
			MessageCount: sess.count,
			Context:      sess.context,
		})
	}
	s.mu.RUnlock()

	return s.repo.saveIndex(ctx, entries)
}
