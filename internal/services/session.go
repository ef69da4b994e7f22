package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/metrics"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/aaravmahajanofficial/storefront/internal/writethrough"
	"github.com/google/uuid"
)

// Session owns the stores of one client. The cart survives sign-in and
// sign-out; the profile and the checkout attempt belong to the signed-in owner.
type Session struct {
	ID string

	cart     *CartStore
	checkout checkoutFlow

	mu       sync.Mutex
	profile  *UserStore
	ownerID  uuid.UUID
	email    string
	signedIn bool
	lastSeen time.Time
}

func (s *Session) Cart() *CartStore {
	return s.cart
}

func (s *Session) Profile() *UserStore {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.profile
}

// Identity reports who is signed in on this session.
func (s *Session) Identity() (uuid.UUID, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ownerID, s.email, s.signedIn
}

// setEmail follows a sign-in email change made through the profile.
func (s *Session) setEmail(ownerID uuid.UUID, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.signedIn && s.ownerID == ownerID {
		s.email = email
	}
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastSeen
}

type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*Session

	idleTTL time.Duration
	sweep   time.Duration

	profiles repository.ProfileRepository
	queue    writethrough.Enqueuer
	auth     AuthService
	now      func() time.Time
}

func NewSessionRegistry(cfg *config.Session, profiles repository.ProfileRepository, queue writethrough.Enqueuer, auth AuthService) *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*Session),
		idleTTL:  cfg.IdleTTL,
		sweep:    cfg.SweepInterval,
		profiles: profiles,
		queue:    queue,
		auth:     auth,
		now:      time.Now,
	}
}

func (r *SessionRegistry) newUserStore(sess *Session) *UserStore {
	store := NewUserStore(r.profiles, r.queue, r.auth)
	store.onEmailChanged = sess.setEmail

	return store
}

// GetOrCreate returns the session with id, creating an empty guest session
// when none exists.
func (r *SessionRegistry) GetOrCreate(id string) *Session {

	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[id]
	if !ok {
		sess = &Session{ID: id, cart: NewCartStore()}
		sess.profile = r.newUserStore(sess)
		r.sessions[id] = sess
		metrics.SetActiveSessions(len(r.sessions))
	}

	sess.touch(r.now())

	return sess
}

func (r *SessionRegistry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[id]

	return sess, ok
}

func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sessions)
}

// HandleAuthEvent is registered with AuthService.OnAuthStateChanged.
func (r *SessionRegistry) HandleAuthEvent(ctx context.Context, event AuthEvent) {

	logger := middleware.LoggerFromContext(ctx).With(slog.String("sessionId", event.SessionID))

	if !event.SignedIn() {
		if sess, ok := r.Get(event.SessionID); ok {
			r.unbind(sess)
			logger.Info("Session signed out", slog.String("ownerId", event.OwnerID.String()))
		}
		return
	}

	sess := r.GetOrCreate(event.SessionID)
	if err := r.bind(ctx, sess, event.Account); err != nil {
		logger.Error("Failed to load profile for session", slog.String("ownerId", event.OwnerID.String()), slog.String("error", err.Error()))
		return
	}

	logger.Info("Session signed in", slog.String("ownerId", event.OwnerID.String()))
}

// EnsureSignedIn binds sess to the owner of a valid token that arrived
// without a preceding sign-in event on this process.
func (r *SessionRegistry) EnsureSignedIn(ctx context.Context, sess *Session, claims *models.Claims) error {

	ownerID, _, signedIn := sess.Identity()
	if signedIn && ownerID == claims.UserID {
		return nil
	}

	account, err := r.auth.GetAccount(ctx, claims.UserID)
	if err != nil {
		return err
	}

	return r.bind(ctx, sess, account)
}

func (r *SessionRegistry) bind(ctx context.Context, sess *Session, account *models.Account) error {

	sess.mu.Lock()
	switched := sess.signedIn && sess.ownerID != account.ID
	if switched {
		sess.profile = r.newUserStore(sess)
	}
	sess.ownerID = account.ID
	sess.email = account.Email
	sess.signedIn = true
	profile := sess.profile
	sess.mu.Unlock()

	if switched {
		sess.checkout.reset()
	}

	_, err := profile.LoadOrInitialize(ctx, account)

	return err
}

func (r *SessionRegistry) unbind(sess *Session) {

	sess.mu.Lock()
	sess.ownerID = uuid.Nil
	sess.email = ""
	sess.signedIn = false
	sess.profile = r.newUserStore(sess)
	sess.mu.Unlock()

	sess.checkout.reset()
}

// Evict drops sessions idle for longer than the configured TTL.
func (r *SessionRegistry) Evict() int {

	cutoff := r.now().Add(-r.idleTTL)

	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, sess := range r.sessions {
		if sess.idleSince().Before(cutoff) {
			delete(r.sessions, id)
			evicted++
		}
	}

	metrics.SetActiveSessions(len(r.sessions))

	return evicted
}

// Run sweeps idle sessions until ctx is cancelled.
func (r *SessionRegistry) Run(ctx context.Context) error {

	if r.idleTTL <= 0 || r.sweep <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(r.sweep)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := r.Evict(); n > 0 {
				slog.Info("Evicted idle sessions", slog.Int("count", n))
			}
		}
	}
}
