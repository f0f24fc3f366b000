// Package session keeps the client's cached copy of the auth provider
// session and the application profile consistent: a small state machine over
// the session lifecycle, with lazy profile provisioning on first sign-in.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"placementhub/internal/auth"
	"placementhub/internal/client"
	"placementhub/internal/models"
)

// ErrNotSignedIn is returned by profile operations that require an
// established session.
var ErrNotSignedIn = errors.New("no user signed in")

type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticating  State = "authenticating"
	StatePendingProfile  State = "authenticated-pending-profile"
	StateComplete        State = "authenticated-complete"
	StateRejectedDomain  State = "rejected-domain"
)

// Provider is the slice of the auth provider the manager needs.
type Provider interface {
	IsAllowedEmail(email string) bool
	SignUp(ctx context.Context, email, password, fullName string) (auth.Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (auth.Session, error)
	SendMagicLink(ctx context.Context, email string) error
	Refresh(ctx context.Context, refreshToken string) (auth.Session, error)
	SignOut(ctx context.Context, accessToken string) error
}

// ProfileAPI is the slice of the resource client the manager needs.
type ProfileAPI interface {
	Profile(ctx context.Context, supabaseUID string) (models.UserProfile, error)
	CreateProfile(ctx context.Context, profile models.NewUserProfile) (models.UserProfile, error)
	UpdateProfile(ctx context.Context, supabaseUID string, patch models.UserProfilePatch) (models.UserProfile, error)
}

type Manager struct {
	provider Provider
	api      ProfileAPI
	log      zerolog.Logger

	mu          sync.Mutex
	state       State
	session     *auth.Session
	profile     *models.UserProfile
	notice      string
	subscribers []func(State)

	fetches singleflight.Group
}

func NewManager(provider Provider, api ProfileAPI, logger zerolog.Logger) *Manager {
	return &Manager{
		provider: provider,
		api:      api,
		log:      logger,
		state:    StateUnauthenticated,
	}
}

// Subscribe registers a state-change callback. Callbacks run outside the
// manager's lock, in subscription order.
func (m *Manager) Subscribe(fn func(State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, fn)
}

func (m *Manager) setState(state State) {
	m.mu.Lock()
	changed := m.state != state
	m.state = state
	subscribers := make([]func(State), len(m.subscribers))
	copy(subscribers, m.subscribers)
	m.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range subscribers {
		fn(state)
	}
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Notice returns the user-facing message from the last domain rejection.
func (m *Manager) Notice() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notice
}

// Session returns a copy of the cached session, nil when signed out.
func (m *Manager) Session() *auth.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	s := *m.session
	return &s
}

// Profile returns a copy of the cached profile, nil when not yet loaded.
func (m *Manager) Profile() *models.UserProfile {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.profile == nil {
		return nil
	}
	p := *m.profile
	return &p
}

// AccessToken implements client.TokenSource. Expired sessions are refreshed
// best-effort; a refresh failure falls back to the stale token rather than
// blocking the request.
func (m *Manager) AccessToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	if m.session == nil {
		m.mu.Unlock()
		return "", nil
	}
	current := *m.session
	m.mu.Unlock()

	if !current.Expired() || current.RefreshToken == "" {
		return current.AccessToken, nil
	}

	refreshed, err := m.provider.Refresh(ctx, current.RefreshToken)
	if err != nil {
		m.log.Warn().Err(err).Msg("session refresh failed, using stale token")
		return current.AccessToken, nil
	}

	m.mu.Lock()
	m.session = &refreshed
	m.mu.Unlock()
	return refreshed.AccessToken, nil
}

func (m *Manager) SignUp(ctx context.Context, email, password, fullName string) error {
	m.setState(StateAuthenticating)
	session, err := m.provider.SignUp(ctx, email, password, fullName)
	if err != nil {
		m.failAuth(err)
		return err
	}
	if session.AccessToken == "" {
		// Email confirmation pending: the auth-state-change notification
		// completes the machine later.
		m.setState(StateUnauthenticated)
		return nil
	}
	return m.establish(ctx, session)
}

func (m *Manager) SignIn(ctx context.Context, email, password string) error {
	m.setState(StateAuthenticating)
	session, err := m.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		m.failAuth(err)
		return err
	}
	return m.establish(ctx, session)
}

// SignInWithMagicLink only dispatches the link; the session arrives via
// HandleAuthChange when the user completes it.
func (m *Manager) SignInWithMagicLink(ctx context.Context, email string) error {
	if err := m.provider.SendMagicLink(ctx, email); err != nil {
		m.failAuth(err)
		return err
	}
	return nil
}

// HandleAuthChange re-enters the state machine on provider notifications:
// token refreshes, externally completed sign-ins, external sign-outs.
func (m *Manager) HandleAuthChange(ctx context.Context, session *auth.Session) error {
	if session == nil {
		m.clearLocal()
		m.setState(StateUnauthenticated)
		return nil
	}

	m.mu.Lock()
	sameIdentity := m.session != nil &&
		m.session.User.ID == session.User.ID &&
		m.profile != nil &&
		m.profile.SupabaseUID == session.User.ID
	if sameIdentity {
		// Same identity with the profile already loaded: just take the new
		// credential material, skip re-running the machine.
		s := *session
		m.session = &s
		m.mu.Unlock()
		return nil
	}
	m.mu.Unlock()

	m.setState(StateAuthenticating)
	return m.establish(ctx, *session)
}

// SignOut always clears local session state; a failing remote call is logged
// and never blocks the local transition.
func (m *Manager) SignOut(ctx context.Context) error {
	m.mu.Lock()
	var token string
	if m.session != nil {
		token = m.session.AccessToken
	}
	m.mu.Unlock()

	if token != "" {
		if err := m.provider.SignOut(ctx, token); err != nil {
			m.log.Warn().Err(err).Msg("remote sign-out failed, clearing local session anyway")
		}
	}

	m.clearLocal()
	m.setState(StateUnauthenticated)
	return nil
}

// UpdateProfile patches the profile keyed by the immutable supabase uid and
// overwrites the local copy with the server's canonical record.
func (m *Manager) UpdateProfile(ctx context.Context, patch models.UserProfilePatch) (models.UserProfile, error) {
	m.mu.Lock()
	if m.profile == nil {
		m.mu.Unlock()
		return models.UserProfile{}, ErrNotSignedIn
	}
	uid := m.profile.SupabaseUID
	m.mu.Unlock()

	updated, err := m.api.UpdateProfile(ctx, uid, patch)
	if err != nil {
		return models.UserProfile{}, err
	}

	m.mu.Lock()
	m.profile = &updated
	m.mu.Unlock()
	return updated, nil
}

// RefreshProfile re-fetches the profile for the current identity.
func (m *Manager) RefreshProfile(ctx context.Context) error {
	m.mu.Lock()
	if m.session == nil {
		m.mu.Unlock()
		return ErrNotSignedIn
	}
	identity := m.session.User
	m.mu.Unlock()
	return m.loadProfile(ctx, identity)
}

func (m *Manager) establish(ctx context.Context, session auth.Session) error {
	if !m.provider.IsAllowedEmail(session.User.Email) {
		if err := m.provider.SignOut(ctx, session.AccessToken); err != nil {
			m.log.Warn().Err(err).Msg("forced sign-out after domain rejection failed")
		}
		m.clearLocal()
		m.mu.Lock()
		m.notice = "Only institutional email addresses are allowed"
		m.mu.Unlock()
		m.setState(StateRejectedDomain)
		return auth.ErrDomainNotAllowed
	}

	m.mu.Lock()
	s := session
	m.session = &s
	m.notice = ""
	m.mu.Unlock()
	m.setState(StatePendingProfile)

	if err := m.loadProfile(ctx, session.User); err != nil {
		return err
	}
	m.setState(StateComplete)
	return nil
}

// loadProfile fetches the profile for an identity, provisioning it on 404.
// Concurrent calls for the same identity collapse into one request.
func (m *Manager) loadProfile(ctx context.Context, identity auth.Identity) error {
	result, err, _ := m.fetches.Do(identity.ID, func() (any, error) {
		profile, err := m.api.Profile(ctx, identity.ID)
		if err == nil {
			return profile, nil
		}
		if !client.IsNotFound(err) {
			return nil, err
		}

		// First sign-in: provision the profile from the identity. The branch
		// stays empty until the user picks one.
		return m.api.CreateProfile(ctx, models.NewUserProfile{
			SupabaseUID: identity.ID,
			Email:       identity.Email,
			FullName:    identity.FullName(),
			Branch:      "",
			Year:        1,
			Points:      0,
		})
	})
	if err != nil {
		m.log.Error().Err(err).Str("uid", identity.ID).Msg("profile load failed")
		return err
	}

	profile := result.(models.UserProfile)
	m.mu.Lock()
	m.profile = &profile
	m.mu.Unlock()
	return nil
}

func (m *Manager) failAuth(err error) {
	if err == auth.ErrDomainNotAllowed {
		m.mu.Lock()
		m.notice = "Only institutional email addresses are allowed"
		m.mu.Unlock()
		m.setState(StateRejectedDomain)
		return
	}
	m.setState(StateUnauthenticated)
}

func (m *Manager) clearLocal() {
	m.mu.Lock()
	m.session = nil
	m.profile = nil
	m.mu.Unlock()
}
