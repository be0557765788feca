// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/taibuivan/pwdregistry/internal/platform/apperr"
	"github.com/taibuivan/pwdregistry/internal/users/auth"
	"github.com/taibuivan/pwdregistry/internal/users/profile"
)

type memoryAccounts struct {
	mu       sync.Mutex
	byID     map[string]*auth.Account
	verified map[string]bool
}

func newMemoryAccounts() *memoryAccounts {
	return &memoryAccounts{byID: map[string]*auth.Account{}, verified: map[string]bool{}}
}

func (store *memoryAccounts) FindByID(_ context.Context, id string) (*auth.Account, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	account, ok := store.byID[id]
	if !ok {
		return nil, apperr.NotFound("Account")
	}
	clone := *account
	return &clone, nil
}

func (store *memoryAccounts) FindByEmail(_ context.Context, email string) (*auth.Account, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	for _, account := range store.byID {
		if account.Email == email {
			clone := *account
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Account")
}

func (store *memoryAccounts) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := store.FindByEmail(ctx, email)
	return err == nil, nil
}

func (store *memoryAccounts) Create(_ context.Context, account *auth.Account) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	clone := *account
	store.byID[account.ID] = &clone
	return nil
}

func (store *memoryAccounts) MarkVerified(_ context.Context, accountID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	account, ok := store.byID[accountID]
	if !ok {
		return apperr.NotFound("Account")
	}
	account.IsVerified = true
	return nil
}

type memorySessions struct {
	mu      sync.Mutex
	byID    map[string]*auth.Session
	findErr error
}

func newMemorySessions() *memorySessions {
	return &memorySessions{byID: map[string]*auth.Session{}}
}

func (store *memorySessions) Create(_ context.Context, session *auth.Session) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	clone := *session
	store.byID[session.ID] = &clone
	return nil
}

func (store *memorySessions) FindByTokenHash(_ context.Context, tokenHash string) (*auth.Session, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.findErr != nil {
		return nil, store.findErr
	}
	for _, session := range store.byID {
		if session.TokenHash == tokenHash && !session.IsRevoked && session.ExpiresAt.After(time.Now()) {
			clone := *session
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Session")
}

func (store *memorySessions) Revoke(_ context.Context, sessionID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if session, ok := store.byID[sessionID]; ok {
		session.IsRevoked = true
	}
	return nil
}

func (store *memorySessions) Rotate(_ context.Context, previousID string, next *auth.Session) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	previous, ok := store.byID[previousID]
	if !ok || previous.IsRevoked {
		return apperr.Unauthorized("Refresh token was already used")
	}
	previous.IsRevoked = true
	clone := *next
	store.byID[next.ID] = &clone
	return nil
}

func (store *memorySessions) RevokeAll(_ context.Context, accountID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	for _, session := range store.byID {
		if session.AccountID == accountID {
			session.IsRevoked = true
		}
	}
	return nil
}

func (store *memorySessions) DeleteExpired(context.Context) (int64, error) {
	return 0, nil
}

func (store *memorySessions) live() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	count := 0
	for _, session := range store.byID {
		if !session.IsRevoked {
			count++
		}
	}
	return count
}

type memoryTokens struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newMemoryTokens() *memoryTokens {
	return &memoryTokens{tokens: map[string]string{}}
}

func (store *memoryTokens) Set(_ context.Context, token, accountID string, _ time.Duration) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.tokens[token] = accountID
	return nil
}

func (store *memoryTokens) Get(_ context.Context, token string) (string, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	accountID, ok := store.tokens[token]
	if !ok {
		return "", apperr.NotFound("Confirmation token")
	}
	return accountID, nil
}

func (store *memoryTokens) Delete(_ context.Context, token string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.tokens, token)
	return nil
}

type memoryThrottle struct {
	mu    sync.Mutex
	taken map[string]bool
}

func (throttle *memoryThrottle) Acquire(_ context.Context, email string, _ time.Duration) (bool, error) {
	throttle.mu.Lock()
	defer throttle.mu.Unlock()
	if throttle.taken == nil {
		throttle.taken = map[string]bool{}
	}
	if throttle.taken[email] {
		return false, nil
	}
	throttle.taken[email] = true
	return true, nil
}

type memoryProfiles struct {
	mu        sync.Mutex
	profiles  map[string]*profile.Profile
	createErr error
}

func newMemoryProfiles() *memoryProfiles {
	return &memoryProfiles{profiles: map[string]*profile.Profile{}}
}

func (store *memoryProfiles) Create(_ context.Context, input profile.CreateInput) (*profile.Profile, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.createErr != nil {
		return nil, store.createErr
	}
	roleName := "user"
	if input.RoleID == 1 {
		roleName = "admin"
	}
	created := &profile.Profile{
		UserID:    input.UserID,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		RoleID:    input.RoleID,
		RoleName:  roleName,
	}
	store.profiles[input.UserID] = created
	return created, nil
}

func (store *memoryProfiles) Get(_ context.Context, userID string) (*profile.Profile, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	found, ok := store.profiles[userID]
	if !ok {
		return nil, apperr.NotFound("Profile")
	}
	return found, nil
}

func (store *memoryProfiles) promote(userID string) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.profiles[userID].RoleID = 1
	store.profiles[userID].RoleName = "Admin"
}

type recordingMailer struct {
	mu    sync.Mutex
	links map[string][]string
}

func (mailer *recordingMailer) SendConfirmation(_ context.Context, email, link string) error {
	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	if mailer.links == nil {
		mailer.links = map[string][]string{}
	}
	mailer.links[email] = append(mailer.links[email], link)
	return nil
}

func (mailer *recordingMailer) sent(email string) []string {
	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	return append([]string(nil), mailer.links[email]...)
}

// stubTokens encodes the claims into the token so tests can read them back.
type stubTokens struct{}

func (stubTokens) GenerateAccessToken(userID, _ string, role string, _ time.Duration) (string, error) {
	return "access." + userID + "." + role, nil
}

type fixture struct {
	accounts *memoryAccounts
	sessions *memorySessions
	tokens   *memoryTokens
	profiles *memoryProfiles
	mailer   *recordingMailer
	service  *auth.Service
}

func newFixture() *fixture {
	f := &fixture{
		accounts: newMemoryAccounts(),
		sessions: newMemorySessions(),
		tokens:   newMemoryTokens(),
		profiles: newMemoryProfiles(),
		mailer:   &recordingMailer{},
	}
	f.service = auth.NewService(
		f.accounts,
		f.sessions,
		f.tokens,
		&memoryThrottle{},
		stubTokens{},
		f.profiles,
		f.mailer,
		auth.Options{
			PublicBaseURL:      "https://registry.example",
			VerifyTokenTTL:     time.Hour,
			ResendConfirmDelay: time.Minute,
			DefaultRoleID:      2,
		},
	)
	return f
}

// confirmationToken pulls the token out of the last mailed link.
func (f *fixture) confirmationToken(email string) string {
	links := f.mailer.sent(email)
	if len(links) == 0 {
		return ""
	}
	link, err := url.Parse(links[len(links)-1])
	if err != nil {
		return ""
	}
	return link.Query().Get(auth.FieldToken)
}
