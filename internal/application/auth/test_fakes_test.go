package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/deskhive/deskhive/internal/domain"
)

/*
Fakes for ports
*/

type fakeUserStore struct {
	mu sync.Mutex

	byID map[string]domain.User

	// injected errors (if set, method returns error)
	findErr     error
	createErr   error
	updateErr   error
	deleteErr   error
	setCodeErr  error
	completeErr error

	// record calls
	setCodes   []struct {
		id, code string
		expires  time.Time
	}
	completed []struct{ id, hash, code string }
	deleted   []string
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byID: map[string]domain.User{}}
}

func (f *fakeUserStore) put(u domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[u.ID] = u
}

func (f *fakeUserStore) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.findErr != nil {
		return domain.User{}, f.findErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (f *fakeUserStore) FindByEmailOrName(ctx context.Context, email, name string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.findErr != nil {
		return domain.User{}, f.findErr
	}
	for _, u := range f.byID {
		if u.Email == email || u.Name == name {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (f *fakeUserStore) FindByID(ctx context.Context, id string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.findErr != nil {
		return domain.User{}, f.findErr
	}
	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeUserStore) Create(ctx context.Context, u domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return domain.User{}, f.createErr
	}
	for _, ex := range f.byID {
		if ex.Email == u.Email || ex.Name == u.Name {
			return domain.User{}, domain.ErrUserExists()
		}
	}
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUserStore) Update(ctx context.Context, id string, upd UserUpdate) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updateErr != nil {
		return domain.User{}, f.updateErr
	}
	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	if upd.UserType != nil {
		u.UserType = *upd.UserType
	}
	if upd.Image != nil {
		u.Image = *upd.Image
	}
	if upd.Verified != nil {
		u.Verified = *upd.Verified
	}
	f.byID[id] = u
	return u, nil
}

func (f *fakeUserStore) List(ctx context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.findErr != nil {
		return nil, f.findErr
	}
	out := make([]domain.User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.byID[id]; !ok {
		return domain.ErrUserNotFound()
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeUserStore) SetResetCode(ctx context.Context, userID, code string, expires time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.setCodeErr != nil {
		return f.setCodeErr
	}
	u, ok := f.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.ResetCode = code
	u.ResetCodeExpires = expires
	f.byID[userID] = u
	f.setCodes = append(f.setCodes, struct {
		id, code string
		expires  time.Time
	}{userID, code, expires})
	return nil
}

func (f *fakeUserStore) CompleteReset(ctx context.Context, userID, newHash, code string, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.completeErr != nil {
		return false, f.completeErr
	}
	u, ok := f.byID[userID]
	if !ok {
		return false, nil
	}
	// compare-and-clear semantics
	if u.ResetCode != code || u.ResetCodeExpires.IsZero() || !u.ResetCodeExpires.After(now) {
		return false, nil
	}
	u.PasswordHash = newHash
	u.ResetCode = ""
	u.ResetCodeExpires = time.Time{}
	f.byID[userID] = u
	f.completed = append(f.completed, struct{ id, hash, code string }{userID, newHash, code})
	return true, nil
}

type fakeHasher struct {
	hashFn    func(pw string) (string, error)
	compareFn func(hash, pw string) error
}

func (f *fakeHasher) Hash(pw string) (string, error) {
	if f.hashFn != nil {
		return f.hashFn(pw)
	}
	return "hash:" + pw, nil
}

func (f *fakeHasher) Compare(hash, pw string) error {
	if f.compareFn != nil {
		return f.compareFn(hash, pw)
	}
	if hash != "hash:"+pw {
		return errors.New("mismatch")
	}
	return nil
}

type fakeSigner struct {
	signErr error
	signed  []struct {
		id, role string
		ttl      time.Duration
	}
}

func (f *fakeSigner) SignSessionToken(userID, role string, ttl time.Duration) (string, error) {
	if f.signErr != nil {
		return "", f.signErr
	}
	f.signed = append(f.signed, struct {
		id, role string
		ttl      time.Duration
	}{userID, role, ttl})
	return fmt.Sprintf("tok:%s:%s", userID, role), nil
}

func (f *fakeSigner) VerifySessionToken(token string) (TokenClaims, error) {
	return TokenClaims{}, errors.New("not used")
}

type fakeCodes struct {
	code string
	err  error
}

func (f *fakeCodes) Generate() (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.code == "" {
		return "a1b2c3", nil
	}
	return f.code, nil
}

type fakeSender struct {
	err  error
	sent []struct{ email, code string }
}

func (f *fakeSender) SendResetCode(ctx context.Context, email, code string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, struct{ email, code string }{email, code})
	return nil
}

/*
Shared helpers
*/

func newSvcForTest(t *testing.T) (*Service, *fakeUserStore, *fakeHasher, *fakeSigner, *fakeCodes, *fakeSender) {
	t.Helper()

	users := newFakeUserStore()
	hasher := &fakeHasher{}
	signer := &fakeSigner{}
	codes := &fakeCodes{}
	sender := &fakeSender{}

	svc := NewService(users, hasher, signer, codes, sender, Config{
		SessionTTL:   time.Hour,
		ResetCodeTTL: 15 * time.Minute,
	})
	return svc, users, hasher, signer, codes, sender
}

func domainCode(err *domain.Error) string { return err.Code }

func requireDomainCode(t *testing.T, err error, code string) {
	t.Helper()

	var de *domain.Error
	if !errors.As(err, &de) {
		t.Fatalf("expected domain error, got %T: %v", err, err)
	}
	if de.Code != code {
		t.Fatalf("expected code %q, got %q (%v)", code, de.Code, err)
	}
}
