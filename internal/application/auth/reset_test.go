package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/deskhive/deskhive/internal/domain"
)

func TestInitiateReset_UnknownEmail_InvalidCredentials(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _, _ := newSvcForTest(t)

	err := svc.InitiateReset(context.Background(), "missing@x.com")
	requireDomainCode(t, err, domainCode(domain.ErrInvalidCredentials()))
}

func TestInitiateReset_StoresCodeWithExpiryAndSends(t *testing.T) {
	t.Parallel()

	svc, users, _, _, codes, sender := newSvcForTest(t)
	users.put(domain.User{ID: "u1", Email: "e@x.com", Name: "eve"})
	codes.code = "zz99yy"

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return base })

	if err := svc.InitiateReset(context.Background(), "e@x.com"); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}

	if len(users.setCodes) != 1 {
		t.Fatalf("expected one stored code, got %d", len(users.setCodes))
	}
	sc := users.setCodes[0]
	if sc.code != "zz99yy" {
		t.Fatalf("unexpected code %q", sc.code)
	}
	if !sc.expires.Equal(base.Add(15 * time.Minute)) {
		t.Fatalf("expected expiry 15m ahead, got %s", sc.expires)
	}

	if len(sender.sent) != 1 || sender.sent[0].email != "e@x.com" || sender.sent[0].code != "zz99yy" {
		t.Fatalf("unexpected dispatch: %+v", sender.sent)
	}
}

func TestInitiateReset_SenderFailure_SurfacesError(t *testing.T) {
	t.Parallel()

	svc, users, _, _, _, sender := newSvcForTest(t)
	users.put(domain.User{ID: "u1", Email: "e@x.com", Name: "eve"})
	sender.err = errors.New("smtp down")

	err := svc.InitiateReset(context.Background(), "e@x.com")
	requireDomainCode(t, err, "send_failed")

	var de *domain.Error
	if !errors.As(err, &de) || de.Kind != domain.KindInternal {
		t.Fatalf("dispatch failure must be an internal error, got %+v", err)
	}
}

func TestInitiateReset_GeneratorFailure(t *testing.T) {
	t.Parallel()

	svc, users, _, _, codes, _ := newSvcForTest(t)
	users.put(domain.User{ID: "u1", Email: "e@x.com", Name: "eve"})
	codes.err = errors.New("entropy")

	err := svc.InitiateReset(context.Background(), "e@x.com")
	requireDomainCode(t, err, "random_failed")
}

func TestVerifyResetCode_HappyPath_DoesNotConsume(t *testing.T) {
	t.Parallel()

	svc, users, _, _, _, _ := newSvcForTest(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return base })

	users.put(domain.User{
		ID: "u1", Email: "e@x.com", Name: "eve",
		ResetCode: "zz99yy", ResetCodeExpires: base.Add(10 * time.Minute),
	})

	if err := svc.VerifyResetCode(context.Background(), "e@x.com", "zz99yy"); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	// re-verification still works: verify is read-only
	if err := svc.VerifyResetCode(context.Background(), "e@x.com", "zz99yy"); err != nil {
		t.Fatalf("expected nil on re-verify, got %v", err)
	}
}

func TestVerifyResetCode_WrongCode(t *testing.T) {
	t.Parallel()

	svc, users, _, _, _, _ := newSvcForTest(t)
	base := time.Now()
	users.put(domain.User{
		ID: "u1", Email: "e@x.com", Name: "eve",
		ResetCode: "zz99yy", ResetCodeExpires: base.Add(10 * time.Minute),
	})

	err := svc.VerifyResetCode(context.Background(), "e@x.com", "nope00")
	requireDomainCode(t, err, domainCode(domain.ErrInvalidOrExpiredCode()))
}

func TestVerifyResetCode_ExpiredCode_TreatedAsAbsent(t *testing.T) {
	t.Parallel()

	svc, users, _, _, _, _ := newSvcForTest(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	users.put(domain.User{
		ID: "u1", Email: "e@x.com", Name: "eve",
		ResetCode: "zz99yy", ResetCodeExpires: base.Add(15 * time.Minute),
	})

	// correct code, submitted after the window
	svc.WithClock(func() time.Time { return base.Add(16 * time.Minute) })
	err := svc.VerifyResetCode(context.Background(), "e@x.com", "zz99yy")
	requireDomainCode(t, err, domainCode(domain.ErrInvalidOrExpiredCode()))
}

func TestCompleteReset_EndToEnd(t *testing.T) {
	t.Parallel()

	svc, users, _, _, _, _ := newSvcForTest(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return base })

	users.put(domain.User{
		ID: "u1", Email: "e@x.com", Name: "eve", PasswordHash: "hash:old",
		ResetCode: "zz99yy", ResetCodeExpires: base.Add(10 * time.Minute),
	})

	if err := svc.CompleteReset(context.Background(), "e@x.com", "zz99yy", "newpw"); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}

	u := users.byID["u1"]
	if u.PasswordHash != "hash:newpw" {
		t.Fatalf("expected new hash, got %q", u.PasswordHash)
	}
	if u.ResetCode != "" || !u.ResetCodeExpires.IsZero() {
		t.Fatalf("both reset fields must be cleared together: %+v", u)
	}

	// old password no longer authenticates, new one does
	if _, err := svc.Login(context.Background(), "e@x.com", "old"); err == nil {
		t.Fatalf("old password must no longer authenticate")
	}
	if _, err := svc.Login(context.Background(), "e@x.com", "newpw"); err != nil {
		t.Fatalf("new password must authenticate: %v", err)
	}

	// second completion with the now-cleared code fails
	err := svc.CompleteReset(context.Background(), "e@x.com", "zz99yy", "another")
	requireDomainCode(t, err, domainCode(domain.ErrInvalidOrExpiredCode()))
}

func TestCompleteReset_ExpiredCode(t *testing.T) {
	t.Parallel()

	svc, users, _, _, _, _ := newSvcForTest(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	users.put(domain.User{
		ID: "u1", Email: "e@x.com", Name: "eve",
		ResetCode: "zz99yy", ResetCodeExpires: base.Add(15 * time.Minute),
	})

	svc.WithClock(func() time.Time { return base.Add(20 * time.Minute) })
	err := svc.CompleteReset(context.Background(), "e@x.com", "zz99yy", "newpw")
	requireDomainCode(t, err, domainCode(domain.ErrInvalidOrExpiredCode()))
}

func TestCompleteReset_RaceLost_CompareAndClearFails(t *testing.T) {
	t.Parallel()

	svc, users, _, _, _, _ := newSvcForTest(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return base })

	users.put(domain.User{
		ID: "u1", Email: "e@x.com", Name: "eve",
		ResetCode: "zz99yy", ResetCodeExpires: base.Add(10 * time.Minute),
	})

	// Simulate a concurrent completion between the read and the write:
	// the stored code is gone by the time the conditional update runs.
	users.completeErr = nil
	first := svc.CompleteReset(context.Background(), "e@x.com", "zz99yy", "pw-a")
	if first != nil {
		t.Fatalf("first completion should win: %v", first)
	}
	second := svc.CompleteReset(context.Background(), "e@x.com", "zz99yy", "pw-b")
	requireDomainCode(t, second, domainCode(domain.ErrInvalidOrExpiredCode()))
}

func TestCompleteReset_DoesNotTrustVerify(t *testing.T) {
	t.Parallel()

	svc, users, _, _, _, _ := newSvcForTest(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return base })

	users.put(domain.User{
		ID: "u1", Email: "e@x.com", Name: "eve",
		ResetCode: "zz99yy", ResetCodeExpires: base.Add(10 * time.Minute),
	})

	// verify succeeds, then the code expires before completion
	if err := svc.VerifyResetCode(context.Background(), "e@x.com", "zz99yy"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	svc.WithClock(func() time.Time { return base.Add(20 * time.Minute) })
	err := svc.CompleteReset(context.Background(), "e@x.com", "zz99yy", "newpw")
	requireDomainCode(t, err, domainCode(domain.ErrInvalidOrExpiredCode()))
}
