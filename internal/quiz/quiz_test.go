package quiz

import (
	"errors"
	"testing"
)

func TestAdvanceWithoutSession(t *testing.T) {
	t.Parallel()

	store := NewStore()
	if err := store.Advance("fresh"); err != nil {
		t.Errorf("a session that never submitted must advance freely, got %v", err)
	}
}

func TestCorrectAnswerAdvances(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.RecordSubmit("s1", "pp-what", true)

	session, ok := store.Get("s1")
	if !ok || session.LastOutcome != OutcomeCorrect {
		t.Fatalf("expected a correct session, got %+v (ok=%v)", session, ok)
	}

	if err := store.Advance("s1"); err != nil {
		t.Fatalf("correct answer must advance, got %v", err)
	}

	// Advance consumes the session.
	if _, ok := store.Get("s1"); ok {
		t.Error("session must be cleared after advancing")
	}
}

func TestWrongAnswerBlocksUntilSettled(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.RecordSubmit("s1", "pp-what", false)

	err := store.Advance("s1")
	if !errors.Is(err, ErrPendingPayment) {
		t.Fatalf("expected ErrPendingPayment, got %v", err)
	}

	// Still blocked: nothing changed.
	if !errors.Is(store.Advance("s1"), ErrPendingPayment) {
		t.Fatal("a second advance attempt must still be blocked")
	}

	store.RecordSettle("s1", "pp-what")

	session, _ := store.Get("s1")
	if !session.PaymentSettled {
		t.Fatal("expected the session to be marked settled")
	}

	if err := store.Advance("s1"); err != nil {
		t.Errorf("settled wrong answer must advance, got %v", err)
	}
}

func TestSettleWithoutSubmitCreatesSession(t *testing.T) {
	t.Parallel()

	// A settle can land on a restarted process that lost the submit.
	store := NewStore()
	store.RecordSettle("s1", "pp-what")

	session, ok := store.Get("s1")
	if !ok {
		t.Fatal("expected a session after settle")
	}
	if session.LastOutcome != OutcomeWrong || !session.PaymentSettled {
		t.Errorf("expected a settled wrong session, got %+v", session)
	}

	if err := store.Advance("s1"); err != nil {
		t.Errorf("settled session must advance, got %v", err)
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.RecordSubmit("alice", "pp-what", false)
	store.RecordSubmit("bob", "tok-ata", true)

	if err := store.Advance("bob"); err != nil {
		t.Errorf("bob's correct answer must advance, got %v", err)
	}
	if !errors.Is(store.Advance("alice"), ErrPendingPayment) {
		t.Error("alice's unpaid wrong answer must stay blocked")
	}
}

func TestResubmitReplacesOutcome(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.RecordSubmit("s1", "pp-what", false)
	store.RecordSubmit("s1", "pp-what", true)

	// The newer submit wins; no payment is pending anymore.
	if err := store.Advance("s1"); err != nil {
		t.Errorf("latest outcome was correct, expected advance, got %v", err)
	}
}
