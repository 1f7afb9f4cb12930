package history

import (
	"context"
	stderrors "errors"
	"testing"

	"cyrus/internal/errors"
	"cyrus/internal/types"
)

type fakeLister struct {
	list types.SessionList
	err  error
}

func (f *fakeLister) ListSessions(ctx context.Context) (types.SessionList, error) {
	return f.list, f.err
}

func newTestStore(t *testing.T, lister SessionLister) *Store {
	t.Helper()
	logger, _ := errors.New("error")
	return NewStore(lister, logger)
}

func sampleSessions() types.SessionList {
	return types.SessionList{
		Sessions: []types.Session{
			{ID: "s1", JDSnippet: "Backend engineer at Acme"},
			{ID: "s2", JDSnippet: "Platform engineer at Initech"},
		},
	}
}

func TestLoadSuccess(t *testing.T) {
	store := newTestStore(t, &fakeLister{list: sampleSessions()})

	sessions := store.Load(context.Background())
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	if !store.Loaded() {
		t.Error("Loaded() should be true after fetch")
	}
	if sessions[0].ID != "s1" {
		t.Errorf("first session = %s, want s1", sessions[0].ID)
	}
}

func TestLoadFailureIsSoft(t *testing.T) {
	store := newTestStore(t, &fakeLister{err: stderrors.New("service down")})

	sessions := store.Load(context.Background())
	if sessions != nil {
		t.Errorf("got %d sessions, want none on failure", len(sessions))
	}
	if !store.Loaded() {
		t.Error("Loaded() should be true even when the fetch fails")
	}
	if store.Sessions() != nil {
		t.Error("cached sessions should be empty after a failed fetch")
	}
}

func TestSelectAndBack(t *testing.T) {
	store := newTestStore(t, &fakeLister{list: sampleSessions()})
	store.Load(context.Background())

	session, err := store.Select(1)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if session.ID != "s2" {
		t.Errorf("selected = %s, want s2", session.ID)
	}

	selected, ok := store.Selected()
	if !ok || selected.ID != "s2" {
		t.Errorf("Selected() = %v %v, want s2 true", selected.ID, ok)
	}

	store.Back()
	if _, ok := store.Selected(); ok {
		t.Error("Back() should clear the selection")
	}
}

func TestSelectOutOfRange(t *testing.T) {
	store := newTestStore(t, &fakeLister{list: sampleSessions()})
	store.Load(context.Background())

	for _, index := range []int{-1, 2, 100} {
		if _, err := store.Select(index); err == nil {
			t.Errorf("Select(%d) should fail", index)
		}
	}
}

func TestReloadClearsSelection(t *testing.T) {
	lister := &fakeLister{list: sampleSessions()}
	store := newTestStore(t, lister)
	store.Load(context.Background())

	if _, err := store.Select(0); err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	store.Load(context.Background())
	if _, ok := store.Selected(); ok {
		t.Error("reload should return to the list view")
	}
}
