package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusops/course-reg-api/internal/models"
)

func TestOverlayDraftStoreLifecycle(t *testing.T) {
	store := NewOverlayDraftStore(time.Minute)
	draft := &models.OverlayDraft{ClassID: "c1", Week: 35}

	entry := store.Put("t1", draft, 3)
	require.NotEmpty(t, entry.ID)

	got := store.Get(entry.ID, "t1")
	require.NotNil(t, got)
	assert.Equal(t, 3, got.Version)
	assert.Same(t, draft, got.Draft)

	// A different tutor never sees the entry.
	assert.Nil(t, store.Get(entry.ID, "t2"))

	store.Delete(entry.ID)
	assert.Nil(t, store.Get(entry.ID, "t1"))
}

func TestOverlayDraftStoreExpiry(t *testing.T) {
	store := NewOverlayDraftStore(time.Minute)
	entry := store.Put("t1", &models.OverlayDraft{ClassID: "c1", Week: 35}, 0)
	entry.CreatedAt = time.Now().Add(-2 * time.Minute)

	assert.Nil(t, store.Get(entry.ID, "t1"))
}

func TestBuilderDraftStoreLifecycle(t *testing.T) {
	store := NewBuilderDraftStore(time.Minute)
	draft := &BuilderDraft{ClassID: "c1", TutorID: "t1"}

	entry := store.Put("t1", draft)
	got := store.Get(entry.ID, "t1")
	require.NotNil(t, got)
	assert.Same(t, draft, got.Draft)

	assert.Nil(t, store.Get(entry.ID, "t2"))
	assert.Nil(t, store.Get("missing", "t1"))
}
