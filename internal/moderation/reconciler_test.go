package moderation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tgwarden/internal/policy"
	"tgwarden/internal/types"
)

func newTestReconciler(t *testing.T) (*Reconciler, *fakeTransport, *policy.Cache) {
	t.Helper()
	transport := newFakeTransport()
	cache := policy.NewCache(policy.NewMemoryStore())
	require.NoError(t, cache.Load())
	r := NewReconciler(transport, cache, time.Minute, time.Second)
	return r, transport, cache
}

func TestSweepRestoresDriftedTitle(t *testing.T) {
	r, transport, cache := newTestReconciler(t)
	cache.AddKnownChat(-10)
	cache.SetLockedTitle(lockedTitle(-10, "Desired"))
	transport.chats[-10] = types.ChatInfo{ID: -10, Kind: types.ChatKindChannel, Title: "Hijacked"}

	r.Sweep()

	assert.Equal(t, []string{"settitle -10 Desired"}, transport.calls, "exactly one corrective call")
}

func TestSweepIdempotentOnMatchingTitle(t *testing.T) {
	r, transport, cache := newTestReconciler(t)
	cache.AddKnownChat(-10)
	cache.SetLockedTitle(lockedTitle(-10, "Desired"))
	transport.chats[-10] = types.ChatInfo{ID: -10, Kind: types.ChatKindChannel, Title: "Desired"}

	r.Sweep()

	assert.Empty(t, transport.calls, "no diff, no call")
}

func TestSweepIgnoresUnlockedChannels(t *testing.T) {
	r, transport, cache := newTestReconciler(t)
	cache.AddKnownChat(-10)
	transport.chats[-10] = types.ChatInfo{ID: -10, Kind: types.ChatKindChannel, Title: "Whatever"}

	r.Sweep()

	assert.Empty(t, transport.calls)
}

func TestSweepDeletesPhotoOnlyWhenPresent(t *testing.T) {
	r, transport, cache := newTestReconciler(t)
	cache.AddKnownChat(-10)
	cache.AddKnownChat(-11)
	cache.SetNoPhotoChat(-10)
	cache.SetNoPhotoChat(-11)
	transport.chats[-10] = types.ChatInfo{ID: -10, Kind: types.ChatKindChannel, PhotoPresent: true}
	transport.chats[-11] = types.ChatInfo{ID: -11, Kind: types.ChatKindChannel}

	r.Sweep()

	assert.Equal(t, 1, transport.count("delphoto -10"))
	assert.Equal(t, 0, transport.count("delphoto -11"))
}

func TestSweepSkipsGroupsAndInaccessibleChats(t *testing.T) {
	r, transport, cache := newTestReconciler(t)
	cache.AddKnownChat(-10) // inaccessible: not in transport.chats
	cache.AddKnownChat(-11)
	cache.AddKnownChat(-12)
	cache.SetLockedTitle(lockedTitle(-11, "Desired"))
	cache.SetLockedTitle(lockedTitle(-12, "Desired"))
	transport.chats[-11] = types.ChatInfo{ID: -11, Kind: types.ChatKindSupergroup, Title: "Other"}
	transport.chats[-12] = types.ChatInfo{ID: -12, Kind: types.ChatKindChannel, Title: "Other"}

	r.Sweep()

	// The inaccessible chat and the supergroup are skipped, the sweep
	// still reaches the remaining channel.
	assert.Equal(t, []string{"settitle -12 Desired"}, transport.calls)
}

func TestReconcilerStartStop(t *testing.T) {
	r, _, _ := newTestReconciler(t)
	r.Start()
	r.Stop()
}
