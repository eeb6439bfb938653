package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tgwarden/internal/database/models"
)

func openTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(filepath.Join(t.TempDir(), "warden.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSetTablesRoundTrip(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.AddMutedUser(42))
	require.NoError(t, db.AddMutedUser(42), "insert-if-absent is idempotent")
	require.NoError(t, db.AddBannedUser(7))
	require.NoError(t, db.AddKnownChat(-100))
	require.NoError(t, db.AddBotMutedChat(-100))
	require.NoError(t, db.AddNoPhotoChat(-200))

	muted, err := db.GetMutedUsers()
	require.NoError(t, err)
	assert.Equal(t, []int64{42}, muted)

	banned, err := db.GetBannedUsers()
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, banned)

	require.NoError(t, db.RemoveMutedUser(42))
	muted, err = db.GetMutedUsers()
	require.NoError(t, err)
	assert.Empty(t, muted)

	known, err := db.GetKnownChats()
	require.NoError(t, err)
	assert.Equal(t, []int64{-100}, known)
}

func TestLockedInfoUpsert(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.UpsertLockedInfo(models.LockedInfo{ChatID: -1, Title: "Old"}))
	require.NoError(t, db.UpsertLockedInfo(models.LockedInfo{ChatID: -1, Title: "New", PhotoFileID: "f1"}))

	infos, err := db.GetLockedInfo()
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "New", infos[0].Title)
	assert.Equal(t, "f1", infos[0].PhotoFileID)

	require.NoError(t, db.DeleteLockedInfo(-1))
	infos, err = db.GetLockedInfo()
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestSingletonFlags(t *testing.T) {
	db := openTestDB(t)

	// Seeded off by the migration
	enabled, err := db.GetBroadcastLock()
	require.NoError(t, err)
	assert.False(t, enabled)

	require.NoError(t, db.SetBroadcastLock(true))
	enabled, err = db.GetBroadcastLock()
	require.NoError(t, err)
	assert.True(t, enabled)

	require.NoError(t, db.SetCleanInfo(true))
	enabled, err = db.GetCleanInfo()
	require.NoError(t, err)
	assert.True(t, enabled)
}

func TestLoadSnapshot(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.AddMutedUser(1))
	require.NoError(t, db.AddBannedUser(2))
	require.NoError(t, db.AddKnownChat(-3))
	require.NoError(t, db.UpsertLockedInfo(models.LockedInfo{ChatID: -3, Title: "T"}))
	require.NoError(t, db.SetCleanInfo(true))

	snap, err := db.LoadSnapshot()
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, snap.MutedUsers)
	assert.Equal(t, []int64{2}, snap.BannedUsers)
	assert.Equal(t, []int64{-3}, snap.KnownChats)
	require.Len(t, snap.LockedInfo, 1)
	assert.Equal(t, "T", snap.LockedInfo[0].Title)
	assert.False(t, snap.BroadcastLock)
	assert.True(t, snap.CleanInfo)
}

func TestMigrateIsRerunnable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "warden.db")

	db, err := NewDatabase(path)
	require.NoError(t, err)
	require.NoError(t, db.AddMutedUser(9))
	require.NoError(t, db.Close())

	// Reopening runs the migrations again over existing tables
	db, err = NewDatabase(path)
	require.NoError(t, err)
	defer db.Close()

	muted, err := db.GetMutedUsers()
	require.NoError(t, err)
	assert.Equal(t, []int64{9}, muted)
}
