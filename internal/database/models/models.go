package models

// LockedInfo pins a chat's title. PhotoFileID is a legacy field kept for
// chats locked by older deployments; only the title is actively enforced.
type LockedInfo struct {
	ChatID      int64  `db:"chat_id" json:"chat_id"`
	Title       string `db:"title" json:"title"`
	PhotoFileID string `db:"photo_file_id" json:"photo_file_id"`
}

// PolicySnapshot is the full persisted policy state, loaded in one pass
// at startup to seed the in-memory cache.
type PolicySnapshot struct {
	MutedUsers    []int64
	BannedUsers   []int64
	KnownChats    []int64
	BotMutedChats []int64
	NoPhotoChats  []int64
	LockedInfo    []LockedInfo
	BroadcastLock bool
	CleanInfo     bool
}
