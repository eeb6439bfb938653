package policy

import (
	"log"
	"sync"

	"tgwarden/internal/database/models"
)

// Store is the durable side of the policy state. *database.Database
// implements it; tests substitute a fake.
type Store interface {
	AddMutedUser(userID int64) error
	RemoveMutedUser(userID int64) error
	AddBannedUser(userID int64) error
	RemoveBannedUser(userID int64) error
	AddKnownChat(chatID int64) error
	AddBotMutedChat(chatID int64) error
	RemoveBotMutedChat(chatID int64) error
	AddNoPhotoChat(chatID int64) error
	RemoveNoPhotoChat(chatID int64) error
	UpsertLockedInfo(info models.LockedInfo) error
	DeleteLockedInfo(chatID int64) error
	SetBroadcastLock(enabled bool) error
	SetCleanInfo(enabled bool) error
	LoadSnapshot() (*models.PolicySnapshot, error)
}

// Cache is the in-process mirror of the policy store. It is populated
// once via Load before any event is processed; after that every mutator
// updates memory first and then writes through to the store. Readers
// only ever see memory. A failed store write keeps the memory value and
// is logged (the store wins again on the next restart).
type Cache struct {
	store Store

	mu            sync.RWMutex
	muted         map[int64]struct{}
	banned        map[int64]struct{}
	knownChats    map[int64]struct{}
	botMutedChats map[int64]struct{}
	noPhotoChats  map[int64]struct{}
	lockedInfo    map[int64]models.LockedInfo
	broadcastLock bool
	cleanInfo     bool
}

func NewCache(store Store) *Cache {
	return &Cache{
		store:         store,
		muted:         make(map[int64]struct{}),
		banned:        make(map[int64]struct{}),
		knownChats:    make(map[int64]struct{}),
		botMutedChats: make(map[int64]struct{}),
		noPhotoChats:  make(map[int64]struct{}),
		lockedInfo:    make(map[int64]models.LockedInfo),
	}
}

// Load rebuilds the cache from the store. Called once at startup; a
// failure here must be treated as fatal by the caller (no partial
// startup with an empty cache).
func (c *Cache) Load() error {
	snap, err := c.store.LoadSnapshot()
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.muted = idSet(snap.MutedUsers)
	c.banned = idSet(snap.BannedUsers)
	c.knownChats = idSet(snap.KnownChats)
	c.botMutedChats = idSet(snap.BotMutedChats)
	c.noPhotoChats = idSet(snap.NoPhotoChats)
	c.lockedInfo = make(map[int64]models.LockedInfo, len(snap.LockedInfo))
	for _, info := range snap.LockedInfo {
		c.lockedInfo[info.ChatID] = info
	}
	c.broadcastLock = snap.BroadcastLock
	c.cleanInfo = snap.CleanInfo

	log.Printf("✅ Policy cache loaded: %d muted, %d banned, %d known chats, %d bot-muted, %d no-photo, %d locked titles",
		len(c.muted), len(c.banned), len(c.knownChats), len(c.botMutedChats), len(c.noPhotoChats), len(c.lockedInfo))
	return nil
}

func idSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func logStoreErr(op string, err error) {
	if err != nil {
		log.Printf("⚠️ Policy store write failed (%s): %v", op, err)
	}
}

// Mutators (memory first, then write-through)

func (c *Cache) AddMute(userID int64) {
	c.mu.Lock()
	c.muted[userID] = struct{}{}
	c.mu.Unlock()
	logStoreErr("add mute", c.store.AddMutedUser(userID))
}

func (c *Cache) RemoveMute(userID int64) {
	c.mu.Lock()
	delete(c.muted, userID)
	c.mu.Unlock()
	logStoreErr("remove mute", c.store.RemoveMutedUser(userID))
}

func (c *Cache) AddBan(userID int64) {
	c.mu.Lock()
	c.banned[userID] = struct{}{}
	c.mu.Unlock()
	logStoreErr("add ban", c.store.AddBannedUser(userID))
}

func (c *Cache) RemoveBan(userID int64) {
	c.mu.Lock()
	delete(c.banned, userID)
	c.mu.Unlock()
	logStoreErr("remove ban", c.store.RemoveBannedUser(userID))
}

func (c *Cache) AddKnownChat(chatID int64) {
	c.mu.Lock()
	_, exists := c.knownChats[chatID]
	c.knownChats[chatID] = struct{}{}
	c.mu.Unlock()
	if !exists {
		logStoreErr("add known chat", c.store.AddKnownChat(chatID))
	}
}

func (c *Cache) SetBotMuteChat(chatID int64) {
	c.mu.Lock()
	c.botMutedChats[chatID] = struct{}{}
	c.mu.Unlock()
	logStoreErr("set bot mute", c.store.AddBotMutedChat(chatID))
}

func (c *Cache) UnsetBotMuteChat(chatID int64) {
	c.mu.Lock()
	delete(c.botMutedChats, chatID)
	c.mu.Unlock()
	logStoreErr("unset bot mute", c.store.RemoveBotMutedChat(chatID))
}

func (c *Cache) SetLockedTitle(info models.LockedInfo) {
	c.mu.Lock()
	c.lockedInfo[info.ChatID] = info
	c.mu.Unlock()
	logStoreErr("set locked title", c.store.UpsertLockedInfo(info))
}

func (c *Cache) ClearLockedTitle(chatID int64) {
	c.mu.Lock()
	delete(c.lockedInfo, chatID)
	c.mu.Unlock()
	logStoreErr("clear locked title", c.store.DeleteLockedInfo(chatID))
}

// ClearAllLockedTitles removes every title lock (the /unlockinfo sweep)
func (c *Cache) ClearAllLockedTitles() {
	c.mu.Lock()
	ids := make([]int64, 0, len(c.lockedInfo))
	for id := range c.lockedInfo {
		ids = append(ids, id)
	}
	c.lockedInfo = make(map[int64]models.LockedInfo)
	c.mu.Unlock()
	for _, id := range ids {
		logStoreErr("clear locked title", c.store.DeleteLockedInfo(id))
	}
}

func (c *Cache) SetNoPhotoChat(chatID int64) {
	c.mu.Lock()
	c.noPhotoChats[chatID] = struct{}{}
	c.mu.Unlock()
	logStoreErr("set no-photo", c.store.AddNoPhotoChat(chatID))
}

func (c *Cache) UnsetNoPhotoChat(chatID int64) {
	c.mu.Lock()
	delete(c.noPhotoChats, chatID)
	c.mu.Unlock()
	logStoreErr("unset no-photo", c.store.RemoveNoPhotoChat(chatID))
}

// UnsetAllNoPhotoChats clears the no-photo set (the /unlocknophoto sweep)
func (c *Cache) UnsetAllNoPhotoChats() {
	c.mu.Lock()
	ids := make([]int64, 0, len(c.noPhotoChats))
	for id := range c.noPhotoChats {
		ids = append(ids, id)
	}
	c.noPhotoChats = make(map[int64]struct{})
	c.mu.Unlock()
	for _, id := range ids {
		logStoreErr("unset no-photo", c.store.RemoveNoPhotoChat(id))
	}
}

func (c *Cache) SetBroadcastLock(enabled bool) {
	c.mu.Lock()
	c.broadcastLock = enabled
	c.mu.Unlock()
	logStoreErr("set broadcast lock", c.store.SetBroadcastLock(enabled))
}

func (c *Cache) SetCleanInfo(enabled bool) {
	c.mu.Lock()
	c.cleanInfo = enabled
	c.mu.Unlock()
	logStoreErr("set clean info", c.store.SetCleanInfo(enabled))
}

// Readers (memory only, never the store)

func (c *Cache) IsMuted(userID int64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.muted[userID]
	return ok
}

func (c *Cache) IsBanned(userID int64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.banned[userID]
	return ok
}

func (c *Cache) IsBotMutedChat(chatID int64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.botMutedChats[chatID]
	return ok
}

func (c *Cache) IsNoPhotoChat(chatID int64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.noPhotoChats[chatID]
	return ok
}

// LockedTitle returns the pinned title record for a chat, if any
func (c *Cache) LockedTitle(chatID int64) (models.LockedInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	info, ok := c.lockedInfo[chatID]
	return info, ok
}

// LockedChats returns the ids of all chats with a pinned title
func (c *Cache) LockedChats() []int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]int64, 0, len(c.lockedInfo))
	for id := range c.lockedInfo {
		ids = append(ids, id)
	}
	return ids
}

func (c *Cache) BroadcastLock() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.broadcastLock
}

func (c *Cache) CleanInfo() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cleanInfo
}

// KnownChats returns a copy of the known-chats registry
func (c *Cache) KnownChats() []int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]int64, 0, len(c.knownChats))
	for id := range c.knownChats {
		ids = append(ids, id)
	}
	return ids
}
