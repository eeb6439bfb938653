package policy

import (
	"sync"

	"tgwarden/internal/database/models"
)

// MemoryStore is an in-memory Store. It backs tests and lets the cache
// layer be exercised without a database file.
type MemoryStore struct {
	mu            sync.Mutex
	muted         map[int64]struct{}
	banned        map[int64]struct{}
	knownChats    map[int64]struct{}
	botMutedChats map[int64]struct{}
	noPhotoChats  map[int64]struct{}
	lockedInfo    map[int64]models.LockedInfo
	broadcastLock bool
	cleanInfo     bool

	// Err, when set, is returned by every write; simulates a store
	// outage after startup.
	Err error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		muted:         make(map[int64]struct{}),
		banned:        make(map[int64]struct{}),
		knownChats:    make(map[int64]struct{}),
		botMutedChats: make(map[int64]struct{}),
		noPhotoChats:  make(map[int64]struct{}),
		lockedInfo:    make(map[int64]models.LockedInfo),
	}
}

func (s *MemoryStore) add(set map[int64]struct{}, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	set[id] = struct{}{}
	return nil
}

func (s *MemoryStore) remove(set map[int64]struct{}, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	delete(set, id)
	return nil
}

func (s *MemoryStore) AddMutedUser(id int64) error    { return s.add(s.muted, id) }
func (s *MemoryStore) RemoveMutedUser(id int64) error { return s.remove(s.muted, id) }
func (s *MemoryStore) AddBannedUser(id int64) error   { return s.add(s.banned, id) }
func (s *MemoryStore) RemoveBannedUser(id int64) error {
	return s.remove(s.banned, id)
}
func (s *MemoryStore) AddKnownChat(id int64) error    { return s.add(s.knownChats, id) }
func (s *MemoryStore) AddBotMutedChat(id int64) error { return s.add(s.botMutedChats, id) }
func (s *MemoryStore) RemoveBotMutedChat(id int64) error {
	return s.remove(s.botMutedChats, id)
}
func (s *MemoryStore) AddNoPhotoChat(id int64) error { return s.add(s.noPhotoChats, id) }
func (s *MemoryStore) RemoveNoPhotoChat(id int64) error {
	return s.remove(s.noPhotoChats, id)
}

func (s *MemoryStore) UpsertLockedInfo(info models.LockedInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.lockedInfo[info.ChatID] = info
	return nil
}

func (s *MemoryStore) DeleteLockedInfo(chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	delete(s.lockedInfo, chatID)
	return nil
}

func (s *MemoryStore) SetBroadcastLock(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.broadcastLock = enabled
	return nil
}

func (s *MemoryStore) SetCleanInfo(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.cleanInfo = enabled
	return nil
}

func (s *MemoryStore) LoadSnapshot() (*models.PolicySnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := &models.PolicySnapshot{
		MutedUsers:    setIDs(s.muted),
		BannedUsers:   setIDs(s.banned),
		KnownChats:    setIDs(s.knownChats),
		BotMutedChats: setIDs(s.botMutedChats),
		NoPhotoChats:  setIDs(s.noPhotoChats),
		BroadcastLock: s.broadcastLock,
		CleanInfo:     s.cleanInfo,
	}
	for _, info := range s.lockedInfo {
		snap.LockedInfo = append(snap.LockedInfo, info)
	}
	return snap, nil
}

func setIDs(set map[int64]struct{}) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}
