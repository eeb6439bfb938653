package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"tgwarden/internal/database/models"

	_ "modernc.org/sqlite"
)

type Database struct {
	db *sql.DB
}

// NewDatabase opens (and creates if needed) the policy database
func NewDatabase(dbPath string) (*Database, error) {
	// Create directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %v", err)
	}

	database := &Database{db: db}

	if err := database.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	log.Println("✅ Database connected and migrated successfully")
	return database, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// migrate runs database migrations
func (d *Database) migrate() error {
	migrations := []string{
		createMutedUsersTable,
		createBannedUsersTable,
		createKnownChatsTable,
		createBotMutedChatsTable,
		createLockedChatInfoTable,
		createNoPhotoChatsTable,
		createBroadcastLockStateTable,
		createCleanInfoStateTable,
		seedBroadcastLockState,
		seedCleanInfoState,
	}

	for i, migration := range migrations {
		if _, err := d.db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %v", i+1, err)
		}
	}

	return nil
}

// Migration SQL statements
const createMutedUsersTable = `
CREATE TABLE IF NOT EXISTS muted_users (
    user_id INTEGER PRIMARY KEY
);`

const createBannedUsersTable = `
CREATE TABLE IF NOT EXISTS banned_users (
    user_id INTEGER PRIMARY KEY
);`

const createKnownChatsTable = `
CREATE TABLE IF NOT EXISTS known_chats (
    chat_id INTEGER PRIMARY KEY
);`

const createBotMutedChatsTable = `
CREATE TABLE IF NOT EXISTS bot_muted_chats (
    chat_id INTEGER PRIMARY KEY
);`

const createLockedChatInfoTable = `
CREATE TABLE IF NOT EXISTS locked_chat_info (
    chat_id INTEGER PRIMARY KEY,
    title TEXT NOT NULL DEFAULT '',
    photo_file_id TEXT NOT NULL DEFAULT ''
);`

const createNoPhotoChatsTable = `
CREATE TABLE IF NOT EXISTS no_photo_chats (
    chat_id INTEGER PRIMARY KEY
);`

const createBroadcastLockStateTable = `
CREATE TABLE IF NOT EXISTS broadcast_lock_state (
    id INTEGER PRIMARY KEY,
    enabled BOOLEAN NOT NULL DEFAULT 0
);`

const createCleanInfoStateTable = `
CREATE TABLE IF NOT EXISTS clean_info_state (
    id INTEGER PRIMARY KEY,
    enabled BOOLEAN NOT NULL DEFAULT 0
);`

const seedBroadcastLockState = `
INSERT OR IGNORE INTO broadcast_lock_state (id, enabled) VALUES (1, 0);`

const seedCleanInfoState = `
INSERT OR IGNORE INTO clean_info_state (id, enabled) VALUES (1, 0);`

// Set-membership helpers

func (d *Database) insertID(table, column string, id int64) error {
	query := fmt.Sprintf("INSERT OR IGNORE INTO %s (%s) VALUES (?)", table, column)
	_, err := d.db.Exec(query, id)
	return err
}

func (d *Database) deleteID(table, column string, id int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", table, column)
	_, err := d.db.Exec(query, id)
	return err
}

func (d *Database) selectIDs(table, column string) ([]int64, error) {
	query := fmt.Sprintf("SELECT %s FROM %s", column, table)
	rows, err := d.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %v", table, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %v", table, err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// Muted users

func (d *Database) AddMutedUser(userID int64) error {
	return d.insertID("muted_users", "user_id", userID)
}

func (d *Database) RemoveMutedUser(userID int64) error {
	return d.deleteID("muted_users", "user_id", userID)
}

func (d *Database) GetMutedUsers() ([]int64, error) {
	return d.selectIDs("muted_users", "user_id")
}

// Banned users

func (d *Database) AddBannedUser(userID int64) error {
	return d.insertID("banned_users", "user_id", userID)
}

func (d *Database) RemoveBannedUser(userID int64) error {
	return d.deleteID("banned_users", "user_id", userID)
}

func (d *Database) GetBannedUsers() ([]int64, error) {
	return d.selectIDs("banned_users", "user_id")
}

// Known chats (append-only discovery log)

func (d *Database) AddKnownChat(chatID int64) error {
	return d.insertID("known_chats", "chat_id", chatID)
}

func (d *Database) GetKnownChats() ([]int64, error) {
	return d.selectIDs("known_chats", "chat_id")
}

// Bot-muted chats

func (d *Database) AddBotMutedChat(chatID int64) error {
	return d.insertID("bot_muted_chats", "chat_id", chatID)
}

func (d *Database) RemoveBotMutedChat(chatID int64) error {
	return d.deleteID("bot_muted_chats", "chat_id", chatID)
}

func (d *Database) GetBotMutedChats() ([]int64, error) {
	return d.selectIDs("bot_muted_chats", "chat_id")
}

// No-photo chats

func (d *Database) AddNoPhotoChat(chatID int64) error {
	return d.insertID("no_photo_chats", "chat_id", chatID)
}

func (d *Database) RemoveNoPhotoChat(chatID int64) error {
	return d.deleteID("no_photo_chats", "chat_id", chatID)
}

func (d *Database) GetNoPhotoChats() ([]int64, error) {
	return d.selectIDs("no_photo_chats", "chat_id")
}

// Locked chat info

func (d *Database) UpsertLockedInfo(info models.LockedInfo) error {
	_, err := d.db.Exec(`
		INSERT INTO locked_chat_info (chat_id, title, photo_file_id)
		VALUES (?, ?, ?)
		ON CONFLICT (chat_id)
		DO UPDATE SET title = excluded.title, photo_file_id = excluded.photo_file_id`,
		info.ChatID, info.Title, info.PhotoFileID)
	return err
}

func (d *Database) DeleteLockedInfo(chatID int64) error {
	return d.deleteID("locked_chat_info", "chat_id", chatID)
}

func (d *Database) GetLockedInfo() ([]models.LockedInfo, error) {
	rows, err := d.db.Query("SELECT chat_id, title, photo_file_id FROM locked_chat_info")
	if err != nil {
		return nil, fmt.Errorf("failed to query locked_chat_info: %v", err)
	}
	defer rows.Close()

	var infos []models.LockedInfo
	for rows.Next() {
		var info models.LockedInfo
		if err := rows.Scan(&info.ChatID, &info.Title, &info.PhotoFileID); err != nil {
			return nil, fmt.Errorf("failed to scan locked_chat_info row: %v", err)
		}
		infos = append(infos, info)
	}

	return infos, rows.Err()
}

// Singleton flags

func (d *Database) SetBroadcastLock(enabled bool) error {
	_, err := d.db.Exec("UPDATE broadcast_lock_state SET enabled = ? WHERE id = 1", enabled)
	return err
}

func (d *Database) GetBroadcastLock() (bool, error) {
	var enabled bool
	err := d.db.QueryRow("SELECT enabled FROM broadcast_lock_state WHERE id = 1").Scan(&enabled)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return enabled, err
}

func (d *Database) SetCleanInfo(enabled bool) error {
	_, err := d.db.Exec("UPDATE clean_info_state SET enabled = ? WHERE id = 1", enabled)
	return err
}

func (d *Database) GetCleanInfo() (bool, error) {
	var enabled bool
	err := d.db.QueryRow("SELECT enabled FROM clean_info_state WHERE id = 1").Scan(&enabled)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return enabled, err
}

// LoadSnapshot reads the full policy state in one pass. Used once at
// startup to seed the cache; any error here is fatal to the caller.
func (d *Database) LoadSnapshot() (*models.PolicySnapshot, error) {
	snap := &models.PolicySnapshot{}
	var err error

	if snap.MutedUsers, err = d.GetMutedUsers(); err != nil {
		return nil, err
	}
	if snap.BannedUsers, err = d.GetBannedUsers(); err != nil {
		return nil, err
	}
	if snap.KnownChats, err = d.GetKnownChats(); err != nil {
		return nil, err
	}
	if snap.BotMutedChats, err = d.GetBotMutedChats(); err != nil {
		return nil, err
	}
	if snap.NoPhotoChats, err = d.GetNoPhotoChats(); err != nil {
		return nil, err
	}
	if snap.LockedInfo, err = d.GetLockedInfo(); err != nil {
		return nil, err
	}
	if snap.BroadcastLock, err = d.GetBroadcastLock(); err != nil {
		return nil, err
	}
	if snap.CleanInfo, err = d.GetCleanInfo(); err != nil {
		return nil, err
	}

	return snap, nil
}
