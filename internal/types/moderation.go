package types

// Chat kind constants (mirroring the platform's chat types)
const (
	ChatKindPrivate    = "private"
	ChatKindGroup      = "group"
	ChatKindSupergroup = "supergroup"
	ChatKindChannel    = "channel"
)

// Chat member status constants
const (
	MemberStatusCreator       = "creator"
	MemberStatusAdministrator = "administrator"
	MemberStatusMember        = "member"
)

// IsGroupLike reports whether the chat kind is a group or supergroup
func IsGroupLike(kind string) bool {
	return kind == ChatKindGroup || kind == ChatKindSupergroup
}

// IsModeratable reports whether the chat kind can carry policies at all
// (private chats are never policy targets)
func IsModeratable(kind string) bool {
	return kind == ChatKindGroup || kind == ChatKindSupergroup || kind == ChatKindChannel
}

// ChatInfo is the subset of live chat state the bot cares about
type ChatInfo struct {
	ID           int64
	Kind         string
	Title        string
	PhotoPresent bool
	PhotoFileID  string
}

// MemberInfo is the subset of chat-member state the bot cares about
type MemberInfo struct {
	Status        string
	CanChangeInfo bool
}

// IsAdmin reports whether the member can act as an admin in the chat
func (m MemberInfo) IsAdmin() bool {
	return m.Status == MemberStatusCreator || m.Status == MemberStatusAdministrator
}

// CanEditInfo reports whether the member may change chat title/photo
func (m MemberInfo) CanEditInfo() bool {
	if m.Status == MemberStatusCreator {
		return true
	}
	return m.Status == MemberStatusAdministrator && m.CanChangeInfo
}

// Transport defines the messaging-platform calls the moderation core needs.
// Every call is fallible; callers treat failures as best-effort unless
// documented otherwise.
type Transport interface {
	DeleteMessage(chatID int64, messageID int) error
	BanMember(chatID, userID int64) error
	UnbanMember(chatID, userID int64) error
	PromoteMember(chatID, userID int64) error
	SetChatTitle(chatID int64, title string) error
	DeleteChatPhoto(chatID int64) error
	SendMessage(chatID int64, text string) error
	GetChat(chatID int64) (ChatInfo, error)
	GetChatMember(chatID, userID int64) (MemberInfo, error)
	SelfID() int64
}
