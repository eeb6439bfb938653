package moderation

import (
	"strings"
)

// UserRef identifies one candidate sender identity on an event
type UserRef struct {
	ID        int64
	IsBot     bool
	FirstName string
	LastName  string
	Username  string
}

// DisplayName concatenates the visible name parts for classification
func (u UserRef) DisplayName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{u.FirstName, u.LastName, u.Username} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// JoinedMember is a newly joined chat member with its admin status
// already resolved by the update handler.
type JoinedMember struct {
	UserRef
	IsAdmin bool
}

// Event is the closed, typed shape the rule pipeline evaluates. A
// message can carry up to three candidate identities at once: a human
// sender, a via-bot relay and a sender-chat. All optional fields are
// nil/zero when absent, so the pipeline pattern-matches instead of
// probing attributes.
type Event struct {
	ChatID    int64
	ChatKind  string
	MessageID int

	Sender       *UserRef // from_user
	ViaBot       *UserRef // inline via-bot relay
	SenderChatID int64    // sender_chat (anonymous admin / channel-as-sender), 0 if absent

	Text          string
	Caption       string
	HasLinkEntity bool

	// Service-notice payload
	NewChatTitle     string
	NewChatPhoto     bool
	ChatPhotoDeleted bool

	// Broadcast markers
	IsAutomaticForward bool
	ForwardFromChannel bool

	NewMembers []JoinedMember

	// Resolved by the handler (only when tide mode is active or the
	// event is a join); the engine never calls the transport itself.
	SenderIsAdmin bool
}

// CandidateIDs returns every identity present on the event, in the
// order sender, via-bot, sender-chat.
func (ev Event) CandidateIDs() []int64 {
	var ids []int64
	if ev.Sender != nil {
		ids = append(ids, ev.Sender.ID)
	}
	if ev.ViaBot != nil {
		ids = append(ids, ev.ViaBot.ID)
	}
	if ev.SenderChatID != 0 {
		ids = append(ids, ev.SenderChatID)
	}
	return ids
}

// FromSelf reports whether the bot itself authored the event, either
// directly or as the via-bot relay.
func (ev Event) FromSelf(botID int64) bool {
	if ev.Sender != nil && ev.Sender.IsBot && ev.Sender.ID == botID {
		return true
	}
	if ev.ViaBot != nil && ev.ViaBot.ID == botID {
		return true
	}
	return false
}

// IsBroadcastShaped reports whether the event exhibits channel-origin
// characteristics: sender-chat authorship, an automatic forward, or a
// forward from a channel-kind chat.
func (ev Event) IsBroadcastShaped() bool {
	return ev.SenderChatID != 0 || ev.IsAutomaticForward || ev.ForwardFromChannel
}

// IsInfoChangeNotice reports whether the event is a title/photo
// changed/removed service notice.
func (ev Event) IsInfoChangeNotice() bool {
	return ev.NewChatTitle != "" || ev.NewChatPhoto || ev.ChatPhotoDeleted
}

// ContentText returns the user-visible text of the event
func (ev Event) ContentText() string {
	if ev.Text != "" {
		return ev.Text
	}
	return ev.Caption
}

// ActionKind tags an Action variant
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionDeleteMessage
	ActionBanMember
	ActionRevertTitle
	ActionDeletePhoto
	ActionDeleteAndBan
	ActionDeleteAndMute
	ActionNotifyOwner
)

// Action is one decided moderation effect. The engine only produces
// these; the executor turns them into transport calls.
type Action struct {
	Kind   ActionKind
	UserID int64  // BanMember, DeleteAndBan, DeleteAndMute
	Title  string // RevertTitle
	Text   string // NotifyOwner
}

func DeleteMessage() Action            { return Action{Kind: ActionDeleteMessage} }
func BanMember(userID int64) Action    { return Action{Kind: ActionBanMember, UserID: userID} }
func RevertTitle(title string) Action  { return Action{Kind: ActionRevertTitle, Title: title} }
func DeletePhoto() Action              { return Action{Kind: ActionDeletePhoto} }
func DeleteAndBan(userID int64) Action { return Action{Kind: ActionDeleteAndBan, UserID: userID} }
func DeleteAndMute(userID int64) Action {
	return Action{Kind: ActionDeleteAndMute, UserID: userID}
}
func NotifyOwner(text string) Action { return Action{Kind: ActionNotifyOwner, Text: text} }
