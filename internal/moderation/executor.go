package moderation

import (
	"fmt"
	"log"

	"tgwarden/internal/policy"
	"tgwarden/internal/types"
)

// Executor applies decided actions through the transport. Every call is
// isolated: one failing call never blocks the rest of the bundle (the
// ban half of DeleteAndBan runs even when the delete fails). Delete and
// ban failures are best-effort and only logged; title/photo revert
// failures are surfaced to the owner.
type Executor struct {
	transport types.Transport
	policies  *policy.Cache
	ownerID   int64
}

func NewExecutor(transport types.Transport, policies *policy.Cache, ownerID int64) *Executor {
	return &Executor{
		transport: transport,
		policies:  policies,
		ownerID:   ownerID,
	}
}

// Apply executes the actions for the event they were decided on, in order
func (x *Executor) Apply(ev Event, actions []Action) {
	for _, action := range actions {
		switch action.Kind {
		case ActionNone:

		case ActionDeleteMessage:
			x.deleteMessage(ev)

		case ActionBanMember:
			x.banMember(ev.ChatID, action.UserID)

		case ActionDeleteAndBan:
			x.deleteMessage(ev)
			x.banMember(ev.ChatID, action.UserID)

		case ActionDeleteAndMute:
			x.deleteMessage(ev)
			// Write-through so the very next event already sees the mute
			x.policies.AddMute(action.UserID)
			log.Printf("🔇 Auto-muted %d after content filter hit in chat %d", action.UserID, ev.ChatID)

		case ActionRevertTitle:
			if err := x.transport.SetChatTitle(ev.ChatID, action.Title); err != nil {
				log.Printf("❌ set_chat_title failed in chat %d: %v", ev.ChatID, err)
				x.NotifyOwner(fmt.Sprintf("❌ set_chat_title failed in chat %d: %v", ev.ChatID, err))
			}

		case ActionDeletePhoto:
			if err := x.transport.DeleteChatPhoto(ev.ChatID); err != nil {
				log.Printf("❌ delete_chat_photo failed in chat %d: %v", ev.ChatID, err)
				x.NotifyOwner(fmt.Sprintf("❌ delete_chat_photo failed in chat %d: %v", ev.ChatID, err))
			}

		case ActionNotifyOwner:
			x.NotifyOwner(action.Text)
		}
	}
}

func (x *Executor) deleteMessage(ev Event) {
	if ev.MessageID == 0 {
		return
	}
	if err := x.transport.DeleteMessage(ev.ChatID, ev.MessageID); err != nil {
		log.Printf("⚠️ delete failed in chat %d (msg %d): %v", ev.ChatID, ev.MessageID, err)
	}
}

func (x *Executor) banMember(chatID, userID int64) {
	if err := x.transport.BanMember(chatID, userID); err != nil {
		log.Printf("⚠️ ban failed in chat %d (user %d): %v", chatID, userID, err)
	}
}

// NotifyOwner sends a private report to the owner; delivery failures
// are absorbed (nobody is left to tell).
func (x *Executor) NotifyOwner(text string) {
	if err := x.transport.SendMessage(x.ownerID, text); err != nil {
		log.Printf("⚠️ owner notification failed: %v", err)
	}
}
