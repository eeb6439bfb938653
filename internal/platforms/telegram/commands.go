package telegram

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tgwarden/internal/database/models"
	"tgwarden/internal/moderation"
	"tgwarden/internal/policy"
	"tgwarden/internal/types"
)

// CommandRouter handles the owner command surface. Callers must already
// have verified the sender is the owner; anyone else never reaches this
// code (silent rejection, no response).
type CommandRouter struct {
	transport types.Transport
	policies  *policy.Cache
	eph       *policy.Ephemeral
	executor  *moderation.Executor
	ownerID   int64
}

func NewCommandRouter(transport types.Transport, policies *policy.Cache, eph *policy.Ephemeral,
	executor *moderation.Executor, ownerID int64) *CommandRouter {
	return &CommandRouter{
		transport: transport,
		policies:  policies,
		eph:       eph,
		executor:  executor,
		ownerID:   ownerID,
	}
}

// Dispatch routes one owner command
func (r *CommandRouter) Dispatch(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "mute":
		r.withIDArg(msg, "/mute <id>", func(id int64) {
			r.policies.AddMute(id)
			r.reply(msg, fmt.Sprintf("✅ Muted (global): %d", id))
		})
	case "unmute":
		r.withIDArg(msg, "/unmute <id>", func(id int64) {
			r.policies.RemoveMute(id)
			r.reply(msg, fmt.Sprintf("✅ Unmuted (global): %d", id))
		})
	case "ban":
		r.withIDArg(msg, "/ban <userid>", func(id int64) { r.cmdBan(msg, id) })
	case "unban":
		r.withIDArg(msg, "/unban <userid>", func(id int64) { r.cmdUnban(msg, id) })
	case "admin":
		r.withIDArg(msg, "/admin <userid>", func(id int64) { r.cmdAdmin(msg, id) })
	case "mutebot":
		r.withIDArg(msg, "/mutebot <chat_id>", func(id int64) {
			r.policies.SetBotMuteChat(id)
			r.reply(msg, fmt.Sprintf("✅ Bot mute active in chat: %d", id))
		})
	case "unmutebot":
		r.withIDArg(msg, "/unmutebot <chat_id>", func(id int64) {
			r.policies.UnsetBotMuteChat(id)
			r.reply(msg, fmt.Sprintf("✅ Bot mute disabled in chat: %d", id))
		})
	case "chatid":
		r.reply(msg, fmt.Sprintf("chat_id: %d | type: %s", msg.Chat.ID, msg.Chat.Type))
	case "lockinfo":
		r.cmdLockInfo(msg)
	case "unlockinfo":
		r.policies.ClearAllLockedTitles()
		r.reply(msg, "🔓 LockInfo disabled.")
	case "locknophoto":
		r.cmdLockNoPhoto(msg)
	case "unlocknophoto":
		r.policies.UnsetAllNoPhotoChats()
		r.reply(msg, "✅ No-photo disabled.")
	case "lockbroadcast":
		r.policies.SetBroadcastLock(true)
		r.reply(msg, "🔒 Global broadcast lock active: only the bot may post in channels, broadcast-shaped messages are deleted everywhere.")
	case "unlockbroadcast":
		r.policies.SetBroadcastLock(false)
		r.reply(msg, "🔓 Global broadcast lock disabled.")
	case "cleaninfo_on":
		r.policies.SetCleanInfo(true)
		r.reply(msg, "🧹 Global: chat-info change notices are deleted automatically.")
	case "cleaninfo_off":
		r.policies.SetCleanInfo(false)
		r.reply(msg, "✅ Global: chat-info change notices are kept again.")
	case "tide":
		if r.eph.ToggleTide(msg.Chat.ID) {
			r.reply(msg, "🌊 Tide mode ACTIVE here: every non-admin post is an instant ban.")
		} else {
			r.reply(msg, "✅ Tide mode off.")
		}
	case "watch":
		if !types.IsModeratable(msg.Chat.Type) {
			r.reply(msg, "Use /watch in a group/supergroup/channel.")
			return
		}
		r.eph.SetWatch(msg.Chat.ID)
		r.reply(msg, "👀 Watch active: the next 20 updates here are reported to you privately.")
	case "unwatch":
		r.eph.ClearWatch(msg.Chat.ID)
		r.reply(msg, "✅ Watch off.")
	case "send":
		text := strings.TrimSpace(msg.CommandArguments())
		if text == "" {
			r.reply(msg, "Usage: /send <text>")
			return
		}
		r.reply(msg, text)
	case "dbg":
		r.cmdDbg(msg)
	case "testdelete":
		r.cmdTestDelete(msg)
	}
}

// withIDArg parses the single integer argument or replies with usage
func (r *CommandRouter) withIDArg(msg *tgbotapi.Message, usage string, fn func(int64)) {
	arg := strings.TrimSpace(msg.CommandArguments())
	if arg == "" || strings.ContainsAny(arg, " \t") {
		r.reply(msg, "Usage: "+usage)
		return
	}
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		r.reply(msg, "Usage: "+usage)
		return
	}
	fn(id)
}

// cmdBan adds a global ban and fans the ban out to every known chat
func (r *CommandRouter) cmdBan(msg *tgbotapi.Message, userID int64) {
	r.policies.AddBan(userID)

	ok, fail := 0, 0
	for _, chatID := range r.policies.KnownChats() {
		if err := r.transport.BanMember(chatID, userID); err != nil {
			fail++
		} else {
			ok++
		}
	}
	r.reply(msg, fmt.Sprintf("✅ Banned: %d (ok:%d fail:%d)", userID, ok, fail))
}

func (r *CommandRouter) cmdUnban(msg *tgbotapi.Message, userID int64) {
	r.policies.RemoveBan(userID)

	ok, fail := 0, 0
	for _, chatID := range r.policies.KnownChats() {
		if err := r.transport.UnbanMember(chatID, userID); err != nil {
			fail++
		} else {
			ok++
		}
	}
	r.reply(msg, fmt.Sprintf("✅ Unbanned: %d (ok:%d fail:%d)", userID, ok, fail))
}

func (r *CommandRouter) cmdAdmin(msg *tgbotapi.Message, userID int64) {
	ok, fail := 0, 0
	for _, chatID := range r.policies.KnownChats() {
		if err := r.transport.PromoteMember(chatID, userID); err != nil {
			fail++
		} else {
			ok++
		}
	}
	r.reply(msg, fmt.Sprintf("✅ Admin attempted for %d (ok:%d fail:%d)", userID, ok, fail))
}

// cmdLockInfo captures the current title of every known chat where the
// bot can change info, pinning it from now on.
func (r *CommandRouter) cmdLockInfo(msg *tgbotapi.Message) {
	ok, fail := 0, 0
	for _, chatID := range r.policies.KnownChats() {
		chat, err := r.transport.GetChat(chatID)
		if err != nil || !types.IsModeratable(chat.Kind) {
			if err != nil {
				fail++
			}
			continue
		}
		if !r.botCanChangeInfo(chatID) {
			continue
		}

		r.policies.SetLockedTitle(models.LockedInfo{
			ChatID:      chatID,
			Title:       chat.Title,
			PhotoFileID: chat.PhotoFileID,
		})
		ok++
	}
	r.reply(msg, fmt.Sprintf("🔒 LockInfo active (titles) | ok:%d fail:%d", ok, fail))
}

// cmdLockNoPhoto marks every eligible known chat photo-free and deletes
// any photo that is currently set.
func (r *CommandRouter) cmdLockNoPhoto(msg *tgbotapi.Message) {
	ok, fail := 0, 0
	for _, chatID := range r.policies.KnownChats() {
		chat, err := r.transport.GetChat(chatID)
		if err != nil || !types.IsModeratable(chat.Kind) {
			if err != nil {
				fail++
			}
			continue
		}
		if !r.botCanChangeInfo(chatID) {
			continue
		}

		r.policies.SetNoPhotoChat(chatID)
		if chat.PhotoPresent {
			if err := r.transport.DeleteChatPhoto(chatID); err != nil {
				r.executor.NotifyOwner(fmt.Sprintf("❌ delete_chat_photo failed in chat %d: %v", chatID, err))
			}
		}
		ok++
	}
	r.reply(msg, fmt.Sprintf("🧼 No-photo active (groups+channels) | ok:%d fail:%d", ok, fail))
}

func (r *CommandRouter) botCanChangeInfo(chatID int64) bool {
	member, err := r.transport.GetChatMember(chatID, r.transport.SelfID())
	if err != nil {
		return false
	}
	return member.CanEditInfo()
}

// cmdDbg reports the raw identities of a replied-to message
func (r *CommandRouter) cmdDbg(msg *tgbotapi.Message) {
	reply := msg.ReplyToMessage
	if reply == nil {
		r.reply(msg, "Use /dbg as a reply to a message.")
		return
	}

	var fromID, viaID, senderChatID int64
	var fromIsBot bool
	if reply.From != nil {
		fromID = reply.From.ID
		fromIsBot = reply.From.IsBot
	}
	if reply.ViaBot != nil {
		viaID = reply.ViaBot.ID
	}
	if reply.SenderChat != nil {
		senderChatID = reply.SenderChat.ID
	}

	_, lockActive := r.policies.LockedTitle(msg.Chat.ID)
	r.reply(msg, fmt.Sprintf(
		"DBG:\n- chat_id: %d\n- chat_type: %s\n- mutebot_active_here: %t\n- lockinfo_title_active: %t\n- nophoto_active: %t\n- broadcast_lock_global: %t\n- cleaninfo_global: %t\n- from_user.id: %d\n- from_user.is_bot: %t\n- via_bot.id: %d\n- sender_chat.id: %d",
		msg.Chat.ID, msg.Chat.Type,
		r.policies.IsBotMutedChat(msg.Chat.ID),
		lockActive,
		r.policies.IsNoPhotoChat(msg.Chat.ID),
		r.policies.BroadcastLock(),
		r.policies.CleanInfo(),
		fromID, fromIsBot, viaID, senderChatID))
}

// cmdTestDelete probes delete permissions on a replied-to message
func (r *CommandRouter) cmdTestDelete(msg *tgbotapi.Message) {
	reply := msg.ReplyToMessage
	if reply == nil {
		r.reply(msg, "Use /testdelete as a reply to a message.")
		return
	}
	if err := r.transport.DeleteMessage(msg.Chat.ID, reply.MessageID); err != nil {
		r.reply(msg, fmt.Sprintf("❌ testdelete failed: %v", err))
		return
	}
	r.reply(msg, "✅ testdelete: deleted")
}

func (r *CommandRouter) reply(msg *tgbotapi.Message, text string) {
	if err := r.transport.SendMessage(msg.Chat.ID, text); err != nil {
		log.Printf("⚠️ command reply failed in chat %d: %v", msg.Chat.ID, err)
	}
}
