package telegram

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tgwarden/internal/moderation"
	"tgwarden/internal/policy"
	"tgwarden/internal/types"
)

// Handler routes every incoming update: owner commands go to the
// command router, everything else runs through the moderation pipeline.
type Handler struct {
	transport types.Transport
	policies  *policy.Cache
	eph       *policy.Ephemeral
	engine    *moderation.Engine
	executor  *moderation.Executor
	commands  *CommandRouter
	ownerID   int64
}

func NewHandler(transport types.Transport, policies *policy.Cache, eph *policy.Ephemeral,
	engine *moderation.Engine, executor *moderation.Executor, ownerID int64) *Handler {
	h := &Handler{
		transport: transport,
		policies:  policies,
		eph:       eph,
		engine:    engine,
		executor:  executor,
		ownerID:   ownerID,
	}
	h.commands = NewCommandRouter(transport, policies, eph, executor, ownerID)
	return h
}

// effectiveMessage picks the message payload out of an update,
// whichever stream it arrived on.
func effectiveMessage(update tgbotapi.Update) *tgbotapi.Message {
	switch {
	case update.Message != nil:
		return update.Message
	case update.EditedMessage != nil:
		return update.EditedMessage
	case update.ChannelPost != nil:
		return update.ChannelPost
	case update.EditedChannelPost != nil:
		return update.EditedChannelPost
	}
	return nil
}

// HandleUpdate is the per-event entry point. It performs the stateful
// pipeline steps (chat discovery, watch reporting, admin resolution)
// and delegates the actual decision to the pure engine.
func (h *Handler) HandleUpdate(update tgbotapi.Update) {
	msg := effectiveMessage(update)
	if msg == nil || msg.Chat == nil {
		return
	}

	// Owner commands never fall through to moderation; commands from
	// anyone else are ordinary messages and get moderated like the rest.
	if msg.IsCommand() && msg.From != nil && msg.From.ID == h.ownerID {
		h.commands.Dispatch(msg)
		return
	}

	// Track every group/supergroup/channel we see
	if types.IsModeratable(msg.Chat.Type) {
		h.policies.AddKnownChat(msg.Chat.ID)
	}

	// Debug watch: report the raw identities to the owner while quota
	// remains, then keep evaluating normally.
	if h.eph.ConsumeWatch(msg.Chat.ID) {
		h.executor.NotifyOwner(watchReport(msg))
	}

	ev := h.eventFromMessage(msg)
	actions := h.engine.Decide(ev)
	h.executor.Apply(ev, actions)
}

// eventFromMessage maps the platform message onto the engine's closed
// event shape, resolving admin status only where a rule will need it.
func (h *Handler) eventFromMessage(msg *tgbotapi.Message) moderation.Event {
	ev := moderation.Event{
		ChatID:             msg.Chat.ID,
		ChatKind:           msg.Chat.Type,
		MessageID:          msg.MessageID,
		Text:               msg.Text,
		Caption:            msg.Caption,
		NewChatTitle:       msg.NewChatTitle,
		NewChatPhoto:       len(msg.NewChatPhoto) > 0,
		ChatPhotoDeleted:   msg.DeleteChatPhoto,
		IsAutomaticForward: msg.IsAutomaticForward,
	}

	if msg.From != nil {
		ev.Sender = &moderation.UserRef{
			ID:        msg.From.ID,
			IsBot:     msg.From.IsBot,
			FirstName: msg.From.FirstName,
			LastName:  msg.From.LastName,
			Username:  msg.From.UserName,
		}
	}
	if msg.ViaBot != nil {
		ev.ViaBot = &moderation.UserRef{ID: msg.ViaBot.ID, IsBot: true, Username: msg.ViaBot.UserName}
	}
	if msg.SenderChat != nil {
		ev.SenderChatID = msg.SenderChat.ID
	}
	if msg.ForwardFromChat != nil && msg.ForwardFromChat.Type == types.ChatKindChannel {
		ev.ForwardFromChannel = true
	}
	ev.HasLinkEntity = hasLinkEntity(msg.Entities) || hasLinkEntity(msg.CaptionEntities)

	join := len(msg.NewChatMembers) > 0
	tide := h.eph.TideActive(msg.Chat.ID)

	if tide && msg.From != nil {
		ev.SenderIsAdmin = h.isAdmin(msg.Chat.ID, msg.From.ID)
	}

	if join {
		ev.NewMembers = make([]moderation.JoinedMember, 0, len(msg.NewChatMembers))
		for _, u := range msg.NewChatMembers {
			m := moderation.JoinedMember{
				UserRef: moderation.UserRef{
					ID:        u.ID,
					IsBot:     u.IsBot,
					FirstName: u.FirstName,
					LastName:  u.LastName,
					Username:  u.UserName,
				},
			}
			m.IsAdmin = h.isAdmin(msg.Chat.ID, u.ID)
			ev.NewMembers = append(ev.NewMembers, m)
		}
	}

	return ev
}

// isAdmin resolves live admin status; lookup failures count as
// non-admin so moderation stays on the safe side.
func (h *Handler) isAdmin(chatID, userID int64) bool {
	member, err := h.transport.GetChatMember(chatID, userID)
	if err != nil {
		log.Printf("⚠️ get_chat_member failed in chat %d (user %d): %v", chatID, userID, err)
		return false
	}
	return member.IsAdmin()
}

func hasLinkEntity(entities []tgbotapi.MessageEntity) bool {
	for _, e := range entities {
		if e.Type == "url" || e.Type == "text_link" {
			return true
		}
	}
	return false
}

func watchReport(msg *tgbotapi.Message) string {
	var fromID, viaID, senderChatID int64
	var fromIsBot bool
	if msg.From != nil {
		fromID = msg.From.ID
		fromIsBot = msg.From.IsBot
	}
	if msg.ViaBot != nil {
		viaID = msg.ViaBot.ID
	}
	if msg.SenderChat != nil {
		senderChatID = msg.SenderChat.ID
	}
	text := msg.Text
	if text == "" {
		text = msg.Caption
	}
	if len(text) > 80 {
		text = text[:80]
	}
	return fmt.Sprintf(
		"WATCH in %d:\n- chat_type: %s\n- from_user: %d\n- is_bot: %t\n- via_bot: %d\n- sender_chat: %d\n- text: %s",
		msg.Chat.ID, msg.Chat.Type, fromID, fromIsBot, viaID, senderChatID, text)
}
