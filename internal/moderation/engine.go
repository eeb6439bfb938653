package moderation

import (
	"tgwarden/internal/policy"
	"tgwarden/internal/types"
)

// Engine is the moderation decision pipeline. Decide is a pure function
// over the event and the current cache snapshot: it never touches the
// transport or mutates policy state. Rule order is load-bearing;
// earlier rules short-circuit later ones.
type Engine struct {
	policies *policy.Cache
	eph      *policy.Ephemeral
	filter   *ContentFilter
	selfID   int64
	ownerID  int64
}

func NewEngine(policies *policy.Cache, eph *policy.Ephemeral, filter *ContentFilter, selfID, ownerID int64) *Engine {
	return &Engine{
		policies: policies,
		eph:      eph,
		filter:   filter,
		selfID:   selfID,
		ownerID:  ownerID,
	}
}

// Decide maps an event onto its moderation effects, in order. Most
// events produce zero or one action; a title revert followed by the
// clean-info sweep is the case that produces two.
func (e *Engine) Decide(ev Event) []Action {
	var actions []Action

	// Broadcast lock: channels allow only the bot itself; groups drop
	// anything broadcast-shaped.
	if e.policies.BroadcastLock() && types.IsModeratable(ev.ChatKind) {
		if ev.ChatKind == types.ChatKindChannel {
			if !ev.FromSelf(e.selfID) {
				return append(actions, DeleteMessage())
			}
		} else if ev.IsBroadcastShaped() && !ev.FromSelf(e.selfID) {
			return append(actions, DeleteMessage())
		}
	}

	// Title-lock revert, re-asserted on every title-change notice.
	// Does not stop the pipeline: the clean-info sweep below may still
	// purge the notice itself.
	if info, locked := e.policies.LockedTitle(ev.ChatID); locked && ev.NewChatTitle != "" && info.Title != "" {
		actions = append(actions, RevertTitle(info.Title))
	}

	// No-photo enforcement. Also non-terminal. A "photo removed"
	// notice still triggers the call: the notice can race an already
	// re-set photo, and a permission failure should reach the owner.
	if e.policies.IsNoPhotoChat(ev.ChatID) && (ev.NewChatPhoto || ev.ChatPhotoDeleted) {
		actions = append(actions, DeletePhoto())
	}

	// Clean-info sweep, after the reverts so locks still take effect
	if e.policies.CleanInfo() && types.IsModeratable(ev.ChatKind) && ev.IsInfoChangeNotice() {
		return append(actions, DeleteMessage())
	}

	// Everything below is group-only moderation
	if !types.IsGroupLike(ev.ChatKind) {
		return actions
	}

	// Anonymous admins and channel-as-sender have no bannable identity
	// in the group; their messages are dropped outright.
	if ev.SenderChatID != 0 {
		return append(actions, DeleteMessage())
	}

	// Per-chat bot mute
	if e.policies.IsBotMutedChat(ev.ChatID) {
		if (ev.Sender != nil && ev.Sender.IsBot) || ev.ViaBot != nil {
			return append(actions, DeleteMessage())
		}
	}

	// Global ban. Only a real user can be banned from a chat; a banned
	// via-bot relay just gets its message dropped.
	if ev.Sender != nil && e.policies.IsBanned(ev.Sender.ID) {
		return append(actions, BanMember(ev.Sender.ID))
	}
	if ev.ViaBot != nil && e.policies.IsBanned(ev.ViaBot.ID) {
		return append(actions, DeleteMessage())
	}

	// Global mute over every identity present on the event
	for _, id := range ev.CandidateIDs() {
		if e.policies.IsMuted(id) {
			return append(actions, DeleteMessage())
		}
	}

	// Joins branch off here: tide and the suspicious-name check act on
	// the joined members, not on whoever added them.
	if len(ev.NewMembers) > 0 {
		return append(actions, e.decideJoin(ev)...)
	}

	// Tide mode: every non-admin post is an instant ban
	if e.eph.TideActive(ev.ChatID) && ev.Sender != nil &&
		ev.Sender.ID != e.ownerID && !ev.SenderIsAdmin {
		return append(actions, DeleteAndBan(ev.Sender.ID))
	}

	// Content filter: bad word or link means delete plus a permanent
	// mute, so the next event from the sender is caught by the mute
	// rule directly.
	if ev.Sender != nil {
		text := ev.ContentText()
		if ev.HasLinkEntity || e.filter.MatchBadWord(text) || e.filter.MatchLink(text) {
			return append(actions, DeleteAndMute(ev.Sender.ID))
		}
	}

	return actions
}

// decideJoin handles membership-join events: tide mode bans every
// non-admin joiner unconditionally; otherwise banned members are
// re-banned and suspicious display names are banned on sight.
func (e *Engine) decideJoin(ev Event) []Action {
	var actions []Action

	if e.eph.TideActive(ev.ChatID) {
		deleted := false
		for _, m := range ev.NewMembers {
			if m.ID == e.ownerID || m.IsAdmin {
				continue
			}
			if !deleted {
				actions = append(actions, DeleteMessage())
				deleted = true
			}
			actions = append(actions, BanMember(m.ID))
		}
		return actions
	}

	for _, m := range ev.NewMembers {
		if m.ID == e.ownerID || m.IsAdmin {
			continue
		}
		if e.policies.IsBanned(m.ID) {
			actions = append(actions, BanMember(m.ID))
			continue
		}
		if SuspiciousName(m.DisplayName()) {
			actions = append(actions, BanMember(m.ID))
		}
	}
	return actions
}
