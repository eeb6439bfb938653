package telegram

import (
	"errors"
	"fmt"

	"tgwarden/internal/types"
)

const (
	tgOwnerID = int64(111)
	tgChatID  = int64(-1001)
)

// fakeTransport records every call and lets tests inject failures per
// method. Sent message texts are kept verbatim for reply assertions.
type fakeTransport struct {
	calls []string
	sent  []string

	chats   map[int64]types.ChatInfo
	members map[int64]types.MemberInfo

	deleteErr error
	banErr    error
	photoErr  error
	sendErr   error
	memberErr error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		chats:   make(map[int64]types.ChatInfo),
		members: make(map[int64]types.MemberInfo),
	}
}

func (f *fakeTransport) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeTransport) DeleteMessage(chatID int64, messageID int) error {
	f.record("delete %d %d", chatID, messageID)
	return f.deleteErr
}

func (f *fakeTransport) BanMember(chatID, userID int64) error {
	f.record("ban %d %d", chatID, userID)
	return f.banErr
}

func (f *fakeTransport) UnbanMember(chatID, userID int64) error {
	f.record("unban %d %d", chatID, userID)
	return nil
}

func (f *fakeTransport) PromoteMember(chatID, userID int64) error {
	f.record("promote %d %d", chatID, userID)
	return nil
}

func (f *fakeTransport) SetChatTitle(chatID int64, title string) error {
	f.record("settitle %d %s", chatID, title)
	return nil
}

func (f *fakeTransport) DeleteChatPhoto(chatID int64) error {
	f.record("delphoto %d", chatID)
	return f.photoErr
}

func (f *fakeTransport) SendMessage(chatID int64, text string) error {
	f.record("send %d", chatID)
	f.sent = append(f.sent, text)
	return f.sendErr
}

func (f *fakeTransport) GetChat(chatID int64) (types.ChatInfo, error) {
	chat, ok := f.chats[chatID]
	if !ok {
		return types.ChatInfo{}, errors.New("chat not accessible")
	}
	return chat, nil
}

func (f *fakeTransport) GetChatMember(chatID, userID int64) (types.MemberInfo, error) {
	f.record("getmember %d %d", chatID, userID)
	if f.memberErr != nil {
		return types.MemberInfo{}, f.memberErr
	}
	if member, ok := f.members[userID]; ok {
		return member, nil
	}
	return types.MemberInfo{Status: types.MemberStatusMember}, nil
}

func (f *fakeTransport) SelfID() int64 { return 999 }

func (f *fakeTransport) count(prefix string) int {
	n := 0
	for _, c := range f.calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func (f *fakeTransport) lastSent() string {
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1]
}
