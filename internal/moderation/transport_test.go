package moderation

import (
	"errors"
	"fmt"

	"tgwarden/internal/types"
)

// fakeTransport records every call and lets tests inject failures per
// method.
type fakeTransport struct {
	calls []string

	chats map[int64]types.ChatInfo

	deleteErr error
	banErr    error
	titleErr  error
	photoErr  error
	sendErr   error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{chats: make(map[int64]types.ChatInfo)}
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
	return f.titleErr
}

func (f *fakeTransport) DeleteChatPhoto(chatID int64) error {
	f.record("delphoto %d", chatID)
	return f.photoErr
}

func (f *fakeTransport) SendMessage(chatID int64, text string) error {
	f.record("send %d", chatID)
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
