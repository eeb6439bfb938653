package telegram

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tgwarden/internal/types"
)

// Client wraps the Bot API connection and implements types.Transport
type Client struct {
	bot         *tgbotapi.BotAPI
	isRunning   bool
	stopChan    chan struct{}
	updatesChan tgbotapi.UpdatesChannel
}

type Config struct {
	BotToken string
}

// NewClient creates and authorizes the Telegram bot client
func NewClient(cfg Config) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %v", err)
	}

	log.Printf("✅ Telegram bot authorized: %s (id %d)", bot.Self.UserName, bot.Self.ID)

	return &Client{
		bot:      bot,
		stopChan: make(chan struct{}),
	}, nil
}

// Start begins long-polling for updates and feeds them to the handler.
// A panicking handler is contained so one bad update cannot stop
// delivery of the next.
func (c *Client) Start(handler func(tgbotapi.Update)) error {
	if c.isRunning {
		return fmt.Errorf("telegram client is already running")
	}

	// Delete webhook first to ensure polling works
	deleteWebhookConfig := tgbotapi.DeleteWebhookConfig{
		DropPendingUpdates: true,
	}
	if _, err := c.bot.Request(deleteWebhookConfig); err != nil {
		log.Printf("⚠️ Warning: Could not delete webhook: %v", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	c.updatesChan = c.bot.GetUpdatesChan(u)

	go func() {
		for {
			select {
			case update := <-c.updatesChan:
				c.dispatch(update, handler)
			case <-c.stopChan:
				log.Printf("🛑 Telegram update listener stopped")
				return
			}
		}
	}()

	c.isRunning = true
	log.Println("✅ Telegram bot started and listening for updates")
	return nil
}

func (c *Client) dispatch(update tgbotapi.Update, handler func(tgbotapi.Update)) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Update handler panicked: %v", r)
		}
	}()
	handler(update)
}

// Stop stops the Telegram bot
func (c *Client) Stop() error {
	if !c.isRunning {
		return nil
	}

	log.Println("🛑 Stopping Telegram bot...")
	c.bot.StopReceivingUpdates()
	c.isRunning = false
	close(c.stopChan)
	return nil
}

// IsRunning returns whether the client is currently running
func (c *Client) IsRunning() bool {
	return c.isRunning
}

// SelfID returns the bot's own platform identity
func (c *Client) SelfID() int64 {
	return c.bot.Self.ID
}

// DeleteMessage removes a message from a chat
func (c *Client) DeleteMessage(chatID int64, messageID int) error {
	_, err := c.bot.Request(tgbotapi.NewDeleteMessage(chatID, messageID))
	return err
}

// BanMember bans a user from a chat
func (c *Client) BanMember(chatID, userID int64) error {
	_, err := c.bot.Request(tgbotapi.BanChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{
			ChatID: chatID,
			UserID: userID,
		},
	})
	return err
}

// UnbanMember lifts a ban in a chat
func (c *Client) UnbanMember(chatID, userID int64) error {
	_, err := c.bot.Request(tgbotapi.UnbanChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{
			ChatID: chatID,
			UserID: userID,
		},
		OnlyIfBanned: true,
	})
	return err
}

// PromoteMember grants a user the full admin permission set; the
// channel-only flags are ignored by the platform where not applicable.
func (c *Client) PromoteMember(chatID, userID int64) error {
	_, err := c.bot.Request(tgbotapi.PromoteChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{
			ChatID: chatID,
			UserID: userID,
		},
		CanManageChat:      true,
		CanDeleteMessages:  true,
		CanRestrictMembers: true,
		CanPromoteMembers:  true,
		CanChangeInfo:      true,
		CanInviteUsers:     true,
		CanPinMessages:     true,
		CanPostMessages:    true,
		CanEditMessages:    true,
	})
	return err
}

// SetChatTitle sets a chat's title
func (c *Client) SetChatTitle(chatID int64, title string) error {
	_, err := c.bot.Request(tgbotapi.SetChatTitleConfig{
		ChatID: chatID,
		Title:  title,
	})
	return err
}

// DeleteChatPhoto removes a chat's photo
func (c *Client) DeleteChatPhoto(chatID int64) error {
	_, err := c.bot.Request(tgbotapi.DeleteChatPhotoConfig{
		ChatID: chatID,
	})
	return err
}

// SendMessage sends a plain text message
func (c *Client) SendMessage(chatID int64, text string) error {
	_, err := c.bot.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// GetChat fetches the live state of a chat
func (c *Client) GetChat(chatID int64) (types.ChatInfo, error) {
	chat, err := c.bot.GetChat(tgbotapi.ChatInfoConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: chatID},
	})
	if err != nil {
		return types.ChatInfo{}, err
	}

	info := types.ChatInfo{
		ID:           chat.ID,
		Kind:         chat.Type,
		Title:        chat.Title,
		PhotoPresent: chat.Photo != nil,
	}
	if chat.Photo != nil {
		info.PhotoFileID = chat.Photo.BigFileID
	}
	return info, nil
}

// GetChatMember fetches a user's membership state in a chat
func (c *Client) GetChatMember(chatID, userID int64) (types.MemberInfo, error) {
	member, err := c.bot.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: chatID,
			UserID: userID,
		},
	})
	if err != nil {
		return types.MemberInfo{}, err
	}

	return types.MemberInfo{
		Status:        member.Status,
		CanChangeInfo: member.CanChangeInfo,
	}, nil
}
