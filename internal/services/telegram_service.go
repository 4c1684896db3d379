package services

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type TelegramSender interface {
	SendMessage(chatID int64, text string) error
}

// botSender is the part of *tgbotapi.BotAPI the service uses.
type botSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type TelegramService struct {
	bot botSender
	log *zap.Logger
}

// NewTelegramService authenticates the bot token against the Bot API.
func NewTelegramService(botToken string, log *zap.Logger) (*TelegramService, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	log.Info("[tg] authorized", zap.String("bot", bot.Self.UserName))
	return &TelegramService{bot: bot, log: log}, nil
}

func (t *TelegramService) SendMessage(chatID int64, text string) error {
	if t == nil || t.bot == nil || chatID == 0 {
		return nil
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		t.log.Warn("[tg][send] failed", zap.Int64("chat_id", chatID), zap.Error(err))
		return fmt.Errorf("telegram sendMessage: %w", err)
	}
	t.log.Debug("[tg][send] ok", zap.Int64("chat_id", chatID))
	return nil
}
