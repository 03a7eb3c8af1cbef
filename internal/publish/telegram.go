package publish

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"animal-reels-bot/internal/model"
)

// TelegramSink sends the reel to a chat by its public URL, letting Telegram
// fetch the file itself.
type TelegramSink struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramSink(token string, chatID int64) (*TelegramSink, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	return &TelegramSink{bot: bot, chatID: chatID}, nil
}

func (t *TelegramSink) Name() string { return "telegram" }

func (t *TelegramSink) Deliver(_ context.Context, reel *model.Reel) error {
	video := tgbotapi.NewVideo(t.chatID, tgbotapi.FileURL(reel.VideoURL))
	video.Caption = reel.Metadata.CaptionText()
	if _, err := t.bot.Send(video); err != nil {
		return fmt.Errorf("telegram sendVideo: %w", err)
	}
	return nil
}
