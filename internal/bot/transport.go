package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/gyomeihajime7-hub/spotify-downloader-bot/backend"
)

// Transport is the outbound half of the chat API. The flow controller
// talks only to this interface, which keeps it testable without Telegram.

// Button is one inline keyboard button.
type Button struct {
	Label string
	Data  string
}

// Keyboard is an inline keyboard: rows of buttons.
type Keyboard [][]Button

// Audio is one outbound audio delivery with its display metadata.
type Audio struct {
	FilePath        string
	Title           string
	Performer       string
	DurationSeconds int
	Caption         string
	Thumbnail       []byte // optional artwork; nil sends no thumbnail
}

// Transport sends messages to a chat. Message texts are Markdown.
type Transport interface {
	// SendText posts a new message and returns its id for later edits.
	SendText(chatID int64, text string, keyboard Keyboard) (int, error)
	// EditText replaces an earlier message's text and keyboard in place.
	EditText(chatID int64, messageID int, text string, keyboard Keyboard) error
	// SendAudio uploads a local audio file with its metadata.
	SendAudio(chatID int64, audio Audio) error
	// AnswerCallback acknowledges an inline button press.
	AnswerCallback(callbackID string) error
}

// TelegramTransport implements Transport over the Bot API.
type TelegramTransport struct {
	api *tgbotapi.BotAPI
}

// NewTelegramTransport wraps an authorized Bot API client.
func NewTelegramTransport(api *tgbotapi.BotAPI) *TelegramTransport {
	return &TelegramTransport{api: api}
}

func (t *TelegramTransport) SendText(chatID int64, text string, keyboard Keyboard) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if keyboard != nil {
		msg.ReplyMarkup = toInlineKeyboard(keyboard)
	}

	sent, err := t.api.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("sending message: %w", err)
	}
	return sent.MessageID, nil
}

func (t *TelegramTransport) EditText(chatID int64, messageID int, text string, keyboard Keyboard) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeMarkdown
	if keyboard != nil {
		markup := toInlineKeyboard(keyboard)
		edit.ReplyMarkup = &markup
	}

	if _, err := t.api.Send(edit); err != nil {
		return fmt.Errorf("editing message %d: %w", messageID, err)
	}
	return nil
}

func (t *TelegramTransport) SendAudio(chatID int64, audio Audio) error {
	msg := tgbotapi.NewAudio(chatID, tgbotapi.FilePath(audio.FilePath))
	msg.Title = audio.Title
	msg.Performer = audio.Performer
	msg.Duration = audio.DurationSeconds
	msg.Caption = audio.Caption
	msg.ParseMode = tgbotapi.ModeMarkdown
	if len(audio.Thumbnail) > 0 {
		msg.Thumb = tgbotapi.FileBytes{Name: "cover.jpg", Bytes: audio.Thumbnail}
	}

	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("%w: %v", backend.ErrDelivery, err)
	}
	return nil
}

func (t *TelegramTransport) AnswerCallback(callbackID string) error {
	if _, err := t.api.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		return fmt.Errorf("answering callback: %w", err)
	}
	return nil
}

func toInlineKeyboard(kb Keyboard) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb))
	for _, row := range kb {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Data))
		}
		rows = append(rows, buttons)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
