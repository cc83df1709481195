package bot

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/gyomeihajime7-hub/spotify-downloader-bot/backend"
)

// Bot owns the long-polling loop. Updates are routed to one worker
// goroutine per chat, so a long playlist download in one conversation
// never blocks another, while each chat stays strictly sequential.

const (
	pollTimeoutSeconds = 30
	chatQueueDepth     = 16
)

// Bot reads Telegram updates and feeds them to the flow controller.
type Bot struct {
	api  *tgbotapi.BotAPI
	flow *Flow

	mu      sync.Mutex
	workers map[int64]chan incoming
	wg      sync.WaitGroup
}

// incoming is one normalized update for a chat worker.
type incoming struct {
	chatID       int64
	messageID    int
	command      string
	text         string
	callbackID   string
	callbackData string
}

// New builds the bot around an authorized API client and a flow.
func New(api *tgbotapi.BotAPI, flow *Flow) *Bot {
	return &Bot{
		api:     api,
		flow:    flow,
		workers: make(map[int64]chan incoming),
	}
}

// Run polls for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeoutSeconds
	updates := b.api.GetUpdatesChan(u)

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	backend.Logger.Info("bot started polling", "username", b.api.Self.UserName)

	for update := range updates {
		item, ok := normalize(update)
		if !ok {
			continue
		}
		b.enqueue(ctx, item)
	}

	b.closeWorkers()
	backend.Logger.Info("bot stopped polling")
	return ctx.Err()
}

// closeWorkers closes every chat queue and waits for the workers to
// finish, so a later Run starts from a clean slate.
func (b *Bot) closeWorkers() {
	b.mu.Lock()
	for _, ch := range b.workers {
		close(ch)
	}
	b.workers = make(map[int64]chan incoming)
	b.mu.Unlock()
	b.wg.Wait()
}

// normalize flattens an update into the fields the flow consumes.
func normalize(update tgbotapi.Update) (incoming, bool) {
	switch {
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		cb := update.CallbackQuery
		return incoming{
			chatID:       cb.Message.Chat.ID,
			messageID:    cb.Message.MessageID,
			callbackID:   cb.ID,
			callbackData: cb.Data,
		}, true
	case update.Message != nil && update.Message.Text != "":
		msg := update.Message
		item := incoming{chatID: msg.Chat.ID, messageID: msg.MessageID}
		if msg.IsCommand() {
			item.command = msg.Command()
		} else {
			item.text = msg.Text
		}
		return item, true
	default:
		return incoming{}, false
	}
}

// enqueue hands the update to the chat's worker, starting one on first
// contact. A chat whose queue is full drops the update rather than
// stalling the dispatcher.
func (b *Bot) enqueue(ctx context.Context, item incoming) {
	b.mu.Lock()
	ch, ok := b.workers[item.chatID]
	if !ok {
		ch = make(chan incoming, chatQueueDepth)
		b.workers[item.chatID] = ch
		b.wg.Add(1)
		go b.worker(ctx, ch)
	}
	b.mu.Unlock()

	select {
	case ch <- item:
	default:
		backend.Logger.Warn("chat queue full, dropping update", "chat", item.chatID)
	}
}

func (b *Bot) worker(ctx context.Context, ch chan incoming) {
	defer b.wg.Done()
	for item := range ch {
		if ctx.Err() != nil {
			return
		}
		switch {
		case item.callbackID != "":
			b.flow.HandleCallback(ctx, item.chatID, item.messageID, item.callbackID, item.callbackData)
		case item.command != "":
			b.flow.HandleCommand(ctx, item.chatID, item.command)
		default:
			b.flow.HandleText(ctx, item.chatID, item.text)
		}
	}
}
