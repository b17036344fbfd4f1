// Package notify forwards ledger events to the team's Telegram chat.
package notify

import (
	"fmt"
	"sync"

	"waitlist_ledger/internal/model"
	"waitlist_ledger/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const DefaultQueueSize = 64

type Config struct {
	BotToken  string `yaml:"botToken"`
	ChatID    int64  `yaml:"chatId"`
	Debug     bool   `yaml:"debug"`
	QueueSize int    `yaml:"queueSize"`
}

func (c Config) Enabled() bool {
	return c.BotToken != "" && c.ChatID != 0
}

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier delivers events from a bounded queue on a single goroutine.
// Events published while the queue is full are dropped.
type TelegramNotifier struct {
	bot    sender
	chatID int64

	mu     sync.RWMutex
	closed bool
	queue  chan model.LedgerEvent
	done   chan struct{}
}

func NewTelegramNotifier(cfg Config) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize bot: %w", err)
	}

	bot.Debug = cfg.Debug

	return newTelegramNotifier(bot, cfg.ChatID, cfg.QueueSize), nil
}

func newTelegramNotifier(bot sender, chatID int64, queueSize int) *TelegramNotifier {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	n := &TelegramNotifier{
		bot:    bot,
		chatID: chatID,
		queue:  make(chan model.LedgerEvent, queueSize),
		done:   make(chan struct{}),
	}
	go n.run()
	return n
}

// Publish enqueues the event without blocking. Delivery errors are only logged.
func (n *TelegramNotifier) Publish(event model.LedgerEvent) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if n.closed {
		return
	}
	select {
	case n.queue <- event:
	default:
		logger.Named("telegram").Warn("telegram notification queue full, dropping event",
			zap.String("type", string(event.Type)),
			zap.String("referral_code", event.ReferralCode))
	}
}

// Close stops accepting events and waits for the queued ones to be sent.
func (n *TelegramNotifier) Close() {
	n.mu.Lock()
	if !n.closed {
		n.closed = true
		close(n.queue)
	}
	n.mu.Unlock()

	<-n.done
}

func (n *TelegramNotifier) run() {
	defer close(n.done)

	for event := range n.queue {
		if err := n.send(event); err != nil {
			logger.Named("telegram").Warn("failed to send telegram notification",
				zap.String("type", string(event.Type)),
				zap.String("referral_code", event.ReferralCode),
				zap.Error(err))
		}
	}
}

func (n *TelegramNotifier) send(event model.LedgerEvent) error {
	msg := tgbotapi.NewMessage(n.chatID, FormatEvent(event))
	_, err := n.bot.Send(msg)
	return err
}

func FormatEvent(event model.LedgerEvent) string {
	switch event.Type {
	case model.LedgerEventJoined:
		return fmt.Sprintf("New waitlist signup #%d (code %s, %d points)",
			event.Position, event.ReferralCode, event.Points)
	case model.LedgerEventReferralCredited:
		return fmt.Sprintf("Referral credited to %s: %d points, %d referrals",
			event.ReferralCode, event.Points, event.TotalReferrals)
	default:
		return fmt.Sprintf("Waitlist event %s for %s", event.Type, event.ReferralCode)
	}
}
