package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/xaenox/tube-agent/internal/agent"
	"github.com/xaenox/tube-agent/internal/models"
)

// botAPI is the part of *tgbotapi.BotAPI the bot uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type Bot struct {
	api     botAPI
	agent   *agent.Service
	logger  *zap.Logger
	timeout int
}

func New(token string, debug bool, timeout int, svc *agent.Service, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	api.Debug = debug

	logger.Info("Authorized on Telegram", zap.String("username", api.Self.UserName))
	return newBot(api, timeout, svc, logger), nil
}

func newBot(api botAPI, timeout int, svc *agent.Service, logger *zap.Logger) *Bot {
	return &Bot{
		api:     api,
		agent:   svc,
		logger:  logger,
		timeout: timeout,
	}
}

// Start polls for updates until ctx is done and waits for in-flight handlers.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.timeout

	updates := b.api.GetUpdatesChan(u)

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				b.handleUpdate(ctx, update)
			}()
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	// Handle commands
	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	content := message.Text
	if message.Caption != "" {
		content = message.Caption
	}
	if strings.TrimSpace(content) == "" {
		return
	}

	b.ask(ctx, message.Chat.ID, content)
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	args := strings.TrimSpace(message.CommandArguments())

	switch cmd := message.Command(); cmd {
	case "start", "reset":
		b.render(chatID)(b.agent.Open(ctx, chatID))
	case "help":
		b.sendMessage(chatID, helpText)
	case "agent", "home", "trending", "explore", "watchlist", "playlists", "history", "liked":
		b.render(chatID)(b.agent.OpenTab(ctx, chatID, models.ParseTab(cmd)))
	case "category":
		if args == "" {
			b.sendCategories(chatID)
			return
		}
		b.render(chatID)(b.agent.SelectCategory(ctx, chatID, args))
	case "categories":
		b.sendCategories(chatID)
	case "sort":
		b.render(chatID)(b.agent.SelectSort(ctx, chatID, args))
	case "add":
		b.toggle(ctx, chatID, args)
	case "remove":
		b.render(chatID)(b.agent.RemoveFromWatchlist(ctx, chatID, args))
	case "play":
		b.play(ctx, chatID, args)
	case "search", "ask":
		if args == "" {
			b.sendMessage(chatID, "Tell me what to look for, e.g. /search pizza")
			return
		}
		b.ask(ctx, chatID, args)
	default:
		b.sendMessage(chatID, "Unknown command. Use /help to see available commands.")
	}
}

func (b *Bot) ask(ctx context.Context, chatID int64, query string) {
	if _, err := b.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		b.logger.Warn("Failed to send chat action", zap.Error(err), zap.Int64("chat_id", chatID))
	}
	b.render(chatID)(b.agent.Ask(ctx, chatID, query))
}

func (b *Bot) toggle(ctx context.Context, chatID int64, videoID string) {
	video, added, err := b.agent.ToggleWatchlist(ctx, chatID, videoID)
	if err != nil {
		b.reportError(chatID, err)
		return
	}
	b.sendMessage(chatID, toggleNotice(video, added))
}

func (b *Bot) play(ctx context.Context, chatID int64, videoID string) {
	video, err := b.agent.Play(ctx, chatID, videoID)
	if err != nil {
		b.reportError(chatID, err)
		return
	}
	b.sendMessage(chatID, playNotice(video))
}

// render returns a sink for the (view, error) pair of an agent call.
func (b *Bot) render(chatID int64) func(*agent.View, error) {
	return func(view *agent.View, err error) {
		if err != nil {
			b.reportError(chatID, err)
			return
		}
		b.sendView(chatID, view)
	}
}

func (b *Bot) sendView(chatID int64, view *agent.View) {
	text, markup := renderView(view)
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	if len(markup.InlineKeyboard) > 0 {
		msg.ReplyMarkup = markup
	}

	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send view",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
			zap.String("tab", string(view.Tab)))
	}
}

func (b *Bot) sendCategories(chatID int64) {
	view := &agent.View{
		Title:      "Categories",
		Text:       "Pick a category to browse:",
		Categories: b.agent.Catalog().Categories(),
	}
	b.sendView(chatID, view)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		b.answer(cb.ID, "")
		return
	}
	chatID := cb.Message.Chat.ID
	messageID := cb.Message.MessageID
	action, arg, _ := strings.Cut(cb.Data, ":")

	switch action {
	case actionToggle:
		video, added, err := b.agent.ToggleWatchlist(ctx, chatID, arg)
		if err != nil {
			b.answer(cb.ID, userMessage(err))
			return
		}
		b.answer(cb.ID, toggleNotice(video, added))
		if cb.Message.ReplyMarkup != nil && setToggleState(cb.Message.ReplyMarkup, arg, added) {
			edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, *cb.Message.ReplyMarkup)
			if _, err := b.api.Request(edit); err != nil {
				b.logger.Error("Failed to update keyboard", zap.Error(err), zap.Int64("chat_id", chatID))
			}
		}

	case actionRemove:
		view, err := b.agent.RemoveFromWatchlist(ctx, chatID, arg)
		b.answerAndEdit(cb, view, err, "Removed from watchlist")

	case actionCategory:
		view, err := b.agent.SelectCategory(ctx, chatID, arg)
		b.answerAndEdit(cb, view, err, "")

	case actionSort:
		view, err := b.agent.SelectSort(ctx, chatID, arg)
		b.answerAndEdit(cb, view, err, "")

	case actionPlay:
		video, err := b.agent.Play(ctx, chatID, arg)
		if err != nil {
			b.answer(cb.ID, userMessage(err))
			return
		}
		b.answer(cb.ID, "▶ "+video.Title)
		b.sendMessage(chatID, playNotice(video))

	case actionAsk:
		queries := b.agent.Catalog().SuggestedQueries
		i, err := strconv.Atoi(arg)
		if err != nil || i < 0 || i >= len(queries) {
			b.answer(cb.ID, "That suggestion is no longer available")
			return
		}
		b.answer(cb.ID, "")
		b.sendMessage(chatID, "🗨 "+queries[i])
		b.ask(ctx, chatID, queries[i])

	default:
		b.answer(cb.ID, "")
	}
}

func (b *Bot) answerAndEdit(cb *tgbotapi.CallbackQuery, view *agent.View, err error, notice string) {
	if err != nil {
		b.answer(cb.ID, userMessage(err))
		return
	}
	b.answer(cb.ID, notice)

	text, markup := renderView(view)
	edit := tgbotapi.NewEditMessageTextAndMarkup(cb.Message.Chat.ID, cb.Message.MessageID, text, markup)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	if _, err := b.api.Send(edit); err != nil {
		b.logger.Error("Failed to edit message",
			zap.Error(err),
			zap.Int64("chat_id", cb.Message.Chat.ID))
	}
}

func (b *Bot) answer(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		b.logger.Error("Failed to answer callback", zap.Error(err))
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) reportError(chatID int64, err error) {
	text := userMessage(err)
	if text == genericError {
		b.logger.Error("Request failed", zap.Error(err), zap.Int64("chat_id", chatID))
	}
	b.sendErrorMessage(chatID, text)
}

func (b *Bot) sendErrorMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, "⚠️ "+text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send error message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

const genericError = "Sorry, something went wrong. Please try again."

func userMessage(err error) string {
	switch {
	case errors.Is(err, agent.ErrUnknownVideo):
		return "I don't know that video. Use the buttons under a video or its id."
	case errors.Is(err, agent.ErrUnknownCategory):
		return "Unknown category. Use /categories to see them all."
	case errors.Is(err, agent.ErrUnknownSort):
		return "Sort by views, date or duration, e.g. /sort date"
	case errors.Is(err, agent.ErrEmptyQuery):
		return "Ask me something first."
	}
	return genericError
}
