package handler

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"astroline/config"
	"astroline/internal/domain"
	"astroline/internal/repository"
	"astroline/internal/service"
)

const (
	buttonHoroscope    = "🔮 Гороскоп на сегодня"
	buttonTarot        = "🃏 Расклад Таро"
	buttonSubscription = "⭐ Подписка"
	buttonProfile      = "👤 Профиль"

	callbackPaySubscription = "pay_subscription"
	invoicePayload          = "premium_subscription"
)

type Handler struct {
	cfg       *config.Config
	logger    *zap.Logger
	db        *sql.DB
	service   *service.Service
	userRepo  *repository.UserRepository
	quoteRepo *repository.QuoteRepository
	tarotRepo *repository.TarotRepository
}

func NewHandler(cfg *config.Config, logger *zap.Logger, db *sql.DB, svc *service.Service,
	userRepo *repository.UserRepository, quoteRepo *repository.QuoteRepository, tarotRepo *repository.TarotRepository) *Handler {
	return &Handler{
		cfg:       cfg,
		logger:    logger,
		db:        db,
		service:   svc,
		userRepo:  userRepo,
		quoteRepo: quoteRepo,
		tarotRepo: tarotRepo,
	}
}

// DefaultHandler routes every Telegram update
func (h *Handler) DefaultHandler(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.PreCheckoutQuery != nil {
		h.handlePreCheckout(ctx, b, update.PreCheckoutQuery)
		return
	}

	if update.CallbackQuery != nil {
		h.handleCallback(ctx, b, update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		return
	}

	msg := update.Message
	userID := msg.From.ID

	if msg.SuccessfulPayment != nil {
		h.handleSuccessfulPayment(ctx, b, userID)
		return
	}

	text := strings.TrimSpace(msg.Text)

	if sign, ok := domain.SignFromButton(text); ok {
		h.handleSetSign(ctx, b, userID, sign)
		return
	}

	switch {
	case text == "/start" || strings.HasPrefix(text, "/start "):
		h.handleStart(ctx, b, userID)
	case text == "/horoscope" || text == buttonHoroscope:
		h.handleHoroscope(ctx, b, userID)
	case text == "/tarot" || text == buttonTarot:
		h.handleTarot(ctx, b, userID)
	case text == "/subscribe" || text == buttonSubscription:
		h.handleSubscribeInfo(ctx, b, userID)
	case text == "/pay":
		h.sendInvoice(ctx, b, userID)
	case text == "/profile" || text == buttonProfile:
		h.handleProfile(ctx, b, userID)
	default:
		h.sendText(ctx, b, userID, "Выбери действие в меню ниже 👇", buildMainMenu())
	}
}

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, userID int64) {
	if err := h.service.EnsureUser(ctx, userID); err != nil {
		h.logger.Error("Failed to ensure user on start", zap.Error(err), zap.Int64("telegram_id", userID))
		h.sendText(ctx, b, userID, "Что-то пошло не так. Попробуй ещё раз чуть позже.", nil)
		return
	}

	h.sendText(ctx, b, userID, h.service.WelcomeMessage(), buildZodiacKeyboard())
}

func (h *Handler) handleSetSign(ctx context.Context, b *bot.Bot, userID int64, sign string) {
	if err := h.service.SetSign(ctx, userID, sign); err != nil {
		h.logger.Error("Failed to set sign", zap.Error(err), zap.Int64("telegram_id", userID))
		h.sendText(ctx, b, userID, "Не получилось сохранить знак. Попробуй ещё раз.", nil)
		return
	}

	text := fmt.Sprintf("✅ Записал: твой знак — %s.\n\nТеперь ты можешь получить:\n🔮 Гороскоп командой /horoscope\n🃏 Расклад Таро — /tarot", sign)
	h.sendText(ctx, b, userID, text, buildMainMenu())
}

func (h *Handler) handleHoroscope(ctx context.Context, b *bot.Bot, userID int64) {
	sign, err := h.service.Sign(ctx, userID)
	if err != nil {
		h.logger.Error("Failed to load sign", zap.Error(err), zap.Int64("telegram_id", userID))
		h.sendText(ctx, b, userID, "Звёзды временно недоступны. Попробуй чуть позже.", nil)
		return
	}

	if sign == "" {
		h.sendText(ctx, b, userID,
			"Сначала выбери свой знак зодиака, чтобы я мог говорить с тобой точнее:",
			buildZodiacKeyboard())
		return
	}

	text, err := h.service.GenerateHoroscope(ctx, userID, sign)
	if err != nil {
		h.logger.Error("Failed to generate horoscope", zap.Error(err), zap.Int64("telegram_id", userID))
		h.sendText(ctx, b, userID, "Звёзды временно недоступны. Попробуй чуть позже.", nil)
		return
	}

	h.sendText(ctx, b, userID, text, nil)
}

func (h *Handler) handleTarot(ctx context.Context, b *bot.Bot, userID int64) {
	sign, err := h.service.Sign(ctx, userID)
	if err != nil {
		h.logger.Error("Failed to load sign", zap.Error(err), zap.Int64("telegram_id", userID))
		h.sendText(ctx, b, userID, domain.MsgTarotLater, nil)
		return
	}

	text, err := h.service.GenerateTarotReading(ctx, userID, domain.DefaultTarotTopic, sign)
	if err != nil {
		h.logger.Error("Failed to generate tarot reading", zap.Error(err), zap.Int64("telegram_id", userID))
		h.sendText(ctx, b, userID, domain.MsgTarotLater, nil)
		return
	}

	h.sendText(ctx, b, userID, text, nil)
}

func (h *Handler) handleSubscribeInfo(ctx context.Context, b *bot.Bot, userID int64) {
	keyboard := &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "Купить подписку", CallbackData: callbackPaySubscription},
			},
		},
	}

	text := "🌟 Премиум даёт тебе:\n" +
		"• Ежедневные уникальные расклады Таро\n" +
		"• Расширенные гороскопы по дате рождения\n" +
		"• Еженедельные PDF-отчёты (можно добавить позже)\n\n" +
		"Чтобы оформить подписку, используй команду /pay или нажми на кнопку:"

	h.sendText(ctx, b, userID, text, keyboard)
}

func (h *Handler) handleProfile(ctx context.Context, b *bot.Bot, userID int64) {
	sign, subscription, err := h.service.Profile(ctx, userID)
	if err != nil {
		h.logger.Error("Failed to load profile", zap.Error(err), zap.Int64("telegram_id", userID))
		h.sendText(ctx, b, userID, "Профиль временно недоступен. Попробуй чуть позже.", nil)
		return
	}

	if sign == "" {
		sign = "не выбран"
	}
	if subscription == "" {
		subscription = domain.SubscriptionFree
	}

	text := fmt.Sprintf("👤 Твой профиль:\n• Знак: %s\n• Подписка: %s\n\nЕсли хочешь изменить знак — просто напиши его снова.", sign, subscription)
	h.sendText(ctx, b, userID, text, nil)
}

func (h *Handler) handleCallback(ctx context.Context, b *bot.Bot, query *models.CallbackQuery) {
	if _, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: query.ID,
	}); err != nil {
		h.logger.Error("Failed to answer callback query", zap.Error(err))
	}

	if query.Data == callbackPaySubscription {
		h.sendInvoice(ctx, b, query.From.ID)
	}
}

func (h *Handler) sendInvoice(ctx context.Context, b *bot.Bot, userID int64) {
	// Telegram Stars: empty provider token, XTR currency
	_, err := b.SendInvoice(ctx, &bot.SendInvoiceParams{
		ChatID:      userID,
		Title:       "Премиум-подписка",
		Description: "Уникальные расклады, расширенные гороскопы и больше магии текста ✨",
		Payload:     invoicePayload,
		Currency:    "XTR",
		Prices: []models.LabeledPrice{
			{Label: "Премиум на 1 месяц", Amount: h.cfg.SubscriptionPriceStars},
		},
	})

	if err != nil {
		h.logger.Error("Failed to send invoice", zap.Error(err), zap.Int64("telegram_id", userID))
	}
}

func (h *Handler) handlePreCheckout(ctx context.Context, b *bot.Bot, query *models.PreCheckoutQuery) {
	if _, err := b.AnswerPreCheckoutQuery(ctx, &bot.AnswerPreCheckoutQueryParams{
		PreCheckoutQueryID: query.ID,
		OK:                 true,
	}); err != nil {
		h.logger.Error("Failed to answer pre-checkout query", zap.Error(err), zap.Int64("telegram_id", query.From.ID))
	}
}

func (h *Handler) handleSuccessfulPayment(ctx context.Context, b *bot.Bot, userID int64) {
	if err := h.service.ActivateSubscription(ctx, userID); err != nil {
		h.logger.Error("Failed to activate subscription", zap.Error(err), zap.Int64("telegram_id", userID))
		h.sendText(ctx, b, userID, "Оплата получена, но активация задержалась. Напиши в поддержку, мы всё поправим.", nil)
		return
	}

	h.logger.Info("Subscription activated", zap.Int64("telegram_id", userID))
	h.sendText(ctx, b, userID, "✨ Спасибо за доверие!\nТвоя премиум-подписка активирована. Теперь ты — в эпицентре магии и текста.", nil)
}

func (h *Handler) sendText(ctx context.Context, b *bot.Bot, chatID int64, text string, markup models.ReplyMarkup) {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}

	if _, err := b.SendMessage(ctx, params); err != nil {
		h.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

// buildZodiacKeyboard is the 3x4 sign picker shown on /start
func buildZodiacKeyboard() *models.ReplyKeyboardMarkup {
	rows := make([][]models.KeyboardButton, 0, 4)
	for i := 0; i < len(domain.ZodiacButtons); i += 3 {
		row := make([]models.KeyboardButton, 0, 3)
		for j := i; j < i+3 && j < len(domain.ZodiacButtons); j++ {
			row = append(row, models.KeyboardButton{Text: domain.ZodiacButtons[j]})
		}
		rows = append(rows, row)
	}

	return &models.ReplyKeyboardMarkup{
		Keyboard:        rows,
		ResizeKeyboard:  true,
		OneTimeKeyboard: true,
	}
}

// buildMainMenu is the 2x2 action keyboard shown after sign selection
func buildMainMenu() *models.ReplyKeyboardMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard: [][]models.KeyboardButton{
			{
				{Text: buttonHoroscope},
				{Text: buttonTarot},
			},
			{
				{Text: buttonSubscription},
				{Text: buttonProfile},
			},
		},
		ResizeKeyboard: true,
	}
}
