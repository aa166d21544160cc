package handler

import (
	"context"
	"fmt"
	"html"

	"SupportBot/model"
	"SupportBot/repo"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

// Question text shown to the curator is cut to this many characters;
// the recent history below it carries the tail anyway.
const maxQuestionPreview = 500

const (
	welcomeText       = "Привет! Это бот поддержки для участников олимпиады."
	contactPromptText = "Для начала, поделись контактом для связи 👇"
	wrongContactText  = "Пожалуйста, отправьте именно свой контакт!"
	restartText       = "Пожалуйста, сначала отправьте контакт через команду /start"
	submittedText     = "✅ Ваш вопрос отправлен куратору! Ожидайте ответа."
	startOverText     = "Произошла ошибка. Пожалуйста, начните снова через /start"
)

func questionPromptText() string {
	return fmt.Sprintf("Задайте свой вопрос куратору (не более %d символов):", model.MaxQuestionLength)
}

func (h *SupportBotHandler) handleStudentMessage(ctx context.Context, api telegramAPI, msg *models.Message) {
	state := h.states.get(msg.From.ID)

	switch {
	case msg.Text == "/start":
		h.handleStart(ctx, api, msg)
	case msg.Text == askAnotherButtonText:
		h.handleAskAnother(ctx, api, msg)
	case msg.Contact != nil && state.State == model.StateAwaitingContact:
		h.handleContact(ctx, api, msg)
	case state.State == model.StateAwaitingQuestion:
		h.handleQuestion(ctx, api, msg)
	case state.State == model.StateAwaitingContact:
		// Anything but a contact card while registering: re-prompt.
		h.send(ctx, api, &bot.SendMessageParams{
			ChatID:      msg.Chat.ID,
			Text:        wrongContactText,
			ReplyMarkup: contactKeyboard(),
		})
	default:
		// Idle and not a known trigger; nothing to route.
	}
}

func (h *SupportBotHandler) handleStart(ctx context.Context, api telegramAPI, msg *models.Message) {
	userID := msg.From.ID

	// Registration is one-time: a returning student goes straight to
	// the question step.
	if h.users.Exists(userID) {
		h.send(ctx, api, &bot.SendMessageParams{
			ChatID:      msg.Chat.ID,
			Text:        questionPromptText(),
			ReplyMarkup: removeKeyboard(),
		})
		h.states.set(userID, model.ConversationState{State: model.StateAwaitingQuestion})
		return
	}

	h.send(ctx, api, &bot.SendMessageParams{
		ChatID: msg.Chat.ID,
		Text:   welcomeText,
	})
	h.send(ctx, api, &bot.SendMessageParams{
		ChatID:      msg.Chat.ID,
		Text:        contactPromptText,
		ReplyMarkup: contactKeyboard(),
	})
	h.states.set(userID, model.ConversationState{State: model.StateAwaitingContact})
}

func (h *SupportBotHandler) handleContact(ctx context.Context, api telegramAPI, msg *models.Message) {
	userID := msg.From.ID

	// The shared contact must belong to the sender.
	if msg.Contact.UserID != userID {
		h.send(ctx, api, &bot.SendMessageParams{
			ChatID:      msg.Chat.ID,
			Text:        wrongContactText,
			ReplyMarkup: contactKeyboard(),
		})
		return
	}

	username := "Нет username"
	if msg.From.Username != "" {
		username = "@" + msg.From.Username
	}
	h.users.Register(model.UserProfile{
		UserID:      userID,
		FullName:    fullName(msg.From),
		Username:    username,
		PhoneNumber: msg.Contact.PhoneNumber,
	})

	h.send(ctx, api, &bot.SendMessageParams{
		ChatID:      msg.Chat.ID,
		Text:        fmt.Sprintf("Спасибо! Теперь задайте свой вопрос куратору (не более %d символов):", model.MaxQuestionLength),
		ReplyMarkup: removeKeyboard(),
	})
	h.states.set(userID, model.ConversationState{State: model.StateAwaitingQuestion})
}

func (h *SupportBotHandler) handleAskAnother(ctx context.Context, api telegramAPI, msg *models.Message) {
	userID := msg.From.ID
	if !h.users.Exists(userID) {
		h.send(ctx, api, &bot.SendMessageParams{
			ChatID:      msg.Chat.ID,
			Text:        restartText,
			ReplyMarkup: contactKeyboard(),
		})
		return
	}

	h.send(ctx, api, &bot.SendMessageParams{
		ChatID:      msg.Chat.ID,
		Text:        questionPromptText(),
		ReplyMarkup: removeKeyboard(),
	})
	h.states.set(userID, model.ConversationState{State: model.StateAwaitingQuestion})
}

func (h *SupportBotHandler) handleQuestion(ctx context.Context, api telegramAPI, msg *models.Message) {
	if !validQuestion(msg.Text) {
		h.send(ctx, api, &bot.SendMessageParams{
			ChatID: msg.Chat.ID,
			Text: fmt.Sprintf("❌ Ваше сообщение слишком длинное. Пожалуйста, ограничьте вопрос %d символами.",
				model.MaxQuestionLength),
		})
		return
	}

	userID := msg.From.ID

	// Escaped once at intake: every curator-facing render of the
	// question uses HTML parse mode.
	question := html.EscapeString(msg.Text)

	if err := h.users.RecordQuestion(userID, question); err != nil {
		h.send(ctx, api, &bot.SendMessageParams{
			ChatID:      msg.Chat.ID,
			Text:        startOverText,
			ReplyMarkup: contactKeyboard(),
		})
		h.states.set(userID, model.ConversationState{State: model.StateAwaitingContact})
		return
	}

	profile, _ := h.users.Get(userID)
	sent, err := api.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      h.curatorID,
		Text:        h.curatorQuestionText(profile, question),
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: curatorKeyboard(userID, h.users.HasOverflowHistory(userID)),
	})
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("error forwarding question to curator")
		return
	}

	h.pending.Add(sent.ID, repo.PendingQuestion{UserID: userID, Question: question})

	h.send(ctx, api, &bot.SendMessageParams{
		ChatID:      msg.Chat.ID,
		Text:        submittedText,
		ReplyMarkup: questionKeyboard(),
	})
	h.states.clear(userID)
}

// curatorQuestionText builds the compact message the curator sees: the
// student's profile header, the fresh question and the recent history.
func (h *SupportBotHandler) curatorQuestionText(profile model.UserProfile, question string) string {
	return fmt.Sprintf(
		"📌 Вопрос от %s (ID: <code>%d</code>)\n📱 %s | ☎️ %s\n\n❓ Вопрос:\n%s\n\n%s",
		html.EscapeString(profile.FullName),
		profile.UserID,
		html.EscapeString(profile.Username),
		html.EscapeString(profile.PhoneNumber),
		truncate(question, maxQuestionPreview),
		h.users.FormatRecentHistory(profile.UserID),
	)
}

func fullName(u *models.User) string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
