package handler

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"

	"SupportBot/model"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

const (
	userNotFoundText = "❌ Ошибка: пользователь не найден"
	emptyHistoryText = "История вопросов пуста"
	answerSentText   = "✅ Ответ успешно отправлен студенту!"
	answerPrefixText = "📩 Ответ от куратора:\n\n"
	curatorIdleHint  = "Это бот поддержки. Нажмите «Ответить» под вопросом студента, чтобы отправить ответ."
)

func (h *SupportBotHandler) handleCallback(ctx context.Context, api telegramAPI, cb *models.CallbackQuery) {
	action, err := model.ParseAction(cb.Data)
	if err != nil {
		log.Warn().Str("token", cb.Data).Msg("ignoring malformed action token")
		h.answerCallback(ctx, api, cb.ID, "")
		return
	}

	switch action.Kind {
	case model.ActionReply:
		h.handleReplyAction(ctx, api, cb, action.UserID)
	case model.ActionFullHistory:
		h.handleFullHistoryAction(ctx, api, cb, action.UserID)
	}
}

func (h *SupportBotHandler) handleReplyAction(ctx context.Context, api telegramAPI, cb *models.CallbackQuery, targetID int64) {
	profile, ok := h.users.Get(targetID)
	if !ok {
		h.answerCallback(ctx, api, cb.ID, userNotFoundText)
		return
	}

	// Cross-reference which forwarded question this button hangs on.
	if cb.Message.Message != nil {
		if p, ok := h.pending.Get(cb.Message.Message.ID); ok {
			log.Debug().Int64("user_id", p.UserID).Int("message_id", cb.Message.Message.ID).
				Msg("reply requested for pending question")
		}
	}

	h.answerCallback(ctx, api, cb.ID, "")
	h.send(ctx, api, &bot.SendMessageParams{
		ChatID: cb.From.ID,
		Text: fmt.Sprintf(
			"✍️ Напишите ответ для пользователя (не более %d символов):\n\n👤: %s\n📱: %s\n🆔: <code>%d</code>\n\nПосле отправки сообщения оно будет переслано пользователю.",
			model.MaxAnswerLength,
			html.EscapeString(profile.FullName),
			html.EscapeString(profile.Username),
			targetID,
		),
		ParseMode: models.ParseModeHTML,
	})
	h.states.set(cb.From.ID, model.ConversationState{
		State:        model.StateAwaitingAnswer,
		TargetUserID: targetID,
	})
}

// handleFullHistoryAction is a side read: it does not touch curator
// state, so it works whether or not an answer is in flight.
func (h *SupportBotHandler) handleFullHistoryAction(ctx context.Context, api telegramAPI, cb *models.CallbackQuery, targetID int64) {
	profile, ok := h.users.Get(targetID)
	if !ok || len(profile.Questions) == 0 {
		h.answerCallback(ctx, api, cb.ID, emptyHistoryText)
		return
	}

	questions := h.users.FullHistory(targetID)
	if len(questions) > model.BulkExportThreshold {
		var buf bytes.Buffer
		for i, q := range questions {
			fmt.Fprintf(&buf, "%d. %s\n", i+1, q)
		}
		_, err := api.SendDocument(ctx, &bot.SendDocumentParams{
			ChatID: cb.From.ID,
			Document: &models.InputFileUpload{
				Filename: fmt.Sprintf("questions_%d.txt", targetID),
				Data:     &buf,
			},
			Caption: fmt.Sprintf("📜 Полная история вопросов от %s (ID: %d)", profile.FullName, targetID),
		})
		if err != nil {
			log.Error().Err(err).Int64("user_id", targetID).Msg("error sending history document")
		}
	} else {
		lines := make([]string, 0, len(questions))
		for i, q := range questions {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, q))
		}
		h.send(ctx, api, &bot.SendMessageParams{
			ChatID: cb.From.ID,
			Text: fmt.Sprintf("📜 Полная история вопросов от %s (ID: %d):\n\n%s",
				html.EscapeString(profile.FullName), targetID, strings.Join(lines, "\n")),
			ParseMode: models.ParseModeHTML,
		})
	}

	h.answerCallback(ctx, api, cb.ID, "")
}

func (h *SupportBotHandler) handleCuratorMessage(ctx context.Context, api telegramAPI, msg *models.Message) {
	state := h.states.get(h.curatorID)
	if state.State != model.StateAwaitingAnswer {
		// Nothing in flight; the flow starts from the reply buttons.
		if msg.Text == "/start" || msg.Text == "/help" {
			h.send(ctx, api, &bot.SendMessageParams{
				ChatID: msg.Chat.ID,
				Text:   curatorIdleHint,
			})
		}
		return
	}

	if !validAnswer(msg.Text) {
		// Target is preserved so the curator can retry.
		h.send(ctx, api, &bot.SendMessageParams{
			ChatID: msg.Chat.ID,
			Text: fmt.Sprintf("❌ Ваш ответ слишком длинный. Пожалуйста, ограничьте ответ %d символами.",
				model.MaxAnswerLength),
		})
		return
	}

	// Cleared whatever the delivery outcome, so the curator is never
	// stuck in the answer step.
	defer h.states.clear(h.curatorID)

	targetID := state.TargetUserID
	if !h.users.Exists(targetID) {
		h.send(ctx, api, &bot.SendMessageParams{
			ChatID: msg.Chat.ID,
			Text:   userNotFoundText,
		})
		return
	}

	_, err := api.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: targetID,
		Text:   answerPrefixText + msg.Text,
	})
	if err != nil {
		log.Error().Err(err).Int64("user_id", targetID).Msg("error delivering answer to student")
		h.send(ctx, api, &bot.SendMessageParams{
			ChatID: msg.Chat.ID,
			Text:   fmt.Sprintf("❌ Не удалось отправить ответ: %v", err),
		})
		return
	}

	h.send(ctx, api, &bot.SendMessageParams{
		ChatID: msg.Chat.ID,
		Text:   answerSentText,
	})
}
