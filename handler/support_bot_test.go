package handler

import (
	"context"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/require"

	"SupportBot/repo"
)

const testCuratorID int64 = 777

// fakeTelegram captures outbound sends instead of hitting the Bot API.
type fakeTelegram struct {
	messages      []*bot.SendMessageParams
	documents     []*bot.SendDocumentParams
	callbacks     []*bot.AnswerCallbackQueryParams
	nextMessageID int
	failChats     map[int64]error
}

func (f *fakeTelegram) SendMessage(_ context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	if chatID, ok := params.ChatID.(int64); ok {
		if err, fail := f.failChats[chatID]; fail {
			return nil, err
		}
	}
	f.nextMessageID++
	f.messages = append(f.messages, params)
	return &models.Message{ID: f.nextMessageID}, nil
}

func (f *fakeTelegram) SendDocument(_ context.Context, params *bot.SendDocumentParams) (*models.Message, error) {
	f.nextMessageID++
	f.documents = append(f.documents, params)
	return &models.Message{ID: f.nextMessageID}, nil
}

func (f *fakeTelegram) AnswerCallbackQuery(_ context.Context, params *bot.AnswerCallbackQueryParams) (bool, error) {
	f.callbacks = append(f.callbacks, params)
	return true, nil
}

func (f *fakeTelegram) messagesTo(chatID int64) []*bot.SendMessageParams {
	var out []*bot.SendMessageParams
	for _, m := range f.messages {
		if id, ok := m.ChatID.(int64); ok && id == chatID {
			out = append(out, m)
		}
	}
	return out
}

func lastMessageTo(t *testing.T, f *fakeTelegram, chatID int64) *bot.SendMessageParams {
	t.Helper()
	msgs := f.messagesTo(chatID)
	require.NotEmpty(t, msgs, "no messages sent to chat %d", chatID)
	return msgs[len(msgs)-1]
}

func newTestBot() (*SupportBotHandler, *fakeTelegram) {
	h := NewSupportBotHandler(testCuratorID, repo.NewUserStore(), repo.NewPendingStore())
	return h, &fakeTelegram{failChats: make(map[int64]error)}
}

func textUpdate(userID int64, text string) *models.Update {
	return &models.Update{
		Message: &models.Message{
			ID:   1,
			From: &models.User{ID: userID, FirstName: "Студент"},
			Chat: models.Chat{ID: userID},
			Text: text,
		},
	}
}

func contactUpdate(senderID, contactUserID int64, phone string) *models.Update {
	return &models.Update{
		Message: &models.Message{
			ID:      1,
			From:    &models.User{ID: senderID, FirstName: "Студент"},
			Chat:    models.Chat{ID: senderID},
			Contact: &models.Contact{UserID: contactUserID, PhoneNumber: phone, FirstName: "Студент"},
		},
	}
}

func callbackUpdate(fromID int64, data string, messageID int) *models.Update {
	return &models.Update{
		CallbackQuery: &models.CallbackQuery{
			ID:   "cb-1",
			From: models.User{ID: fromID, FirstName: "Куратор"},
			Data: data,
			Message: models.MaybeInaccessibleMessage{
				Message: &models.Message{ID: messageID, Chat: models.Chat{ID: fromID}},
			},
		},
	}
}

// register walks a student through /start and the contact step.
func register(t *testing.T, h *SupportBotHandler, f *fakeTelegram, userID int64) {
	t.Helper()
	ctx := context.Background()
	h.handle(ctx, f, textUpdate(userID, "/start"))
	h.handle(ctx, f, contactUpdate(userID, userID, "+77001234567"))
}

// askQuestion submits a question for an already registered student.
func askQuestion(t *testing.T, h *SupportBotHandler, f *fakeTelegram, userID int64, question string) {
	t.Helper()
	ctx := context.Background()
	h.handle(ctx, f, textUpdate(userID, askAnotherButtonText))
	h.handle(ctx, f, textUpdate(userID, question))
}
