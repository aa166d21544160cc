package handler

import (
	"context"
	"sync"

	"SupportBot/model"
	"SupportBot/repo"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

// telegramAPI is the slice of the bot client the handlers use.
// *bot.Bot satisfies it; tests substitute a fake.
type telegramAPI interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendDocument(ctx context.Context, params *bot.SendDocumentParams) (*models.Message, error)
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
}

// SupportBotHandler routes student questions to the curator and the
// curator's answers back to the asking student. It owns all
// conversation state: the profile store, the pending-question
// correlations and the per-participant conversation steps.
type SupportBotHandler struct {
	curatorID int64
	users     *repo.UserStore
	pending   *repo.PendingStore
	states    stateTable
	locks     keyedMutex
}

func NewSupportBotHandler(curatorID int64, users *repo.UserStore, pending *repo.PendingStore) *SupportBotHandler {
	return &SupportBotHandler{
		curatorID: curatorID,
		users:     users,
		pending:   pending,
	}
}

// Handler is registered as the bot's default handler and receives
// every update.
func (h *SupportBotHandler) Handler(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.handle(ctx, b, update)
}

func (h *SupportBotHandler) handle(ctx context.Context, api telegramAPI, update *models.Update) {
	if update.CallbackQuery != nil {
		unlock := h.locks.lock(update.CallbackQuery.From.ID)
		defer unlock()
		h.handleCallback(ctx, api, update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		return
	}

	// Events for the same participant must not interleave.
	unlock := h.locks.lock(update.Message.From.ID)
	defer unlock()

	if update.Message.From.ID == h.curatorID {
		h.handleCuratorMessage(ctx, api, update.Message)
		return
	}
	h.handleStudentMessage(ctx, api, update.Message)
}

// send delivers a message and logs the failure; callers that need the
// delivery outcome call the API directly.
func (h *SupportBotHandler) send(ctx context.Context, api telegramAPI, params *bot.SendMessageParams) {
	if _, err := api.SendMessage(ctx, params); err != nil {
		log.Error().Err(err).Msg("error sending message")
	}
}

func (h *SupportBotHandler) answerCallback(ctx context.Context, api telegramAPI, callbackID, text string) {
	_, err := api.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	if err != nil {
		log.Error().Err(err).Msg("error answering callback query")
	}
}

// stateTable holds each participant's conversation step. A missing
// entry reads as the explicit idle state.
type stateTable struct {
	mu     sync.Mutex
	states map[int64]model.ConversationState
}

func (t *stateTable) get(id int64) model.ConversationState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.states[id]
}

func (t *stateTable) set(id int64, s model.ConversationState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.states == nil {
		t.states = make(map[int64]model.ConversationState)
	}
	t.states[id] = s
}

func (t *stateTable) clear(id int64) {
	t.set(id, model.ConversationState{})
}

// keyedMutex serializes event handling per participant so two
// overlapping updates for the same user cannot interleave state
// transitions or history writes. Different participants proceed in
// parallel.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func (k *keyedMutex) lock(id int64) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[int64]*sync.Mutex)
	}
	l, ok := k.locks[id]
	if !ok {
		l = &sync.Mutex{}
		k.locks[id] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}
