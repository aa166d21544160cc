package handler

import (
	"SupportBot/model"

	"github.com/go-telegram/bot/models"
)

const askAnotherButtonText = "Задать еще вопрос"

// contactKeyboard asks the student to share their own contact card.
func contactKeyboard() *models.ReplyKeyboardMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard: [][]models.KeyboardButton{
			{{Text: "Отправить свой контакт ☎️", RequestContact: true}},
		},
		ResizeKeyboard: true,
	}
}

// questionKeyboard offers the shortcut back into the question step.
func questionKeyboard() *models.ReplyKeyboardMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard: [][]models.KeyboardButton{
			{{Text: askAnotherButtonText}},
		},
		ResizeKeyboard: true,
	}
}

func removeKeyboard() *models.ReplyKeyboardRemove {
	return &models.ReplyKeyboardRemove{RemoveKeyboard: true}
}

// curatorKeyboard attaches the reply action to a forwarded question,
// plus the full-history action once the recent window overflows.
func curatorKeyboard(userID int64, hasHistory bool) *models.InlineKeyboardMarkup {
	rows := [][]models.InlineKeyboardButton{
		{{Text: "Ответить", CallbackData: model.Action{Kind: model.ActionReply, UserID: userID}.Token()}},
	}
	if hasHistory {
		rows = append(rows, []models.InlineKeyboardButton{
			{Text: "Показать всю историю", CallbackData: model.Action{Kind: model.ActionFullHistory, UserID: userID}.Token()},
		})
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}
