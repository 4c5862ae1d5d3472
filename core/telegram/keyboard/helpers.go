// Package keyboard renders reply keyboards.
package keyboard

import tele "gopkg.in/telebot.v4"

// ForRows returns a resized one-time reply keyboard with one button per
// label. With no rows it returns a markup removing the current keyboard.
func ForRows(rows [][]string) *tele.ReplyMarkup {
	if len(rows) == 0 {
		return &tele.ReplyMarkup{RemoveKeyboard: true}
	}
	kb := make([][]tele.ReplyButton, len(rows))
	for i, row := range rows {
		kb[i] = make([]tele.ReplyButton, len(row))
		for j, label := range row {
			kb[i][j] = tele.ReplyButton{Text: label}
		}
	}
	return &tele.ReplyMarkup{
		ReplyKeyboard:   kb,
		ResizeKeyboard:  true,
		OneTimeKeyboard: true,
	}
}
