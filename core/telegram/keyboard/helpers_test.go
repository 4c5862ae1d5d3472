package keyboard

import "testing"

func TestForRowsLayout(t *testing.T) {
	t.Parallel()

	markup := ForRows([][]string{{"USD", "EUR", "GBP", "CHF"}, {"Back"}})
	if !markup.OneTimeKeyboard || !markup.ResizeKeyboard {
		t.Fatalf("expected one-time resized keyboard, got %+v", markup)
	}
	if len(markup.ReplyKeyboard) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(markup.ReplyKeyboard))
	}
	if got := markup.ReplyKeyboard[0][3].Text; got != "CHF" {
		t.Fatalf("expected CHF, got %q", got)
	}
	if got := markup.ReplyKeyboard[1][0].Text; got != "Back" {
		t.Fatalf("expected Back, got %q", got)
	}
}

func TestForRowsEmptyRemovesKeyboard(t *testing.T) {
	t.Parallel()

	markup := ForRows(nil)
	if !markup.RemoveKeyboard || len(markup.ReplyKeyboard) != 0 {
		t.Fatalf("expected keyboard removal, got %+v", markup)
	}
}
