package conversation

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/m3rciful/bankbot/internal/user"
)

// RowWidth is the maximum number of buttons per keyboard row.
const RowWidth = 4

// Reply is the outbound message produced for one inbound text.
// Buttons are rendered by the transport as a reply keyboard.
type Reply struct {
	Text    string
	Buttons []string
}

// Rows partitions Buttons into rows of RowWidth preserving order; the last row may be shorter.
func (r Reply) Rows() [][]string {
	return Partition(r.Buttons, RowWidth)
}

// Partition splits labels into ceil(len/width) rows.
func Partition(labels []string, width int) [][]string {
	if width < 1 {
		width = 1
	}
	rows := make([][]string, 0, (len(labels)+width-1)/width)
	for i := 0; i < len(labels); i += width {
		end := i + width
		if end > len(labels) {
			end = len(labels)
		}
		rows = append(rows, append([]string(nil), labels[i:end]...))
	}
	return rows
}

// MainMenu returns the actions offered to role.
func MainMenu(role user.Role) []string {
	actions := make([]string, 0, 4)
	if role.IsManager() {
		actions = append(actions, ButtonNewAgreements)
	}
	return append(actions, ButtonProducts, ButtonCurrencyRates, ButtonExit)
}

func menuReply(role user.Role, text string) Reply {
	return Reply{Text: text, Buttons: MainMenu(role)}
}

// FailureReply is sent when a turn fails on an external dependency. The
// session is kept so the user may retry the same input.
func FailureReply() Reply {
	return Reply{Text: msgServiceFailure, Buttons: []string{ButtonBack}}
}

var printer = message.NewPrinter(language.English)

// groupedInt renders amount rounded to a whole number with thousands separators.
func groupedInt(amount decimal.Decimal) string {
	return printer.Sprintf("%d", amount.Round(0).IntPart())
}

func percent(rate decimal.Decimal) string {
	return rate.StringFixed(2)
}
