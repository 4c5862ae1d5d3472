package bot

const (
	commandHelp   = "/help"
	commandReview = "/agreements"
)

const (
	msgHelp = "Use the buttons below to browse products, open an agreement or check official " +
		"currency rates. Send /start at any time to return to the main menu."
	msgAdminOnly   = "This command is available to the bank administrator only."
	msgRateLimited = "Too many messages, please slow down."
	msgTextOnly    = "Only text messages are supported."
)
