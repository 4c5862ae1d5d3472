package conversation

// Button labels and commands understood by the dispatcher.
const (
	CommandStart = "/start"

	ButtonProducts      = "Products"
	ButtonCurrencyRates = "Currency rates"
	ButtonNewAgreements = "New agreements"
	ButtonExit          = "Exit"
	ButtonBack          = "Back"
	ButtonConfirm       = "Confirm"
	ButtonBlock         = "Block"
)

// Message templates.
const (
	msgWelcome        = "Welcome to banking application!"
	msgSelectAction   = "Select action:"
	msgUnknownInput   = "Sorry, I don't know how to handle such command yet :("
	msgAccessDenied   = "Access denied"
	msgSessionClosed  = "Session closed. Send /start to begin again."
	msgServiceFailure = "Sorry, the service is temporarily unavailable. Please try again later."

	msgProductTypes   = "Here is a list of available types of products:\n"
	msgSelectProduct  = "Select your desired product:"
	msgProductsOfType = "Here is a list of products of type %s:\n"
	msgProductInfo    = "%d. %s, from zł.%s with an interest rate of %s%%, for a period of %d months.\n\n"
	msgSelectCurrency = "Select currency:"
	msgNoteConvert    = "Note that the amount will be converted into PLN to compare with the limit for your product."
	msgEnterAmount    = "Please enter the desired amount of money in your currency:"
	msgBadDecimal     = "Number must contain only numbers and one dot.\nPlease enter correct number:"
	msgBadInteger     = "Number must contain only numbers.\nPlease enter correct number:"
	msgEnterPeriod    = "Please enter the minimum validity period in months:"
	msgSuitable       = "The product that suits your needs is a %s.\nwith an interest rate of %s%%"
	msgOutOfLimit     = "Amount or period is out of limit"
	msgAgreementDone  = "Done. You took the following product:\n%s\non %s %s with interest rate %s%%\n" +
		"for a period of %d months.\n\nPlease wait until the manager approves your application.\n\n" + msgSelectAction

	msgOfficialRate    = "Official exchange rate of PLN to %s\non date: %s\nis: %s PLN for 1 %s.\n\n" + msgSelectCurrency
	msgUnknownCurrency = "Unknown currency code.\n\n" + msgSelectCurrency

	msgNewAgreements     = "Here is a list of new agreements:\n"
	msgNoNewAgreements   = "There are no new agreements."
	msgAgreementInfo     = "- ID: %d, product name: %s, sum: %s %s, period: %d months."
	msgSelectAgreementID = "Please, select agreement id to approve:"
	msgWrongAgreementID  = "Wrong agreement id number.\n" + msgSelectAgreementID
	msgSelectedAgreement = "You have chosen the following agreement:\n" + msgAgreementInfo + "\n\n" + msgSelectAction
	msgAgreementReviewed = "Agreement with id %d was %s.\n\n"
)

const rateDateLayout = "02-01-2006"
