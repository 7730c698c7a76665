package telegram

// UI texts in English
const (
	helpText = "Depressing v2.0, a deadline reminder bot.\n\n" +
		"/help — display this text\n" +
		"/set <name> <date> <time> <duration> <frequency> — set a deadline\n" +
		"/view — view all deadlines\n" +
		"/delete <name> — delete a deadline\n" +
		"/myid — get your Chat ID\n" +
		"/history — recent reminders sent to this chat\n\n" +
		"Date is YYYY-MM-DD, time is HH:MM, duration is in minutes.\n" +
		"Example: /set thesis 2024-01-01 10:00 5 once"

	unknownCommandText = "Unknown command. Use /help."

	setUsageText        = "Invalid format. Use: /set <name> <date> <time> <duration> <frequency>"
	setBadDateTimeText  = "Invalid date or time format. Use YYYY-MM-DD HH:MM."
	setBadDurationText  = "Invalid duration. Please provide a number of minutes."
	setNegativeDurText  = "Invalid duration. The number of minutes cannot be negative."
	setOKFmt            = "Deadline '%s' set successfully!"
	deleteUsageText     = "Invalid format. Use: /delete <name>"
	deleteOKFmt         = "Deadline '%s' deleted successfully!"
	deleteNotFoundFmt   = "Deadline '%s' not found."
	viewEmptyText       = "No deadlines set."
	viewEntryFmt        = "Name: %s\nDate & Time: %s\nDuration: %s minutes\nFrequency: %s\nChat IDs: %v\n\n"
	myIDFmt             = "Your Chat ID is: %d"
	historyEmptyText    = "No reminders delivered yet."
	historyUnavailText  = "Could not read reminder history."
	historyTitle        = "Recent reminders:\n"
	historyEntryOKFmt   = "• %s  %s ✅\n"
	historyEntryFailFmt = "• %s  %s ❌ %s\n"

	displayLayout = "2006-01-02 15:04"
	historyLimit  = 10
)
