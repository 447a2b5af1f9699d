package email

const (
	subjectQuoteConfirmationFmt   = "Your appointment request for %s"
	subjectAppointmentReminderFmt = "Reminder: your appointment on %s"
)
