package mail

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/models"
)

// DisclosureEmail builds the credential-disclosure message sent to an
// emergency contact. For inactivity-triggered disclosures the last check-in
// date is included so the recipient understands why they are receiving it.
func DisclosureEmail(userName string, reason models.ShareReason, lastCheckIn *time.Time, creds []*models.PlainCredential) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("%s has shared account credentials with you", userName)

	var text strings.Builder
	var htm strings.Builder

	fmt.Fprintf(&text, "%s has shared %d account credential(s) with you as a trusted contact.\n", userName, len(creds))
	fmt.Fprintf(&htm, "<p>%s has shared <b>%d</b> account credential(s) with you as a trusted contact.</p>", html.EscapeString(userName), len(creds))

	if reason == models.ReasonInactivity {
		line := fmt.Sprintf("This disclosure was triggered automatically because %s has been inactive.", userName)
		if lastCheckIn != nil {
			line = fmt.Sprintf("%s Their last check-in was on %s.", line, lastCheckIn.Format("2 Jan 2006"))
		}
		fmt.Fprintf(&text, "%s\n", line)
		fmt.Fprintf(&htm, "<p>%s</p>", html.EscapeString(line))
	}

	text.WriteString("\n")
	htm.WriteString("<table border=\"1\" cellpadding=\"6\"><tr><th>Website</th><th>Username</th><th>Password</th><th>PIN</th><th>Notes</th></tr>")
	for _, c := range creds {
		pin := c.Pin
		if c.PinMissing {
			pin = "(unavailable)"
		}
		fmt.Fprintf(&text, "Website:  %s\nUsername: %s\nPassword: %s\n", c.WebsiteName, c.Username, c.Secret)
		if pin != "" {
			fmt.Fprintf(&text, "PIN:      %s\n", pin)
		}
		if c.Notes != "" {
			fmt.Fprintf(&text, "Notes:    %s\n", c.Notes)
		}
		text.WriteString("\n")

		fmt.Fprintf(&htm, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>",
			html.EscapeString(c.WebsiteName), html.EscapeString(c.Username),
			html.EscapeString(c.Secret), html.EscapeString(pin), html.EscapeString(c.Notes))
	}
	htm.WriteString("</table>")

	text.WriteString("Please store these credentials securely and delete this email once saved elsewhere.\n")
	htm.WriteString("<p>Please store these credentials securely and delete this email once saved elsewhere.</p>")

	return subject, htm.String(), text.String()
}

// WarningEmail builds the message sent to the user when the automatic
// disclosure sweep finds them past the threshold but no key is available to
// decrypt on their behalf.
func WarningEmail(userName string, daysInactive, thresholdDays int) (subject, htmlBody, textBody string) {
	subject = "Action required: your credential escrow is about to activate"

	text := fmt.Sprintf(
		"Hi %s,\n\nYou have not checked in for %d days, which is past your %d-day threshold.\n"+
			"Check in now to confirm you are active, or your emergency contacts will be notified.\n",
		userName, daysInactive, thresholdDays)
	htm := fmt.Sprintf(
		"<p>Hi %s,</p><p>You have not checked in for <b>%d days</b>, which is past your %d-day threshold.</p>"+
			"<p>Check in now to confirm you are active, or your emergency contacts will be notified.</p>",
		html.EscapeString(userName), daysInactive, thresholdDays)

	return subject, htm, text
}

// ReminderEmail builds the softer inactivity reminder.
func ReminderEmail(userName string, daysInactive int) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("You've been inactive for %d days", daysInactive)

	text := fmt.Sprintf(
		"Hi %s,\n\nIt has been %d days since your last check-in. A quick check-in keeps your "+
			"emergency disclosure timer from advancing.\n",
		userName, daysInactive)
	htm := fmt.Sprintf(
		"<p>Hi %s,</p><p>It has been <b>%d days</b> since your last check-in. A quick check-in keeps "+
			"your emergency disclosure timer from advancing.</p>",
		html.EscapeString(userName), daysInactive)

	return subject, htm, text
}
