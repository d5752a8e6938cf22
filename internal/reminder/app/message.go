/**
 * @description
 * Rendering of the weekly reminder email. The plaintext and HTML parts carry the same
 * greeting, goal list and saving tips.
 */
package app

import (
	"bytes"
	htmltemplate "html/template"
	"strconv"
	"strings"
	texttemplate "text/template"

	"github.com/levishimwe/savesmart-mobile-app-Group4/internal/reminder/domain"
	"github.com/levishimwe/savesmart-mobile-app-Group4/pkg/mailer"
)

// ReminderSubject is the subject line of every weekly reminder.
const ReminderSubject = "Weekly Reminder: Save for Your Goals! 💰"

type reminderView struct {
	Name  string
	Goals []goalView
}

type goalView struct {
	Name   string
	Amount string
}

var reminderText = texttemplate.Must(texttemplate.New("reminder.txt").Parse(`Hello {{.Name}},

This is your weekly reminder to save for your goals!

Your Active Goals:
{{range $i, $g := .Goals}}{{if $i}}
{{end}}• {{$g.Name}} - ${{$g.Amount}}{{end}}

Remember:
• Every small deposit brings you closer to your dreams
• Consistent saving builds strong financial habits
• Your future self will thank you

Log in to SaveSmart to:
• Check your progress
• Add a new deposit
• Review your goals

Keep up the great work!

Best regards,
The SaveSmart Team`))

var reminderHTML = htmltemplate.Must(htmltemplate.New("reminder.html").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #4CAF50;">Weekly Reminder: Save for Your Goals! 💰</h2>
  <p>Hello {{.Name}},</p>
  <p>This is your weekly reminder to save for your goals!</p>
  <h3>Your Active Goals:</h3>
  <ul style="list-style: none; padding: 0;">
  {{- range .Goals}}
    <li style="padding: 8px; background: #f5f5f5; margin: 4px 0; border-radius: 4px;">📌 {{.Name}} - <strong>${{.Amount}}</strong></li>
  {{- end}}
  </ul>
  <div style="background: #e8f5e9; padding: 16px; border-radius: 8px; margin: 20px 0;">
    <p style="margin: 8px 0;"><strong>Remember:</strong></p>
    <ul>
      <li>Every small deposit brings you closer to your dreams</li>
      <li>Consistent saving builds strong financial habits</li>
      <li>Your future self will thank you</li>
    </ul>
  </div>
  <p><strong>Log in to SaveSmart to:</strong></p>
  <ul>
    <li>Check your progress</li>
    <li>Add a new deposit</li>
    <li>Review your goals</li>
  </ul>
  <p>Keep up the great work!</p>
  <p style="color: #666; font-size: 12px; margin-top: 30px;">Best regards,<br>The SaveSmart Team</p>
</div>`))

// ComposeReminder builds the reminder addressed to user listing goals.
func ComposeReminder(user domain.User, goals []domain.Goal) (mailer.Message, error) {
	view := reminderView{Name: user.DisplayName()}
	for _, g := range goals {
		view.Goals = append(view.Goals, goalView{Name: g.Name, Amount: FormatAmount(g.TargetAmount)})
	}

	var text, html bytes.Buffer
	if err := reminderText.Execute(&text, view); err != nil {
		return mailer.Message{}, err
	}
	if err := reminderHTML.Execute(&html, view); err != nil {
		return mailer.Message{}, err
	}

	return mailer.Message{
		To:      user.Email,
		ToName:  view.Name,
		Subject: ReminderSubject,
		Text:    strings.TrimSpace(text.String()),
		HTML:    html.String(),
	}, nil
}

// FormatAmount renders an amount without trailing zeros, e.g. 5000 or 12.5.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
