package notify

import (
	"bytes"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"

	"quiz-backend/internal/report"
)

const ReminderSubject = "Don't Miss Out - New Quizzes Await You!"

type Email struct {
	Subject string
	HTML    string
	Text    string
}

type ReminderData struct {
	Username      string
	TotalAttempts int
	LastAttempt   *time.Time
	DashboardURL  string
}

type adminReportData struct {
	Date      string
	Stats     report.DailyStats
	Users     change
	Attempts  change
	AvgScore  change
	Dashboard string
}

type change struct {
	Label string
	Class string
}

func newChange(today, yesterday float64) change {
	class := "neutral"
	switch {
	case today > yesterday:
		class = "positive"
	case today < yesterday:
		class = "negative"
	}
	return change{Label: report.ChangeLabel(today, yesterday), Class: class}
}

var templateFuncs = map[string]any{
	"date": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.UTC().Format("2006-01-02 15:04")
	},
}

var (
	reminderHTML = htmltemplate.Must(htmltemplate.New("reminder").Funcs(templateFuncs).Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <h1>Quiz App</h1>
  <h2>We Miss You, {{.Username}}!</h2>
  <p>Hi {{.Username}},</p>
  <p>We noticed you haven't taken any quizzes recently. There are new challenges waiting for you!</p>
  <div>
    <h3>Your Quiz Journey So Far:</h3>
    <p><strong>Total Attempts:</strong> {{.TotalAttempts}}</p>
    {{if .LastAttempt}}<p><strong>Last Quiz:</strong> {{date .LastAttempt}}</p>{{else}}<p><strong>Status:</strong> Ready for your first quiz!</p>{{end}}
  </div>
  <p><a href="{{.DashboardURL}}">Take a Quiz Now</a></p>
  <p>Best regards,<br>The Quiz App Team</p>
  <p style="font-size: 0.8em; color: #666;">This is an automated reminder. You can update your preferences in your profile settings.</p>
</body>
</html>`))

	reminderText = texttemplate.Must(texttemplate.New("reminder").Funcs(templateFuncs).Parse(`Hi {{.Username}},

We miss you at Quiz App! You haven't taken any quizzes recently.

Your Stats:
- Total Attempts: {{.TotalAttempts}}
- Last Quiz: {{if .LastAttempt}}{{date .LastAttempt}}{{else}}None yet{{end}}

Visit {{.DashboardURL}} to take a quiz now!

Best regards,
The Quiz App Team
`))

	adminReportHTML = htmltemplate.Must(htmltemplate.New("admin-report").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <h1>Quiz App Daily Report</h1>
  <p>{{.Date}}</p>
  <h2>Today's Performance</h2>
  <ul>
    <li>Active Users: {{.Stats.Today.ActiveUsers}} <span class="{{.Users.Class}}">{{.Users.Label}}</span></li>
    <li>Quiz Attempts: {{.Stats.Today.TotalAttempts}} <span class="{{.Attempts.Class}}">{{.Attempts.Label}}</span></li>
    <li>Average Score: {{.Stats.Today.AvgScore}}% <span class="{{.AvgScore.Class}}">{{.AvgScore.Label}}</span></li>
    <li>Quizzes Taken: {{.Stats.Today.QuizzesAttempted}}</li>
    <li>New Users: {{.Stats.NewUsers}}</li>
  </ul>
  <h3>Top Quiz Today</h3>
  <p><strong>{{.Stats.TopQuiz.Title}}</strong></p>
  <p>{{.Stats.TopQuiz.Attempts}} attempts, {{.Stats.TopQuiz.AvgScore}}% average score</p>
  <h3>Yesterday vs Today</h3>
  <table style="width: 100%; border-collapse: collapse;">
    <tr><th>Metric</th><th>Yesterday</th><th>Today</th><th>Change</th></tr>
    <tr><td>Active Users</td><td>{{.Stats.Yesterday.ActiveUsers}}</td><td>{{.Stats.Today.ActiveUsers}}</td><td>{{.Users.Label}}</td></tr>
    <tr><td>Quiz Attempts</td><td>{{.Stats.Yesterday.TotalAttempts}}</td><td>{{.Stats.Today.TotalAttempts}}</td><td>{{.Attempts.Label}}</td></tr>
    <tr><td>Average Score</td><td>{{.Stats.Yesterday.AvgScore}}%</td><td>{{.Stats.Today.AvgScore}}%</td><td>{{.AvgScore.Label}}</td></tr>
  </table>
  <p><a href="{{.Dashboard}}">Open the admin dashboard</a></p>
  <p style="font-size: 0.8em; color: #666;">This is an automated daily report from Quiz App Admin System.</p>
</body>
</html>`))

	adminReportText = texttemplate.Must(texttemplate.New("admin-report").Parse(`Quiz App Daily Report - {{.Date}}

Active Users: {{.Stats.Today.ActiveUsers}} ({{.Users.Label}})
Quiz Attempts: {{.Stats.Today.TotalAttempts}} ({{.Attempts.Label}})
Average Score: {{.Stats.Today.AvgScore}}% ({{.AvgScore.Label}})
Quizzes Taken: {{.Stats.Today.QuizzesAttempted}}
New Users: {{.Stats.NewUsers}}

Top Quiz: {{.Stats.TopQuiz.Title}} - {{.Stats.TopQuiz.Attempts}} attempts, {{.Stats.TopQuiz.AvgScore}}% average
`))
)

func RenderReminder(data ReminderData) (Email, error) {
	var htmlBuf, textBuf bytes.Buffer
	if err := reminderHTML.Execute(&htmlBuf, data); err != nil {
		return Email{}, err
	}
	if err := reminderText.Execute(&textBuf, data); err != nil {
		return Email{}, err
	}
	return Email{Subject: ReminderSubject, HTML: htmlBuf.String(), Text: textBuf.String()}, nil
}

// AdminReportSubject is dated with the report's day, e.g. "March 10, 2024".
func AdminReportSubject(day time.Time) string {
	return "Daily Quiz App Report - " + day.Format("January 02, 2006")
}

func RenderAdminReport(stats report.DailyStats, day time.Time, dashboardURL string) (Email, error) {
	data := adminReportData{
		Date:      day.Format("Monday, January 02, 2006"),
		Stats:     stats,
		Users:     newChange(float64(stats.Today.ActiveUsers), float64(stats.Yesterday.ActiveUsers)),
		Attempts:  newChange(float64(stats.Today.TotalAttempts), float64(stats.Yesterday.TotalAttempts)),
		AvgScore:  newChange(stats.Today.AvgScore, stats.Yesterday.AvgScore),
		Dashboard: dashboardURL,
	}

	var htmlBuf, textBuf bytes.Buffer
	if err := adminReportHTML.Execute(&htmlBuf, data); err != nil {
		return Email{}, err
	}
	if err := adminReportText.Execute(&textBuf, data); err != nil {
		return Email{}, err
	}
	return Email{Subject: AdminReportSubject(day), HTML: htmlBuf.String(), Text: textBuf.String()}, nil
}
