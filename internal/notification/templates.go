package notification

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"net/url"
	texttemplate "text/template"
)

const managerHTML = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>Leave request from {{.EmployeeName}}</h2>
  <table cellpadding="4">
    <tr><td><b>Type</b></td><td>{{.LeaveType}}</td></tr>
    <tr><td><b>From</b></td><td>{{.StartDate}}</td></tr>
    <tr><td><b>To</b></td><td>{{.EndDate}}</td></tr>
    <tr><td><b>Days</b></td><td>{{.TotalDays}}</td></tr>
    {{if .Reason}}<tr><td><b>Reason</b></td><td>{{.Reason}}</td></tr>{{end}}
  </table>
  <p>
    <a href="{{.ApproveURL}}" style="background:#2e7d32;color:#fff;padding:10px 18px;text-decoration:none;border-radius:4px;">Approve</a>
    &nbsp;
    <a href="{{.RejectURL}}" style="background:#c62828;color:#fff;padding:10px 18px;text-decoration:none;border-radius:4px;">Reject</a>
  </p>
  <p style="font-size:12px;color:#666;">These links work once and expire on {{.ExpiresAt}}. You will be asked for your password.</p>
</body>
</html>`

const managerText = `Leave request from {{.EmployeeName}}

Type: {{.LeaveType}}
From: {{.StartDate}}
To:   {{.EndDate}}
Days: {{.TotalDays}}
{{if .Reason}}Reason: {{.Reason}}
{{end}}
Approve: {{.ApproveURL}}
Reject:  {{.RejectURL}}

These links work once and expire on {{.ExpiresAt}}.
`

const employeeHTML = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>Your leave request was {{.Status}}</h2>
  <p>{{.ManagerName}} {{.Status}} your {{.LeaveType}} leave from {{.StartDate}} to {{.EndDate}}.</p>
  {{if .Comments}}<p><b>Comments:</b> {{.Comments}}</p>{{end}}
</body>
</html>`

const employeeText = `Your leave request was {{.Status}}.

{{.ManagerName}} {{.Status}} your {{.LeaveType}} leave from {{.StartDate}} to {{.EndDate}}.
{{if .Comments}}Comments: {{.Comments}}
{{end}}`

var (
	managerHTMLTpl  = htmltemplate.Must(htmltemplate.New("manager_html").Parse(managerHTML))
	managerTextTpl  = texttemplate.Must(texttemplate.New("manager_text").Parse(managerText))
	employeeHTMLTpl = htmltemplate.Must(htmltemplate.New("employee_html").Parse(employeeHTML))
	employeeTextTpl = texttemplate.Must(texttemplate.New("employee_text").Parse(employeeText))
)

type managerEmailData struct {
	EmployeeName string
	LeaveType    string
	StartDate    string
	EndDate      string
	TotalDays    int
	Reason       string
	ApproveURL   string
	RejectURL    string
	ExpiresAt    string
}

type employeeEmailData struct {
	ManagerName string
	Status      string
	LeaveType   string
	StartDate   string
	EndDate     string
	Comments    string
}

func render(html *htmltemplate.Template, text *texttemplate.Template, data any) (string, string, error) {
	var hb, tb bytes.Buffer
	if err := html.Execute(&hb, data); err != nil {
		return "", "", fmt.Errorf("render %s: %w", html.Name(), err)
	}
	if err := text.Execute(&tb, data); err != nil {
		return "", "", fmt.Errorf("render %s: %w", text.Name(), err)
	}
	return hb.String(), tb.String(), nil
}

// ActionURL builds the one-click link the manager receives.
func ActionURL(baseURL, token, action string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse approval base url: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	q.Set("action", action)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
