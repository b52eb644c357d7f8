package notify

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"
)

// Identity is the site owner information rendered into outgoing mail.
type Identity struct {
	OwnerName   string
	SiteURL     string
	NoReplyFrom string
	ContactTo   string
}

// Submission is the contact form data a Composer turns into messages.
type Submission struct {
	Name       string
	Email      string
	Subject    string
	Message    string
	IPAddress  string
	ReceivedAt time.Time
}

// Composer builds the auto-reply and the admin alert for a contact submission.
type Composer struct {
	identity  Identity
	replyHTML *htmltemplate.Template
	replyText *texttemplate.Template
	alertHTML *htmltemplate.Template
	alertText *texttemplate.Template
}

var htmlFuncs = htmltemplate.FuncMap{
	"lines": func(s string) []string { return strings.Split(s, "\n") },
}

const replyHTMLSource = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2>Thank You for Contacting Me!</h2>
    <p>Hi {{.Name}},</p>
    <p>Thank you for reaching out through my portfolio website. I've received your message regarding <strong>"{{.Subject}}"</strong>.</p>
    <p>Your request will be reviewed and I'll get back to you within 2 business days.</p>
    <p>If your inquiry is urgent, please feel free to reach out directly via email or LinkedIn.</p>
    <hr>
    <p><strong>Your Message:</strong></p>
    <p>{{range $i, $l := lines .Message}}{{if $i}}<br>{{end}}{{$l}}{{end}}</p>
    <hr>
    <p>Best regards,<br><strong>{{.Owner}}</strong></p>
    <p style="color: #666; font-size: 12px;">This is an automated response. Please do not reply to this email.
    For inquiries, please use the contact form at <a href="{{.SiteURL}}">{{.SiteURL}}</a></p>
  </div>
</body>
</html>`

const replyTextSource = `Thank You for Contacting Me!

Hi {{.Name}},

Thank you for reaching out through my portfolio website. I've received your message regarding "{{.Subject}}".

Your request will be reviewed and I'll get back to you within 2 business days.

If your inquiry is urgent, please feel free to reach out directly via email or LinkedIn.

Your Message:
{{.Message}}

Best regards,
{{.Owner}}

---
This is an automated response. Please do not reply to this email.
For inquiries, please use the contact form at {{.SiteURL}}
`

const alertHTMLSource = `<h2>New Contact Form Submission</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Subject:</strong> {{.Subject}}</p>
<p><strong>Message:</strong></p>
<p>{{range $i, $l := lines .Message}}{{if $i}}<br>{{end}}{{$l}}{{end}}</p>
<hr>
<p><small>IP: {{.IPAddress}}</small></p>
<p><small>Time: {{.Time}}</small></p>`

const alertTextSource = `New Contact Form Submission

Name: {{.Name}}
Email: {{.Email}}
Subject: {{.Subject}}

Message:
{{.Message}}

---
IP: {{.IPAddress}}
Time: {{.Time}}
`

// NewComposer parses the message templates.
func NewComposer(identity Identity) *Composer {
	return &Composer{
		identity:  identity,
		replyHTML: htmltemplate.Must(htmltemplate.New("reply").Funcs(htmlFuncs).Parse(replyHTMLSource)),
		replyText: texttemplate.Must(texttemplate.New("reply").Parse(replyTextSource)),
		alertHTML: htmltemplate.Must(htmltemplate.New("alert").Funcs(htmlFuncs).Parse(alertHTMLSource)),
		alertText: texttemplate.Must(texttemplate.New("alert").Parse(alertTextSource)),
	}
}

type templateData struct {
	Submission
	Owner   string
	SiteURL string
	Time    string
}

func (c *Composer) data(s Submission) templateData {
	return templateData{
		Submission: s,
		Owner:      c.identity.OwnerName,
		SiteURL:    c.identity.SiteURL,
		Time:       s.ReceivedAt.UTC().Format(time.RFC3339),
	}
}

// AutoReply is the confirmation sent to the submitter from the no-reply address.
func (c *Composer) AutoReply(s Submission) (Message, error) {
	var html, text bytes.Buffer
	d := c.data(s)
	if err := c.replyHTML.Execute(&html, d); err != nil {
		return Message{}, fmt.Errorf("failed to render auto-reply: %w", err)
	}
	if err := c.replyText.Execute(&text, d); err != nil {
		return Message{}, fmt.Errorf("failed to render auto-reply text: %w", err)
	}
	return Message{
		To:      s.Email,
		From:    c.identity.NoReplyFrom,
		Subject: fmt.Sprintf("Re: %s - Thank you for contacting %s", s.Subject, c.identity.OwnerName),
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}

// AdminAlert tells the site owner a new submission arrived.
func (c *Composer) AdminAlert(s Submission) (Message, error) {
	var html, text bytes.Buffer
	d := c.data(s)
	if err := c.alertHTML.Execute(&html, d); err != nil {
		return Message{}, fmt.Errorf("failed to render admin alert: %w", err)
	}
	if err := c.alertText.Execute(&text, d); err != nil {
		return Message{}, fmt.Errorf("failed to render admin alert text: %w", err)
	}
	return Message{
		To:      c.identity.ContactTo,
		Subject: "Portfolio Contact: " + s.Subject,
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}
