package services

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"os"
	"strings"

	"buildquote/models"

	"golang.org/x/net/html"
)

// Send failures split into two cases the caller reports differently: the
// mail service accepted the connection and refused the message, or the
// message never reached the service at all.
var (
	ErrEmailRejected  = errors.New("email service rejected the message")
	ErrEmailTransport = errors.New("email could not be delivered")
)

// Mailer is the outbound email boundary. Send delivers one fully built
// message or returns an error; there is no retry at this layer.
type Mailer interface {
	Send(email models.OutboundEmail) error
}

// EmailService delivers RFQ emails over SMTP.
type EmailService struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// NewEmailService reads SMTP settings from the environment. SMTP_FROM
// falls back to SMTP_USER so a bare mailbox login still works.
func NewEmailService() *EmailService {
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = os.Getenv("SMTP_USER")
	}
	return &EmailService{
		host:     os.Getenv("SMTP_HOST"),
		port:     os.Getenv("SMTP_PORT"),
		username: os.Getenv("SMTP_USER"),
		password: os.Getenv("SMTP_PASS"),
		from:     from,
	}
}

// Send builds a multipart MIME message with an HTML body, a derived
// plain-text alternative and base64 attachments, then hands it to the
// SMTP server in one shot.
func (s *EmailService) Send(email models.OutboundEmail) error {
	from := email.From
	if from == "" {
		from = s.from
	}

	recipients := append([]string{email.To}, email.CC...)

	msg, err := buildMIMEMessage(from, email)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEmailTransport, err)
	}

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	if err := smtp.SendMail(s.host+":"+s.port, auth, from, recipients, msg); err != nil {
		var protoErr *textproto.Error
		if errors.As(err, &protoErr) {
			return fmt.Errorf("%w: %d %s", ErrEmailRejected, protoErr.Code, protoErr.Msg)
		}
		return fmt.Errorf("%w: %v", ErrEmailTransport, err)
	}

	return nil
}

func buildMIMEMessage(from string, email models.OutboundEmail) ([]byte, error) {
	var body bytes.Buffer
	mixed := multipart.NewWriter(&body)

	headers := []string{
		"From: " + from,
		"To: " + email.To,
	}
	if len(email.CC) > 0 {
		headers = append(headers, "Cc: "+strings.Join(email.CC, ", "))
	}
	if email.ReplyTo != "" {
		headers = append(headers, "Reply-To: "+email.ReplyTo)
	}
	headers = append(headers,
		"Subject: "+email.Subject,
		"MIME-Version: 1.0",
		"Content-Type: multipart/mixed; boundary="+mixed.Boundary(),
		"",
		"",
	)

	// Body: alternative part first, then attachments.
	altBuf := &bytes.Buffer{}
	alt := multipart.NewWriter(altBuf)

	textPart, err := alt.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=UTF-8"},
	})
	if err != nil {
		return nil, err
	}
	fmt.Fprint(textPart, ConvertHTMLToText(email.HTML))

	htmlPart, err := alt.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/html; charset=UTF-8"},
	})
	if err != nil {
		return nil, err
	}
	fmt.Fprint(htmlPart, email.HTML)

	if err := alt.Close(); err != nil {
		return nil, err
	}

	altWrapper, err := mixed.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"multipart/alternative; boundary=" + alt.Boundary()},
	})
	if err != nil {
		return nil, err
	}
	if _, err := altWrapper.Write(altBuf.Bytes()); err != nil {
		return nil, err
	}

	for _, att := range email.Attachments {
		part, err := mixed.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {att.ContentType + `; name="` + att.Filename + `"`},
			"Content-Disposition":       {`attachment; filename="` + att.Filename + `"`},
			"Content-Transfer-Encoding": {"base64"},
		})
		if err != nil {
			return nil, err
		}
		encoded := base64.StdEncoding.EncodeToString(att.Content)
		// 76-char lines per RFC 2045
		for len(encoded) > 76 {
			if _, err := part.Write([]byte(encoded[:76] + "\r\n")); err != nil {
				return nil, err
			}
			encoded = encoded[76:]
		}
		if _, err := part.Write([]byte(encoded + "\r\n")); err != nil {
			return nil, err
		}
	}

	if err := mixed.Close(); err != nil {
		return nil, err
	}

	return append([]byte(strings.Join(headers, "\r\n")), body.Bytes()...), nil
}

// ConvertHTMLToText extracts readable text from an HTML body for the
// plain-text alternative part. Script and style contents are skipped.
func ConvertHTMLToText(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return htmlContent
	}

	var text strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			trimmed := strings.TrimSpace(n.Data)
			if trimmed != "" {
				text.WriteString(trimmed)
				text.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.TrimSpace(text.String())
}
