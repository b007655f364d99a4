package services

import (
	"errors"
	"fmt"
	"time"

	"buildquote/models"
	"buildquote/repository"
)

// ErrGenerationFailed means an artifact could not be built. Nothing was
// sent: all artifacts are generated before the first network call, so a
// generation failure never produces a half-delivered RFQ.
var ErrGenerationFailed = errors.New("failed to generate RFQ documents")

// SendService runs the transactional send: reference, artifacts, email,
// in that order. There is no retry; the caller resubmits explicitly.
type SendService struct {
	mailer Mailer
	now    func() time.Time
}

func NewSendService(mailer Mailer) *SendService {
	return &SendService{mailer: mailer, now: time.Now}
}

// SendRFQ generates the PDF and CSV, builds the email and delivers it.
// On success it returns the RFQ reference; on any failure the reference
// is discarded and the returned error says which stage failed.
func (s *SendService) SendRFQ(payload models.RFQPayload) (string, error) {
	if payload.RFQID == "" {
		payload.RFQID = repository.GenerateRFQID()
	}
	sentAt := s.now()

	pdfBytes, err := GenerateRFQPDF(payload, sentAt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	csvBytes := GenerateRFQCSV(payload)
	htmlBody, err := BuildRFQEmailHTML(payload, sentAt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	email := models.OutboundEmail{
		To:      payload.Supplier.SupplierEmail,
		ReplyTo: payload.Builder.Email,
		Subject: fmt.Sprintf("RFQ from %s — %s — %s", payload.Builder.BuilderName, payload.Builder.Company, payload.RFQID),
		HTML:    htmlBody,
		Attachments: []models.EmailAttachment{
			{Filename: payload.RFQID + ".pdf", ContentType: "application/pdf", Content: pdfBytes},
			{Filename: payload.RFQID + ".csv", ContentType: "text/csv", Content: csvBytes},
		},
	}
	if payload.SendCopyToSelf {
		email.CC = []string{payload.Builder.Email}
	}

	if err := s.mailer.Send(email); err != nil {
		return "", err
	}

	return payload.RFQID, nil
}
