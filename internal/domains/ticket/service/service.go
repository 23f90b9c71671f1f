package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"rihla/config"
	"rihla/infras/otel"
	"rihla/infras/s3"
	"rihla/internal/domains/booking/model"
	"rihla/internal/domains/booking/repository"
	"rihla/shared/constant"
	gDto "rihla/shared/dto"
	"rihla/shared/failure"

	"github.com/rs/zerolog/log"
)

const ticketTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Ticket {{.BookingReference}}</title>
</head>
<body>
<h1>{{.EventTitle}}</h1>
<p>Reference: <strong>{{.BookingReference}}</strong></p>
<p>Date: {{.EventDate}}</p>
<p>Name: {{.CustomerName}}</p>
<p>Participants: {{.NumberOfParticipants}}</p>
<p>Total: {{.TotalPrice}}</p>
<p>Payment: {{.PaymentMethod}} ({{.PaymentStatus}})</p>
</body>
</html>
`

type ticketData struct {
	BookingReference     string
	EventTitle           string
	EventDate            string
	CustomerName         string
	NumberOfParticipants int
	TotalPrice           string
	PaymentMethod        string
	PaymentStatus        string
}

type Ticket interface {
	Issue(ctx context.Context, booking model.Booking) (string, error)
	Reissue(ctx context.Context, reference, ownerEmail string) (string, error)
}

type serviceImpl struct {
	repo repository.Booking
	cfg  *config.Config
	s3   s3.S3
	otel otel.Otel
	tmpl *template.Template
}

func New(repo repository.Booking, cfg *config.Config, s3Client s3.S3, otel otel.Otel) Ticket {
	tmpl := template.Must(template.New("ticket").Parse(ticketTemplate))

	return &serviceImpl{
		repo: repo,
		cfg:  cfg,
		s3:   s3Client,
		otel: otel,
		tmpl: tmpl,
	}
}

// Issue renders the ticket artifact for a confirmed booking and uploads
// it to object storage. Only accepted bookings with a completed payment
// get a ticket.
func (s *serviceImpl) Issue(ctx context.Context, booking model.Booking) (url string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".IssueTicket")
	defer scope.End()
	defer scope.TraceIfError(err)

	if booking.Status != model.StatusAccepted || booking.PaymentStatus != model.PaymentStatusCompleted {
		return constant.Empty, failure.Conflict("ticket is only available for accepted bookings with completed payment") // nolint:wrapcheck
	}

	artifact, err := s.render(booking)
	if err != nil {
		log.Error().Err(err).Str("reference", booking.BookingReference).Msg("failed to render ticket")

		return constant.Empty, fmt.Errorf("failed to render ticket: %w", err)
	}

	fileName := booking.BookingReference + ".html"

	url, err = s.s3.UploadFileBytes(
		ctx,
		s.cfg.External.S3.BucketName,
		s.cfg.External.S3.TicketDirectory,
		fileName,
		constant.ContentTypeHTML,
		artifact,
	)
	if err != nil {
		log.Error().Err(err).Str("reference", booking.BookingReference).Msg("failed to upload ticket")

		return constant.Empty, fmt.Errorf("failed to upload ticket: %w", err)
	}

	return url, nil
}

// Reissue re-renders and re-uploads the ticket for an existing booking,
// looked up by reference and owner email.
func (s *serviceImpl) Reissue(ctx context.Context, reference, ownerEmail string) (url string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ReissueTicket")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.repo.Get(ctx, ownerFilter(reference, ownerEmail))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking for ticket")

		return constant.Empty, fmt.Errorf("failed to get booking for ticket: %w", err)
	}

	if booking.ID == constant.Empty {
		return constant.Empty, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	url, err = s.Issue(ctx, booking)
	if err != nil {
		return constant.Empty, err
	}

	if url != booking.TicketURL {
		fields := map[string]any{
			model.FieldTicketURL: url,
		}

		if err := s.repo.Update(ctx, fields, ownerFilter(reference, ownerEmail)); err != nil {
			log.Error().Err(err).Msg("failed to record ticket url")

			return constant.Empty, fmt.Errorf("failed to record ticket url: %w", err)
		}
	}

	return url, nil
}

func (s *serviceImpl) render(booking model.Booking) ([]byte, error) {
	data := ticketData{
		BookingReference:     booking.BookingReference,
		EventTitle:           booking.EventTitle,
		EventDate:            booking.EventDate.Format(constant.EventDateFormat),
		CustomerName:         booking.CustomerName,
		NumberOfParticipants: booking.NumberOfParticipants,
		TotalPrice:           booking.TotalPrice.String(),
		PaymentMethod:        string(booking.PaymentMethod),
		PaymentStatus:        string(booking.PaymentStatus),
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute ticket template: %w", err)
	}

	return buf.Bytes(), nil
}

func ownerFilter(reference, ownerEmail string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldBookingReference,
				Value:    reference,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldCustomerEmail,
				Value:    ownerEmail,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}
}
