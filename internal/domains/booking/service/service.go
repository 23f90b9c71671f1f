package service

import (
	"context"
	"fmt"
	"time"

	"rihla/config"
	"rihla/infras/otel"
	"rihla/infras/postgres"
	"rihla/internal/domains/booking/model"
	"rihla/internal/domains/booking/model/dto"
	"rihla/internal/domains/booking/reference"
	"rihla/internal/domains/booking/repository"
	eventModel "rihla/internal/domains/event/model"
	eventRepo "rihla/internal/domains/event/repository"
	ticketService "rihla/internal/domains/ticket/service"
	"rihla/internal/notifier"
	"rihla/shared"
	"rihla/shared/cache"
	"rihla/shared/constant"
	gDto "rihla/shared/dto"
	"rihla/shared/failure"
	"rihla/shared/timezone"
	"rihla/shared/validator"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	Get(ctx context.Context, ref, ownerEmail string) (dto.BookingResponse, error)
	GetAllByOwner(ctx context.Context, req gDto.QueryParams, ownerEmail string) (dto.GetBookingsResponse, error)
	Edit(ctx context.Context, req dto.EditBookingRequest, ref, ownerEmail string) (dto.BookingResponse, error)
	Cancel(ctx context.Context, req dto.CancelBookingRequest, ref, ownerEmail string) (dto.BookingResponse, error)
	Approve(ctx context.Context, ref string) (dto.BookingResponse, error)
	Reject(ctx context.Context, req dto.CancelBookingRequest, ref string) (dto.BookingResponse, error)
}

type serviceImpl struct {
	repo      repository.Booking
	eventRepo eventRepo.Event
	refGen    reference.Generator
	ticket    ticketService.Ticket
	notifier  notifier.Notifier
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
}

func New(
	repo repository.Booking,
	eventRepository eventRepo.Event,
	refGen reference.Generator,
	ticket ticketService.Ticket,
	notif notifier.Notifier,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:      repo,
		eventRepo: eventRepository,
		refGen:    refGen,
		ticket:    ticket,
		notifier:  notif,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	req.Normalize()

	// Length minimums apply to the trimmed values, so validation runs
	// again after normalization.
	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	event, err := s.eventRepo.Get(ctx, shared.FilterByID(req.EventID, eventModel.FieldID, eventModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get event")

		return res, fmt.Errorf("failed to get event: %w", err)
	}

	if event.ID == constant.Empty || event.EventDate.IsZero() {
		return res, failure.BadRequestFromString("event does not exist") // nolint:wrapcheck
	}

	if err = req.ValidateForEvent(event); err != nil {
		return res, err
	}

	status, paymentStatus, method, err := model.InitialState(event.IsAssociationEvent, model.PaymentMethod(req.PaymentMethod))
	if err != nil {
		return res, err
	}

	totalPrice, err := model.CalculateTotalPrice(event.Price, req.NumberOfParticipants)
	if err != nil {
		return res, err
	}

	booking, err := req.ToModel(event)
	if err != nil {
		return res, err
	}

	booking.Status = status
	booking.PaymentStatus = paymentStatus
	booking.PaymentMethod = method
	booking.TotalPrice = totalPrice

	if err = s.insertWithReference(ctx, &booking); err != nil {
		return res, err
	}

	if booking.Status == model.StatusAccepted && booking.PaymentStatus == model.PaymentStatusCompleted {
		s.issueTicket(ctx, &booking)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		s.notifier.BookingCreated(c, booking)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()

	res.FromModel(booking)

	return res, nil
}

// insertWithReference assigns a fresh booking reference and inserts the
// row, retrying with a new reference when the unique index on
// booking_reference rejects a collision.
func (s *serviceImpl) insertWithReference(ctx context.Context, booking *model.Booking) error {
	attempts := s.cfg.Booking.ReferenceMaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error

	for range attempts {
		booking.BookingReference = s.refGen.Generate()

		err = s.repo.Insert(ctx, *booking)
		if err == nil {
			return nil
		}

		if !postgres.IsUniqueViolation(err) {
			log.Error().Err(err).Msg("failed to create booking")

			return fmt.Errorf("failed to create booking: %w", err)
		}

		log.Warn().Str("reference", booking.BookingReference).Msg("booking reference collision, retrying")
	}

	log.Error().Err(err).Msg("exhausted booking reference attempts")

	return failure.InternalError(fmt.Errorf("failed to allocate a unique booking reference: %w", err)) // nolint:wrapcheck
}

// issueTicket renders and stores the ticket artifact. A failure here is
// logged and left for a later reissue, the booking itself stands.
func (s *serviceImpl) issueTicket(ctx context.Context, booking *model.Booking) {
	url, err := s.ticket.Issue(ctx, *booking)
	if err != nil {
		log.Error().Err(err).Str("reference", booking.BookingReference).Msg("failed to issue ticket")

		return
	}

	booking.TicketURL = url

	fields := map[string]any{
		model.FieldTicketURL:     url,
		constant.FieldModifiedAt: timezone.Now(),
	}

	if err := s.repo.Update(ctx, fields, referenceFilter(booking.BookingReference)); err != nil {
		log.Error().Err(err).Str("reference", booking.BookingReference).Msg("failed to record ticket url")
	}
}

func (s *serviceImpl) Get(ctx context.Context, ref, ownerEmail string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(nil)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, ref, ownerEmail)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.getOwned(ctx, ref, ownerEmail)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAllByOwner(ctx context.Context, req gDto.QueryParams, ownerEmail string) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAllByOwner")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := ownerEmailFilter(ownerEmail)
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

// Edit patches participants and special requests on a pending booking.
// The total price stays frozen at the amount captured on creation, a
// participant change does not recompute it.
func (s *serviceImpl) Edit(ctx context.Context, req dto.EditBookingRequest, ref, ownerEmail string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Edit")
	defer scope.End()
	defer scope.TraceIfError(nil)

	if req == (dto.EditBookingRequest{}) {
		return res, failure.BadRequestFromString("edit request cannot be empty") // nolint:wrapcheck
	}

	booking, err := s.getOwned(ctx, ref, ownerEmail)
	if err != nil {
		return res, err
	}

	updatedFields := shared.TransformFields(req)

	ok, err := s.repo.UpdateIfPending(ctx, ref, updatedFields)
	if err != nil {
		log.Error().Err(err).Msg("failed to edit booking")

		return res, fmt.Errorf("failed to edit booking: %w", err)
	}

	if !ok {
		return res, failure.Conflict("booking is no longer pending") // nolint:wrapcheck
	}

	if req.NumberOfParticipants != nil {
		booking.NumberOfParticipants = *req.NumberOfParticipants
	}

	if req.SpecialRequests != nil {
		booking.SpecialRequests = *req.SpecialRequests
	}

	if modifiedAt, ok := updatedFields[constant.FieldModifiedAt].(time.Time); ok {
		booking.ModifiedAt = modifiedAt
	}

	s.invalidateBookingCaches(ctx, ref, ownerEmail)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Cancel(ctx context.Context, req dto.CancelBookingRequest, ref, ownerEmail string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(nil)

	booking, err := s.getOwned(ctx, ref, ownerEmail)
	if err != nil {
		return res, err
	}

	now := timezone.Now()

	updatedFields := map[string]any{
		model.FieldStatus:        string(model.StatusCancelled),
		model.FieldCancelReason:  req.Reason,
		constant.FieldModifiedAt: now,
	}

	ok, err := s.repo.UpdateIfPending(ctx, ref, updatedFields)
	if err != nil {
		log.Error().Err(err).Msg("failed to cancel booking")

		return res, fmt.Errorf("failed to cancel booking: %w", err)
	}

	if !ok {
		return res, failure.Conflict("booking is no longer pending") // nolint:wrapcheck
	}

	booking.Status = model.StatusCancelled
	booking.CancelReason = req.Reason
	booking.ModifiedAt = now

	go func() {
		c := context.WithoutCancel(ctx)

		s.notifier.BookingCancelled(c, booking)
	}()

	s.invalidateBookingCaches(ctx, ref, ownerEmail)

	res.FromModel(booking)

	return res, nil
}

// Approve resolves a pending cash booking: payment was taken on site,
// the booking confirms and the ticket is issued.
func (s *serviceImpl) Approve(ctx context.Context, ref string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Approve")
	defer scope.End()
	defer scope.TraceIfError(nil)

	booking, err := s.getByReference(ctx, ref)
	if err != nil {
		return res, err
	}

	now := timezone.Now()

	updatedFields := map[string]any{
		model.FieldStatus:        string(model.StatusAccepted),
		model.FieldPaymentStatus: string(model.PaymentStatusCompleted),
		constant.FieldModifiedAt: now,
	}

	ok, err := s.repo.UpdateIfPending(ctx, ref, updatedFields)
	if err != nil {
		log.Error().Err(err).Msg("failed to approve booking")

		return res, fmt.Errorf("failed to approve booking: %w", err)
	}

	if !ok {
		return res, failure.Conflict("booking is no longer pending") // nolint:wrapcheck
	}

	booking.Status = model.StatusAccepted
	booking.PaymentStatus = model.PaymentStatusCompleted
	booking.ModifiedAt = now

	s.issueTicket(ctx, &booking)

	go func() {
		c := context.WithoutCancel(ctx)

		s.notifier.BookingApproved(c, booking)
	}()

	s.invalidateBookingCaches(ctx, ref, booking.CustomerEmail)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Reject(ctx context.Context, req dto.CancelBookingRequest, ref string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reject")
	defer scope.End()
	defer scope.TraceIfError(nil)

	booking, err := s.getByReference(ctx, ref)
	if err != nil {
		return res, err
	}

	now := timezone.Now()

	updatedFields := map[string]any{
		model.FieldStatus:        string(model.StatusCancelled),
		model.FieldCancelReason:  req.Reason,
		constant.FieldModifiedAt: now,
	}

	ok, err := s.repo.UpdateIfPending(ctx, ref, updatedFields)
	if err != nil {
		log.Error().Err(err).Msg("failed to reject booking")

		return res, fmt.Errorf("failed to reject booking: %w", err)
	}

	if !ok {
		return res, failure.Conflict("booking is no longer pending") // nolint:wrapcheck
	}

	booking.Status = model.StatusCancelled
	booking.CancelReason = req.Reason
	booking.ModifiedAt = now

	go func() {
		c := context.WithoutCancel(ctx)

		s.notifier.BookingRejected(c, booking)
	}()

	s.invalidateBookingCaches(ctx, ref, booking.CustomerEmail)

	res.FromModel(booking)

	return res, nil
}

// getOwned folds the ownership check into the lookup: a reference that
// exists but belongs to someone else reads the same as one that does
// not exist.
func (s *serviceImpl) getOwned(ctx context.Context, ref, ownerEmail string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, ownedFilter(ref, ownerEmail))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) getByReference(ctx context.Context, ref string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, referenceFilter(ref))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) invalidateBookingCaches(ctx context.Context, ref, ownerEmail string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, ref, ownerEmail)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()
}

func referenceFilter(ref string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldBookingReference,
				Value:    ref,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}
}

func ownedFilter(ref, ownerEmail string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldBookingReference,
				Value:    ref,
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

func ownerEmailFilter(ownerEmail string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldCustomerEmail,
				Value:    ownerEmail,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}
}
