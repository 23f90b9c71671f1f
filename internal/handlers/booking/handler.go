package booking

import (
	"net/http"

	"rihla/infras/otel"
	"rihla/internal/domains/booking/model/dto"
	"rihla/internal/domains/booking/service"
	ticketService "rihla/internal/domains/ticket/service"
	"rihla/shared/constant"
	gDto "rihla/shared/dto"
	"rihla/shared/failure"
	"rihla/shared/validator"
	"rihla/transport/http/middleware"
	"rihla/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service    service.Booking
	ticket     ticketService.Ticket
	middleware middleware.AppMiddleware
	otel       otel.Otel
}

func New(service service.Booking, ticket ticketService.Ticket, mw middleware.AppMiddleware, otel otel.Otel) Handler {
	return Handler{
		service:    service,
		ticket:     ticket,
		middleware: mw,
		otel:       otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Get("/", handler.GetMyBookings)
		routerGroup.Get("/{reference}", handler.GetBooking)
		routerGroup.Patch("/{reference}", handler.EditBooking)
		routerGroup.Post("/{reference}/cancel", handler.CancelBooking)
		routerGroup.Get("/{reference}/ticket", handler.GetTicket)

		routerGroup.Group(func(adminGroup chi.Router) {
			adminGroup.Use(handler.middleware.RequireAPIKey)
			adminGroup.Post("/{reference}/approve", handler.ApproveBooking)
			adminGroup.Post("/{reference}/reject", handler.RejectBooking)
		})
	})
}

// CreateBooking handles the creation of a new booking.
// @Summary Create a new booking
// @Description Submit a booking for an event. The response carries the booking reference used for later lookups.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Data[dto.BookingResponse] "Created booking"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [post]
func (handler *Handler) CreateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	req := dto.CreateBookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	booking, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create booking")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Booking created with reference " + booking.BookingReference)

	response.WithJSON(writer, http.StatusCreated, booking)
}

// GetMyBookings lists all bookings that belong to an owner email.
// @Summary List bookings by owner
// @Description Retrieve the bookings belonging to the given owner email, with pagination.
// @Tags Booking
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param owner_email query string true "Owner email"
// @Success 200 {object} response.Data[dto.GetBookingsResponse] "List of bookings"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [get]
func (handler *Handler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyBookings")
	defer scope.End()

	ownerEmail := r.URL.Query().Get(constant.RequestParamOwnerEmail)
	if ownerEmail == "" {
		err := failure.BadRequestFromString("owner_email is required")
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	bookings, err := handler.service.GetAllByOwner(ctx, queryParams, ownerEmail)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Bookings retrieved successfully")

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetBooking retrieves a booking by its reference.
// @Summary Get a booking by reference
// @Description Retrieve a booking by its reference. The owner email must match the booking.
// @Tags Booking
// @Accept json
// @Produce json
// @Param reference path string true "Booking reference"
// @Param owner_email query string true "Owner email"
// @Success 200 {object} response.Data[dto.BookingResponse] "Booking details"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{reference} [get]
func (handler *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBooking")
	defer scope.End()

	ref := chi.URLParam(r, constant.RequestParamReference)

	ownerEmail := r.URL.Query().Get(constant.RequestParamOwnerEmail)
	if ownerEmail == "" {
		err := failure.BadRequestFromString("owner_email is required")
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	booking, err := handler.service.Get(ctx, ref, ownerEmail)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking retrieved successfully")

	response.WithJSON(w, http.StatusOK, booking)
}

// EditBooking patches a pending booking.
// @Summary Edit a pending booking
// @Description Change participants or special requests while the booking is still pending. The total price stays frozen.
// @Tags Booking
// @Accept json
// @Produce json
// @Param reference path string true "Booking reference"
// @Param owner_email query string true "Owner email"
// @Param request body dto.EditBookingRequest true "Edit Booking Request"
// @Success 200 {object} response.Data[dto.BookingResponse] "Updated booking"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{reference} [patch]
func (handler *Handler) EditBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".EditBooking")
	defer scope.End()

	ref := chi.URLParam(r, constant.RequestParamReference)

	ownerEmail := r.URL.Query().Get(constant.RequestParamOwnerEmail)
	if ownerEmail == "" {
		err := failure.BadRequestFromString("owner_email is required")
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	req := dto.EditBookingRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	booking, err := handler.service.Edit(ctx, req, ref, ownerEmail)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to edit booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking edited successfully")

	response.WithJSON(w, http.StatusOK, booking)
}

// CancelBooking cancels a pending booking on the owner's request.
// @Summary Cancel a pending booking
// @Description Move a pending booking to cancelled, optionally recording a reason.
// @Tags Booking
// @Accept json
// @Produce json
// @Param reference path string true "Booking reference"
// @Param owner_email query string true "Owner email"
// @Param request body dto.CancelBookingRequest false "Cancel Booking Request"
// @Success 200 {object} response.Data[dto.BookingResponse] "Cancelled booking"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{reference}/cancel [post]
func (handler *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelBooking")
	defer scope.End()

	ref := chi.URLParam(r, constant.RequestParamReference)

	ownerEmail := r.URL.Query().Get(constant.RequestParamOwnerEmail)
	if ownerEmail == "" {
		err := failure.BadRequestFromString("owner_email is required")
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	req := dto.CancelBookingRequest{}
	if r.Body != nil && r.ContentLength > 0 {
		if err := validator.Validate(r.Body, &req); err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Msg("failed to validate request body")

			response.WithError(w, err)

			return
		}
	}

	booking, err := handler.service.Cancel(ctx, req, ref, ownerEmail)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to cancel booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking cancelled successfully")

	response.WithJSON(w, http.StatusOK, booking)
}

// GetTicket re-renders and returns the ticket URL for a booking.
// @Summary Get the ticket for a booking
// @Description Return the ticket artifact URL, re-rendering it if needed. Only available for confirmed bookings.
// @Tags Booking
// @Accept json
// @Produce json
// @Param reference path string true "Booking reference"
// @Param owner_email query string true "Owner email"
// @Success 200 {object} response.Data[map[string]string] "Ticket URL"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{reference}/ticket [get]
func (handler *Handler) GetTicket(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTicket")
	defer scope.End()

	ref := chi.URLParam(r, constant.RequestParamReference)

	ownerEmail := r.URL.Query().Get(constant.RequestParamOwnerEmail)
	if ownerEmail == "" {
		err := failure.BadRequestFromString("owner_email is required")
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	url, err := handler.ticket.Reissue(ctx, ref, ownerEmail)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get ticket")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Ticket retrieved successfully")

	response.WithJSON(w, http.StatusOK, map[string]string{"ticket_url": url})
}

// ApproveBooking confirms a pending cash booking.
// @Summary Approve a pending booking
// @Description Move a pending booking to accepted with payment completed. Requires the admin API key.
// @Tags Booking
// @Accept json
// @Produce json
// @Param reference path string true "Booking reference"
// @Success 200 {object} response.Data[dto.BookingResponse] "Approved booking"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{reference}/approve [post]
// @Security ApiKeyAuth
func (handler *Handler) ApproveBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ApproveBooking")
	defer scope.End()

	ref := chi.URLParam(r, constant.RequestParamReference)

	booking, err := handler.service.Approve(ctx, ref)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to approve booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking approved successfully")

	response.WithJSON(w, http.StatusOK, booking)
}

// RejectBooking rejects a pending cash booking.
// @Summary Reject a pending booking
// @Description Move a pending booking to cancelled, optionally recording a reason. Requires the admin API key.
// @Tags Booking
// @Accept json
// @Produce json
// @Param reference path string true "Booking reference"
// @Param request body dto.CancelBookingRequest false "Reject Booking Request"
// @Success 200 {object} response.Data[dto.BookingResponse] "Rejected booking"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{reference}/reject [post]
// @Security ApiKeyAuth
func (handler *Handler) RejectBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RejectBooking")
	defer scope.End()

	ref := chi.URLParam(r, constant.RequestParamReference)

	req := dto.CancelBookingRequest{}
	if r.Body != nil && r.ContentLength > 0 {
		if err := validator.Validate(r.Body, &req); err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Msg("failed to validate request body")

			response.WithError(w, err)

			return
		}
	}

	booking, err := handler.service.Reject(ctx, req, ref)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to reject booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking rejected successfully")

	response.WithJSON(w, http.StatusOK, booking)
}
