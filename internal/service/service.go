package service

import (
	"encoding/json"
	"errors"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"c2creg/internal/dto"
	"c2creg/internal/model"
	"c2creg/internal/repo"
	"c2creg/internal/ticket"
	"c2creg/pkg/validator"
)

type Service interface {
	Register(ctx *ginext.Context)
	Lookup(ctx *ginext.Context)
	Reregister(ctx *ginext.Context)
	GetAllRegistrations(ctx *ginext.Context)
}

// Publisher is the outbound side of the registration-created pipeline.
// Satisfied by *rabbit.Client.
type Publisher interface {
	Publish(message []byte) error
}

type service struct {
	repo       repo.Repository
	log        *zerolog.Logger
	pub        Publisher
	lookups    *gocache.Cache
	eventLabel string
}

func NewService(repo repo.Repository, logger *zerolog.Logger, pub Publisher, lookups *gocache.Cache, eventLabel string) Service {
	return &service{
		repo:       repo,
		log:        logger,
		pub:        pub,
		lookups:    lookups,
		eventLabel: eventLabel,
	}
}

// Register is the issuance path: mint the identifier, render the QR
// credential, then persist. The ticket counts as issued only if the insert
// succeeds; the credential is never returned without a durable record.
func (s *service) Register(ctx *ginext.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		s.log.Error().Err(err).Msg("failed to parse register request")
		dto.RegistrationFailedError(ctx)
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		s.log.Error().Msgf("validation failed: %v", verr)
		dto.RegistrationFailedError(ctx)
		return
	}

	if err := req.CheckMembershipFields(); err != nil {
		s.log.Error().Err(err).Msg("membership fields check failed")
		dto.RegistrationFailedError(ctx)
		return
	}

	ticketID := ticket.NewID()
	instagram := ticket.NormalizeHandle(req.Instagram)
	heardFrom := ticket.ResolveHeardFrom(req.HeardFrom, req.HeardFromOther)

	qrURL, err := ticket.RenderQR(ticket.QRPayload{
		TicketID:  ticketID,
		Name:      req.Name,
		Instagram: instagram,
		Phone:     req.PhoneNumber,
		CGMember:  req.IsCGMember,
		CGNumber:  req.CGNumber,
		HeardFrom: heardFrom,
		Event:     s.eventLabel,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to render QR credential")
		dto.RegistrationFailedError(ctx)
		return
	}

	reg := &model.Registration{
		TicketID:       ticketID,
		Name:           req.Name,
		Instagram:      instagram,
		PhoneNumber:    req.PhoneNumber,
		IsCGMember:     req.IsCGMember,
		DateRegistered: model.NowWIB(),
	}
	if req.IsCGMember {
		reg.CGNumber = &req.CGNumber
	} else {
		reg.HeardFrom = &heardFrom
	}

	id, err := s.repo.InsertRegistration(ctx.Request.Context(), reg)
	if err != nil {
		s.log.Error().Err(err).Str("ticket_id", ticketID).Msg("failed to insert registration")
		dto.DatabaseSaveFailedError(ctx)
		return
	}
	reg.ID = id

	s.log.Info().Str("ticket_id", ticketID).Int64("registration_id", id).Msg("ticket issued")

	s.lookups.SetDefault(ticketID, reg)

	msg := dto.RegistrationCreatedMessage{
		TicketID:       ticketID,
		Name:           reg.Name,
		Instagram:      reg.Instagram,
		PhoneNumber:    reg.PhoneNumber,
		IsCGMember:     reg.IsCGMember,
		DateRegistered: reg.DateRegistered,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to marshal registration-created message")
	} else if s.pub != nil {
		if err := s.pub.Publish(payload); err != nil {
			s.log.Warn().Err(err).Str("ticket_id", ticketID).Msg("failed to publish registration-created message")
		}
	}

	dto.IssuedResponse(ctx, ticketID, qrURL)
}

// Lookup answers the wallet reconciliation dependency. Recently issued and
// recently checked tickets are served from the in-memory cache.
func (s *service) Lookup(ctx *ginext.Context) {
	ticketID := ctx.Param("ticketid")
	if !ticket.ValidID(ticketID) {
		dto.InvalidTicketIDError(ctx)
		return
	}

	if cached, ok := s.lookups.Get(ticketID); ok {
		if reg, ok := cached.(*model.Registration); ok {
			dto.FoundResponse(ctx, reg)
			return
		}
	}

	reg, err := s.repo.GetByTicketID(ctx.Request.Context(), ticketID)
	if err != nil {
		if errors.Is(err, repo.ErrRegistrationNotFound) {
			dto.RegistrationNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Str("ticket_id", ticketID).Msg("failed to look up registration")
		dto.RegistrationFailedError(ctx)
		return
	}

	s.lookups.SetDefault(ticketID, reg)
	dto.FoundResponse(ctx, reg)
}

// Reregister flips the re-registration flag for a known ticket; the
// check-in desk uses it when an attendee comes back through the door.
func (s *service) Reregister(ctx *ginext.Context) {
	ticketID := ctx.Param("ticketid")
	if !ticket.ValidID(ticketID) {
		dto.InvalidTicketIDError(ctx)
		return
	}

	reg, err := s.repo.MarkReregisteredTx(ctx.Request.Context(), ticketID)
	if err != nil {
		if errors.Is(err, repo.ErrRegistrationNotFound) {
			dto.RegistrationNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Str("ticket_id", ticketID).Msg("failed to mark re-registration")
		dto.RegistrationFailedError(ctx)
		return
	}

	s.log.Info().
		Str("ticket_id", ticketID).
		Msg("registration marked as re-registered")

	s.lookups.SetDefault(ticketID, reg)
	dto.FoundResponse(ctx, reg)
}

func (s *service) GetAllRegistrations(ctx *ginext.Context) {
	regs, err := s.repo.GetAllRegistrations(ctx.Request.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list registrations")
		dto.RegistrationFailedError(ctx)
		return
	}

	dto.ListResponse(ctx, regs)
}
