package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/openacad/acadledger-api/internal/dto"
	"github.com/openacad/acadledger-api/internal/ledger"
	"github.com/openacad/acadledger-api/internal/metadata"
	"github.com/openacad/acadledger-api/internal/models"
)

// RosterService covers the administrative ledger operations: role
// assignments, module creation, professor binding, and enrollment. Display
// names ride along into the metadata store; the ledger rows alone are
// authoritative.
type RosterService interface {
	AssignRole(ctx context.Context, payload dto.RoleAssignRequest) error
	QueryRole(ctx context.Context, principal string) (models.Role, error)
	CreateModule(ctx context.Context, payload dto.ModuleCreateRequest) (dto.ModuleResponse, error)
	Enroll(ctx context.Context, moduleID uint, payload dto.EnrollRequest) error
	ListMembers(ctx context.Context, moduleID uint) ([]dto.MemberResponse, error)
}

type rosterService struct {
	ledger    ledger.Ledger
	metadata  *metadata.Store
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewRosterService builds the roster service.
func NewRosterService(ldg ledger.Ledger, meta *metadata.Store, validate *validator.Validate, logger zerolog.Logger) RosterService {
	return &rosterService{
		ledger:    ldg,
		metadata:  meta,
		validator: validate,
		logger:    logger.With().Str("component", "roster_service").Logger(),
	}
}

func (s *rosterService) AssignRole(ctx context.Context, payload dto.RoleAssignRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	if err := s.ledger.RecordRole(ctx, payload.Principal, models.Role(payload.Role)); err != nil {
		return err
	}

	if payload.Name != "" || payload.Email != "" {
		err := s.metadata.PutPrincipal(ctx, metadata.PrincipalMeta{
			Principal: payload.Principal,
			Name:      payload.Name,
			Email:     payload.Email,
		})
		if err != nil {
			s.logger.Warn().Err(err).Str("principal", payload.Principal).Msg("role committed but display record write failed")
		}
	}

	s.logger.Info().Str("principal", payload.Principal).Str("role", payload.Role).Msg("role recorded")

	return nil
}

func (s *rosterService) QueryRole(ctx context.Context, principal string) (models.Role, error) {
	return s.ledger.QueryRole(ctx, principal)
}

func (s *rosterService) CreateModule(ctx context.Context, payload dto.ModuleCreateRequest) (dto.ModuleResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ModuleResponse{}, err
	}

	moduleID, err := s.ledger.RecordModule(ctx)
	if err != nil {
		return dto.ModuleResponse{}, err
	}

	if payload.Professor != "" {
		if err := s.ledger.AssignProfessor(ctx, moduleID, payload.Professor); err != nil {
			return dto.ModuleResponse{}, err
		}
	}

	err = s.metadata.PutModule(ctx, metadata.ModuleMeta{
		ModuleID:    moduleID,
		Name:        payload.Name,
		Description: payload.Description,
	})
	if err != nil {
		s.logger.Warn().Err(err).Uint("module_id", moduleID).Msg("module committed but display record write failed")
	}

	return dto.ModuleResponse{
		ID:        moduleID,
		Name:      payload.Name,
		Professor: payload.Professor,
	}, nil
}

func (s *rosterService) Enroll(ctx context.Context, moduleID uint, payload dto.EnrollRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	return s.ledger.EnrollStudent(ctx, moduleID, payload.Student)
}

func (s *rosterService) ListMembers(ctx context.Context, moduleID uint) ([]dto.MemberResponse, error) {
	members, err := s.ledger.ListModuleMembers(ctx, moduleID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.MemberResponse, 0, len(members))
	for _, principal := range members {
		responses = append(responses, dto.MemberResponse{
			Principal: principal,
			Name:      s.metadata.GetPrincipalName(ctx, principal),
		})
	}

	return responses, nil
}
