package usecases

import (
	"context"
	"fmt"

	"github.com/geofieldx/geofieldx/internal/core/domain"
	"github.com/geofieldx/geofieldx/internal/core/ports"
)

// CreateTeamInput is a team registration request.
type CreateTeamInput struct {
	Name string `json:"name" validate:"required,min=2,max=80"`
	City string `json:"city" validate:"max=80"`
}

// TeamService manages field crews and the accounts attached to them.
type TeamService struct {
	teams ports.TeamRepository
	users ports.UserRepository
}

// NewTeamService creates a new TeamService.
func NewTeamService(teams ports.TeamRepository, users ports.UserRepository) *TeamService {
	return &TeamService{teams: teams, users: users}
}

// Create registers a team in pending state awaiting supervisor approval.
func (s *TeamService) Create(ctx context.Context, in CreateTeamInput) (*domain.Team, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("invalid team: %w", err)
	}
	t := &domain.Team{
		Name:     in.Name,
		City:     in.City,
		Approval: domain.ApprovalPending,
	}
	if err := s.teams.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create team: %w", err)
	}
	return t, nil
}

// SetApproval approves or rejects a team.
func (s *TeamService) SetApproval(ctx context.Context, id string, approval domain.ApprovalStatus) (*domain.Team, error) {
	if !domain.ValidApprovalStatus(approval) {
		return nil, fmt.Errorf("unknown approval status %q", approval)
	}
	if err := s.teams.SetApproval(ctx, id, approval); err != nil {
		return nil, err
	}
	return s.teams.GetByID(ctx, id)
}

// Delete removes a team. Members keep their accounts but lose the link.
func (s *TeamService) Delete(ctx context.Context, id string) error {
	return s.teams.Delete(ctx, id)
}

// GetByID returns a single team.
func (s *TeamService) GetByID(ctx context.Context, id string) (*domain.Team, error) {
	return s.teams.GetByID(ctx, id)
}

// List returns all teams with member counts.
func (s *TeamService) List(ctx context.Context) ([]domain.Team, error) {
	return s.teams.List(ctx)
}

// Members returns the accounts attached to a team.
func (s *TeamService) Members(ctx context.Context, id string) ([]domain.User, error) {
	return s.teams.Members(ctx, id)
}

// UserService handles account administration beyond auth.
type UserService struct {
	users ports.UserRepository
	teams ports.TeamRepository
}

// NewUserService creates a new UserService.
func NewUserService(users ports.UserRepository, teams ports.TeamRepository) *UserService {
	return &UserService{users: users, teams: teams}
}

// GetByID returns a single account.
func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// List returns all accounts.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// SetApproval approves or rejects an account.
func (s *UserService) SetApproval(ctx context.Context, id string, approval domain.ApprovalStatus) (*domain.User, error) {
	if !domain.ValidApprovalStatus(approval) {
		return nil, fmt.Errorf("unknown approval status %q", approval)
	}
	if err := s.users.SetApproval(ctx, id, approval); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, id)
}

// SetTeam moves an account between teams. The target team must be approved.
func (s *UserService) SetTeam(ctx context.Context, id string, teamID *string) (*domain.User, error) {
	if teamID != nil {
		team, err := s.teams.GetByID(ctx, *teamID)
		if err != nil {
			return nil, fmt.Errorf("load team: %w", err)
		}
		if team.Approval != domain.ApprovalApproved {
			return nil, fmt.Errorf("team %s is not approved", team.Name)
		}
	}
	if err := s.users.SetTeam(ctx, id, teamID); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, id)
}
