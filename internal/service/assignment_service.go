package service

import (
	"context"

	"github.com/ledgerdesk/backoffice/internal/domain"
	"github.com/ledgerdesk/backoffice/internal/repository"
	apperrors "github.com/ledgerdesk/backoffice/pkg/util/errorutil"
)

// Assignment conflict messages returned to API callers.
const (
	msgMultipleSecretaries = "Multiple secretaries found."
	msgMultipleDirectors   = "Multiple directors found."
	msgNoAssignee          = "Cannot find an assignee with the required role."
)

// AssignmentService picks the user a new ticket is assigned to.
type AssignmentService struct {
	users repository.UserRepository
}

// NewAssignmentService creates the service.
func NewAssignmentService(users repository.UserRepository) *AssignmentService {
	return &AssignmentService{users: users}
}

// ResolveAssignee returns the most recently created user of the company
// holding the role rule requires.
//
// registrationAddressChange falls back to a director when the company has no
// corporate secretary. registrationAddressChange and strikeOff refuse to pick
// when the role is held by more than one user; managementReport always takes
// the newest accountant.
func (s *AssignmentService) ResolveAssignee(ctx context.Context, ticketType domain.TicketType, rule domain.AssignmentRule, companyID int64) (*domain.User, error) {
	candidates, err := s.users.ListByCompanyAndRole(ctx, companyID, rule.Role)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	switch ticketType {
	case domain.TicketTypeRegistrationAddressChange:
		if len(candidates) > 1 {
			return nil, conflict(msgMultipleSecretaries, companyID, rule.Role, len(candidates))
		}
		if len(candidates) == 0 {
			candidates, err = s.users.ListByCompanyAndRole(ctx, companyID, domain.UserRoleDirector)
			if err != nil {
				return nil, apperrors.MapError(err)
			}
			if len(candidates) > 1 {
				return nil, conflict(msgMultipleDirectors, companyID, domain.UserRoleDirector, len(candidates))
			}
		}
	case domain.TicketTypeStrikeOff:
		if len(candidates) > 1 {
			return nil, conflict(msgMultipleDirectors, companyID, rule.Role, len(candidates))
		}
	}

	if len(candidates) == 0 {
		return nil, apperrors.NewConflict(msgNoAssignee, map[string]any{
			"company_id": companyID,
			"role":       rule.Role,
		})
	}
	assignee := candidates[0]
	return &assignee, nil
}

func conflict(message string, companyID int64, role domain.UserRole, found int) error {
	return apperrors.NewConflict(message, map[string]any{
		"company_id": companyID,
		"role":       role,
		"found":      found,
	})
}
