package service

import (
	"strings"

	"github.com/ledgerdesk/backoffice/internal/auth"
	"github.com/ledgerdesk/backoffice/internal/domain"
	apperrors "github.com/ledgerdesk/backoffice/pkg/util/errorutil"
)

// AuthService issues operator tokens.
type AuthService struct {
	tokenMgr *auth.TokenManager
}

// NewAuthService builds the service.
func NewAuthService(tokenMgr *auth.TokenManager) *AuthService {
	return &AuthService{tokenMgr: tokenMgr}
}

// IssueToken signs a token for subject with role.
func (s *AuthService) IssueToken(subject string, role domain.OperatorRole) (domain.Token, string, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return domain.Token{}, "", apperrors.NewValidationError("subject is required", nil)
	}
	if !role.Valid() {
		return domain.Token{}, "", apperrors.NewValidationError("unknown role", map[string]any{"role": role})
	}
	meta, token, err := s.tokenMgr.GenerateToken(subject, role)
	if err != nil {
		return domain.Token{}, "", apperrors.NewInternalError(err)
	}
	return meta, token, nil
}
