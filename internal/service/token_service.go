package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/product_api/internal/hash"
	"github.com/Skotchmaster/product_api/internal/logging"
	"github.com/Skotchmaster/product_api/internal/models"
	"github.com/Skotchmaster/product_api/internal/mykafka"
	"github.com/Skotchmaster/product_api/internal/repo"
	"github.com/Skotchmaster/product_api/internal/tokens"
)

const tokenName = "api-token"

// TokenService issues bearer tokens and resolves them back to users. Every
// token has a row in access_tokens; deleting the row revokes it at once.
type TokenService struct {
	Repo   *repo.GormRepo
	Secret []byte
	TTL    time.Duration
	Events mykafka.Publisher
	Now    func() time.Time
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *TokenService) Issue(ctx context.Context, user *models.User) (string, error) {
	l := logging.FromContext(ctx).With("svc", "token.issue", "user_id", user.ID)

	issuedAt := s.now()
	jti := tokens.NewJTI()
	raw, err := tokens.Sign(user.ID, jti, issuedAt, s.TTL, s.Secret)
	if err != nil {
		l.Error("issue_token_error", "reason", "cannot sign token", "error", err)
		return "", fmt.Errorf("sign token: %w", err)
	}

	row := &models.AccessToken{
		UserID:    user.ID,
		Name:      tokenName,
		JTI:       jti,
		TokenHash: hash.Sha256Hex(raw),
		CreatedAt: issuedAt,
	}
	if s.TTL > 0 {
		exp := issuedAt.Add(s.TTL)
		row.ExpiresAt = &exp
	}
	if err := s.Repo.CreateToken(ctx, row); err != nil {
		l.Error("issue_token_error", "reason", "cannot store token", "error", err)
		return "", fmt.Errorf("store token: %w", err)
	}
	return raw, nil
}

// Resolve maps a presented token to its user. Any token that is malformed,
// unknown, revoked or expired yields ErrUnauthorized.
func (s *TokenService) Resolve(ctx context.Context, raw string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "token.resolve")

	if raw == "" {
		return nil, ErrUnauthorized
	}
	claims, err := tokens.Parse(raw, s.Secret)
	if err != nil {
		l.Debug("resolve_token_failed", "reason", "invalid envelope", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	row, err := s.Repo.FindTokenByJTI(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Debug("resolve_token_failed", "reason", "revoked or unknown")
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("load token: %w", err)
	}
	if subtle.ConstantTimeCompare([]byte(row.TokenHash), []byte(hash.Sha256Hex(raw))) != 1 || row.UserID != userID {
		l.Warn("resolve_token_failed", "reason", "hash mismatch")
		return nil, ErrUnauthorized
	}
	now := s.now()
	if row.ExpiresAt != nil && !now.Before(*row.ExpiresAt) {
		l.Debug("resolve_token_failed", "reason", "expired")
		return nil, ErrUnauthorized
	}

	user, err := s.Repo.GetUserByID(ctx, row.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	if err := s.Repo.TouchToken(ctx, row.ID, now); err != nil {
		l.Warn("touch_token_failed", "error", err)
	}
	return user, nil
}

// Revoke deletes exactly the presented token; other tokens of the same user
// stay valid.
func (s *TokenService) Revoke(ctx context.Context, raw string) error {
	l := logging.FromContext(ctx).With("svc", "token.revoke")

	claims, err := tokens.Parse(raw, s.Secret)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if err := s.Repo.DeleteToken(ctx, claims.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("revoke_token_failed", "reason", "token already revoked")
			return fmt.Errorf("%w: token", ErrNotFound)
		}
		l.Error("revoke_token_failed", "reason", "cannot delete token", "error", err)
		return fmt.Errorf("delete token: %w", err)
	}

	userID, _ := claims.UserID()
	publish(ctx, s.Events, mykafka.TopicUserEvents, userID, map[string]any{
		"type":   "user_logged_out",
		"userID": userID,
	})
	return nil
}
