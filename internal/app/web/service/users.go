package service

import (
	"context"
	"fmt"
	"strings"

	"bakery-system/internal/domain"
)

func (s *Service) CreateUser(ctx context.Context, req domain.CreateUserRequest) (domain.User, error) {
	if !strings.Contains(req.Email, "@") {
		return domain.User{}, invalidf("invalid email %q", req.Email)
	}
	if req.FirstName == "" || req.LastName == "" {
		return domain.User{}, invalidf("first and last name are required")
	}
	if req.Password == "" {
		return domain.User{}, invalidf("password is required")
	}
	if !req.Role.Valid() {
		return domain.User{}, invalidf("invalid role %q", req.Role)
	}

	hash, err := s.encoder.Encode(req.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	u, err := s.users.Save(ctx, domain.User{
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
		Role:         req.Role,
		Locked:       req.Locked,
	})
	if err != nil {
		return domain.User{}, err
	}
	s.lg.Info("user_created", map[string]any{"user_id": u.ID, "email": u.Email, "role": string(u.Role)})
	return u, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

func (s *Service) GetUser(ctx context.Context, id int) (domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Service) DeleteUser(ctx context.Context, id int) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.lg.Info("user_deleted", map[string]any{"user_id": id})
	return nil
}
