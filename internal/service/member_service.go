package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mluna/hogarledger/internal/errs"
	"github.com/mluna/hogarledger/internal/models"
	"github.com/mluna/hogarledger/internal/storage"
)

// MemberService manages groups and their members.
type MemberService struct {
	store storage.Store
}

// NewMemberService creates a MemberService with the given storage backend.
func NewMemberService(store storage.Store) *MemberService {
	return &MemberService{store: store}
}

// CreateGroup creates a household group.
func (s *MemberService) CreateGroup(ctx context.Context, name string) (*models.Group, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errs.InvalidInput("group name cannot be empty")
	}

	group := &models.Group{Name: strings.TrimSpace(name)}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, err
	}
	slog.Info("Group created", "group_id", group.ID, "name", group.Name)
	return group, nil
}

// GetGroup retrieves a group by ID.
func (s *MemberService) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return s.store.GetGroup(ctx, groupID)
}

// CreateUser creates a member inside a group. New members start active.
func (s *MemberService) CreateUser(ctx context.Context, name, alias, groupID string) (*models.User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errs.InvalidInput("user name cannot be empty")
	}
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}

	user := &models.User{
		Name:    strings.TrimSpace(name),
		Alias:   strings.TrimSpace(alias),
		GroupID: groupID,
		Active:  true,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	slog.Info("User created", "user_id", user.ID, "group_id", groupID, "name", user.Name)
	return user, nil
}

// GetUser retrieves a user by ID.
func (s *MemberService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.store.GetUser(ctx, userID)
}

// ListMembers returns a group's active members.
func (s *MemberService) ListMembers(ctx context.Context, groupID string) ([]*models.User, error) {
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return s.store.ListActiveMembers(ctx, groupID)
}
