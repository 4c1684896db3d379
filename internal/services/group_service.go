package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"socialchat/internal/authz"
	"socialchat/internal/models"
	"socialchat/internal/pagination"
	"socialchat/internal/repositories"
)

// batchConcurrency caps the goroutines one batch request may start.
const batchConcurrency = 8

const (
	GroupPublic  = 0
	GroupPrivate = 1
)

type CreateGroupInput struct {
	Name             string
	Code             string
	Description      string
	AvatarURL        string
	Privacy          int
	ConfigPost       int
	ConfigJoinMember int
	Members          []string
}

type UpdateGroupInput struct {
	Name             *string
	Description      *string
	AvatarURL        *string
	Privacy          *int
	ConfigPost       *int
	ConfigJoinMember *int
}

type BatchFailure struct {
	Username string `json:"username"`
	Error    string `json:"error"`
}

// BatchResult reports every item of a member batch; nothing is dropped.
type BatchResult struct {
	Succeeded []string       `json:"succeeded"`
	Failed    []BatchFailure `json:"failed"`
}

// AllFailed is true when the batch had items and none of them succeeded.
func (r *BatchResult) AllFailed() bool {
	return len(r.Succeeded) == 0 && len(r.Failed) > 0
}

type GroupService interface {
	Create(ctx context.Context, creatorID uint, in CreateGroupInput) (*models.Group, *BatchResult, error)
	Update(ctx context.Context, callerID, groupID uint, in UpdateGroupInput) (*models.Group, error)
	Delete(ctx context.Context, callerID, groupID uint) error
	AddMembers(ctx context.Context, callerID, groupID uint, usernames []string) (*BatchResult, error)
	RemoveMembers(ctx context.Context, callerID, groupID uint, usernames []string) (*BatchResult, error)
	EditRole(ctx context.Context, callerID, groupID uint, usernames []string, typ models.MembershipType) (*BatchResult, error)
	Get(ctx context.Context, callerID, groupID uint) (*models.Group, error)
	ListForUser(ctx context.Context, userID uint, p pagination.Params) ([]models.Group, int64, error)
	Leave(ctx context.Context, userID, groupID uint) error
}

type groupService struct {
	groups   repositories.GroupRepository
	users    repositories.UserRepository
	notifier Notifier
	log      *zap.Logger
}

func NewGroupService(groups repositories.GroupRepository, users repositories.UserRepository, notifier Notifier, log *zap.Logger) GroupService {
	return &groupService{groups: groups, users: users, notifier: notifier, log: log}
}

func (s *groupService) Create(ctx context.Context, creatorID uint, in CreateGroupInput) (*models.Group, *BatchResult, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, nil, fmt.Errorf("%w: group name is required", ErrInvalidInput)
	}
	g := &models.Group{
		Name:             name,
		Code:             strings.TrimSpace(in.Code),
		Description:      in.Description,
		AvatarURL:        in.AvatarURL,
		Privacy:          in.Privacy,
		ConfigPost:       in.ConfigPost,
		ConfigJoinMember: in.ConfigJoinMember,
	}
	if err := s.groups.Create(ctx, g, creatorID); err != nil {
		return nil, nil, err
	}
	s.log.Info("[groups][create] created", zap.Uint("group_id", g.ID), zap.Uint("creator_id", creatorID))

	res := s.runBatch(ctx, creatorID, in.Members, func(ctx context.Context, u *models.User) error {
		return s.addMember(ctx, g, u)
	})
	created, err := s.groups.GetByID(ctx, g.ID)
	if err != nil {
		return nil, nil, err
	}
	return created, res, nil
}

func (s *groupService) Update(ctx context.Context, callerID, groupID uint, in UpdateGroupInput) (*models.Group, error) {
	if _, err := s.requireAdmin(ctx, groupID, callerID); err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: group name cannot be empty", ErrInvalidInput)
		}
		fields["name"] = name
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.AvatarURL != nil {
		fields["avatar_url"] = *in.AvatarURL
	}
	if in.Privacy != nil {
		fields["privacy"] = *in.Privacy
	}
	if in.ConfigPost != nil {
		fields["config_post"] = *in.ConfigPost
	}
	if in.ConfigJoinMember != nil {
		fields["config_join_member"] = *in.ConfigJoinMember
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	if err := s.groups.Update(ctx, groupID, fields); err != nil {
		return nil, err
	}
	return s.groups.GetByID(ctx, groupID)
}

// requireAdmin loads the group first so a missing group is ErrNotFound, not forbidden.
func (s *groupService) requireAdmin(ctx context.Context, groupID, callerID uint) (*models.Group, error) {
	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireGroupAdmin(ctx, s.groups, groupID, callerID); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *groupService) Delete(ctx context.Context, callerID, groupID uint) error {
	if _, err := s.requireAdmin(ctx, groupID, callerID); err != nil {
		return err
	}
	if err := s.groups.Delete(ctx, groupID); err != nil {
		return err
	}
	s.log.Info("[groups][delete] deleted", zap.Uint("group_id", groupID), zap.Uint("by", callerID))
	return nil
}

func (s *groupService) AddMembers(ctx context.Context, callerID, groupID uint, usernames []string) (*BatchResult, error) {
	g, err := s.requireAdmin(ctx, groupID, callerID)
	if err != nil {
		return nil, err
	}
	return s.runBatch(ctx, callerID, usernames, func(ctx context.Context, u *models.User) error {
		return s.addMember(ctx, g, u)
	}), nil
}

func (s *groupService) addMember(ctx context.Context, g *models.Group, u *models.User) error {
	err := s.groups.AddMember(ctx, g.ID, u.ID, models.MembershipMember)
	if errors.Is(err, repositories.ErrAlreadyExists) {
		return errors.New("already a member")
	}
	if err != nil {
		return err
	}
	notifyBestEffort(ctx, s.notifier, s.log, u.ID, fmt.Sprintf("You were added to the group %q", g.Name))
	return nil
}

func (s *groupService) RemoveMembers(ctx context.Context, callerID, groupID uint, usernames []string) (*BatchResult, error) {
	if _, err := s.requireAdmin(ctx, groupID, callerID); err != nil {
		return nil, err
	}
	return s.runBatch(ctx, callerID, usernames, func(ctx context.Context, u *models.User) error {
		err := s.groups.RemoveMember(ctx, groupID, u.ID)
		if errors.Is(err, repositories.ErrNotFound) {
			return errors.New("not a member")
		}
		return err
	}), nil
}

func (s *groupService) EditRole(ctx context.Context, callerID, groupID uint, usernames []string, typ models.MembershipType) (*BatchResult, error) {
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: unknown membership type %q", ErrInvalidInput, typ)
	}
	if _, err := s.requireAdmin(ctx, groupID, callerID); err != nil {
		return nil, err
	}
	return s.runBatch(ctx, callerID, usernames, func(ctx context.Context, u *models.User) error {
		err := s.groups.SetMemberType(ctx, groupID, u.ID, typ)
		if errors.Is(err, repositories.ErrNotFound) {
			return errors.New("not a member")
		}
		return err
	}), nil
}

// runBatch resolves usernames and applies op to each concurrently. Results
// keep the request order; the caller is never a target of their own batch.
func (s *groupService) runBatch(ctx context.Context, callerID uint, usernames []string, op func(context.Context, *models.User) error) *BatchResult {
	names := dedupe(usernames)
	outcomes := make([]error, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)
	for i, name := range names {
		g.Go(func() error {
			outcomes[i] = s.batchItem(gctx, callerID, name, op)
			return nil
		})
	}
	_ = g.Wait()

	res := &BatchResult{Succeeded: []string{}, Failed: []BatchFailure{}}
	for i, name := range names {
		if outcomes[i] != nil {
			s.log.Info("[groups][batch] item failed", zap.String("username", name), zap.Error(outcomes[i]))
			res.Failed = append(res.Failed, BatchFailure{Username: name, Error: outcomes[i].Error()})
			continue
		}
		res.Succeeded = append(res.Succeeded, name)
	}
	return res
}

func (s *groupService) batchItem(ctx context.Context, callerID uint, username string, op func(context.Context, *models.User) error) error {
	u, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, repositories.ErrNotFound) {
		return errors.New("user not found")
	}
	if err != nil {
		return err
	}
	if u.ID == callerID {
		return errors.New("cannot target yourself")
	}
	return op(ctx, u)
}

func dedupe(usernames []string) []string {
	seen := make(map[string]struct{}, len(usernames))
	out := make([]string, 0, len(usernames))
	for _, n := range usernames {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// Get returns public groups to anyone and private groups to members only.
func (s *groupService) Get(ctx context.Context, callerID, groupID uint) (*models.Group, error) {
	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g.Privacy != GroupPublic {
		if _, err := authz.RequireGroupMember(ctx, s.groups, groupID, callerID); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (s *groupService) ListForUser(ctx context.Context, userID uint, p pagination.Params) ([]models.Group, int64, error) {
	return s.groups.ListForUser(ctx, userID, p.Limit(), p.Offset())
}

func (s *groupService) Leave(ctx context.Context, userID, groupID uint) error {
	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		return err
	}
	m, err := authz.RequireGroupMember(ctx, s.groups, groupID, userID)
	if err != nil {
		return err
	}
	if m.Type == models.MembershipAdmin {
		admins, err := s.groups.CountAdmins(ctx, groupID)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return fmt.Errorf("%w: the last admin cannot leave the group", ErrConflict)
		}
	}
	return s.groups.RemoveMember(ctx, groupID, userID)
}
