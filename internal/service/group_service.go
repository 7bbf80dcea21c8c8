package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitsmart/internal/ledger"
	"github.com/mmynk/splitsmart/pkg/api"
)

// GroupService implements the Connect GroupService.
type GroupService struct {
	ledger *ledger.Ledger
}

var _ api.GroupServiceHandler = (*GroupService)(nil)

// NewGroupService creates a new GroupService backed by the ledger.
func NewGroupService(l *ledger.Ledger) *GroupService {
	return &GroupService{ledger: l}
}

// CreateGroup creates a new group owned by the caller.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "CreateGroup request received", "name", req.Msg.Name, "user_id", userID)

	group, err := s.ledger.CreateGroup(ctx, userID, req.Msg.Name, req.Msg.Description)
	if err != nil {
		slog.ErrorContext(ctx, "CreateGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.CreateGroupResponse{Group: toAPIGroup(group)}), nil
}

// GetGroup retrieves a group the caller belongs to.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "GetGroup request received", "group_id", req.Msg.GroupID)

	group, err := s.ledger.Authorize(ctx, req.Msg.GroupID, userID)
	if err != nil {
		slog.WarnContext(ctx, "GetGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetGroupResponse{Group: toAPIGroup(group)}), nil
}

// ListGroups retrieves all groups the caller belongs to.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := s.ledger.ListGroups(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "ListGroups failed", "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Group, len(groups))
	for i, g := range groups {
		out[i] = toAPIGroup(g)
	}

	slog.InfoContext(ctx, "ListGroups successful", "count", len(groups))
	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// AddMember adds a registered user to a group the caller belongs to.
func (s *GroupService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "AddMember request received", "group_id", req.Msg.GroupID, "email", req.Msg.Email)

	group, added, err := s.ledger.AddMember(ctx, req.Msg.GroupID, userID, req.Msg.Email)
	if err != nil {
		slog.WarnContext(ctx, "AddMember failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.AddMemberResponse{Group: toAPIGroup(group), Added: added}), nil
}
