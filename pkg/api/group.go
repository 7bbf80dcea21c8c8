package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

const (
	// GroupServiceName is the fully-qualified name of the GroupService service.
	GroupServiceName = "splitsmart.v1.GroupService"

	GroupServiceCreateGroupProcedure = "/splitsmart.v1.GroupService/CreateGroup"
	GroupServiceGetGroupProcedure    = "/splitsmart.v1.GroupService/GetGroup"
	GroupServiceListGroupsProcedure  = "/splitsmart.v1.GroupService/ListGroups"
	GroupServiceAddMemberProcedure   = "/splitsmart.v1.GroupService/AddMember"
)

type Group struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	OwnerID     int64   `json:"ownerId"`
	Members     []*User `json:"members"`
	CreatedAt   Time    `json:"createdAt"`
}

type CreateGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID int64 `json:"groupId"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

// AddMemberRequest adds the user registered under Email to the group.
type AddMemberRequest struct {
	GroupID int64  `json:"groupId"`
	Email   string `json:"email"`
}

type AddMemberResponse struct {
	Group *Group `json:"group"`
	// Added is false when the user was already a member.
	Added bool `json:"added"`
}

// GroupServiceHandler is implemented by the server.
type GroupServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error)
	AddMember(context.Context, *connect.Request[AddMemberRequest]) (*connect.Response[AddMemberResponse], error)
}

// NewGroupServiceHandler builds an HTTP handler from the service implementation.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opt := handlerOptions(opts)
	return "/" + GroupServiceName + "/", router{
		GroupServiceCreateGroupProcedure: connect.NewUnaryHandler(GroupServiceCreateGroupProcedure, svc.CreateGroup, opt),
		GroupServiceGetGroupProcedure:    connect.NewUnaryHandler(GroupServiceGetGroupProcedure, svc.GetGroup, opt),
		GroupServiceListGroupsProcedure:  connect.NewUnaryHandler(GroupServiceListGroupsProcedure, svc.ListGroups, opt),
		GroupServiceAddMemberProcedure:   connect.NewUnaryHandler(GroupServiceAddMemberProcedure, svc.AddMember, opt),
	}
}

// GroupServiceClient is a client for the GroupService service.
type GroupServiceClient struct {
	createGroup *connect.Client[CreateGroupRequest, CreateGroupResponse]
	getGroup    *connect.Client[GetGroupRequest, GetGroupResponse]
	listGroups  *connect.Client[ListGroupsRequest, ListGroupsResponse]
	addMember   *connect.Client[AddMemberRequest, AddMemberResponse]
}

// NewGroupServiceClient constructs a client for the GroupService service.
func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *GroupServiceClient {
	opt := clientOptions(opts)
	return &GroupServiceClient{
		createGroup: connect.NewClient[CreateGroupRequest, CreateGroupResponse](httpClient, procedureURL(baseURL, GroupServiceCreateGroupProcedure), opt),
		getGroup:    connect.NewClient[GetGroupRequest, GetGroupResponse](httpClient, procedureURL(baseURL, GroupServiceGetGroupProcedure), opt),
		listGroups:  connect.NewClient[ListGroupsRequest, ListGroupsResponse](httpClient, procedureURL(baseURL, GroupServiceListGroupsProcedure), opt),
		addMember:   connect.NewClient[AddMemberRequest, AddMemberResponse](httpClient, procedureURL(baseURL, GroupServiceAddMemberProcedure), opt),
	}
}

func (c *GroupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) GetGroup(ctx context.Context, req *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) ListGroups(ctx context.Context, req *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

func (c *GroupServiceClient) AddMember(ctx context.Context, req *connect.Request[AddMemberRequest]) (*connect.Response[AddMemberResponse], error) {
	return c.addMember.CallUnary(ctx, req)
}
