package interfaces

import (
	"context"
	"iter"

	"github.com/secmon-lab/pulumi-connector/pkg/domain/model"
	"github.com/secmon-lab/pulumi-connector/pkg/domain/types"
)

// Client is the outbound contract against the Pulumi Cloud REST API. All
// listings are lazy sequences: the consumer stops iteration by breaking out
// of the range loop, and no further remote calls are issued.
type Client interface {
	// Test verifies that the configured token can reach the API.
	Test(ctx context.Context) error

	// InviteUser creates a pending invitation. The email doubles as the
	// durable external identifier of the user.
	InviteUser(ctx context.Context, email types.Email, role types.Role) (types.Email, error)

	// Users streams pending invitations first, then active members, as one
	// logical result set.
	Users(ctx context.Context) iter.Seq2[*model.User, error]

	// GetUser scans the user listing for a case-insensitive email match.
	// It returns (nil, nil) when no user matches.
	GetUser(ctx context.Context, email types.Email) (*model.User, error)

	// UpdateUserRole changes the organization role of an active member.
	UpdateUserRole(ctx context.Context, username types.Username, role types.Role) error

	// DeleteMember removes an active member from the organization.
	DeleteMember(ctx context.Context, username types.Username) error

	// CancelInvitation withdraws a pending invitation.
	CancelInvitation(ctx context.Context, invitationID string) error

	// CreateTeam creates a team. The name is the durable identifier.
	CreateTeam(ctx context.Context, team *model.Team) (types.TeamName, error)

	// Teams streams team metadata. Member lists are never included.
	Teams(ctx context.Context) iter.Seq2[*model.Team, error]

	// GetTeam fetches one team including its member list. It returns
	// (nil, nil) when the team does not exist, and the member list is
	// never nil.
	GetTeam(ctx context.Context, name types.TeamName) (*model.Team, error)

	// UpdateTeam applies a partial metadata update.
	UpdateTeam(ctx context.Context, name types.TeamName, update *model.TeamUpdate) error

	// DeleteTeam removes a team.
	DeleteTeam(ctx context.Context, name types.TeamName) error

	// AddTeamMember and RemoveTeamMember patch a single membership. The
	// remote API offers no bulk-set primitive.
	AddTeamMember(ctx context.Context, name types.TeamName, username types.Username) error
	RemoveTeamMember(ctx context.Context, name types.TeamName, username types.Username) error
}
