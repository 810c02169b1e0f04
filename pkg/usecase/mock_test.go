package usecase_test

import (
	"context"
	"iter"

	"github.com/secmon-lab/pulumi-connector/pkg/domain/interfaces"
	"github.com/secmon-lab/pulumi-connector/pkg/domain/model"
	"github.com/secmon-lab/pulumi-connector/pkg/domain/types"
)

// mockClient is a function-field mock of interfaces.Client. Mutating calls
// are recorded so tests can assert that an operation touched nothing.
type mockClient struct {
	testFn             func(ctx context.Context) error
	inviteUserFn       func(ctx context.Context, email types.Email, role types.Role) (types.Email, error)
	usersFn            func(ctx context.Context) iter.Seq2[*model.User, error]
	getUserFn          func(ctx context.Context, email types.Email) (*model.User, error)
	updateUserRoleFn   func(ctx context.Context, username types.Username, role types.Role) error
	deleteMemberFn     func(ctx context.Context, username types.Username) error
	cancelInvitationFn func(ctx context.Context, invitationID string) error
	createTeamFn       func(ctx context.Context, team *model.Team) (types.TeamName, error)
	teamsFn            func(ctx context.Context) iter.Seq2[*model.Team, error]
	getTeamFn          func(ctx context.Context, name types.TeamName) (*model.Team, error)
	updateTeamFn       func(ctx context.Context, name types.TeamName, update *model.TeamUpdate) error
	deleteTeamFn       func(ctx context.Context, name types.TeamName) error
	addTeamMemberFn    func(ctx context.Context, name types.TeamName, username types.Username) error
	removeTeamMemberFn func(ctx context.Context, name types.TeamName, username types.Username) error

	calls []string
}

var _ interfaces.Client = (*mockClient)(nil)

func (m *mockClient) record(call string) {
	m.calls = append(m.calls, call)
}

func (m *mockClient) Test(ctx context.Context) error {
	if m.testFn != nil {
		return m.testFn(ctx)
	}
	return nil
}

func (m *mockClient) InviteUser(ctx context.Context, email types.Email, role types.Role) (types.Email, error) {
	m.record("InviteUser:" + email.String() + ":" + role.String())
	if m.inviteUserFn != nil {
		return m.inviteUserFn(ctx, email, role)
	}
	return email, nil
}

func (m *mockClient) Users(ctx context.Context) iter.Seq2[*model.User, error] {
	if m.usersFn != nil {
		return m.usersFn(ctx)
	}
	return func(yield func(*model.User, error) bool) {}
}

func (m *mockClient) GetUser(ctx context.Context, email types.Email) (*model.User, error) {
	if m.getUserFn != nil {
		return m.getUserFn(ctx, email)
	}
	return nil, nil
}

func (m *mockClient) UpdateUserRole(ctx context.Context, username types.Username, role types.Role) error {
	m.record("UpdateUserRole:" + username.String() + ":" + role.String())
	if m.updateUserRoleFn != nil {
		return m.updateUserRoleFn(ctx, username, role)
	}
	return nil
}

func (m *mockClient) DeleteMember(ctx context.Context, username types.Username) error {
	m.record("DeleteMember:" + username.String())
	if m.deleteMemberFn != nil {
		return m.deleteMemberFn(ctx, username)
	}
	return nil
}

func (m *mockClient) CancelInvitation(ctx context.Context, invitationID string) error {
	m.record("CancelInvitation:" + invitationID)
	if m.cancelInvitationFn != nil {
		return m.cancelInvitationFn(ctx, invitationID)
	}
	return nil
}

func (m *mockClient) CreateTeam(ctx context.Context, team *model.Team) (types.TeamName, error) {
	m.record("CreateTeam:" + team.Name.String())
	if m.createTeamFn != nil {
		return m.createTeamFn(ctx, team)
	}
	return team.Name, nil
}

func (m *mockClient) Teams(ctx context.Context) iter.Seq2[*model.Team, error] {
	if m.teamsFn != nil {
		return m.teamsFn(ctx)
	}
	return func(yield func(*model.Team, error) bool) {}
}

func (m *mockClient) GetTeam(ctx context.Context, name types.TeamName) (*model.Team, error) {
	if m.getTeamFn != nil {
		return m.getTeamFn(ctx, name)
	}
	return nil, nil
}

func (m *mockClient) UpdateTeam(ctx context.Context, name types.TeamName, update *model.TeamUpdate) error {
	m.record("UpdateTeam:" + name.String())
	if m.updateTeamFn != nil {
		return m.updateTeamFn(ctx, name, update)
	}
	return nil
}

func (m *mockClient) DeleteTeam(ctx context.Context, name types.TeamName) error {
	m.record("DeleteTeam:" + name.String())
	if m.deleteTeamFn != nil {
		return m.deleteTeamFn(ctx, name)
	}
	return nil
}

func (m *mockClient) AddTeamMember(ctx context.Context, name types.TeamName, username types.Username) error {
	m.record("AddTeamMember:" + name.String() + ":" + username.String())
	if m.addTeamMemberFn != nil {
		return m.addTeamMemberFn(ctx, name, username)
	}
	return nil
}

func (m *mockClient) RemoveTeamMember(ctx context.Context, name types.TeamName, username types.Username) error {
	m.record("RemoveTeamMember:" + name.String() + ":" + username.String())
	if m.removeTeamMemberFn != nil {
		return m.removeTeamMemberFn(ctx, name, username)
	}
	return nil
}

// staticUsers yields the given users in order.
func staticUsers(users ...*model.User) func(ctx context.Context) iter.Seq2[*model.User, error] {
	return func(ctx context.Context) iter.Seq2[*model.User, error] {
		return func(yield func(*model.User, error) bool) {
			for _, u := range users {
				if !yield(u, nil) {
					return
				}
			}
		}
	}
}

// staticTeams yields the given teams in order, stripped of memberships to
// mirror the listing endpoint.
func staticTeams(teams ...*model.Team) func(ctx context.Context) iter.Seq2[*model.Team, error] {
	return func(ctx context.Context) iter.Seq2[*model.Team, error] {
		return func(yield func(*model.Team, error) bool) {
			for _, t := range teams {
				listing := &model.Team{
					Name:        t.Name,
					DisplayName: t.DisplayName,
					Description: t.Description,
				}
				if !yield(listing, nil) {
					return
				}
			}
		}
	}
}
