package usecase

import (
	"context"
	"errors"
	"iter"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pulumi-connector/pkg/domain/interfaces"
	"github.com/secmon-lab/pulumi-connector/pkg/domain/model"
	"github.com/secmon-lab/pulumi-connector/pkg/domain/types"
	"github.com/secmon-lab/pulumi-connector/pkg/utils/logging"
)

// Association resolves user-team membership in both directions. The remote
// API offers neither a teams-for-user lookup nor a bulk membership set, so
// every resolution is rebuilt from full listings within a single operation
// and never cached across operations.
type Association struct {
	client interfaces.Client
}

// NewAssociation creates the resolver shared by the user and team handlers.
func NewAssociation(client interfaces.Client) *Association {
	return &Association{client: client}
}

// TeamsForUser streams every team whose member list contains the username.
// This costs one detail fetch per team in the organization; the expense is
// inherent to the remote API, not an implementation shortcut.
func (x *Association) TeamsForUser(ctx context.Context, username types.Username) iter.Seq2[*model.Team, error] {
	return func(yield func(*model.Team, error) bool) {
		for team, err := range x.client.Teams(ctx) {
			if err != nil {
				yield(nil, err)
				return
			}

			detail, err := x.client.GetTeam(ctx, team.Name)
			if err != nil {
				if !yield(nil, err) {
					return
				}
				continue
			}
			if detail == nil {
				// The team vanished between listing and fetch.
				continue
			}

			if detail.HasMember(username) {
				if !yield(team, nil) {
					return
				}
			}
		}
	}
}

// TeamNamesForUser collects the names of all teams the user belongs to.
func (x *Association) TeamNamesForUser(ctx context.Context, username types.Username) ([]string, error) {
	var names []string
	for team, err := range x.TeamsForUser(ctx, username) {
		if err != nil {
			return nil, err
		}
		names = append(names, team.Name.String())
	}
	return names, nil
}

// MemberEmails projects a team's member list to emails. Members whose native
// username has no matching active user are skipped silently; the member
// listing is the only source of the username-email pairing.
func (x *Association) MemberEmails(ctx context.Context, team *model.Team) ([]string, error) {
	if !team.HasMembers() {
		detail, err := x.client.GetTeam(ctx, team.Name)
		if err != nil {
			return nil, err
		}
		if detail == nil {
			return nil, goerr.New("team not found",
				goerr.V("name", team.Name), goerr.T(types.ErrTagNotFound))
		}
		team = detail
	}

	emailsByUsername, err := x.usernameToEmail(ctx)
	if err != nil {
		return nil, err
	}

	emails := make([]string, 0, len(team.Members))
	for _, member := range team.Members {
		if email, ok := emailsByUsername[member.Username.Fold()]; ok {
			emails = append(emails, email.String())
		}
	}
	return emails, nil
}

// Reconcile applies membership increments to a team. The remote API only
// supports single-member patches, so each email is resolved to a native
// username through one full user listing and patched individually. An email
// with no active member behind it is skipped with a warning; the remove list
// is attempted even when the add list failed partway.
func (x *Association) Reconcile(ctx context.Context, name types.TeamName, add, remove []types.Email) error {
	if len(add) == 0 && len(remove) == 0 {
		return nil
	}

	usernames, err := x.emailToUsername(ctx)
	if err != nil {
		return err
	}

	addErr := x.patchMembers(ctx, name, add, usernames, x.client.AddTeamMember, "add")
	removeErr := x.patchMembers(ctx, name, remove, usernames, x.client.RemoveTeamMember, "remove")

	return errors.Join(addErr, removeErr)
}

func (x *Association) patchMembers(
	ctx context.Context,
	name types.TeamName,
	emails []types.Email,
	usernames map[string]types.Username,
	patch func(context.Context, types.TeamName, types.Username) error,
	action string,
) error {
	logger := logging.From(ctx)

	for _, email := range emails {
		username, ok := usernames[email.Fold()]
		if !ok {
			logger.Warn("Skipping team member patch: email is not an active member",
				"team", name.String(), "email", email.String(), "action", action)
			continue
		}

		if err := patch(ctx, name, username); err != nil {
			return goerr.Wrap(err, "failed to patch team member",
				goerr.V("team", name), goerr.V("username", username), goerr.V("action", action))
		}
	}

	return nil
}

// emailToUsername builds the email-keyed identity mapping from one full user
// listing. Keys are lowercased because emails match case-insensitively.
func (x *Association) emailToUsername(ctx context.Context) (map[string]types.Username, error) {
	mapping := make(map[string]types.Username)
	for user, err := range x.client.Users(ctx) {
		if err != nil {
			return nil, err
		}
		if user.IsPending() {
			continue
		}
		mapping[user.Email.Fold()] = user.Username
	}
	return mapping, nil
}

// usernameToEmail is the reverse mapping, keyed by lowercased username.
func (x *Association) usernameToEmail(ctx context.Context) (map[string]types.Email, error) {
	mapping := make(map[string]types.Email)
	for user, err := range x.client.Users(ctx) {
		if err != nil {
			return nil, err
		}
		if user.IsPending() {
			continue
		}
		mapping[user.Username.Fold()] = user.Email
	}
	return mapping, nil
}

// ResolveMember maps a members filter value to a native username. Records
// project team members as emails, so the value is resolved through the
// email mapping first; a value no active member's email matches falls back
// to being treated as a username directly.
func (x *Association) ResolveMember(ctx context.Context, value string) (types.Username, error) {
	usernames, err := x.emailToUsername(ctx)
	if err != nil {
		return "", err
	}
	if username, ok := usernames[types.Email(value).Fold()]; ok {
		return username, nil
	}
	return types.Username(value), nil
}

// AssignTeams adds the user to each named team with one patch per team.
func (x *Association) AssignTeams(ctx context.Context, username types.Username, teams []types.TeamName) error {
	for _, name := range teams {
		if err := x.client.AddTeamMember(ctx, name, username); err != nil {
			return goerr.Wrap(err, "failed to assign team",
				goerr.V("team", name), goerr.V("username", username))
		}
	}
	return nil
}

// UnassignTeams removes the user from each named team.
func (x *Association) UnassignTeams(ctx context.Context, username types.Username, teams []types.TeamName) error {
	for _, name := range teams {
		if err := x.client.RemoveTeamMember(ctx, name, username); err != nil {
			return goerr.Wrap(err, "failed to unassign team",
				goerr.V("team", name), goerr.V("username", username))
		}
	}
	return nil
}
