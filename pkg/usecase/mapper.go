package usecase

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pulumi-connector/pkg/domain/model"
	"github.com/secmon-lab/pulumi-connector/pkg/domain/types"
)

// invitation is the mapped form of a user create: the remote side only
// accepts an email and a role for an invitation.
type invitation struct {
	Email types.Email
	Role  types.Role
}

// buildInvitation maps a create attribute set onto an invitation. Any
// attribute outside the declared creatable set is rejected; notably the team
// association cannot be set before the invitation is accepted.
func buildInvitation(schema *model.ObjectSchema, attrs model.AttributeSet) (*invitation, error) {
	inv := &invitation{Role: types.RoleMember}

	for name := range attrs {
		info := schema.Lookup(name)
		if info == nil || !info.Creatable {
			return nil, goerr.New("attribute is not settable on user creation",
				goerr.V("attribute", name), goerr.T(types.ErrTagInvalidInput))
		}

		switch name {
		case model.AttrEmail:
			inv.Email = types.Email(attrs.First(name))
		case model.AttrRole:
			if v := attrs.First(name); v != "" {
				inv.Role = types.Role(v)
			}
		}
	}

	if err := inv.Email.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid invitation")
	}
	if !inv.Role.IsValid() {
		return nil, goerr.New("invalid role",
			goerr.V("role", inv.Role), goerr.T(types.ErrTagInvalidInput))
	}

	return inv, nil
}

// buildTeamCreate maps a create attribute set onto a team. Display name and
// description default to empty strings, which the remote API requires to be
// present in the payload.
func buildTeamCreate(schema *model.ObjectSchema, attrs model.AttributeSet) (*model.Team, error) {
	team := &model.Team{}

	for name := range attrs {
		info := schema.Lookup(name)
		if info == nil || !info.Creatable {
			return nil, goerr.New("attribute is not settable on team creation",
				goerr.V("attribute", name), goerr.T(types.ErrTagInvalidInput))
		}

		switch name {
		case model.AttrTeamName:
			team.Name = types.TeamName(attrs.First(name))
		case model.AttrDisplayName:
			team.DisplayName = attrs.First(name)
		case model.AttrDescription:
			team.Description = attrs.First(name)
		}
	}

	if err := team.Name.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid team on creation")
	}

	return team, nil
}

// userUpdate is the mapped form of a user delta set: an optional role change
// plus team association increments (team names, not emails).
type userUpdate struct {
	Role        *types.Role
	AddTeams    []types.TeamName
	RemoveTeams []types.TeamName
}

// buildUserUpdate maps a delta set onto a user update. A role delta that
// clears the value falls back to the member role; no role delta at all means
// no role update. Deltas on undeclared or non-updatable attributes fail.
func buildUserUpdate(schema *model.ObjectSchema, deltas model.DeltaSet) (*userUpdate, error) {
	up := &userUpdate{}

	for _, delta := range deltas {
		info := schema.Lookup(delta.Name)
		if info == nil || !info.Updatable {
			return nil, goerr.New("attribute is not updatable on user",
				goerr.V("attribute", delta.Name), goerr.T(types.ErrTagInvalidInput))
		}

		switch delta.Name {
		case model.AttrRole:
			role := types.RoleMember
			if delta.ReplaceSet && delta.Replace != "" {
				role = types.Role(delta.Replace)
			}
			if !role.IsValid() {
				return nil, goerr.New("invalid role",
					goerr.V("role", role), goerr.T(types.ErrTagInvalidInput))
			}
			up.Role = &role

		case model.AttrTeams:
			for _, v := range delta.Add {
				up.AddTeams = append(up.AddTeams, types.TeamName(v))
			}
			for _, v := range delta.Remove {
				up.RemoveTeams = append(up.RemoveTeams, types.TeamName(v))
			}
		}
	}

	return up, nil
}

// teamUpdate is the mapped form of a team delta set: an optional metadata
// patch plus membership increments expressed as emails.
type teamUpdate struct {
	Meta          model.TeamUpdate
	AddMembers    []types.Email
	RemoveMembers []types.Email
}

// buildTeamUpdate maps a delta set onto a team update. Display name and
// description are independently optional; a cleared value becomes an empty
// string on the remote side.
func buildTeamUpdate(schema *model.ObjectSchema, deltas model.DeltaSet) (*teamUpdate, error) {
	up := &teamUpdate{}

	for _, delta := range deltas {
		info := schema.Lookup(delta.Name)
		if info == nil || !info.Updatable {
			return nil, goerr.New("attribute is not updatable on team",
				goerr.V("attribute", delta.Name), goerr.T(types.ErrTagInvalidInput))
		}

		switch delta.Name {
		case model.AttrDisplayName:
			v := delta.Replace
			up.Meta.DisplayName = &v
		case model.AttrDescription:
			v := delta.Replace
			up.Meta.Description = &v
		case model.AttrMembers:
			for _, v := range delta.Add {
				up.AddMembers = append(up.AddMembers, types.Email(v))
			}
			for _, v := range delta.Remove {
				up.RemoveMembers = append(up.RemoveMembers, types.Email(v))
			}
		}
	}

	return up, nil
}
