package pulumi

import (
	"context"
	"iter"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pulumi-connector/pkg/domain/model"
	"github.com/secmon-lab/pulumi-connector/pkg/domain/types"
	"github.com/secmon-lab/pulumi-connector/pkg/utils/safe"
)

// CreateTeam creates a team of the "pulumi" kind. The remote API signals a
// duplicate name as a 400 response whose error body carries code 409.
func (x *Client) CreateTeam(ctx context.Context, team *model.Team) (types.TeamName, error) {
	body := teamBody{
		Name:        team.Name.String(),
		DisplayName: team.DisplayName,
		Description: team.Description,
	}

	resp, err := x.post(ctx, x.apiURL("/teams/pulumi"), body)
	if err != nil {
		return "", err
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode == http.StatusBadRequest {
		var remoteErr errorBody
		if err := decodeBody(resp, &remoteErr); err == nil && remoteErr.isAlreadyExists() {
			return "", goerr.New("team already exists",
				goerr.V("name", team.Name), goerr.T(types.ErrTagAlreadyExists))
		}
		return "", goerr.New("bad request when creating team",
			goerr.V("name", team.Name), goerr.V("message", remoteErr.Message),
			goerr.T(types.ErrTagInvalidInput))
	}
	if resp.StatusCode != http.StatusCreated {
		return "", goerr.New("failed to create team",
			goerr.V("name", team.Name), goerr.V("status", resp.StatusCode),
			goerr.V("body", readBody(resp)), goerr.T(types.ErrTagTransport))
	}

	return team.Name, nil
}

// Teams streams team metadata. The listing endpoint never includes member
// lists, so every yielded team has Members == nil.
func (x *Client) Teams(ctx context.Context) iter.Seq2[*model.Team, error] {
	return func(yield func(*model.Team, error) bool) {
		resp, err := x.get(ctx, x.apiURL("/teams"))
		if err != nil {
			yield(nil, err)
			return
		}

		var teams teamsBody
		func() {
			defer safe.Close(ctx, resp.Body)
			if resp.StatusCode != http.StatusOK {
				err = goerr.New("failed to get teams",
					goerr.V("status", resp.StatusCode), goerr.V("body", readBody(resp)),
					goerr.T(types.ErrTagTransport))
				return
			}
			err = decodeBody(resp, &teams)
		}()
		if err != nil {
			yield(nil, err)
			return
		}

		for _, team := range teams.Teams {
			t := &model.Team{
				Name:        types.TeamName(team.Name),
				DisplayName: team.DisplayName,
				Description: team.Description,
			}
			if !yield(t, nil) {
				return
			}
		}
	}
}

// GetTeam fetches one team including its member list. A missing team yields
// (nil, nil); the API's null member list is normalized to an empty slice so
// downstream code has one shape to handle.
func (x *Client) GetTeam(ctx context.Context, name types.TeamName) (*model.Team, error) {
	resp, err := x.get(ctx, x.apiURL("/teams/%s", name))
	if err != nil {
		return nil, err
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, goerr.New("failed to get team",
			goerr.V("name", name), goerr.V("status", resp.StatusCode),
			goerr.V("body", readBody(resp)), goerr.T(types.ErrTagTransport))
	}

	var team teamWithMembersBody
	if err := decodeBody(resp, &team); err != nil {
		return nil, err
	}

	result := &model.Team{
		Name:        types.TeamName(team.Name),
		DisplayName: team.DisplayName,
		Description: team.Description,
		Members:     make([]model.TeamMember, 0, len(team.Members)),
	}
	for _, m := range team.Members {
		result.Members = append(result.Members, model.TeamMember{
			Username:    types.Username(m.GithubLogin),
			DisplayName: m.Name,
			AvatarURL:   m.AvatarURL,
		})
	}

	return result, nil
}

// UpdateTeam applies a partial metadata update.
func (x *Client) UpdateTeam(ctx context.Context, name types.TeamName, update *model.TeamUpdate) error {
	body := teamUpdateBody{
		NewDisplayName: update.DisplayName,
		NewDescription: update.Description,
	}

	resp, err := x.patch(ctx, x.apiURL("/teams/%s", name), body)
	if err != nil {
		return err
	}
	defer safe.Close(ctx, resp.Body)

	return x.checkTeamPatch(resp, name)
}

// DeleteTeam removes a team.
func (x *Client) DeleteTeam(ctx context.Context, name types.TeamName) error {
	resp, err := x.delete(ctx, x.apiURL("/teams/%s", name))
	if err != nil {
		return err
	}
	defer safe.Close(ctx, resp.Body)

	switch resp.StatusCode {
	case http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return goerr.New("team not found",
			goerr.V("name", name), goerr.T(types.ErrTagNotFound))
	default:
		return goerr.New("failed to delete team",
			goerr.V("name", name), goerr.V("status", resp.StatusCode),
			goerr.V("body", readBody(resp)), goerr.T(types.ErrTagTransport))
	}
}

// AddTeamMember patches one membership in. The member action endpoint takes
// the native username, never an email.
func (x *Client) AddTeamMember(ctx context.Context, name types.TeamName, username types.Username) error {
	return x.patchTeamMember(ctx, name, username, "add")
}

// RemoveTeamMember patches one membership out.
func (x *Client) RemoveTeamMember(ctx context.Context, name types.TeamName, username types.Username) error {
	return x.patchTeamMember(ctx, name, username, "remove")
}

func (x *Client) patchTeamMember(ctx context.Context, name types.TeamName, username types.Username, action string) error {
	body := memberActionBody{
		MemberAction: action,
		Member:       username.String(),
	}

	resp, err := x.patch(ctx, x.apiURL("/teams/%s", name), body)
	if err != nil {
		return err
	}
	defer safe.Close(ctx, resp.Body)

	return x.checkTeamPatch(resp, name)
}

func (x *Client) checkTeamPatch(resp *http.Response, name types.TeamName) error {
	switch resp.StatusCode {
	case http.StatusNoContent:
		return nil
	case http.StatusBadRequest:
		return goerr.New("bad request when updating team",
			goerr.V("name", name), goerr.V("body", readBody(resp)),
			goerr.T(types.ErrTagInvalidInput))
	case http.StatusNotFound:
		return goerr.New("team not found",
			goerr.V("name", name), goerr.T(types.ErrTagNotFound))
	default:
		return goerr.New("failed to update team",
			goerr.V("name", name), goerr.V("status", resp.StatusCode),
			goerr.V("body", readBody(resp)), goerr.T(types.ErrTagTransport))
	}
}
