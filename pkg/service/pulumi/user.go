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

// InviteUser creates a pending invitation. The email doubles as the durable
// external identifier, so it is returned as-is on success.
func (x *Client) InviteUser(ctx context.Context, email types.Email, role types.Role) (types.Email, error) {
	body := inviteBody{
		Email: email.String(),
		Role:  role.String(),
	}

	resp, err := x.post(ctx, x.consoleURL("/invites"), body)
	if err != nil {
		return "", err
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode == http.StatusBadRequest {
		return "", goerr.New("bad request when inviting user",
			goerr.V("email", email), goerr.V("body", readBody(resp)),
			goerr.T(types.ErrTagInvalidInput))
	}
	if resp.StatusCode != http.StatusNoContent {
		return "", goerr.New("failed to invite user",
			goerr.V("email", email), goerr.V("status", resp.StatusCode),
			goerr.V("body", readBody(resp)), goerr.T(types.ErrTagTransport))
	}

	return email, nil
}

// Users streams the logical user set: pending invitations first, then active
// members. The API offers no combined listing, so two fetches back the one
// sequence. Breaking out of the range loop stops remote paging immediately.
func (x *Client) Users(ctx context.Context) iter.Seq2[*model.User, error] {
	return func(yield func(*model.User, error) bool) {
		resp, err := x.get(ctx, x.consoleURL("/invites"))
		if err != nil {
			yield(nil, err)
			return
		}

		var invites invitesBody
		func() {
			defer safe.Close(ctx, resp.Body)
			if resp.StatusCode != http.StatusOK {
				err = goerr.New("failed to get inviting users",
					goerr.V("status", resp.StatusCode), goerr.V("body", readBody(resp)),
					goerr.T(types.ErrTagTransport))
				return
			}
			err = decodeBody(resp, &invites)
		}()
		if err != nil {
			yield(nil, err)
			return
		}

		for _, invite := range invites.Invites {
			user := &model.User{
				Email:        types.Email(invite.Email),
				Role:         types.Role(invite.Role),
				InvitationID: invite.ID,
			}
			if !yield(user, nil) {
				return
			}
		}

		resp, err = x.get(ctx, x.apiURL("/members?type=frontend"))
		if err != nil {
			yield(nil, err)
			return
		}

		var members membersBody
		func() {
			defer safe.Close(ctx, resp.Body)
			if resp.StatusCode != http.StatusOK {
				err = goerr.New("failed to get members",
					goerr.V("status", resp.StatusCode), goerr.V("body", readBody(resp)),
					goerr.T(types.ErrTagTransport))
				return
			}
			err = decodeBody(resp, &members)
		}()
		if err != nil {
			yield(nil, err)
			return
		}

		for _, member := range members.Members {
			user := &model.User{
				Email:       types.Email(member.User.Email),
				Role:        types.Role(member.Role),
				DisplayName: member.User.Name,
				AvatarURL:   member.User.AvatarURL,
				Username:    types.Username(member.User.GithubLogin),
			}
			if !yield(user, nil) {
				return
			}
		}
	}
}

// GetUser resolves a user by email. The API has no lookup-by-email, so this
// scans the full listing and stops at the first case-insensitive match.
// It returns (nil, nil) when no user matches.
func (x *Client) GetUser(ctx context.Context, email types.Email) (*model.User, error) {
	for user, err := range x.Users(ctx) {
		if err != nil {
			return nil, err
		}
		if user.Email.Equal(email) {
			return user, nil
		}
	}
	return nil, nil
}

// UpdateUserRole changes the organization role of an active member.
func (x *Client) UpdateUserRole(ctx context.Context, username types.Username, role types.Role) error {
	body := roleUpdateBody{Role: role.String()}

	resp, err := x.patch(ctx, x.apiURL("/members/%s", username), body)
	if err != nil {
		return err
	}
	defer safe.Close(ctx, resp.Body)

	switch resp.StatusCode {
	case http.StatusNoContent:
		return nil
	case http.StatusBadRequest:
		return goerr.New("bad request when updating user",
			goerr.V("username", username), goerr.V("body", readBody(resp)),
			goerr.T(types.ErrTagInvalidInput))
	case http.StatusNotFound:
		return goerr.New("user not found",
			goerr.V("username", username), goerr.T(types.ErrTagNotFound))
	default:
		return goerr.New("failed to update user",
			goerr.V("username", username), goerr.V("status", resp.StatusCode),
			goerr.V("body", readBody(resp)), goerr.T(types.ErrTagTransport))
	}
}

// DeleteMember removes an active member from the organization.
func (x *Client) DeleteMember(ctx context.Context, username types.Username) error {
	resp, err := x.delete(ctx, x.apiURL("/members/%s", username))
	if err != nil {
		return err
	}
	defer safe.Close(ctx, resp.Body)

	switch resp.StatusCode {
	case http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return goerr.New("user not found",
			goerr.V("username", username), goerr.T(types.ErrTagNotFound))
	default:
		return goerr.New("failed to delete member",
			goerr.V("username", username), goerr.V("status", resp.StatusCode),
			goerr.V("body", readBody(resp)), goerr.T(types.ErrTagTransport))
	}
}

// CancelInvitation withdraws a pending invitation.
func (x *Client) CancelInvitation(ctx context.Context, invitationID string) error {
	resp, err := x.delete(ctx, x.consoleURL("/invites/%s", invitationID))
	if err != nil {
		return err
	}
	defer safe.Close(ctx, resp.Body)

	switch resp.StatusCode {
	case http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return goerr.New("invitation not found",
			goerr.V("invitationID", invitationID), goerr.T(types.ErrTagNotFound))
	default:
		return goerr.New("failed to cancel invitation",
			goerr.V("invitationID", invitationID), goerr.V("status", resp.StatusCode),
			goerr.V("body", readBody(resp)), goerr.T(types.ErrTagTransport))
	}
}
