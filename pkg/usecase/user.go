package usecase

import (
	"context"
	"iter"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pulumi-connector/pkg/domain/interfaces"
	"github.com/secmon-lab/pulumi-connector/pkg/domain/model"
	"github.com/secmon-lab/pulumi-connector/pkg/domain/types"
	"github.com/secmon-lab/pulumi-connector/pkg/utils/logging"
)

// userHandler implements the user resource operations. A user is created by
// invitation; until the invitation is accepted the record stays pending and
// supports no operation other than cancellation.
type userHandler struct {
	client interfaces.Client
	schema *model.ObjectSchema
	assoc  *Association
}

func newUserHandler(client interfaces.Client, schema *model.ObjectSchema, assoc *Association) *userHandler {
	return &userHandler{
		client: client,
		schema: schema,
		assoc:  assoc,
	}
}

func (x *userHandler) create(ctx context.Context, attrs model.AttributeSet) (string, error) {
	inv, err := buildInvitation(x.schema, attrs)
	if err != nil {
		return "", err
	}

	// Team assignment is rejected by buildInvitation: the remote side
	// requires the invitation to be accepted before any membership exists.
	email, err := x.client.InviteUser(ctx, inv.Email, inv.Role)
	if err != nil {
		return "", err
	}

	return email.String(), nil
}

func (x *userHandler) update(ctx context.Context, uid string, deltas model.DeltaSet) error {
	up, err := buildUserUpdate(x.schema, deltas)
	if err != nil {
		return err
	}

	user, err := x.client.GetUser(ctx, types.Email(uid))
	if err != nil {
		return err
	}
	if user == nil {
		return goerr.New("user not found", goerr.V("email", uid), goerr.T(types.ErrTagNotFound))
	}
	if user.IsPending() {
		return goerr.New("cannot update a user with an outstanding invitation",
			goerr.V("email", uid), goerr.T(types.ErrTagInvalidState))
	}

	if up.Role != nil {
		if err := x.client.UpdateUserRole(ctx, user.Username, *up.Role); err != nil {
			return err
		}
	}

	// Both association directions run even when no role change happened.
	if err := x.assoc.AssignTeams(ctx, user.Username, up.AddTeams); err != nil {
		return err
	}
	return x.assoc.UnassignTeams(ctx, user.Username, up.RemoveTeams)
}

func (x *userHandler) remove(ctx context.Context, uid string) error {
	user, err := x.client.GetUser(ctx, types.Email(uid))
	if err != nil {
		return err
	}
	if user == nil {
		return goerr.New("user not found", goerr.V("email", uid), goerr.T(types.ErrTagNotFound))
	}

	if user.IsPending() {
		return x.client.CancelInvitation(ctx, user.InvitationID)
	}
	return x.client.DeleteMember(ctx, user.Username)
}

func (x *userHandler) query(ctx context.Context, filter *model.Filter, opts *model.QueryOptions) iter.Seq2[*model.Record, error] {
	attrsToGet := x.schema.FullAttributesToGet(opts.AttributesToGet)

	return func(yield func(*model.Record, error) bool) {
		if native := filter.Translate(x.schema); native != nil && native.IsIdentity(x.schema) {
			user, err := x.client.GetUser(ctx, types.Email(native.Value))
			if err != nil {
				yield(nil, err)
				return
			}
			if user == nil {
				// Absence is an empty result, not an error.
				return
			}

			record, err := x.toRecord(ctx, user, attrsToGet, opts.AllowPartialAttributeValues)
			if err != nil {
				yield(nil, err)
				return
			}
			yield(record, nil)
			return
		}

		for user, err := range x.client.Users(ctx) {
			if err != nil {
				yield(nil, err)
				return
			}

			record, err := x.toRecord(ctx, user, attrsToGet, opts.AllowPartialAttributeValues)
			if err != nil {
				if !yield(nil, err) {
					return
				}
				continue
			}
			if !yield(record, nil) {
				return
			}
		}
	}
}

// toRecord materializes a user into the generic attribute form. The team
// association is the only expensive attribute: it is resolved only when
// explicitly requested for an active user, and partial mode replaces the
// resolution with an explicit incomplete marker.
func (x *userHandler) toRecord(ctx context.Context, user *model.User, attrsToGet map[string]bool, allowPartial bool) (*model.Record, error) {
	record := model.NewRecord(types.KindUser, user.Email.String())

	if attrsToGet[model.AttrEmail] {
		record.Set(model.AttrEmail, user.Email.String())
	}
	if attrsToGet[model.AttrRole] {
		record.Set(model.AttrRole, user.Role.String())
	}
	if attrsToGet[model.AttrDisplayName] {
		record.Set(model.AttrDisplayName, user.DisplayName)
	}
	if attrsToGet[model.AttrAvatarURL] {
		record.Set(model.AttrAvatarURL, user.AvatarURL)
	}
	if attrsToGet[model.AttrUsername] {
		record.Set(model.AttrUsername, user.Username.String())
	}

	if allowPartial {
		// Suppress fetching associations; the caller asked for cheap,
		// possibly incomplete results.
		logging.From(ctx).Debug("Suppress fetching associations because partial attribute values are allowed",
			"email", user.Email.String())
		record.SetIncomplete(model.AttrTeams)
		return record, nil
	}

	if attrsToGet[model.AttrTeams] && !user.IsPending() {
		teams, err := x.assoc.TeamNamesForUser(ctx, user.Username)
		if err != nil {
			return nil, err
		}
		record.SetMulti(model.AttrTeams, teams)
	}

	return record, nil
}
