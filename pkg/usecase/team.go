package usecase

import (
	"context"
	"iter"

	"github.com/secmon-lab/pulumi-connector/pkg/domain/interfaces"
	"github.com/secmon-lab/pulumi-connector/pkg/domain/model"
	"github.com/secmon-lab/pulumi-connector/pkg/domain/types"
	"github.com/secmon-lab/pulumi-connector/pkg/utils/logging"
)

// teamHandler implements the team resource operations. Metadata maps 1:1 to
// REST verbs; the member list is resolved and mutated through the shared
// association resolver because the remote API only patches one member at a
// time.
type teamHandler struct {
	client interfaces.Client
	schema *model.ObjectSchema
	assoc  *Association
}

func newTeamHandler(client interfaces.Client, schema *model.ObjectSchema, assoc *Association) *teamHandler {
	return &teamHandler{
		client: client,
		schema: schema,
		assoc:  assoc,
	}
}

func (x *teamHandler) create(ctx context.Context, attrs model.AttributeSet) (string, error) {
	team, err := buildTeamCreate(x.schema, attrs)
	if err != nil {
		return "", err
	}

	name, err := x.client.CreateTeam(ctx, team)
	if err != nil {
		return "", err
	}

	return name.String(), nil
}

func (x *teamHandler) update(ctx context.Context, uid string, deltas model.DeltaSet) error {
	up, err := buildTeamUpdate(x.schema, deltas)
	if err != nil {
		return err
	}

	name := types.TeamName(uid)

	if !up.Meta.IsEmpty() {
		if err := x.client.UpdateTeam(ctx, name, &up.Meta); err != nil {
			return err
		}
	}

	// Membership reconciliation is an unconditional call site; it no-ops
	// on empty lists.
	return x.assoc.Reconcile(ctx, name, up.AddMembers, up.RemoveMembers)
}

func (x *teamHandler) remove(ctx context.Context, uid string) error {
	return x.client.DeleteTeam(ctx, types.TeamName(uid))
}

func (x *teamHandler) query(ctx context.Context, filter *model.Filter, opts *model.QueryOptions) iter.Seq2[*model.Record, error] {
	attrsToGet := x.schema.FullAttributesToGet(opts.AttributesToGet)

	return func(yield func(*model.Record, error) bool) {
		native := filter.Translate(x.schema)

		switch {
		case native != nil && native.IsIdentity(x.schema):
			team, err := x.client.GetTeam(ctx, types.TeamName(native.Value))
			if err != nil {
				yield(nil, err)
				return
			}
			if team == nil {
				// Absence is an empty result, not an error.
				return
			}

			record, err := x.toRecord(ctx, team, attrsToGet, opts.AllowPartialAttributeValues)
			if err != nil {
				yield(nil, err)
				return
			}
			yield(record, nil)

		case native != nil:
			// Single-member containment: the filter value is an email
			// as projected into records, resolved to the native
			// username before scanning the teams the user belongs to.
			username, err := x.assoc.ResolveMember(ctx, native.Value)
			if err != nil {
				yield(nil, err)
				return
			}
			for team, err := range x.assoc.TeamsForUser(ctx, username) {
				if err != nil {
					yield(nil, err)
					return
				}
				record, err := x.toRecord(ctx, team, attrsToGet, opts.AllowPartialAttributeValues)
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

		default:
			for team, err := range x.client.Teams(ctx) {
				if err != nil {
					yield(nil, err)
					return
				}
				record, err := x.toRecord(ctx, team, attrsToGet, opts.AllowPartialAttributeValues)
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
}

// toRecord materializes a team into the generic attribute form. Empty
// display names and descriptions are suppressed rather than reported as
// blank values. The member list is projected to emails only when explicitly
// requested; partial mode yields an incomplete marker instead.
func (x *teamHandler) toRecord(ctx context.Context, team *model.Team, attrsToGet map[string]bool, allowPartial bool) (*model.Record, error) {
	record := model.NewRecord(types.KindTeam, team.Name.String())

	if attrsToGet[model.AttrTeamName] {
		record.Set(model.AttrTeamName, team.Name.String())
	}
	if attrsToGet[model.AttrDisplayName] {
		record.Set(model.AttrDisplayName, team.DisplayName)
	}
	if attrsToGet[model.AttrDescription] {
		record.Set(model.AttrDescription, team.Description)
	}

	if allowPartial {
		logging.From(ctx).Debug("Suppress fetching team members because partial attribute values are allowed",
			"team", team.Name.String())
		record.SetIncomplete(model.AttrMembers)
		return record, nil
	}

	if attrsToGet[model.AttrMembers] {
		emails, err := x.assoc.MemberEmails(ctx, team)
		if err != nil {
			return nil, err
		}
		record.SetMulti(model.AttrMembers, emails)
	}

	return record, nil
}
