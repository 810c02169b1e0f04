package usecase

import (
	"context"
	"iter"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pulumi-connector/pkg/domain/interfaces"
	"github.com/secmon-lab/pulumi-connector/pkg/domain/model"
	"github.com/secmon-lab/pulumi-connector/pkg/domain/types"
)

// resourceHandler is the per-kind operation set. Two implementations exist
// (user, team); dispatch happens by object kind and the association resolver
// is shared between them.
type resourceHandler interface {
	create(ctx context.Context, attrs model.AttributeSet) (string, error)
	update(ctx context.Context, uid string, deltas model.DeltaSet) error
	remove(ctx context.Context, uid string) error
	query(ctx context.Context, filter *model.Filter, opts *model.QueryOptions) iter.Seq2[*model.Record, error]
}

// UseCases is the host-framework facing surface of the connector: generic
// attribute-based CRUD and query over the two supported resource kinds.
type UseCases struct {
	client interfaces.Client
	schema *model.Schema
	assoc  *Association
	users  *userHandler
	teams  *teamHandler
}

// New builds the connector use cases. The schema is declared once here and
// passed explicitly to the handlers; nothing is cached process-wide.
func New(client interfaces.Client) *UseCases {
	schema := model.NewSchema()
	assoc := NewAssociation(client)

	return &UseCases{
		client: client,
		schema: schema,
		assoc:  assoc,
		users:  newUserHandler(client, &schema.User, assoc),
		teams:  newTeamHandler(client, &schema.Team, assoc),
	}
}

// Schema returns the declared schema of both kinds.
func (x *UseCases) Schema() *model.Schema {
	return x.schema
}

// Validate verifies connectivity and credentials against the remote API.
func (x *UseCases) Validate(ctx context.Context) error {
	return x.client.Test(ctx)
}

func (x *UseCases) handler(kind types.ObjectKind) (resourceHandler, error) {
	switch kind {
	case types.KindUser:
		return x.users, nil
	case types.KindTeam:
		return x.teams, nil
	default:
		return nil, goerr.New("unsupported object kind",
			goerr.V("kind", kind), goerr.T(types.ErrTagInvalidInput))
	}
}

// Create provisions a new resource and returns its durable identifier.
func (x *UseCases) Create(ctx context.Context, kind types.ObjectKind, attrs model.AttributeSet) (string, error) {
	if len(attrs) == 0 {
		return "", goerr.New("attributes not provided or empty",
			goerr.V("kind", kind), goerr.T(types.ErrTagInvalidInput))
	}

	h, err := x.handler(kind)
	if err != nil {
		return "", err
	}
	return h.create(ctx, attrs)
}

// Update applies an incremental delta set to the identified resource.
func (x *UseCases) Update(ctx context.Context, kind types.ObjectKind, uid string, deltas model.DeltaSet) error {
	if uid == "" {
		return goerr.New("uid not provided", goerr.V("kind", kind), goerr.T(types.ErrTagInvalidInput))
	}

	h, err := x.handler(kind)
	if err != nil {
		return err
	}
	return h.update(ctx, uid, deltas)
}

// Delete removes the identified resource.
func (x *UseCases) Delete(ctx context.Context, kind types.ObjectKind, uid string) error {
	if uid == "" {
		return goerr.New("uid not provided", goerr.V("kind", kind), goerr.T(types.ErrTagInvalidInput))
	}

	h, err := x.handler(kind)
	if err != nil {
		return err
	}
	return h.remove(ctx, uid)
}

// Query streams records matching the filter. A nil filter, or any filter
// shape without a native lookup, scans everything. Breaking out of the range
// loop stops iteration and any further remote fetches immediately.
func (x *UseCases) Query(ctx context.Context, kind types.ObjectKind, filter *model.Filter, opts *model.QueryOptions) iter.Seq2[*model.Record, error] {
	h, err := x.handler(kind)
	if err != nil {
		return func(yield func(*model.Record, error) bool) {
			yield(nil, err)
		}
	}

	if opts == nil {
		opts = &model.QueryOptions{}
	}
	return h.query(ctx, filter, opts)
}
