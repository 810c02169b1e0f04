package cli

import (
	"context"
	"encoding/json"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pulumi-connector/pkg/cli/config"
	"github.com/secmon-lab/pulumi-connector/pkg/domain/model"
	"github.com/secmon-lab/pulumi-connector/pkg/domain/types"
	"github.com/secmon-lab/pulumi-connector/pkg/usecase"
	"github.com/secmon-lab/pulumi-connector/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdQuery() *cli.Command {
	var pulumiCfg config.Pulumi
	var id string
	var member string
	var attrs []string
	var partial bool

	var flags []cli.Flag
	flags = append(flags, pulumiCfg.Flags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "id",
			Usage:       "Look up a single object by its identity (email or team name)",
			Destination: &id,
		},
		&cli.StringFlag{
			Name:        "member",
			Usage:       "List only teams containing this member (teams only)",
			Destination: &member,
		},
		&cli.StringSliceFlag{
			Name:        "attrs",
			Usage:       "Extra attributes to resolve beyond the defaults",
			Destination: &attrs,
		},
		&cli.BoolFlag{
			Name:        "partial",
			Usage:       "Skip association resolution and mark those attributes incomplete",
			Destination: &partial,
		},
	)

	return &cli.Command{
		Name:      "query",
		Aliases:   []string{"q"},
		Usage:     "Stream users or teams as JSON lines",
		ArgsUsage: "<user|team>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			kind := types.ObjectKind(c.Args().First())
			if err := kind.Validate(); err != nil {
				return goerr.Wrap(err, "first argument must be 'user' or 'team'")
			}

			client, err := pulumiCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure pulumi client")
			}
			uc := usecase.New(client)

			filter, err := buildFilter(uc.Schema().ByKind(kind), id, member)
			if err != nil {
				return err
			}

			opts := &model.QueryOptions{
				AttributesToGet:             attrs,
				AllowPartialAttributeValues: partial,
			}

			enc := json.NewEncoder(os.Stdout)
			count := 0
			for record, err := range uc.Query(ctx, kind, filter, opts) {
				if err != nil {
					return goerr.Wrap(err, "query failed", goerr.V("kind", kind))
				}
				if err := enc.Encode(record); err != nil {
					return goerr.Wrap(err, "failed to encode record")
				}
				count++
			}

			logging.Default().Info("Query finished", "kind", kind, "count", count)
			return nil
		},
	}
}

func buildFilter(schema *model.ObjectSchema, id, member string) (*model.Filter, error) {
	if id != "" && member != "" {
		return nil, goerr.New("--id and --member are mutually exclusive",
			goerr.T(types.ErrTagInvalidInput))
	}
	if id != "" {
		return &model.Filter{
			Attr:   schema.IdentityAttr,
			Op:     model.FilterEquals,
			Values: []string{id},
		}, nil
	}
	if member != "" {
		if schema.Kind != types.KindTeam {
			return nil, goerr.New("--member applies to team queries only",
				goerr.T(types.ErrTagInvalidInput))
		}
		return &model.Filter{
			Attr:   model.AttrMembers,
			Op:     model.FilterContainsAll,
			Values: []string{member},
		}, nil
	}
	return nil, nil
}
