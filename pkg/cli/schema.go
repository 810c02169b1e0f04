package cli

import (
	"context"
	"encoding/json"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pulumi-connector/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

func cmdSchema() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Print the user and team attribute schema as JSON",
		Action: func(ctx context.Context, c *cli.Command) error {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(model.NewSchema()); err != nil {
				return goerr.Wrap(err, "failed to encode schema")
			}
			return nil
		},
	}
}
