package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pulumi-connector/pkg/cli/config"
	"github.com/secmon-lab/pulumi-connector/pkg/usecase"
	"github.com/secmon-lab/pulumi-connector/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var pulumiCfg config.Pulumi

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Verify that the configured token can reach the Pulumi API",
		Flags:   pulumiCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()
			logger.Info("Validating connection", "pulumi", pulumiCfg)

			client, err := pulumiCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure pulumi client")
			}

			uc := usecase.New(client)
			if err := uc.Validate(ctx); err != nil {
				return goerr.Wrap(err, "connection validation failed")
			}

			logger.Info("Connection validation passed")
			return nil
		},
	}
}
