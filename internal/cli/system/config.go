package system

import (
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/planner/internal/cli"
	"github.com/julianstephens/planner/internal/storage/backend"
)

// ConfigShowCmd prints the effective configuration
type ConfigShowCmd struct{}

func (cmd *ConfigShowCmd) Run(ctx *cli.Context) error {
	shown := *ctx.Config
	shown.Database = backend.Describe(ctx.Config.Database)
	if shown.Digest.TelegramToken != "" {
		shown.Digest.TelegramToken = maskToken(shown.Digest.TelegramToken)
	}

	out, err := yaml.Marshal(shown)
	if err != nil {
		return err
	}
	ctx.Printf("# %s\n%s", ctx.ConfigPath, out)
	return nil
}
