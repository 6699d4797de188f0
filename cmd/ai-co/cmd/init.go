package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/ai-consensus/internal/config"
	"github.com/hugo-lorenzo-mato/ai-consensus/internal/security"
)

type initOptions struct {
	path  string
	force bool
}

func newInitCmd() *cobra.Command {
	opts := &initOptions{}
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration",
		Long: `Write a configuration with the default tool registry and settings.
The file goes to ~/.config/ai-consensus-cli/config.toml unless --path is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd)
		},
	}
	cmd.Flags().StringVar(&opts.path, "path", "", "destination file (default: user config path)")
	cmd.Flags().BoolVar(&opts.force, "force", false, "overwrite an existing configuration")
	return cmd
}

func (o *initOptions) run(cmd *cobra.Command) error {
	target := o.path
	if target == "" {
		target = config.UserConfigPath()
		if target == "" {
			return errors.New("cannot determine home directory, use --path")
		}
	}
	path, err := security.ValidateConfigPath(target)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil && !o.force {
		return fmt.Errorf("configuration already exists at %s, use --force to overwrite", path)
	}

	data, err := config.DefaultDocument()
	if err != nil {
		return fmt.Errorf("rendering default configuration: %w", err)
	}
	if err := config.AtomicWrite(path, data); err != nil {
		return fmt.Errorf("writing configuration: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
	return nil
}
