package tokens

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/gobubble/pkg/config"
)

type Handler struct {
	fs         afero.Fs
	configPath string
	stdout     io.Writer
}

func NewTokensCommand(fs afero.Fs) *cobra.Command {
	me := &Handler{fs: fs}

	cmd := &cobra.Command{
		Use:          "tokens",
		Short:        "list the registered tokens and the phase they render in",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
	}

	cmd.Flags().StringVar(&me.configPath, "config", "", "only list the tokens this config allows")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		me.stdout = cmd.OutOrStdout()
		return me.Run(cmd.Context())
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context) error {
	cfg := config.Default()
	if me.configPath != "" {
		loaded, err := config.Load(me.fs, me.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	registry, err := cfg.Registry()
	if err != nil {
		return errors.Errorf("building token registry: %w", err)
	}

	w := tabwriter.NewWriter(me.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPHASE")
	for _, name := range registry.Names() {
		def, _ := registry.Lookup(name)
		fmt.Fprintf(w, "%s\t%s\n", def.Name, def.Phase)
	}
	if err := w.Flush(); err != nil {
		return errors.Errorf("writing token list: %w", err)
	}
	return nil
}
