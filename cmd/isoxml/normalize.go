package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"go-slim.dev/isoxml"
)

func newNormalizeCmd(v *viper.Viper) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "normalize file...",
		Short: "Rewrite XML files so bound namespaces use their prefixes",
		Long: "Rewrite XML files so that every element and attribute in a bound namespace\n" +
			"uses its prefix and the root element declares the full binding set.\n" +
			"A single file is written to stdout unless --out is given.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ns, err := namespacesFrom(v)
			if err != nil {
				return err
			}
			if outDir == "" {
				if len(args) > 1 {
					return errors.New("--out is required when normalizing more than one file")
				}
				return normalizeTo(cmd.OutOrStdout(), args[0], ns)
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}

			var g errgroup.Group
			g.SetLimit(runtime.GOMAXPROCS(0))
			for _, name := range args {
				name := name
				g.Go(func() error {
					return normalizeFile(name, filepath.Join(outDir, filepath.Base(name)), ns)
				})
			}
			return g.Wait()
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "directory receiving the rewritten files")

	return cmd
}

func normalizeTo(w io.Writer, name string, ns isoxml.Namespaces) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := isoxml.Reformat(w, f, ns); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func normalizeFile(src, dst string, ns isoxml.Namespaces) (err error) {
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err = normalizeTo(out, src, ns); err != nil {
		return err
	}
	slog.Debug("normalized", "src", src, "dst", dst)
	return nil
}
