package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go-slim.dev/isoxml"
)

func newNamespacesCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:     "namespaces",
		Aliases: []string{"ls"},
		Short:   "Print the namespace bindings that will be declared",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ns, err := namespacesFrom(v)
			if err != nil {
				return err
			}
			printNamespaces(cmd.OutOrStdout(), ns)
			return nil
		},
	}
}

func printNamespaces(w io.Writer, ns isoxml.Namespaces) {
	if len(ns) == 0 {
		fmt.Fprintln(w, "no namespace bindings")
		return
	}
	width := 0
	for _, n := range ns {
		width = max(width, len(n.Prefix))
	}
	prefix := color.New(color.FgCyan, color.Bold)
	index := color.New(color.Faint)
	for i, n := range ns {
		fmt.Fprintf(w, "%s  %s  %s\n",
			index.Sprintf("%2d", i+1),
			prefix.Sprintf("%-*s", width, n.Prefix),
			n.URI,
		)
	}
}
