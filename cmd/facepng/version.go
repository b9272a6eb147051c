package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idreamsi/pebble-boxyface/internal/buildinfo"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build identifier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "facepng", buildinfo.String())
			return err
		},
	}
}
