package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "qrlogo",
		Short:         "Generate QR codes with a circular logo",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newGenerateCmd())
	return root
}
