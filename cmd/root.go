package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "camshelf",
		Short: "Generative vintage-camera archive builder",
		Long: `Camshelf builds a visual archive of vintage cameras with a generative model.

It requests a curated camera list, synthesizes one portrait per camera over a
shared shelf background, and exports the result as a raster grid image and a
paginated PDF catalog.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	// Add subcommands
	cmd.AddCommand(newGenerateCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}
