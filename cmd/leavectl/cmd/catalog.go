package cmd

import (
	"fmt"
	"io"

	"github.com/cmlabs-hris/hris-leave-ledger/internal/domain/leave"
	"github.com/cmlabs-hris/hris-leave-ledger/internal/repository/static"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"
)

func newCatalogCmd() *cobra.Command {
	var catalogFile string
	var swatch bool

	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the leave-type catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			types, err := static.NewCatalogRepository(catalogFile).List(cmd.Context())
			if err != nil {
				return err
			}
			PrintCatalog(cmd.OutOrStdout(), types, swatch)
			return nil
		},
	}

	catalogCmd.Flags().StringVarP(&catalogFile, "file", "f", "", "TOML catalog file. The built-in catalog is used when empty.")
	catalogCmd.Flags().BoolVar(&swatch, "swatch", false, "Prefix each type with a 24-bit terminal color swatch.")

	return catalogCmd
}

// PrintCatalog writes one line per leave type in catalog order.
func PrintCatalog(w io.Writer, types []leave.LeaveType, swatch bool) {
	for _, t := range types {
		if swatch {
			fmt.Fprint(w, colorSwatch(t.Color)+" ")
		}
		fmt.Fprintf(w, "%-20s %4d  %s\n", t.Name, t.Allocated, t.Color)
	}
}

func colorSwatch(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return "  "
	}
	r, g, b := c.RGB255()
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm  \x1b[0m", r, g, b)
}
