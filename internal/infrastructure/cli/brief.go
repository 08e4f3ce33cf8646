package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fvaldes/matutino/pkg/formatter"
)

var briefTZ string

var briefCmd = &cobra.Command{
	Use:   "brief",
	Short: "Generar el brief matutino completo",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := buildServices()
		if err != nil {
			return err
		}

		fmt.Println(headerStyle.Render("📰 Generando brief matutino..."))

		brief := svc.brief(timezone(briefTZ)).Generate(cmd.Context())
		fmt.Println(formatter.FormatBrief(brief))
		return nil
	},
}

func init() {
	briefCmd.Flags().StringVar(&briefTZ, "tz", "", "zona horaria IANA (default America/Mexico_City)")
	RootCmd.AddCommand(briefCmd)
}
