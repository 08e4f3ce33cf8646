package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fvaldes/matutino/pkg/formatter"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Mostrar las preferencias de filtrado de correo",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := buildServices()
		if err != nil {
			return err
		}

		p, err := svc.prefs.Get()
		if err != nil {
			return fmt.Errorf("failed to load preferences: %w", err)
		}

		fmt.Println(formatter.FormatPreferences(p))
		return nil
	},
}

var ajustaCmd = &cobra.Command{
	Use:   "ajusta <instrucción>",
	Short: "Ajustar preferencias en lenguaje natural",
	Long: `Ajusta las preferencias de filtrado con una instrucción libre.
Ejemplo: matutino ajusta ya no me des correos de oracle`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := buildServices()
		if err != nil {
			return err
		}

		instruction := strings.Join(args, " ")
		result := svc.prefs.UpdateFromInstruction(cmd.Context(), instruction)

		fmt.Printf("⚙️ %s\n\n", result.Explanation)
		fmt.Println(formatter.FormatPreferences(result.Preferences))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(prefsCmd)
	RootCmd.AddCommand(ajustaCmd)
}
