package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fvaldes/matutino/internal/infrastructure/config"
	"github.com/fvaldes/matutino/pkg/ai"
)

var aiconfigCmd = &cobra.Command{
	Use:   "aiconfig",
	Short: "Mostrar la configuración del proveedor de IA",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := buildServices()
		if err != nil {
			return err
		}

		info := svc.client.Info()
		status := "❌ sin API key"
		if info.Configured {
			status = "✅ configurado"
		}
		model := info.Model
		if model == "" {
			model = "(default del proveedor)"
		}

		fmt.Println(headerStyle.Render("🤖 Configuración de IA"))
		fmt.Printf("Proveedor: %s\nModelo: %s\nEstado: %s\n\n", info.Provider, model, status)

		fmt.Println("Modelos disponibles:")
		for provider, models := range config.AvailableModels {
			fmt.Printf("\n%s:\n", provider)
			for _, m := range models {
				fmt.Printf("  %-35s %s\n", m.ID, m.Description)
			}
		}
		return nil
	},
}

var aiconfigSetCmd = &cobra.Command{
	Use:   "set <proveedor> [modelo]",
	Short: "Cambiar proveedor y modelo de IA",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := buildServices()
		if err != nil {
			return err
		}

		provider := args[0]
		model := ""
		if len(args) > 1 {
			model = args[1]
		}
		if model != "" && !config.KnownModel(provider, model) {
			fmt.Printf("⚠️ Modelo %s no está en el catálogo de %s, se usará de todas formas\n", model, provider)
		}

		cfg := ai.Config{Provider: provider, Model: model}
		if err := svc.client.Reconfigure(cfg); err != nil {
			return fmt.Errorf("failed to switch provider: %w", err)
		}
		if err := config.SaveAIConfig(svc.root, &config.AIConfig{Provider: provider, Model: model}); err != nil {
			return fmt.Errorf("failed to save AI config: %w", err)
		}

		fmt.Printf("✅ Proveedor cambiado a %s (%s)\n", provider, svc.client.ID())
		return nil
	},
}

func init() {
	aiconfigCmd.AddCommand(aiconfigSetCmd)
	RootCmd.AddCommand(aiconfigCmd)
}
