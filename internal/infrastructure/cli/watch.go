package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fvaldes/matutino/internal/infrastructure/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Vigilar cambios en la configuración de IA",
	Long: `Observa el archivo de configuración de IA y reconfigura el cliente
en caliente cuando cambia. Bloquea hasta recibir Ctrl-C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := buildServices()
		if err != nil {
			return err
		}
		if err := svc.repo.Initialize(); err != nil {
			return err
		}

		fmt.Println(headerStyle.Render("👀 Observando configuración de IA"))

		watcher := watch.NewConfigWatcher(svc.root, svc.client, svc.logger)
		return watcher.Run(cmd.Context())
	},
}

func init() {
	RootCmd.AddCommand(watchCmd)
}
