// Package cli wires the assistant's commands.
package cli

import (
	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "matutino",
	Version: Version,
	Short:   "Asistente personal matutino: tareas, correos, noticias y agenda",
	Long: `Matutino es un asistente personal de línea de comandos.
Gestiona tareas locales, interpreta instrucciones en lenguaje natural
y arma un brief matutino con noticias, correos, eventos y pendientes.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() error {
	return RootCmd.Execute()
}
