package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fvaldes/matutino/pkg/application"
	"github.com/fvaldes/matutino/pkg/domain/task"
	"github.com/fvaldes/matutino/pkg/formatter"
)

var iaCmd = &cobra.Command{
	Use:   "ia <instrucción>",
	Short: "Interpretar una instrucción en lenguaje natural",
	Long: `Clasifica la instrucción y ejecuta la operación correspondiente.
Ejemplos:
  matutino ia "añadir comprar leche mañana 10am"
  matutino ia "qué tareas tengo hoy"
  matutino ia "ya hice la T001"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := buildServices()
		if err != nil {
			return err
		}

		instruction := strings.Join(args, " ")
		result := svc.router.Route(cmd.Context(), instruction)
		return dispatch(cmd, svc, result)
	},
}

// dispatch executes the routed intent. Routing itself never errors; only
// the executed operation can.
func dispatch(cmd *cobra.Command, svc *services, result application.RoutingResult) error {
	switch result.Intent {
	case application.IntentAdd:
		title := result.Arg("title")
		if title == "" {
			fmt.Println("❓ Necesito el título de la tarea")
			return nil
		}
		due, err := parseDueFlags(result.Arg("due"), result.Arg("time"))
		if err != nil {
			fmt.Println(errStyle.Render(fmt.Sprintf("❌ Fecha inválida: %v", err)))
			return nil
		}
		id, err := svc.tasks.Add(title, "", task.ParsePriority(result.Arg("priority")), due)
		if err != nil {
			return err
		}
		fmt.Printf("✅ Tarea creada: %s (ID: %s)\n", title, id)

	case application.IntentRecur:
		title := result.Arg("title")
		rule := result.Arg("rrule")
		if title == "" || rule == "" {
			fmt.Println("❓ Necesito el título y la regla de recurrencia")
			return nil
		}
		var start *time.Time
		if d := result.Arg("due"); d != "" {
			var err error
			start, err = parseDueFlags(d, result.Arg("time"))
			if err != nil {
				fmt.Println(errStyle.Render(fmt.Sprintf("❌ Fecha inválida: %v", err)))
				return nil
			}
		}
		id, err := svc.tasks.AddRecurrent(title, rule, "", task.ParsePriority(result.Arg("priority")), start)
		if err != nil {
			fmt.Println(errStyle.Render(fmt.Sprintf("❌ No pude crear la tarea recurrente: %v", err)))
			return nil
		}
		fmt.Printf("🔁 Tarea recurrente creada: %s (ID: %s)\n", title, id)

	case application.IntentList:
		agenda, err := svc.tasks.ListToday(timezone(""))
		if err != nil {
			return err
		}
		fmt.Println(formatter.FormatTasks(agenda))

	case application.IntentComplete:
		id := result.Arg("id")
		if id == "" {
			fmt.Println("❓ Necesito el ID de la tarea")
			return nil
		}
		found, err := svc.tasks.Complete(id)
		if err != nil {
			return err
		}
		if found {
			fmt.Printf("✅ Tarea %s completada\n", id)
		} else {
			fmt.Println(errStyle.Render(fmt.Sprintf("❌ No encontré la tarea %s", id)))
		}

	case application.IntentAdjustPrefs:
		instruction := result.Arg("preference_instruction")
		if instruction == "" {
			fmt.Println("❓ Necesito la instrucción de preferencias")
			return nil
		}
		updated := svc.prefs.UpdateFromInstruction(cmd.Context(), instruction)
		fmt.Printf("⚙️ %s\n", updated.Explanation)

	case application.IntentBrief:
		brief := svc.brief(timezone("")).Generate(cmd.Context())
		fmt.Println(formatter.FormatBrief(brief))

	case application.IntentClarify:
		fmt.Printf("❓ %s\n", result.Message)

	default:
		fmt.Printf("❓ No sé ejecutar el intent %q\n", result.Intent)
	}
	return nil
}

func init() {
	RootCmd.AddCommand(iaCmd)
}
