package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fvaldes/matutino/pkg/domain/task"
	"github.com/fvaldes/matutino/pkg/formatter"
)

var (
	addNotes    string
	addPriority string
	addDue      string
	addTime     string
)

var addCmd = &cobra.Command{
	Use:   "add <título>",
	Short: "Crear una tarea simple",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := buildServices()
		if err != nil {
			return err
		}

		title := joinArgs(args)
		due, err := parseDueFlags(addDue, addTime)
		if err != nil {
			return err
		}

		id, err := svc.tasks.Add(title, addNotes, task.ParsePriority(addPriority), due)
		if err != nil {
			return fmt.Errorf("failed to add task: %w", err)
		}

		fmt.Printf("✅ Tarea creada: %s (ID: %s)\n", title, id)
		return nil
	},
}

var (
	recurNotes    string
	recurPriority string
	recurRule     string
	recurDue      string
	recurTime     string
)

var recurCmd = &cobra.Command{
	Use:   "recur <título>",
	Short: "Crear una tarea recurrente (regla RRULE)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := buildServices()
		if err != nil {
			return err
		}

		title := joinArgs(args)
		start, err := parseDueFlags(recurDue, recurTime)
		if err != nil {
			return err
		}

		id, err := svc.tasks.AddRecurrent(title, recurRule, recurNotes, task.ParsePriority(recurPriority), start)
		if err != nil {
			return fmt.Errorf("failed to add recurring task: %w", err)
		}

		fmt.Printf("🔁 Tarea recurrente creada: %s (ID: %s, regla: %s)\n", title, id, recurRule)
		return nil
	},
}

var tareasTZ string

var tareasCmd = &cobra.Command{
	Use:   "tareas",
	Short: "Mostrar las tareas de hoy",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := buildServices()
		if err != nil {
			return err
		}

		agenda, err := svc.tasks.ListToday(timezone(tareasTZ))
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		fmt.Println(formatter.FormatTasks(agenda))
		return nil
	},
}

var doneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Marcar una tarea como completada",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := buildServices()
		if err != nil {
			return err
		}

		found, err := svc.tasks.Complete(args[0])
		if err != nil {
			return fmt.Errorf("failed to complete task: %w", err)
		}
		if !found {
			fmt.Println(errStyle.Render(fmt.Sprintf("❌ No encontré la tarea %s", args[0])))
			return nil
		}

		fmt.Printf("✅ Tarea %s completada\n", args[0])
		return nil
	},
}

func joinArgs(args []string) string {
	title := args[0]
	for _, a := range args[1:] {
		title += " " + a
	}
	return title
}

func parseDueFlags(date, clock string) (*time.Time, error) {
	if date == "" {
		return nil, nil
	}
	loc, err := time.LoadLocation(timezone(""))
	if err != nil {
		loc = time.Local
	}
	due, err := task.ParseDue(date, clock, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid due date: %w", err)
	}
	return due, nil
}

func init() {
	addCmd.Flags().StringVar(&addNotes, "notes", "", "notas de la tarea")
	addCmd.Flags().StringVar(&addPriority, "priority", "medium", "prioridad (high, medium, low)")
	addCmd.Flags().StringVar(&addDue, "due", "", "fecha límite YYYY-MM-DD")
	addCmd.Flags().StringVar(&addTime, "time", "", "hora límite HH:MM")

	recurCmd.Flags().StringVar(&recurRule, "rrule", "FREQ=DAILY", "regla de recurrencia iCal")
	recurCmd.Flags().StringVar(&recurNotes, "notes", "", "notas de la tarea")
	recurCmd.Flags().StringVar(&recurPriority, "priority", "medium", "prioridad (high, medium, low)")
	recurCmd.Flags().StringVar(&recurDue, "due", "", "fecha de inicio YYYY-MM-DD")
	recurCmd.Flags().StringVar(&recurTime, "time", "", "hora HH:MM")

	tareasCmd.Flags().StringVar(&tareasTZ, "tz", "", "zona horaria IANA (default America/Mexico_City)")

	RootCmd.AddCommand(addCmd)
	RootCmd.AddCommand(recurCmd)
	RootCmd.AddCommand(tareasCmd)
	RootCmd.AddCommand(doneCmd)
}
