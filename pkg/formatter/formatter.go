// Package formatter renders briefs, agendas and preferences as the Spanish
// markdown messages shown to the user.
package formatter

import (
	"fmt"
	"strings"

	"github.com/fvaldes/matutino/pkg/application"
	"github.com/fvaldes/matutino/pkg/domain/prefs"
	"github.com/fvaldes/matutino/pkg/domain/task"
)

func priorityEmoji(p task.Priority) string {
	switch p {
	case task.PriorityHigh:
		return "🔴"
	case task.PriorityLow:
		return "🟢"
	default:
		return "🟡"
	}
}

// FormatTasks renders today's agenda, one numbered line per task with its
// priority marker, due time and id.
func FormatTasks(tasks []task.Task) string {
	if len(tasks) == 0 {
		return "📋 *Tareas de hoy*\n\nNo tienes tareas pendientes para hoy. ¡Buen trabajo! ✅"
	}

	var sb strings.Builder
	sb.WriteString("📋 *Tareas de hoy*\n\n")
	for i, t := range tasks {
		due := ""
		if t.Due != nil {
			due = " - " + t.Due.Format("15:04")
		}
		fmt.Fprintf(&sb, "%d. %s %s%s\n", i+1, priorityEmoji(t.Priority), t.Title, due)
		if t.Notes != "" {
			fmt.Fprintf(&sb, "   📝 %s\n", t.Notes)
		}
		fmt.Fprintf(&sb, "   ID: `%s`\n\n", t.ID)
	}
	return sb.String()
}

// FormatPreferences renders the preference document, omitting empty lists.
func FormatPreferences(p *prefs.Preferences) string {
	var sb strings.Builder
	sb.WriteString("⚙️ *Preferencias Actuales*\n\n")

	fmt.Fprintf(&sb, "📊 Top K correos: %d\n", p.TopK)
	onlyUnread := "No"
	if p.OnlyUnread {
		onlyUnread = "Sí"
	}
	fmt.Fprintf(&sb, "📬 Solo no leídos: %s\n", onlyUnread)
	fmt.Fprintf(&sb, "⚡ Importancia mínima: %s\n\n", p.MinImportance)

	writeList(&sb, "🎯 *Dominios Prioritarios:*", p.PriorityDomains)
	writeList(&sb, "👤 *Remitentes Prioritarios:*", p.PrioritySenders)
	writeList(&sb, "🚫 *Dominios Bloqueados:*", p.BlockedDomains)
	writeList(&sb, "🚫 *Remitentes Bloqueados:*", p.BlockedSenders)
	writeList(&sb, "🚫 *Palabras Clave Bloqueadas:*", p.BlockedKeywords)

	return strings.TrimRight(sb.String(), "\n")
}

func writeList(sb *strings.Builder, header string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(header + "\n")
	for _, item := range items {
		fmt.Fprintf(sb, "• %s\n", item)
	}
	sb.WriteString("\n")
}

// FormatBrief renders the assembled brief: news digest, ranked mail with
// counters, today's events and the pending agenda, plus the timing footer.
func FormatBrief(b application.Brief) string {
	var sb strings.Builder
	sb.WriteString("📰 *Brief Matutino*\n\n")

	sb.WriteString("🗞 *Noticias*\n")
	if b.News.Summary != "" {
		sb.WriteString(b.News.Summary)
	} else {
		sb.WriteString("No hay noticias disponibles")
	}
	sb.WriteString("\n\n")

	sb.WriteString("📧 *Correos Importantes*\n")
	fmt.Fprintf(&sb, "Encontrados: %d | Considerados: %d | Seleccionados: %d\n\n",
		b.Mail.Found, b.Mail.Considered, b.Mail.Selected)
	for i, m := range b.Mail.Emails {
		if i >= 5 {
			break
		}
		subject := m.Subject
		if subject == "" {
			subject = "Sin asunto"
		}
		fmt.Fprintf(&sb, "**%d. %s**\n", i+1, subject)
		fmt.Fprintf(&sb, "👤 **De:** %s", senderName(m.Sender))
		if m.Account != "" && m.Account != "me" {
			fmt.Fprintf(&sb, " (%s)", accountShort(m.Account))
		}
		sb.WriteString("\n")
		if m.Body != "" {
			preview := strings.TrimSpace(strings.ReplaceAll(m.Body, "\n", " "))
			if len(preview) > 100 {
				preview = preview[:100] + "..."
			}
			fmt.Fprintf(&sb, "📄 **Resumen:** %s\n", preview)
		}
		sb.WriteString("\n")
	}
	if b.Mail.Rationale != "" {
		fmt.Fprintf(&sb, "%s\n\n", b.Mail.Rationale)
	}

	sb.WriteString("📅 *Eventos de Hoy*\n")
	if len(b.Events) == 0 {
		sb.WriteString("No hay eventos programados\n\n")
	} else {
		for i, e := range b.Events {
			if i >= 5 {
				break
			}
			title := e.Title
			if title == "" {
				title = "Sin título"
			}
			fmt.Fprintf(&sb, "• %s\n", title)
			if e.Start != "" {
				fmt.Fprintf(&sb, "  %s\n", e.Start)
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString("✅ *Tareas Pendientes*\n")
	if len(b.Tasks) == 0 {
		sb.WriteString("No hay tareas pendientes\n")
	} else {
		for i, t := range b.Tasks {
			if i >= 5 {
				break
			}
			fmt.Fprintf(&sb, "• %s %s\n", priorityEmoji(t.Priority), t.Title)
		}
	}

	fmt.Fprintf(&sb, "\n⏱ Generado en %.1fs\n", b.Elapsed.Seconds())
	return sb.String()
}

// senderName drops the address part of a "Name <addr>" sender.
func senderName(sender string) string {
	if sender == "" {
		return "Desconocido"
	}
	if i := strings.Index(sender, "<"); i > 0 {
		if name := strings.TrimSpace(sender[:i]); name != "" {
			return name
		}
	}
	return sender
}

func accountShort(account string) string {
	if i := strings.Index(account, "@"); i > 0 {
		return account[:i]
	}
	return account
}
