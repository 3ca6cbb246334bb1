package routine

import (
	"fmt"
	"strings"

	"github.com/myrjola/liftplan/internal/ptr"
)

// Markdown renders the routine as a printable document with one table per day.
func (r Routine) Markdown() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n%s\n\n", r.Title, r.Description)
	fmt.Fprintf(&sb, "Generada el %s.\n", r.GeneratedAt.Format("2006-01-02"))

	for _, d := range r.Days {
		fmt.Fprintf(&sb, "\n## Día %d · %s\n\n", d.Day, d.Label)
		fmt.Fprintf(&sb, "*%s*\n\n", d.Focus)
		fmt.Fprintf(&sb, "**Calentamiento:** %s\n\n", d.Warmup)

		if len(d.Exercises) > 0 {
			sb.WriteString("| Ejercicio | Series | Repeticiones | Descanso | Carga sugerida | Equipo |\n")
			sb.WriteString("|---|---|---|---|---|---|\n")
			for _, ex := range d.Exercises {
				fmt.Fprintf(&sb, "| %s | %d | %s | %s | %s | %s |\n",
					cell(ex.Name), ex.Sets, cell(ex.RepsScheme), cell(ex.RestDuration),
					cell(ptr.ValueOr(ex.SuggestedWeight, "-")), cell(ex.EquipmentLabel))
			}
			sb.WriteString("\n")
			for _, ex := range d.Exercises {
				if ex.Notes == "" {
					continue
				}
				fmt.Fprintf(&sb, "- **%s:** %s\n", ex.Name, ex.Notes)
			}
		}

		if len(d.CoreCircuit) > 0 {
			sb.WriteString("\n### Circuito de core\n\n")
			for _, ex := range d.CoreCircuit {
				fmt.Fprintf(&sb, "- %s: %d × %s\n", ex.Name, ex.Sets, ex.RepsScheme)
			}
		}

		fmt.Fprintf(&sb, "\n**Estiramientos:** %s\n", d.Stretching)
	}
	return sb.String()
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
