package llm

import (
	"fmt"
	"strings"

	"github.com/PabloGalante/mindecho/internal/domain"
)

const analysisIntro = `Analyze the following journal reflection from a cognitive-behavioral perspective.`

const optedOutContext = `This is a general reflection (user has opted out of cycle tracking).`

const analysisTasks = `Tasks:
1. Identify the primary 'pattern' (e.g., Rumination, Catastrophizing, Black-and-White Thinking, Positive Reframing).
2. Provide a 'reflectionInsight' which is a short reflective explanation of why this pattern was detected.
3. Provide a gentle wellness 'suggestion'.
4. Determine a 'moodIndicator' (one word).
5. Calculate an 'echoScore' (0-100) representing emotional flexibility and balance.
6. Generate a 'activitySuggestion' based specifically on the user's provided interests as a secondary support layer.`

// BuildPrompt builds the instruction sent to the model for one reflection.
// The text is interpolated verbatim; the model treats the whole string as
// an opaque instruction.
func BuildPrompt(in domain.ReflectionInput) string {
	var b strings.Builder

	b.WriteString(analysisIntro)
	b.WriteString("\n")
	b.WriteString(cycleContext(in.CyclePhase))
	b.WriteString("\n")
	b.WriteString(interestContext(in.Interests))
	b.WriteString("\n\n")
	b.WriteString(`Journal Entry: "` + in.Text + `"`)
	b.WriteString("\n\n")
	b.WriteString(analysisTasks)

	return b.String()
}

func cycleContext(phase domain.CyclePhase) string {
	if phase == domain.CyclePhaseNone {
		return optedOutContext
	}
	return fmt.Sprintf("The user is currently in the '%s' phase of their menstrual cycle.", phase)
}

func interestContext(interests []domain.Interest) string {
	names := make([]string, 0, len(interests))
	for _, i := range interests {
		names = append(names, string(i))
	}
	return fmt.Sprintf("The user's personal interest areas are: %s.", strings.Join(names, ", "))
}
