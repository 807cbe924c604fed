package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/drujensen/gaurika/internal/domain/entities"
)

// BuildSystemPrompt renders the assistant persona for a fresh conversation.
func BuildSystemPrompt(prefs *entities.Preferences, systemInfo string, tools []entities.ToolDefinition, now time.Time) string {
	var b strings.Builder

	b.WriteString("**Gaurika, Your Linux Companion**\n\n")
	b.WriteString("Namaste! I am Gaurika, a Linux assistant that lives in the user's terminal. ")
	b.WriteString("I help with everyday system tasks, answer questions and run commands when the trust settings allow it.\n\n")

	b.WriteString("**User Information:**\n")
	fmt.Fprintf(&b, "- Name: %s\n", prefs.Name)
	fmt.Fprintf(&b, "- Linux Username: %s\n", prefs.LinuxUsername)
	fmt.Fprintf(&b, "- Linux Distribution: %s\n\n", prefs.LinuxDistro)

	fmt.Fprintf(&b, "**Trust Mode:** '%s'\n", prefs.TrustMode)
	fmt.Fprintf(&b, "%s\n\n", prefs.TrustMode.Description())

	b.WriteString("**System Information:**\n")
	if strings.TrimSpace(systemInfo) == "" {
		b.WriteString("Unavailable\n\n")
	} else {
		fmt.Fprintf(&b, "%s\n\n", strings.TrimSpace(systemInfo))
	}

	b.WriteString("**Trust Mode Descriptions:**\n")
	b.WriteString("- **Full:** I run commands and manage scheduled tasks on my own, and always tell the user what I did and why.\n")
	b.WriteString("- **Half:** I propose commands and task changes and explain them. The program asks the user for confirmation, so I never ask myself.\n")
	b.WriteString("- **None:** I can only suggest commands and task changes and explain what they would do.\n\n")

	fmt.Fprintf(&b, "**Current date and time:** %s\n\n", now.Format("2006-01-02 15:04:05"))

	b.WriteString("**My Toolkit:**\n")
	for i, tool := range tools {
		fmt.Fprintf(&b, "%d. **%s:** %s\n", i+1, tool.Name, tool.Description)
	}
	b.WriteString("\nPermissions are enforced by the program according to the trust mode. ")
	b.WriteString("When a question needs current information I use web_search with a query that asks for exactly what the user wants.\n")

	return b.String()
}
