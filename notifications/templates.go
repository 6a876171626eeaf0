package notifications

import "strings"

// Template identifiers used by the core operations.
const (
	TemplateCheckInWelcome    = "checkin_welcome"
	TemplateCheckOutFarewell  = "checkout_farewell"
	TemplateOrderConfirmation = "order_confirmation"
)

var templates = map[string]string{
	TemplateCheckInWelcome: "Welcome {{guest_name}}! You are checked in to room {{room_number}} " +
		"until {{check_out_date}}. Reply to this message for anything you need.",
	TemplateCheckOutFarewell: "Thank you for staying with us, {{guest_name}}. " +
		"You have {{pending_orders}} unsettled order(s) totalling {{pending_total}}.",
	TemplateOrderConfirmation: "Order {{order_number}} received for room {{room_number}}. " +
		"Total: {{total_amount}}. We'll let you know when it's on its way.",
}

// RenderTemplate substitutes {{var}} placeholders. Unknown template names
// render to the raw variables so a bad identifier still produces a trace
// in the delivery log instead of an empty message.
func RenderTemplate(name string, vars map[string]string) string {
	tpl, ok := templates[name]
	if !ok {
		parts := make([]string, 0, len(vars))
		for k, v := range vars {
			parts = append(parts, k+"="+v)
		}
		return name + " " + strings.Join(parts, " ")
	}
	out := tpl
	for k, v := range vars {
		out = strings.ReplaceAll(out, "{{"+k+"}}", v)
	}
	return out
}
