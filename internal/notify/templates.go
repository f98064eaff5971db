package notify

import (
	"fmt"
	"strings"

	"github.com/spec-kit/support-bot/internal/domain"
)

// Chat-facing message templates. Markdown renders on every supported
// platform; the console sender prints it verbatim.

// ConfirmationReply acknowledges a freshly created workflow ticket.
func ConfirmationReply(req domain.WorkflowRequest, t *domain.Ticket) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ **%s Initiated**\n\n", req.Kind().Profile().Title)
	for _, line := range req.DescriptionLines() {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "\n🎫 **Ticket:** %s\n🔗 %s\n\n", t.Key, t.URL)
	b.WriteString("The request is pending approval. You will be notified here once it is reviewed.")
	return b.String()
}

// ApprovalMessage announces an approved ticket and what was done about it.
func ApprovalMessage(key, email, url, result string) string {
	var b strings.Builder
	b.WriteString("✅ **Request Approved**\n\n")
	fmt.Fprintf(&b, "🎫 **Ticket:** %s\n", key)
	if email != "" {
		fmt.Fprintf(&b, "📧 **Customer:** %s\n", email)
	}
	if result != "" {
		fmt.Fprintf(&b, "\n%s\n", result)
	}
	fmt.Fprintf(&b, "\n🔗 %s", url)
	return b.String()
}

// RejectionMessage announces a rejected ticket with the reviewer's reason.
func RejectionMessage(key, email, reason, url string) string {
	var b strings.Builder
	b.WriteString("❌ **Request Rejected**\n\n")
	fmt.Fprintf(&b, "🎫 **Ticket:** %s\n", key)
	if email != "" {
		fmt.Fprintf(&b, "📧 **Customer:** %s\n", email)
	}
	if reason == "" {
		reason = "No reason was provided."
	}
	fmt.Fprintf(&b, "📝 **Reason:** %s\n", reason)
	fmt.Fprintf(&b, "\n🔗 %s", url)
	return b.String()
}

// StatusChangeMessage reports any other tracker transition.
func StatusChangeMessage(key, from, to string) string {
	if from == "" {
		from = "Unknown"
	}
	return fmt.Sprintf("ℹ️ **Ticket Update**\n\n🎫 **Ticket:** %s\n**Status:** %s → %s", key, from, to)
}

// UnrecognizedReply lists what the bot can do when an utterance matches no
// workflow.
func UnrecognizedReply() string {
	return strings.Join([]string{
		"I didn't catch a request I can help with. I can:",
		"• approve a customer signup",
		"• extend a trial, e.g. \"extend trial for tj@example.com to 20th June 2025\"",
		"• enable beta features, e.g. \"enable beta features Copilot, MAP for tj@example.com\"",
		"• upgrade a subscription, e.g. \"upgrade tj@example.com from trial to standard\"",
	}, "\n")
}

// ValidationReply surfaces a rejected request without opening a ticket.
func ValidationReply(problem string) string {
	return "⚠️ " + problem
}

// UpstreamApology is sent when the tracker call fails after validation passed.
func UpstreamApology() string {
	return "😞 Something went wrong while filing your request with the support team. Nothing was created; please try again in a moment."
}
