package repl

import (
	"github.com/mark3labs/mcp-go/mcp"

	"mcptool/internal/output"
)

// RenderNotification prints one server-pushed notification. Unknown methods
// fall back to a generic method + params dump.
func RenderNotification(out *output.Output, n mcp.JSONRPCNotification) {
	if out.JSONMode() {
		out.JSON(n)
		return
	}

	fields := n.Params.AdditionalFields
	switch n.Method {
	case "notifications/message":
		out.Note("[NOTIFICATION] Log (%v): %v", fields["level"], fields["data"])
	case "notifications/resources/updated":
		out.Note("[NOTIFICATION] Resource updated: %v", fields["uri"])
	case "notifications/resources/list_changed":
		out.Note("[NOTIFICATION] Resource list changed")
	case "notifications/tools/list_changed":
		out.Note("[NOTIFICATION] Tool list changed")
	case "notifications/prompts/list_changed":
		out.Note("[NOTIFICATION] Prompt list changed")
	case "notifications/cancelled":
		out.Note("[NOTIFICATION] Request cancelled: %v (reason: %v)", fields["requestId"], fields["reason"])
	case "notifications/progress":
		if total, ok := fields["total"]; ok {
			out.Note("[NOTIFICATION] Progress %v: %v/%v", fields["progressToken"], fields["progress"], total)
		} else {
			out.Note("[NOTIFICATION] Progress %v: %v", fields["progressToken"], fields["progress"])
		}
	default:
		out.Note("[NOTIFICATION] %s: %s", n.Method, output.PrettyJSON(n.Params))
	}
}
