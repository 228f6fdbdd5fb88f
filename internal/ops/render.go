package ops

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"mcptool/internal/output"
)

// ShowInit renders the handshake result captured at connect time.
func ShowInit(out *output.Output, init *mcp.InitializeResult) {
	if out.JSONMode() {
		out.JSON(init)
		return
	}

	out.H1("Server: %s v%s", init.ServerInfo.Name, init.ServerInfo.Version)
	out.Text("Protocol version: %s", init.ProtocolVersion)

	caps := init.Capabilities
	out.Text("Capabilities:")
	if caps.Tools != nil {
		out.Text("  tools (listChanged: %v)", caps.Tools.ListChanged)
	}
	if caps.Resources != nil {
		out.Text("  resources (subscribe: %v, listChanged: %v)", caps.Resources.Subscribe, caps.Resources.ListChanged)
	}
	if caps.Prompts != nil {
		out.Text("  prompts (listChanged: %v)", caps.Prompts.ListChanged)
	}
	if caps.Logging != nil {
		out.Text("  logging")
	}

	if init.Instructions != "" {
		out.Text("Instructions:")
		out.Text("%s", init.Instructions)
	}
}

func renderTools(out *output.Output, result *mcp.ListToolsResult) {
	if out.JSONMode() {
		out.JSON(result)
		return
	}
	if len(result.Tools) == 0 {
		out.Text("No tools available.")
		return
	}
	out.Text("Available tools (%d):", len(result.Tools))
	for i, tool := range result.Tools {
		out.Text("  %d. %-30s - %s", i+1, tool.Name, tool.Description)
	}
}

func renderResources(out *output.Output, result *mcp.ListResourcesResult) {
	if out.JSONMode() {
		out.JSON(result)
		return
	}
	if len(result.Resources) == 0 {
		out.Text("No resources available.")
		return
	}
	out.Text("Available resources (%d):", len(result.Resources))
	for i, resource := range result.Resources {
		desc := resource.Description
		if desc == "" {
			desc = resource.Name
		}
		out.Text("  %d. %-40s - %s", i+1, resource.URI, desc)
	}
}

func renderResourceTemplates(out *output.Output, result *mcp.ListResourceTemplatesResult) {
	if out.JSONMode() {
		out.JSON(result)
		return
	}
	if len(result.ResourceTemplates) == 0 {
		out.Text("No resource templates available.")
		return
	}
	out.Text("Available resource templates (%d):", len(result.ResourceTemplates))
	for i, template := range result.ResourceTemplates {
		uri := ""
		if template.URITemplate != nil {
			uri = template.URITemplate.Raw()
		}
		out.Text("  %d. %-40s - %s", i+1, uri, template.Name)
	}
}

func renderPrompts(out *output.Output, result *mcp.ListPromptsResult) {
	if out.JSONMode() {
		out.JSON(result)
		return
	}
	if len(result.Prompts) == 0 {
		out.Text("No prompts available.")
		return
	}
	out.Text("Available prompts (%d):", len(result.Prompts))
	for i, prompt := range result.Prompts {
		out.Text("  %d. %-30s - %s", i+1, prompt.Name, prompt.Description)
	}
}

func renderToolResult(out *output.Output, result *mcp.CallToolResult) {
	if out.JSONMode() {
		out.JSON(result)
		return
	}
	if result.IsError {
		out.TraceError("Tool returned an error:")
		for _, content := range result.Content {
			if text, ok := mcp.AsTextContent(content); ok {
				out.Text("  %s", text.Text)
			}
		}
		return
	}

	out.Text("Result:")
	for _, content := range result.Content {
		renderContent(out, content)
	}
}

func renderContent(out *output.Output, content mcp.Content) {
	if text, ok := mcp.AsTextContent(content); ok {
		renderText(out, text.Text)
		return
	}
	if image, ok := mcp.AsImageContent(content); ok {
		out.Text("[Image: MIME type %s, %d bytes]", image.MIMEType, len(image.Data))
		return
	}
	if audio, ok := mcp.AsAudioContent(content); ok {
		out.Text("[Audio: MIME type %s, %d bytes]", audio.MIMEType, len(audio.Data))
		return
	}
	if resource, ok := mcp.AsEmbeddedResource(content); ok {
		out.Text("[Embedded resource: %v]", resource.Resource)
		return
	}
	out.Text("%+v", content)
}

// renderText prints text, pretty-printing it when it happens to be JSON.
func renderText(out *output.Output, text string) {
	var v interface{}
	if err := json.Unmarshal([]byte(text), &v); err == nil {
		out.Text("%s", output.PrettyJSON(v))
		return
	}
	out.Text("%s", text)
}

func renderResourceContents(out *output.Output, result *mcp.ReadResourceResult) {
	if out.JSONMode() {
		out.JSON(result)
		return
	}
	out.Text("Contents:")
	for _, content := range result.Contents {
		if text, ok := mcp.AsTextResourceContents(content); ok {
			renderText(out, text.Text)
			continue
		}
		if blob, ok := mcp.AsBlobResourceContents(content); ok {
			out.Text("[Binary data: %d bytes]", len(blob.Blob))
			continue
		}
		out.Text("%+v", content)
	}
}

func renderPromptResult(out *output.Output, result *mcp.GetPromptResult) {
	if out.JSONMode() {
		out.JSON(result)
		return
	}
	if result.Description != "" {
		out.Text("Description: %s", result.Description)
	}
	out.Text("Messages:")
	for i, msg := range result.Messages {
		out.Text("[%d] Role: %s", i+1, msg.Role)
		renderContent(out, msg.Content)
	}
}

func renderCompletions(out *output.Output, result *mcp.CompleteResult) {
	if out.JSONMode() {
		out.JSON(result)
		return
	}
	if len(result.Completion.Values) == 0 {
		out.Text("No completions.")
		return
	}
	out.Text("Completions (%d):", len(result.Completion.Values))
	for _, value := range result.Completion.Values {
		out.Text("  %s", value)
	}
	if result.Completion.HasMore {
		out.Text("  ...more available")
	}
}
