package llm

// systemPrompt is the fixed instruction sent with every completion.
// The assistant leans on prior turns so the conversation stays
// consistent across a session.
const systemPrompt = `You are a friendly and helpful AI assistant.
Use the previous turns of the conversation to keep your answers natural and consistent.
Always answer politely and kindly, and reply in the same language the user writes in.`

// SystemPrompt returns the fixed system prompt shared by all
// providers.
func SystemPrompt() string {
	return systemPrompt
}
