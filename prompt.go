package davinci

import "fmt"

// BuildPrompt formats a context and a question into the two-party dialogue
// template the completion model continues as the assistant turn:
//
//	<context>.
//	H: <question>.
//	IA:
//
// No other transformation is applied to either input.
func BuildPrompt(context, question string) string {
	return fmt.Sprintf("%s.\nH: %s.\nIA:", context, question)
}
