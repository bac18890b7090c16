package rewrite

import "fmt"

// ReplyPrimer is the forced leading token. The request primes the provider's
// reply with it to suppress preamble chatter, and it must be re-attached to
// the returned text for the output to read correctly.
const ReplyPrimer = "Honestly,"

// promptTemplate is the fixed instructional template. Placeholders: humanity
// score, then the input text.
const promptTemplate = `You are rewriting text so it sounds like a real person talking, not a press release. The text below currently reads %d%% corporate.

Rules:
- Cut the jargon and buzzwords. Say what things actually mean.
- Use a conversational tone. Contractions are fine.
- Keep every factual claim, number and name intact.
- Stay roughly within the original length.
- Reply with the rewritten text only. No preamble, no commentary, no quotes around it.

Text to rewrite:
%s`

// BuildPrompt renders the prompt for the given text and humanity score.
// The score is client-computed and used only as context, never validated.
func BuildPrompt(text string, score int) string {
	return fmt.Sprintf(promptTemplate, score, text)
}
