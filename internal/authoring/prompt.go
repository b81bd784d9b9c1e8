package authoring

import (
	"fmt"
	"strings"
)

const distractorSystemPrompt = `You are a lexicographer writing answer options for a multiple-choice vocabulary test. Learners see a word and pick its definition from several options. Your job is to write the wrong options.`

func buildDistractorUserMessage(word, definition string, n int) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Word: %s\n", word))
	b.WriteString(fmt.Sprintf("Correct definition: %s\n", definition))
	b.WriteString(fmt.Sprintf("Distractors needed: %d\n", n))

	b.WriteString(`
Instructions:
Write wrong definitions that:
1. Match the register and length of the correct definition. A distractor that is noticeably longer, shorter, or more formal than the correct option gives itself away.
2. Describe something the word does NOT mean. Never paraphrase the correct definition.
3. Mix kinds: a near-miss is plausible for a related word, an unrelated distractor defines something from a different domain, a false-friend plays on the word's surface form.
4. Stand alone as dictionary-style entries. No "this word means", no references to the tested word itself.`)

	return b.String()
}
