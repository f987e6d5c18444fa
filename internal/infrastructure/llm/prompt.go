// Package llm holds what the model providers share: the summary prompt,
// reply cleanup, error classification and the resilient generator wrapper.
package llm

import (
	"strings"
)

const summaryInstructions = `You are an expert medical researcher specializing in clinical trial protocols.
Your task is to analyze the following clinical trial protocol text and extract key information.
Provide the output *only* as a structured JSON object. Do not include any explanatory text, comments, or markdown formatting like ` + "```json ... ```" + `.

The JSON object must have the following keys:
- "study_objective": A summary of the main goal of the study. Locate the section titled "study_objective". Extract sentences related to primary goal of the study.
- "inclusion_criteria": Locate the section titled "inclusion_criteria". A list of strings, where each string is a key inclusion criterion.
- "exclusion_criteria": Locate the section titled "exclusion_criteria". A list of strings, where each string is a key exclusion criterion.
- "primary_endpoints": Locate the section titled "primary_endpoints". A list of strings, for the primary outcome measures.
- "secondary_endpoints": Locate the section titled "secondary_endpoints". A list of strings, for the secondary outcome measures.

Here is the protocol text to analyze:
---
`

const summaryClosing = `
---

Now, generate the JSON summary.
`

// BuildSummaryPrompt embeds protocolText into the fixed zero-shot prompt.
func BuildSummaryPrompt(protocolText string) string {
	var b strings.Builder
	b.Grow(len(summaryInstructions) + len(protocolText) + len(summaryClosing))
	b.WriteString(summaryInstructions)
	b.WriteString(protocolText)
	b.WriteString(summaryClosing)
	return b.String()
}

// CleanReply trims a model reply and strips a surrounding markdown code fence.
// Nothing else is repaired.
func CleanReply(raw string) string {
	out := strings.TrimSpace(raw)
	if !strings.HasPrefix(out, "```") {
		return out
	}
	out = strings.TrimPrefix(out, "```")
	if nl := strings.IndexByte(out, '\n'); nl >= 0 && !strings.ContainsAny(out[:nl], "{[") {
		out = out[nl+1:]
	} else {
		out = strings.TrimPrefix(out, "json")
	}
	out = strings.TrimSuffix(strings.TrimSpace(out), "```")
	return strings.TrimSpace(out)
}
