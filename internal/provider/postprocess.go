package provider

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// controlTokens are chat-template markers that occasionally leak into
// model output. They carry no content and are stripped unconditionally.
var controlTokens = []string{
	"<|im_start|>", "<|im_end|>",
	"<|begin_of_text|>", "<|end_of_text|>", "<|eot_id|>",
	"<|endoftext|>",
	"<s>", "</s>",
	"[INST]", "[/INST]",
}

var thinkRe = regexp.MustCompile(`(?s)<think>(.*?)</think>`)

// CleanResponse strips control tokens and pulls any reasoning-tag segment
// out of the raw text, returning the visible response and the thinking
// separately.
func CleanResponse(raw string) (response, thinking string) {
	for _, tok := range controlTokens {
		raw = strings.ReplaceAll(raw, tok, "")
	}

	matches := thinkRe.FindAllStringSubmatch(raw, -1)
	if len(matches) > 0 {
		var parts []string
		for _, m := range matches {
			if t := strings.TrimSpace(m[1]); t != "" {
				parts = append(parts, t)
			}
		}
		thinking = strings.Join(parts, "\n")
		raw = thinkRe.ReplaceAllString(raw, "")
	}

	return strings.TrimSpace(raw), thinking
}

var fencedJSONRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// ExtractJSON pulls a JSON object out of free-form model text. Strategy:
// the whole text if it already is a JSON object, else the first fenced
// code block holding one, else the widest {...} span.
func ExtractJSON(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "{") && json.Valid([]byte(trimmed)) {
		return trimmed, nil
	}

	if m := fencedJSONRe.FindStringSubmatch(text); m != nil {
		candidate := strings.TrimSpace(m[1])
		if json.Valid([]byte(candidate)) {
			return candidate, nil
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		candidate := text[start : end+1]
		if json.Valid([]byte(candidate)) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("no JSON object found in response")
}

// structuredViaPrompt is the fallback strategy for back-ends without
// native schema support: serialize the schema into the prompt, then
// extract the JSON object from whatever came back.
func structuredViaPrompt(generate func(string) (string, error), prompt string, schema *Schema) (string, error) {
	raw, err := generate(prompt + schema.PromptInstruction())
	if err != nil {
		return "", err
	}
	obj, err := ExtractJSON(raw)
	if err != nil {
		return "", &ResponseError{Excerpt: Excerpt(raw), Err: err}
	}
	return obj, nil
}
