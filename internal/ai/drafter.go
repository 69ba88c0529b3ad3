package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/compliee/compliee/internal/apperr"
	"github.com/compliee/compliee/internal/parser"
)

// contextTailChars caps how much trailing document text travels with a
// drafting request.
const contextTailChars = 3000

const draftSystemPrompt = `You are a compliance documentation assistant. You write formal, audit-ready prose for corporate policy documents.
Respond with an HTML fragment only (paragraphs, headings, lists). Do not include <html>, <head>, or <body> tags.
Where a printed page should end, emit the token ` + PageBreakToken + ` on its own line.`

const refineSystemPrompt = `You are a compliance documentation editor. Rewrite the passage you are given according to the instruction, preserving its meaning and any HTML markup.
Respond with the rewritten passage only.`

// Attachment is an extracted reference file included with a draft request.
type Attachment struct {
	Name    string
	Content string
}

// Drafter produces document content from natural-language instructions.
type Drafter struct {
	provider Provider
	model    string
}

// NewDrafter creates a drafter bound to a provider and default model.
func NewDrafter(provider Provider, model string) *Drafter {
	return &Drafter{provider: provider, model: model}
}

// Draft generates new document HTML for the given instruction. The tail of
// the current document travels along as context so the model continues in
// the same register; an attachment, when present, is appended as delimited
// reference material. A provider failure maps to apperr.ErrUnavailable and
// yields no content.
func (d *Drafter) Draft(ctx context.Context, instruction, documentHTML string, att *Attachment) (string, error) {
	var prompt strings.Builder

	tail := contextTail(documentHTML)
	if tail != "" {
		prompt.WriteString("Current document (ending):\n")
		prompt.WriteString(tail)
		prompt.WriteString("\n\n")
	}
	prompt.WriteString("Instruction:\n")
	prompt.WriteString(instruction)
	if att != nil {
		prompt.WriteString("\n\n=== ATTACHED FILE: ")
		prompt.WriteString(att.Name)
		prompt.WriteString(" ===\n")
		prompt.WriteString(att.Content)
		prompt.WriteString("\n=== END ATTACHMENT ===")
	}

	resp, err := d.provider.Complete(ctx, CompletionRequest{
		Model: d.model,
		Messages: []Message{
			{Role: RoleSystem, Content: draftSystemPrompt},
			{Role: RoleUser, Content: prompt.String()},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("%w: draft: %s", apperr.ErrUnavailable, err)
	}
	return Sanitize(resp.Content), nil
}

// Refine rewrites a selected passage per the instruction.
func (d *Drafter) Refine(ctx context.Context, selection, instruction string) (string, error) {
	var prompt strings.Builder
	prompt.WriteString("Passage:\n")
	prompt.WriteString(selection)
	prompt.WriteString("\n\nInstruction:\n")
	prompt.WriteString(instruction)

	resp, err := d.provider.Complete(ctx, CompletionRequest{
		Model: d.model,
		Messages: []Message{
			{Role: RoleSystem, Content: refineSystemPrompt},
			{Role: RoleUser, Content: prompt.String()},
		},
		Temperature: 0.4,
	})
	if err != nil {
		return "", fmt.Errorf("%w: refine: %s", apperr.ErrUnavailable, err)
	}
	return Sanitize(resp.Content), nil
}

// contextTail returns the last contextTailChars characters of the document's
// plain text.
func contextTail(documentHTML string) string {
	text := parser.PlainText(documentHTML)
	if len(text) <= contextTailChars {
		return text
	}
	return text[len(text)-contextTailChars:]
}
