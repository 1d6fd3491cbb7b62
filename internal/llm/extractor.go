// Package llm - extractor.go builds prompts that ask for a fixed JSON shape.
package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema describes the JSON object an LLM must return for a task
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "QuestionSet", "AnswerEvaluation")
	Description string        // Task preamble placed before the output shape
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the output object
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint rendered verbatim, e.g. `"string"` or `[{"text": "string"}]`
	Description string // Description for the LLM
	Required    bool
}

// BuildExtractionPrompt renders the schema's task, output shape and input block
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = `"string"`
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n")
	sb.WriteString("- Scores are integers between 0 and 100.\n\n")

	if inputText != "" {
		sb.WriteString("Input:\n\"\"\"\n")
		sb.WriteString(inputText)
		sb.WriteString("\n\"\"\"\n")
	}

	return sb.String()
}

// QuestionSetSchema is the output shape for interview question generation
func QuestionSetSchema(description string) ExtractionSchema {
	return ExtractionSchema{
		Name:        "QuestionSet",
		Description: description,
		Fields: []SchemaField{
			{
				Name:        "questions",
				Type:        `[{"category": "string", "text": "string"}]`,
				Description: "One entry per requested question; category must be one of the requested categories",
				Required:    true,
			},
		},
	}
}

// AnswerEvaluationSchema is the output shape for grading a single answer
func AnswerEvaluationSchema(description string) ExtractionSchema {
	return ExtractionSchema{
		Name:        "AnswerEvaluation",
		Description: description,
		Fields: []SchemaField{
			{Name: "ai_score", Type: "integer", Description: "Overall quality of the answer", Required: true},
			{Name: "creativity", Type: "integer", Description: "Originality of the approach", Required: true},
			{Name: "feedback", Type: `"string"`, Description: "One or two sentences addressed to the reviewer", Required: true},
			{Name: "suggestions", Type: `["string"]`, Description: "Concrete improvements, may be empty"},
		},
	}
}
