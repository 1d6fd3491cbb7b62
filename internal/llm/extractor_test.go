package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildExtractionPrompt_AnswerEvaluation(t *testing.T) {
	prompt := BuildExtractionPrompt(AnswerEvaluationSchema("Grade this answer."), "Question: What is a mutex?")

	assert.Contains(t, prompt, "Grade this answer.")
	assert.Contains(t, prompt, `"ai_score": integer (required)`)
	assert.Contains(t, prompt, `"suggestions": ["string"] // Concrete improvements`)
	assert.Contains(t, prompt, "Question: What is a mutex?")
}

func TestBuildExtractionPrompt_NoInput(t *testing.T) {
	prompt := BuildExtractionPrompt(QuestionSetSchema("Write questions."), "")

	assert.Contains(t, prompt, `"questions": [{"category": "string", "text": "string"}] (required)`)
	assert.NotContains(t, prompt, "Input:")
}
