package quizgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/studykit/internal/quiz"
)

const systemPrompt = `You are a study assistant writing multiple-choice quizzes about a document the user uploaded (usually a resume, lecture notes or an article).

Rules:
- Ask only about facts, skills and ideas that appear in the attached document. Do not invent details.
- Every question has exactly 4 options. Exactly one option is correct.
- Options must be distinct. Distractors should be plausible, not silly.
- correct_answer is the 0-based index of the correct option. Vary its position across questions.
- Keep questions under 300 characters and explanations to one or two sentences.
- Use plain text. No markdown, no numbering inside the question or options.
- Do not repeat a question.`

var difficultyGuide = map[quiz.Difficulty]string{
	quiz.DifficultyEasy:   "direct recall of facts stated plainly in the document",
	quiz.DifficultyMedium: "understanding and connecting facts from different parts of the document",
	quiz.DifficultyHard:   "inference, comparison and application of the document's content",
}

// buildUserMessage constructs the user message sent alongside the document.
func buildUserMessage(filename string, count int, difficulty quiz.Difficulty) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Document: %s\n", filename)
	fmt.Fprintf(&b, "Number of questions: %d\n", count)
	fmt.Fprintf(&b, "Difficulty: %s (%s)\n", difficulty, difficultyGuide[difficulty])
	b.WriteString("\nWrite the quiz about the attached document.")

	return b.String()
}
