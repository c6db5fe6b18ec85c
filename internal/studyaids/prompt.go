package studyaids

import (
	"bytes"
	"text/template"
)

const notesSystemPrompt = `You are a study assistant turning a document the user uploaded into study notes.

Rules:
- Cover only what the document says. Do not add outside facts.
- Use markdown: a short title, "##" section headings and "-" bullet points.
- Prefer short bullets over paragraphs.`

const flashcardsSystemPrompt = `You are a study assistant writing flashcards about a document the user uploaded.

Rules:
- Each card tests one fact, skill or idea from the document.
- The front is a short term or question. The back answers it in one or two sentences.
- Do not repeat a card. Do not add outside facts.`

var notesUserTemplate = template.Must(template.New("notes").Parse(`Document: {{.Filename}}
Style: {{.Style}}
{{if eq .Style "detailed"}}Write thorough notes: every section of the document, with key details and examples.{{else}}Write concise notes: the most important points only, at most one screen of text.{{end}}`))

var flashcardsUserTemplate = template.Must(template.New("flashcards").Parse(`Document: {{.Filename}}
Number of flashcards: {{.Count}}

Write the flashcards about the attached document.`))

type notesPromptData struct {
	Filename string
	Style    Style
}

type flashcardsPromptData struct {
	Filename string
	Count    int
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
