package generator

import (
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"quizgen/internal/model"
)

const (
	DefaultSubject      = "mathematics"
	DefaultNumQuestions = 10
	MaxNumQuestions     = 50
)

var promptTemplate = template.Must(template.New("prompt").Parse(`
You are a {{.Subject}} expert. Based on the following educational content, generate comprehensive {{.Subject}} questions with solutions.

Content:
{{.Content}}

Please generate exactly {{.NumQuestions}} high-quality {{.Subject}} questions based on this content. For each question:
1. Create a clear, well-formatted question
2. Provide a detailed solution with step-by-step explanation
3. Use proper LaTeX notation for all mathematical expressions
{{- if .QuestionTypes}}

Question types: {{.QuestionTypes}}
{{- end}}
{{- if .Difficulty}}
Difficulty level: {{.Difficulty}}
{{- end}}

Format your response ENTIRELY in LaTeX. Use the following structure:

\documentclass{article}
\usepackage{amsmath}
\usepackage{amssymb}
\usepackage{geometry}
\geometry{margin=1in}

\title{Generated {{.Title}} Questions}
\author{AI Question Generator}
\date{\today}

\begin{document}
\maketitle

\section*{Question 1}
[Question text with $\LaTeX$ math]

\subsection*{Solution}
[Detailed solution with $$equations$$]

[Continue for all {{.NumQuestions}} questions...]

\end{document}

Make sure ALL mathematical expressions are in LaTeX format (use $...$ for inline and $$...$$ or \[...\] for display math).
`))

type promptData struct {
	Subject       string
	Title         string
	Content       string
	NumQuestions  int
	QuestionTypes string
	Difficulty    string
}

// BuildPrompt renders the instruction sent to the model. The extracted text is embedded verbatim.
func BuildPrompt(text string, opts model.GenerationOptions) (string, error) {
	data := promptData{
		Subject:       strings.ToLower(strings.TrimSpace(opts.Subject)),
		Content:       text,
		NumQuestions:  opts.NumQuestions,
		QuestionTypes: strings.Join(opts.QuestionTypes, ", "),
		Difficulty:    strings.TrimSpace(opts.Difficulty),
	}
	if data.Subject == "" {
		data.Subject = DefaultSubject
	}
	switch {
	case data.NumQuestions <= 0:
		data.NumQuestions = DefaultNumQuestions
	case data.NumQuestions > MaxNumQuestions:
		data.NumQuestions = MaxNumQuestions
	}
	if data.Subject == DefaultSubject {
		data.Title = "Math"
	} else {
		data.Title = cases.Title(language.English).String(strings.ReplaceAll(data.Subject, "-", " "))
	}

	var sb strings.Builder
	if err := promptTemplate.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
