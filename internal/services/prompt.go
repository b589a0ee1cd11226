package services

import "fmt"

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildAnalysisPrompt renders the instruction string for one analysis run.
// Pure function: identical inputs always produce a byte-identical prompt.
// The resume and job description are embedded verbatim inside delimited
// sections so the model cannot confuse instructions with content.
func (pb *PromptBuilder) BuildAnalysisPrompt(resumeText, jdText string) string {
	return fmt.Sprintf(`Analyze the following resume against the provided job description.
Provide your analysis as a single JSON object. Return only valid JSON: do not include any introductory text, explanations, or markdown formatting such as %s.

The JSON object must have exactly the following keys:
- "suitability_score": an integer from 0 to 100 representing how well the resume matches the job description.
- "matching_skills": a list of strings, the key skills from the resume that are also mentioned in the job description.
- "missing_skills": a list of strings, the key skills from the job description that are not found in the resume.
- "suggested_title": a string, a suitable job title for the candidate based on their resume and the job description.
- "tailored_suggestions": a string, a paragraph of specific advice on how to improve the resume for this particular job, such as which projects to highlight or which skills to elaborate on.

Resume:
---
%s
---

Job Description:
---
%s
---`, "```json", resumeText, jdText)
}
