package advisor

import (
	"fmt"
	"strings"

	"github.com/JaimeStill/coursecast/internal/inference"
)

const systemPrompt = `You are a course design advisor for online learning platforms like Udemy.
Given course metadata and a model's predicted success (0 = low, 1 = high),
suggest concrete, actionable improvements to increase enrollments and rating.
Be specific about price, duration, difficulty alignment, content focus,
target audience, and marketing or positioning.`

const responseFormat = `Respond with a JSON object only, in this shape:
{"summary": "<1-2 line explanation of what the prediction implies>",
 "suggestions": [{"heading": "<short title>", "detail": "<one or two sentences>"}]}`

func buildPrompt(c inference.RawCourse, p inference.Prediction) string {
	var b strings.Builder

	b.WriteString("Course details:\n")
	fmt.Fprintf(&b, "- Title: %s\n", orNA(c.Title))
	fmt.Fprintf(&b, "- Category: %s\n", orNA(c.Category))
	fmt.Fprintf(&b, "- Difficulty: %s\n", orNA(c.Difficulty))
	fmt.Fprintf(&b, "- Price: ₹%g\n", c.Price)
	fmt.Fprintf(&b, "- Duration: %g hours\n", c.Duration)
	fmt.Fprintf(&b, "- Lectures: %d\n", c.LectureNumbers)
	fmt.Fprintf(&b, "- Current average rating: %g\n", c.Rating)
	fmt.Fprintf(&b, "- Reviews: %d\n\n", c.Reviews)

	b.WriteString("Model prediction:\n")
	fmt.Fprintf(&b, "- Predicted success label: %d (1 = high, 0 = low)\n", p.Label)
	fmt.Fprintf(&b, "- Predicted probability of high success: %.2f\n\n", p.Probability)

	b.WriteString("Task:\n")
	b.WriteString("1. Briefly explain (1-2 lines) what this prediction implies.\n")
	b.WriteString("2. Give 5-7 concrete suggestions to improve enrollment and rating, covering ")
	b.WriteString("pricing, duration and structure, difficulty versus audience, ")
	b.WriteString("content (projects, case studies, hands-on work) and marketing or positioning.\n\n")
	b.WriteString(responseFormat)

	return b.String()
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
