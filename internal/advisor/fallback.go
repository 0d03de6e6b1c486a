package advisor

import "github.com/JaimeStill/coursecast/internal/inference"

var highSuccess = Advice{
	Summary: "Great news: your course is predicted to succeed. " +
		"It has strong potential to attract students and earn great reviews.",
	Suggestions: []Suggestion{
		{"Marketing & Visibility", "Reach the students interested in your topic through ads and social media. The course is ready for the spotlight."},
		{"Pricing Strategy", "The metrics look good, so price it fairly with confidence or offer an introductory discount to bring in the first students."},
		{"Course Organization", "Break the course into 4-6 hour modules and treat each one as a complete mini-course with bite-sized, clear topics."},
		{"Hands-On Learning", "Include 2-3 practical projects students can actually use so they leave with skills they can apply immediately."},
		{"Extra Materials", "Provide downloadable templates, checklists or code samples that students can reference later in their own work."},
		{"Student Community", "Answer questions actively and encourage students to share progress. Engaged students stay loyal and review well."},
		{"Growth Through Reviews", "Ask students to leave a review when they finish. More reviews bring better visibility and more enrollments."},
	},
	Source: SourceFallback,
}

var lowSuccess = Advice{
	Summary: "Your course shows some challenges, but these changes can help turn things around.",
	Suggestions: []Suggestion{
		{"Start with Price", "Lower the price or offer a free preview section so students can see what they are getting before paying."},
		{"Simplify the Learning Path", "Shorten the course into smaller lessons of 1.5-2 hours each. Quick wins keep students from feeling overwhelmed."},
		{"Know Your Audience", "Target beginner and intermediate learners first with a clear step-by-step path instead of aiming at advanced students."},
		{"Show Real-World Value", "Add hands-on projects and real-world examples that show how the course solves actual problems."},
		{"Write Clear Descriptions", "Rewrite the title and description to say who the course is for and which problem it solves. Lead with benefits."},
		{"Build Social Proof Fast", "Offer a discount or free access to the first batch of students to collect early reviews and ratings quickly."},
		{"Create Compelling Promos", "Publish videos or content samples that focus on outcomes and real success stories from students."},
	},
	Source: SourceFallback,
}

// Fallback returns the static advice for a prediction's label.
func Fallback(p inference.Prediction) Advice {
	src := lowSuccess
	if p.Positive() {
		src = highSuccess
	}

	advice := src
	advice.Suggestions = append([]Suggestion(nil), src.Suggestions...)
	return advice
}
