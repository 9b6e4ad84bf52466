package engine

import (
	"fmt"
	"strings"

	"github.com/didactlabs/didact/course"
)

// openingQuestion starts the gathering conversation without a gateway call.
const openingQuestion = "What is the topic of your e-learning course?"

// assistantSystemPrompt frames every stage call after context gathering.
const assistantSystemPrompt = "You are a professional instructional design assistant."

// completionSignal is the phrase the gateway is instructed to emit when it
// has no further questions.
const completionSignal = "context gathering complete"

func gatherSystemPrompt(core int) string {
	return fmt.Sprintf(
		"You are an instructional design assistant. Your goal is to collect all essential details "+
			"such as the topic, audience profile (age, education and experience), key learning outcomes, "+
			"mode of learning (instructor led or self paced), duration of the course, whether the user has "+
			"raw content for the course, whether a final assessment and knowledge checks are needed, and any "+
			"other information required to design an e-learning course. "+
			"You can ask a maximum of %d questions, so prioritize them by importance and ask only one at a time. "+
			"If a response needs clarification, ask a follow-up, which does not count toward the %d. "+
			"Once an answer is sufficient, move to the next key topic. Keep the conversation smooth and engaging.",
		core, core)
}

func nextQuestionPrompt(core, followUps int, history []course.QA) string {
	var b strings.Builder
	b.WriteString("Based on the user's last response, determine if a follow-up question is needed for clarity. ")
	b.WriteString("If yes, provide the follow-up question. If no, provide the next key question needed to gather essential course information. ")
	fmt.Fprintf(&b, "Remember, you can ask a maximum of %d core questions and %d follow-ups. ", core, followUps)
	b.WriteString("If the limit is reached, respond with 'Context gathering complete.'\n\n")
	b.WriteString("Conversation so far:\n")
	for _, qa := range history {
		fmt.Fprintf(&b, "Q: %s\nA: %s\n", qa.Question, qa.Answer)
	}
	b.WriteString("\nWhat is the next question?")
	return b.String()
}

func summaryPrompt(history []course.QA) string {
	var b strings.Builder
	b.WriteString("Summarize the following instructional design context into concise bullet points. ")
	b.WriteString("For each aspect, give the aspect name and a short summary, not the full user response. ")
	b.WriteString("Avoid repeating full questions or raw text. ")
	b.WriteString("Return the result as a two-column table with headers 'Aspect' and 'Summary'.\n\n")
	for _, qa := range history {
		fmt.Fprintf(&b, "Q: %s\nA: %s\n", qa.Question, qa.Answer)
	}
	return b.String()
}

func gapAnalysisPrompt(summary, source string) string {
	return fmt.Sprintf(
		"Analyze the following instructional design context and raw content to identify content gaps.\n\n"+
			"Here is the instructional design context:\n%s\n\n"+
			"Here is the raw content:\n%s\n\n"+
			"Identify any content gaps in the raw content based on the provided context. "+
			"Keep it brief and focus on the duration indicated in the context. "+
			"List the missing topics or areas that need to be covered in the course.",
		summary, source)
}

func fillGapsPrompt(analysis string) string {
	return fmt.Sprintf(
		"Based on the identified content gaps below, generate the necessary content to fill these gaps.\n\n"+
			"Content Gaps:\n%s\n\n"+
			"Provide the additional content required to cover these areas effectively.",
		analysis)
}

func outlinePrompt(summary, source string) string {
	return fmt.Sprintf(
		"Based on the following instructional design context and source content, generate a structured "+
			"content outline for the e-learning course. Make sure the duration indicated in the context "+
			"is adhered to when the outline durations are generated.\n\n"+
			"### Instructional Design Context:\n%s\n\n"+
			"### Source Content:\n%s\n\n"+
			"Present the content outline strictly as a table with two columns: Outline | Duration (in mins). "+
			"Use pipe separators (|) and include a header row. Do not use bullets, dashes, or markdown separators.\n"+
			"Start immediately with the table header.\n"+
			"Do not add explanations before or after the table.",
		summary, source)
}

func storyboardPrompt(summary, outline, source string) string {
	return fmt.Sprintf(
		"Create a storyboard that follows instructional design theories for the e-learning course, based on "+
			"the following instructional design context, content outline, and source content.\n\n"+
			"### Instructional Design Context:\n%s\n\n"+
			"### Content Outline:\n%s\n\n"+
			"### Source Content:\n%s\n\n"+
			"Provide the storyboard as a table with three columns: Onscreen Text | Voice Over Script | Visualization Guidelines.\n"+
			"Start immediately with the table header. Separate columns using a '|' (pipe symbol).\n"+
			"Make sure the Onscreen Text column contains the entire text for the slide, not just slide titles. "+
			"In the Voice Over Script column, include the entire narration, not just an introduction.\n"+
			"Include periodic knowledge checks, but not too many. When a knowledge check is used, include all "+
			"the details: the question, the answer options, the correct answer, and feedback for both correct "+
			"and wrong answers.\n"+
			"Do not add any explanation before or after the table. Each row must be properly formatted without bullets.",
		summary, outline, source)
}

func assessmentPrompt(summary, outline string, questions int) string {
	return fmt.Sprintf(
		"Based on the following instructional design context and content outline, generate a final assessment "+
			"for this e-learning course.\n\n"+
			"### Instructional Design Context:\n%s\n\n"+
			"### Content Outline:\n%s\n\n"+
			"Create %d multiple-choice questions.\n"+
			"Each question must have an appropriate number of answer options and clearly indicate the correct option.\n"+
			"Ensure questions align with the course objectives and learning content.\n"+
			"Do not add any explanation text or headings before or after the questions.",
		summary, outline, questions)
}
