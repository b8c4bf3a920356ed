package aihandler

import (
	"fmt"
	"strings"

	"interview-prep-backend/lib/flow"
)

const (
	questionsSystemPrompt = "You return valid JSON only."
	collectorSystemPrompt = "Speak naturally and briefly, with no bullet points."
	interviewSystemPrompt = "Human, concise, professional interviewer style. No bullets."

	questionsTemperature = 0.5
	replyTemperature     = 0.7

	noneValue = "NONE"
)

func questionsPrompt(setup flow.Setup) string {
	return "You are an expert technical interviewer. " +
		"Generate interview questions for a candidate with this configuration:\n" +
		fmt.Sprintf("Role: %s\n", setup.Role) +
		fmt.Sprintf("Interview Type: %s\n", setup.InterviewType) +
		fmt.Sprintf("Level: %s\n", setup.Level) +
		fmt.Sprintf("Tech Stack: %s\n", strings.Join(setup.TechStack, ", ")) +
		fmt.Sprintf("Amount: %d\n\n", setup.Amount) +
		"Rules:\n" +
		"1) Return exactly the requested number of questions.\n" +
		"2) Questions should be concise and clear.\n" +
		"3) Keep difficulty aligned to level.\n" +
		"4) No headings or numbering in the question text itself.\n" +
		`Return JSON only in this format: {"questions": ["...", "..."]}.`
}

func collectorPrompt(field flow.Field, userResponse, nextPrompt string) string {
	return "You are a warm voice interview assistant collecting setup details. " +
		"Acknowledge the user's answer naturally in one short sentence. " +
		"Then, if a next prompt exists, ask it clearly in one sentence.\n\n" +
		fmt.Sprintf("Current field answered: %s\n", field.Label()) +
		fmt.Sprintf("User response: %s\n", userResponse) +
		fmt.Sprintf("Next prompt: %s", orNone(nextPrompt))
}

func interviewPrompt(userAnswer, currentQuestion, nextQuestion string) string {
	return "You are a realistic interview voice AI. " +
		"Acknowledge the candidate's answer naturally in one short sentence. " +
		"If next_question exists, transition and ask it naturally. " +
		"If next_question is NONE, close the interview politely in one sentence.\n\n" +
		fmt.Sprintf("Question just answered: %s\n", currentQuestion) +
		fmt.Sprintf("Candidate answer: %s\n", userAnswer) +
		fmt.Sprintf("Next question: %s", orNone(nextQuestion))
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return noneValue
	}
	return s
}
