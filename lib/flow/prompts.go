package flow

var prompts = map[Field]string{
	FieldReadiness:     "Hi! I'll ask you a few quick questions to set up your mock interview. Are you ready to begin?",
	FieldRole:          "What role would you like to train for? For example: Frontend, Backend, Fullstack, Design, UX.",
	FieldInterviewType: "Are you aiming for a technical, behavioral, or mixed interview?",
	FieldLevel:         "What is the job experience level? For example: Intern, Junior, Mid, Senior.",
	FieldTechStack:     "Please share the technologies to cover, separated by commas. For example: Next.js, React, Python, Java.",
	FieldAmount:        "How many questions would you like me to prepare for you?",
}

var examples = map[Field]string{
	FieldReadiness:     "You can simply say \"yes, I'm ready\" or \"not yet\".",
	FieldRole:          "Some examples: Frontend Developer, Backend Engineer, Fullstack Developer, Data Scientist, Product Designer, DevOps Engineer.",
	FieldInterviewType: "The options are: technical for coding and system questions, behavioral for questions about your experience and soft skills, or mixed for a bit of both.",
	FieldLevel:         "Typical levels are Intern, Junior, Mid, Senior, Lead or Principal.",
	FieldTechStack:     "For example: \"React, TypeScript, Node.js\" or \"Go, PostgreSQL, Kubernetes\".",
	FieldAmount:        "Most candidates pick between 5 and 10 questions. You can choose any number from 1 to 30.",
}

var clarifications = map[Field]string{
	FieldReadiness:     "I just need to know whether we can start setting up your interview.",
	FieldRole:          "I mean the job position you are preparing for, so the questions match that role.",
	FieldInterviewType: "Technical interviews focus on coding and engineering knowledge, behavioral ones on how you work with people and handle situations.",
	FieldLevel:         "I mean the seniority of the position, so the questions have the right difficulty.",
	FieldTechStack:     "I mean the languages, frameworks and tools the interview questions should cover.",
	FieldAmount:        "I mean how many interview questions I should generate for this practice session.",
}

const (
	readyReply         = "Great, let's get started."
	notReadyReply      = "No problem. Just tell me when you're ready to begin."
	pauseReply         = "Take your time."
	validationTemplate = "Thanks. I need a valid %s: %s."
	correctionTemplate = "Got it, I've updated your %s to %s."
	deferredTemplate   = "We'll get to the %s in a moment."
)

// Prompt вопрос для поля
func Prompt(f Field) string {
	return prompts[f]
}

// Examples примеры ответов для поля
func Examples(f Field) string {
	return examples[f]
}

// Clarification пояснение к вопросу
func Clarification(f Field) string {
	return clarifications[f]
}
