package flow

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

var validAnswers = map[Field]string{
	FieldReadiness:     "yes, I'm ready",
	FieldRole:          "Backend",
	FieldInterviewType: "technical",
	FieldLevel:         "Senior",
	FieldTechStack:     "Go, PostgreSQL",
	FieldAmount:        "5",
}

func collectUpTo(t *testing.T, s Service, last Field) State {
	state := s.Start()
	for _, f := range Order {
		if f == last {
			break
		}
		out, err := s.Advance(state, validAnswers[f])
		require.NoError(t, err)
		require.Nil(t, out.Err)
		state = out.State
	}
	return state
}

func TestFlowProgression(t *testing.T) {
	s := NewService()

	t.Run(`valid answer moves to the next field`, func(t *testing.T) {
		for idx, f := range Order {
			state := collectUpTo(t, s, f)
			require.Equal(t, f, state.Current)

			out, err := s.Advance(state, validAnswers[f])
			require.NoError(t, err)
			require.Nil(t, out.Err)
			if idx == len(Order)-1 {
				require.True(t, out.Completed())
				require.Equal(t, "", out.NextPrompt)
			} else {
				require.Equal(t, Order[idx+1], out.State.Current)
				require.Equal(t, Prompt(Order[idx+1]), out.NextPrompt)
			}
		}
	})

	t.Run(`completed state rejects further turns`, func(t *testing.T) {
		state := State{Current: FieldCompleted}
		_, err := s.Advance(state, "hello")
		require.ErrorIs(t, err, ErrCompleted)
	})

	t.Run(`full collection builds setup`, func(t *testing.T) {
		state := collectUpTo(t, s, FieldAmount)
		out, err := s.Advance(state, "seven")
		require.NoError(t, err)
		require.True(t, out.Completed())
		setup, err := out.State.Payload.BuildSetup()
		require.NoError(t, err)
		require.Equal(t, Setup{
			Role:          "Backend",
			InterviewType: "technical",
			Level:         "Senior",
			TechStack:     []string{"Go", "PostgreSQL"},
			Amount:        7,
		}, setup)
	})

	t.Run(`invalid amount keeps the pointer`, func(t *testing.T) {
		state := collectUpTo(t, s, FieldAmount)
		out, err := s.Advance(state, "0")
		require.NoError(t, err)
		require.NotNil(t, out.Err)
		require.Equal(t, FieldAmount, out.State.Current)
		require.Equal(t, state, out.State)
		require.False(t, out.Mutated())
		require.Contains(t, out.Reply, Prompt(FieldAmount))
	})
}

func TestFlowReadiness(t *testing.T) {
	s := NewService()
	state := s.Start()

	t.Run(`not ready keeps readiness`, func(t *testing.T) {
		out, err := s.Advance(state, "not yet")
		require.NoError(t, err)
		require.Equal(t, IntentNotReady, out.Intent)
		require.Equal(t, FieldReadiness, out.State.Current)
		require.Equal(t, notReadyReply, out.Reply)
	})

	t.Run(`confirmation moves to role`, func(t *testing.T) {
		out, err := s.Advance(state, "Sure, let's go!")
		require.NoError(t, err)
		require.Equal(t, IntentConfirmReady, out.Intent)
		require.Equal(t, FieldRole, out.State.Current)
		require.True(t, out.State.Payload.Ready)
		require.True(t, out.Mutated())
	})

	t.Run(`unclear answer is clarified`, func(t *testing.T) {
		out, err := s.Advance(state, "banana")
		require.NoError(t, err)
		require.Equal(t, IntentClarify, out.Intent)
		require.Equal(t, FieldReadiness, out.State.Current)
	})

	cases := []struct {
		message string
		intent  Intent
	}{
		{"no problem, let's start", IntentConfirmReady},
		{"Yes, no worries", IntentConfirmReady},
		{"no problem", IntentConfirmReady},
		{"no", IntentNotReady},
		{"Nope.", IntentNotReady},
		{"No, give me a minute", IntentNotReady},
		{"no, let's start", IntentNotReady},
		{"I said no", IntentNotReady},
		{"I'm not ready", IntentNotReady},
	}
	for _, tc := range cases {
		t.Run(tc.message, func(t *testing.T) {
			out, err := s.Advance(state, tc.message)
			require.NoError(t, err)
			require.Equal(t, tc.intent, out.Intent)
			if tc.intent == IntentConfirmReady {
				require.Equal(t, FieldRole, out.State.Current)
			} else {
				require.Equal(t, state, out.State)
			}
		})
	}
}

func TestFlowNonAnswerIntents(t *testing.T) {
	s := NewService()
	state := collectUpTo(t, s, FieldLevel)

	cases := []struct {
		message string
		intent  Intent
		reply   string
	}{
		{"Could you repeat that?", IntentRepeat, Prompt(FieldLevel)},
		{"Can you give me some examples?", IntentExamples, Examples(FieldLevel)},
		{"What do you mean?", IntentClarify, Clarification(FieldLevel) + " " + Prompt(FieldLevel)},
		{"hold on", IntentNotReady, pauseReply + " " + Prompt(FieldLevel)},
	}
	for _, tc := range cases {
		t.Run(tc.message, func(t *testing.T) {
			out, err := s.Advance(state, tc.message)
			require.NoError(t, err)
			require.Equal(t, tc.intent, out.Intent)
			require.Equal(t, tc.reply, out.Reply)
			require.Equal(t, state, out.State)
			require.False(t, out.Mutated())
		})
	}
}

func TestFlowCorrection(t *testing.T) {
	s := NewService()

	t.Run(`correction updates only the answered field`, func(t *testing.T) {
		state := collectUpTo(t, s, FieldTechStack)
		out, err := s.Advance(state, "Actually, my role is Frontend")
		require.NoError(t, err)
		require.Equal(t, IntentCorrection, out.Intent)
		require.Equal(t, FieldRole, out.Field)
		require.Equal(t, FieldTechStack, out.State.Current)
		require.Equal(t, "Frontend", out.State.Payload.Role)
		require.Equal(t, state.Payload.InterviewType, out.State.Payload.InterviewType)
		require.Equal(t, state.Payload.Level, out.State.Payload.Level)
		require.Contains(t, out.Reply, Prompt(FieldTechStack))
	})

	t.Run(`correction by value hint`, func(t *testing.T) {
		state := collectUpTo(t, s, FieldAmount)
		out, err := s.Advance(state, "wait, make it behavioral")
		require.NoError(t, err)
		require.Equal(t, IntentCorrection, out.Intent)
		require.Equal(t, FieldInterviewType, out.Field)
		require.Equal(t, "behavioral", out.State.Payload.InterviewType)
		require.Equal(t, FieldAmount, out.State.Current)
	})

	t.Run(`correction of amount keeps pointer`, func(t *testing.T) {
		state := collectUpTo(t, s, FieldAmount)
		state.Payload.Amount = 5
		state.Current = FieldAmount
		out, err := s.Advance(state, "actually the level should be Mid, not Senior")
		require.NoError(t, err)
		require.Equal(t, "Mid", out.State.Payload.Level)
		require.Equal(t, FieldAmount, out.State.Current)
	})

	t.Run(`invalid correction leaves state untouched`, func(t *testing.T) {
		state := collectUpTo(t, s, FieldLevel)
		state.Payload.Amount = 5
		out, err := s.Advance(state, "actually change the number of questions to forty")
		require.NoError(t, err)
		require.Equal(t, IntentCorrection, out.Intent)
		require.NotNil(t, out.Err)
		require.Equal(t, state, out.State)
	})

	t.Run(`correction naming the current field is an answer`, func(t *testing.T) {
		state := collectUpTo(t, s, FieldLevel)
		out, err := s.Advance(state, "sorry, the level is Junior")
		require.NoError(t, err)
		require.Equal(t, IntentAnswer, out.Intent)
		require.Equal(t, "Junior", out.State.Payload.Level)
		require.Equal(t, FieldTechStack, out.State.Current)
	})

	t.Run(`value hint of a later field does not replace the current field`, func(t *testing.T) {
		state := collectUpTo(t, s, FieldRole)
		out, err := s.Advance(state, "Actually, I want a Senior Backend role")
		require.NoError(t, err)
		require.Equal(t, IntentAnswer, out.Intent)
		require.Equal(t, "Senior Backend", out.State.Payload.Role)
		require.Equal(t, "", out.State.Payload.Level)
		require.Equal(t, FieldInterviewType, out.State.Current)
	})

	t.Run(`change of a later field is deferred`, func(t *testing.T) {
		state := collectUpTo(t, s, FieldTechStack)
		out, err := s.Advance(state, "change the amount to 10")
		require.NoError(t, err)
		require.Equal(t, IntentCorrection, out.Intent)
		require.Equal(t, FieldAmount, out.Field)
		require.Nil(t, out.Err)
		require.Equal(t, state, out.State)
		require.False(t, out.Mutated())
		require.Equal(t, fmt.Sprintf(deferredTemplate, FieldAmount.Label())+" "+Prompt(FieldTechStack), out.Reply)
	})

	t.Run(`later field keyword without change request is an answer`, func(t *testing.T) {
		state := collectUpTo(t, s, FieldRole)
		out, err := s.Advance(state, "Actually, Fullstack with a modern stack")
		require.NoError(t, err)
		require.Equal(t, IntentAnswer, out.Intent)
		require.Equal(t, FieldInterviewType, out.State.Current)
	})

	t.Run(`trigger without known field is an answer`, func(t *testing.T) {
		state := collectUpTo(t, s, FieldRole)
		out, err := s.Advance(state, "Sorry, Backend")
		require.NoError(t, err)
		require.Equal(t, IntentAnswer, out.Intent)
		require.Equal(t, "Backend", out.State.Payload.Role)
	})
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		name    string
		field   Field
		message string
		want    Value
		wantErr bool
	}{
		{"amount digits", FieldAmount, "7", Value{Number: 7}, false},
		{"amount word", FieldAmount, "seven", Value{Number: 7}, false},
		{"amount hyphenated words", FieldAmount, "twenty-five", Value{Number: 25}, false},
		{"amount spaced words", FieldAmount, "twenty five", Value{Number: 25}, false},
		{"amount in a sentence", FieldAmount, "let's do 10 questions", Value{Number: 10}, false},
		{"amount above range", FieldAmount, "thirty-one", Value{}, true},
		{"amount zero", FieldAmount, "0", Value{}, true},
		{"amount negative", FieldAmount, "-5", Value{}, true},
		{"amount not a number", FieldAmount, "a few", Value{}, true},
		{"techstack list", FieldTechStack, "React, Node", Value{List: []string{"React", "Node"}}, false},
		{"techstack single", FieldTechStack, "React", Value{List: []string{"React"}}, false},
		{"techstack dedupe", FieldTechStack, "Go, go; React and Node", Value{List: []string{"Go", "React", "Node"}}, false},
		{"techstack empty", FieldTechStack, " , ", Value{}, true},
		{"role trimmed", FieldRole, "  Backend Developer. ", Value{Text: "Backend Developer"}, false},
		{"role empty", FieldRole, "   ", Value{}, true},
		{"readiness takes no value", FieldReadiness, "yes", Value{}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			value, err := Normalize(tc.field, tc.message)
			if tc.wantErr {
				var vErr *ValidationError
				require.ErrorAs(t, err, &vErr)
				require.Equal(t, tc.field, vErr.Field)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, value)
		})
	}
}

func TestNext(t *testing.T) {
	require.Equal(t, FieldRole, Next(FieldReadiness))
	require.Equal(t, FieldCompleted, Next(FieldAmount))
	require.Equal(t, FieldCompleted, Next(FieldCompleted))
	require.Equal(t, FieldCompleted, Next(Field(-1)))

	for _, f := range append(Order, FieldCompleted) {
		parsed, err := ParseField(f.String())
		require.NoError(t, err)
		require.Equal(t, f, parsed)
	}
	_, err := ParseField("salary")
	require.Error(t, err)
}
