package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/didactlabs/didact/course"
	"github.com/didactlabs/didact/event"
)

// NextQuestion returns the question to ask the user next. The opening
// question is fixed and costs no gateway call; every later question is
// produced by the gateway from the conversation so far. done is true when
// gathering has finished, either because the budget is exhausted or the
// gateway signalled completion.
func (e *Engine) NextQuestion(ctx context.Context) (question string, done bool, err error) {
	if e.course.Stage() != course.GatherContext {
		return "", false, &StageError{Stage: e.course.Stage(), Op: "next question",
			Err: fmt.Errorf("context gathering is over")}
	}
	if e.complete {
		return "", true, nil
	}
	if e.currentQuestion != "" {
		return e.currentQuestion, false, nil
	}

	if e.course.AnswerCount() == 0 {
		e.currentQuestion = openingQuestion
		event.Emit(e.events, event.Event{Type: event.StageStart, Stage: course.GatherContext})
		return e.currentQuestion, false, nil
	}

	prompt := nextQuestionPrompt(e.cfg.QuestionBudget, e.cfg.FollowUpBudget, e.course.Answers())
	reply, err := e.generate(ctx, gatherSystemPrompt(e.cfg.QuestionBudget), prompt)
	if err != nil {
		return "", false, &StageError{Stage: course.GatherContext, Op: "next question", Err: err}
	}

	reply = strings.TrimSpace(reply)
	if strings.Contains(strings.ToLower(reply), completionSignal) {
		e.complete = true
		e.log.Info("context gathering complete", "answers", e.course.AnswerCount())
		return "", true, nil
	}

	e.currentQuestion = reply
	return e.currentQuestion, false, nil
}

// SubmitAnswer records the user's answer to the current question. When the
// question budget is exhausted, gathering completes immediately.
func (e *Engine) SubmitAnswer(answer string) error {
	if e.currentQuestion == "" {
		return &StageError{Stage: e.course.Stage(), Op: "submit answer",
			Err: fmt.Errorf("no question is pending")}
	}
	if strings.TrimSpace(answer) == "" {
		return &StageError{Stage: course.GatherContext, Op: "submit answer",
			Err: fmt.Errorf("answer is empty")}
	}

	if err := e.course.RecordAnswer(e.currentQuestion, answer); err != nil {
		return err
	}
	e.currentQuestion = ""

	if e.course.AnswerCount() >= e.cfg.questionLimit() {
		e.complete = true
		e.log.Info("question budget exhausted", "answers", e.course.AnswerCount())
	}
	return nil
}

// Summarize generates the context summary. It runs at most once per
// gathering pass: a cached summary is returned without a gateway call
// unless AlwaysRegenerate is set.
func (e *Engine) Summarize(ctx context.Context) (string, error) {
	if !e.complete {
		return "", &StageError{Stage: course.GatherContext, Op: "summarize",
			Err: fmt.Errorf("context gathering is not complete")}
	}
	if s := e.course.Summary(); s != "" && !e.cfg.AlwaysRegenerate {
		return s, nil
	}

	summary, err := e.generate(ctx, gatherSystemPrompt(e.cfg.QuestionBudget), summaryPrompt(e.course.Answers()))
	if err != nil {
		return "", &StageError{Stage: course.GatherContext, Op: "summarize", Err: err}
	}
	if err := e.course.SetSummary(summary); err != nil {
		return "", err
	}
	e.log.Debug("context summary generated")
	return summary, nil
}
