package agent

import "strings"

// Task is the closed set of capabilities a query can be routed to. The wire
// labels (task1..task4) match what the classifier model is asked to emit.
type Task string

const (
	// TaskConverse is plain conversation with session history.
	TaskConverse Task = "task1"
	// TaskAnswerFromDocument answers questions grounded in uploaded documents.
	TaskAnswerFromDocument Task = "task2"
	// TaskSummarize summarizes the uploaded documents.
	TaskSummarize Task = "task3"
	// TaskWebSearch answers from live web search results.
	TaskWebSearch Task = "task4"
)

func (t Task) String() string { return string(t) }

// ParseTask normalizes a raw label. Anything outside the four known labels
// falls back to TaskConverse.
func ParseTask(s string) Task {
	switch Task(strings.ToLower(strings.TrimSpace(s))) {
	case TaskConverse, TaskAnswerFromDocument, TaskSummarize, TaskWebSearch:
		return Task(strings.ToLower(strings.TrimSpace(s)))
	default:
		return TaskConverse
	}
}
