package interaction

import "context"

// Container is whatever the renderer produced for a story. Tasks know the
// concrete type they were written against.
type Container any

type TaskArgs struct {
	Container Container
}

// Task drives one scripted interaction to completion. It owns its own timeout
// and must return ErrTimeout (or wrap it) when that timeout elapses.
type Task func(ctx context.Context, args TaskArgs) error

type Interaction struct {
	Name string
	Run  Task
}
