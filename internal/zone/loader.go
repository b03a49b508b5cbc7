package zone

import "sync"

// ContentLoader mounts and unmounts the content partition backing a zone.
// Begin calls must not block; implementations start the work in the
// background and report completion through the returned handle.
type ContentLoader interface {
	BeginLoad(name string) Handle
	BeginUnload(name string) Handle
	IsLoaded(name string) bool
}

// Handle reports completion of a loader operation. Err is only meaningful
// once Done's channel has closed.
type Handle interface {
	Done() <-chan struct{}
	Err() error
}

// Task is a Handle for loaders that run their work in a goroutine.
type Task struct {
	done chan struct{}
	err  error
	once sync.Once
}

func NewTask() *Task {
	return &Task{done: make(chan struct{})}
}

// Complete finishes the task with err. Later calls are ignored.
func (t *Task) Complete(err error) {
	t.once.Do(func() {
		t.err = err
		close(t.done)
	})
}

func (t *Task) Done() <-chan struct{} {
	return t.done
}

func (t *Task) Err() error {
	return t.err
}
