package flow

// Result is the three-way value feature states carry for asynchronous data:
// still loading, loaded, or failed. Services themselves return (T, error);
// the loading arm only exists at the state layer.
type Result[T any] struct {
	loading bool
	value   T
	err     error
}

func Loading[T any]() Result[T] {
	return Result[T]{loading: true}
}

func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

func Fail[T any](err error) Result[T] {
	return Result[T]{err: err}
}

func (r Result[T]) IsLoading() bool { return r.loading }

func (r Result[T]) Err() error { return r.err }

// Value returns the loaded value and whether it is present.
func (r Result[T]) Value() (T, bool) {
	if r.loading || r.err != nil {
		var zero T
		return zero, false
	}
	return r.value, true
}
