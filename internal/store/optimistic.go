package store

import "context"

type cloner[T any] interface {
	Clone() T
}

// optimistic applies mutate to the value selected by field, publishes it, then runs
// commit with a copy of the new value. When commit fails the value is restored to the
// snapshot taken before mutate and failMsg is set as the store error. A non-nil restore
// builds the restored value from the current one and the snapshot.
func optimistic[T cloner[T]](
	ctx context.Context,
	s *Store,
	field func(st *State) *T,
	mutate func(v *T),
	commit func(ctx context.Context, v T) error,
	restore func(current, snapshot T) T,
	failMsg string,
) error {
	var snapshot, next T
	s.update(func(st *State) {
		v := field(st)
		snapshot = (*v).Clone()
		mutate(v)
		next = (*v).Clone()
		st.IsLoading = true
	})

	err := commit(ctx, next)

	s.update(func(st *State) {
		st.IsLoading = false
		if err != nil {
			if restore != nil {
				snapshot = restore(*field(st), snapshot)
			}
			*field(st) = snapshot
			st.Error = failMsg
		}
	})
	return err
}
