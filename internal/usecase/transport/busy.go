package transport

import "sync"

// Busy is the set of transports with a driver action in flight.
type Busy struct {
	ids sync.Map
}

func NewBusy() *Busy {
	return &Busy{}
}

// TryAcquire marks id busy and reports false when it already was.
func (b *Busy) TryAcquire(id int64) bool {
	_, loaded := b.ids.LoadOrStore(id, struct{}{})
	return !loaded
}

func (b *Busy) Release(id int64) {
	b.ids.Delete(id)
}

func (b *Busy) IsBusy(id int64) bool {
	_, ok := b.ids.Load(id)
	return ok
}
