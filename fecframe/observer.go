package fecframe

//go:generate sh -c "go run go.uber.org/mock/mockgen -package fecframe -self_package github.com/observe-l/fecchan/fecframe -destination mock_observer_test.go github.com/observe-l/fecchan/fecframe Observer"

// Observer is notified after every successful encode and decode.
// Implementations must be safe for concurrent use.
type Observer interface {
	FrameEncoded(h Header, frameBits int)
	FrameDecoded(h Header, stats Stats)
}

type nopObserver struct{}

func (nopObserver) FrameEncoded(Header, int)   {}
func (nopObserver) FrameDecoded(Header, Stats) {}
