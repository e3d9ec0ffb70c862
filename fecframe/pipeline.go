package fecframe

import (
	"github.com/observe-l/fecchan/fec"
)

// TailPolicy decides what the decoder does when the payload is shorter than
// the header promises.
type TailPolicy int

const (
	// DropIncompleteTail decodes whatever complete groups or rows are present
	// and flags the result as truncated.
	DropIncompleteTail TailPolicy = iota
	// RejectIncompleteTail fails the decode with fec.ErrTruncatedTail.
	RejectIncompleteTail
)

func (p TailPolicy) String() string {
	if p == RejectIncompleteTail {
		return "reject"
	}
	return "drop"
}

// Options configure an Encoder or Decoder. The zero value uses the default
// catalog, no observer and DropIncompleteTail.
type Options struct {
	Catalog  *fec.Catalog
	Observer Observer
	Tail     TailPolicy
}

func (o Options) observer() Observer {
	if o.Observer == nil {
		return nopObserver{}
	}
	return o.Observer
}

// Stats describes one decode.
type Stats struct {
	PayloadBits   int // payload bits the header implies, without byte alignment
	ReceivedBits  int // payload bits actually present, capped at PayloadBits
	Blocks        int // repetition groups or codeword rows decoded
	Corrected     int
	Uncorrectable int
	ParityOnly    int
	DecodedBits   int // output length in bits, SourceLength unless truncated
	Truncated     bool
}

// Result is a decoded frame.
type Result struct {
	Header Header
	Data   []byte
	Stats  Stats
}

// Encoder builds frames. It is safe for concurrent use.
type Encoder struct {
	coder *fec.LinearBlockCoder
	obs   Observer
}

func NewEncoder(opts Options) *Encoder {
	return &Encoder{coder: fec.NewLinearBlockCoder(opts.Catalog), obs: opts.observer()}
}

// Encode codes data with method and factor and returns the frame bytes.
// Nothing is returned on error.
func (e *Encoder) Encode(method Method, data []byte, factor int) ([]byte, error) {
	bits := fec.BytesToBits(data)
	if len(bits) > MaxSourceBits {
		return nil, fec.Errorf(fec.KindUnsupportedParameter, "encode", "payload of %d bits exceeds %d", len(bits), MaxSourceBits)
	}
	var (
		payload fec.Bits
		err     error
	)
	switch method {
	case MethodRepetition:
		payload, err = fec.RepetitionEncode(bits, factor)
	case MethodLinearBlock:
		payload, err = e.coder.Encode(bits, factor)
	default:
		return nil, fec.Errorf(fec.KindUnsupportedParameter, "encode", "unknown method %d", uint8(method))
	}
	if err != nil {
		return nil, err
	}
	h := Header{Method: method, Factor: uint8(factor), SourceLength: uint32(len(bits))}
	frame := make(fec.Bits, 0, HeaderBits+len(payload))
	frame = append(frame, EncodeHeader(h)...)
	frame = append(frame, payload...)
	e.obs.FrameEncoded(h, len(frame))
	return fec.BitsToBytes(frame), nil
}

// State is a decoder stage.
type State int

const (
	StateHeader State = iota
	StatePayload
	StateDone
)

func (s State) String() string {
	switch s {
	case StateHeader:
		return "HEADER"
	case StatePayload:
		return "PAYLOAD"
	case StateDone:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// Decoder parses frames. It is safe for concurrent use; each Decode call
// runs its own state machine.
type Decoder struct {
	coder *fec.LinearBlockCoder
	obs   Observer
	tail  TailPolicy
}

func NewDecoder(opts Options) *Decoder {
	return &Decoder{coder: fec.NewLinearBlockCoder(opts.Catalog), obs: opts.observer(), tail: opts.Tail}
}

// Decode recovers the payload of frame.
func (d *Decoder) Decode(frame []byte) (*Result, error) {
	m := &machine{d: d, bits: fec.BytesToBits(frame)}
	for m.state != StateDone {
		if err := m.step(); err != nil {
			return nil, err
		}
	}
	d.obs.FrameDecoded(m.res.Header, m.res.Stats)
	return &m.res, nil
}

// machine holds the mutable state of one decode.
type machine struct {
	d       *Decoder
	state   State
	bits    fec.Bits
	decoded fec.Bits
	res     Result
}

func (m *machine) step() error {
	switch m.state {
	case StateHeader:
		return m.header()
	case StatePayload:
		return m.payload()
	}
	return nil
}

func (m *machine) header() error {
	h, err := DecodeHeader(m.bits)
	if err != nil {
		return err
	}
	if !h.Method.Valid() {
		return fec.Errorf(fec.KindHeaderCorrupt, "decode", "unknown method tag %d", uint8(h.Method))
	}
	m.res.Header = h
	m.bits = m.bits[HeaderBits:]
	m.state = StatePayload
	return nil
}

func (m *machine) payload() error {
	h := m.res.Header
	want, err := m.expectedPayload(h)
	if err != nil {
		return err
	}
	st := &m.res.Stats
	st.PayloadBits = want
	if len(m.bits) < want {
		if m.d.tail == RejectIncompleteTail {
			return fec.Errorf(fec.KindTruncatedTail, "decode", "payload has %d bits, header implies %d", len(m.bits), want)
		}
		st.Truncated = true
	} else {
		// the rest is byte alignment
		m.bits = m.bits[:want]
	}
	st.ReceivedBits = len(m.bits)

	factor := int(h.Factor)
	switch h.Method {
	case MethodRepetition:
		out, tail, err := fec.RepetitionDecode(m.bits, factor)
		if err != nil {
			return err
		}
		m.decoded = out
		st.Blocks = tail.Groups
	case MethodLinearBlock:
		out, bs, err := m.d.coder.Decode(m.bits, factor)
		if err != nil {
			return err
		}
		m.decoded = out
		st.Blocks = bs.Groups
		st.Corrected = bs.Corrected
		st.Uncorrectable = bs.Uncorrectable
		st.ParityOnly = bs.ParityOnly
	}
	m.finish()
	return nil
}

func (m *machine) expectedPayload(h Header) (int, error) {
	n := int(h.SourceLength)
	switch h.Method {
	case MethodRepetition:
		if !fec.ValidRepetitionFactor(int(h.Factor)) {
			return 0, fec.Errorf(fec.KindUnsupportedFactor, "decode", "repetition factor %d", h.Factor)
		}
		return n * int(h.Factor), nil
	default:
		code, err := m.d.coder.Catalog().Code(int(h.Factor))
		if err != nil {
			return 0, fec.Errorf(fec.KindUnsupportedFactor, "decode", "no linear code for j=%d", h.Factor)
		}
		return code.CodewordBits(n), nil
	}
}

func (m *machine) finish() {
	out := fec.Truncate(m.decoded, int(m.res.Header.SourceLength))
	m.res.Stats.DecodedBits = len(out)
	m.res.Data = fec.BitsToBytes(out)
	m.state = StateDone
}

// Encode builds a frame with the default catalog.
func Encode(method Method, data []byte, factor int) ([]byte, error) {
	return NewEncoder(Options{}).Encode(method, data, factor)
}

// Decode parses a frame with the default catalog and DropIncompleteTail.
func Decode(frame []byte) (*Result, error) {
	return NewDecoder(Options{}).Decode(frame)
}
