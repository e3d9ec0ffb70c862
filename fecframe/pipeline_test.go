package fecframe

import (
	"math/rand"
	"testing"

	"github.com/observe-l/fecchan/fec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestEndToEndSingleByteRepetition(t *testing.T) {
	frame, err := Encode(MethodRepetition, []byte{0xAC}, 3)
	require.NoError(t, err)
	require.Len(t, frame, (HeaderBits+24)/8)

	bits := fec.BytesToBits(frame)
	h, err := DecodeHeader(bits)
	require.NoError(t, err)
	assert.Equal(t, Header{MethodRepetition, 3, 8}, h)
	assert.Equal(t, "111000111000111111000000", bits[HeaderBits:].String())

	res, err := Decode(frame)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAC}, res.Data)
	assert.Equal(t, 24, res.Stats.PayloadBits)
	assert.Equal(t, 8, res.Stats.DecodedBits)
	assert.False(t, res.Stats.Truncated)
}

func TestRoundTripAllCodes(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	type codeCase struct {
		method Method
		factor int
	}
	var cases []codeCase
	for _, n := range fec.RepetitionFactors {
		cases = append(cases, codeCase{MethodRepetition, n})
	}
	for _, j := range fec.DefaultCatalog().Params() {
		cases = append(cases, codeCase{MethodLinearBlock, j})
	}
	for _, tc := range cases {
		for _, size := range []int{0, 1, 3, 7, 64, 513} {
			data := make([]byte, size)
			rng.Read(data)
			frame, err := Encode(tc.method, data, tc.factor)
			require.NoError(t, err)
			res, err := Decode(frame)
			require.NoError(t, err)
			assert.Equal(t, data, res.Data, "%s/%d size=%d", tc.method, tc.factor, size)
			assert.Equal(t, uint32(size*8), res.Header.SourceLength)
			assert.Zero(t, res.Stats.Corrected)
		}
	}
}

func TestDecodeCorrectsOneErrorPerBlock(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	for _, j := range fec.DefaultCatalog().Params() {
		code, err := fec.DefaultCatalog().Code(j)
		require.NoError(t, err)
		data := make([]byte, 200)
		rng.Read(data)
		frame, err := Encode(MethodLinearBlock, data, j)
		require.NoError(t, err)

		bits := fec.BytesToBits(frame)
		rows := code.CodewordBits(len(data)*8) / code.N
		for r := 0; r < rows; r++ {
			bits[HeaderBits+r*code.N+rng.Intn(code.K)] ^= 1
		}
		res, err := Decode(fec.BitsToBytes(bits))
		require.NoError(t, err)
		assert.Equal(t, data, res.Data, "j=%d", j)
		assert.Equal(t, rows, res.Stats.Corrected)
		assert.Equal(t, rows, res.Stats.Blocks)
	}
}

func TestEncodeRejectsBadParameters(t *testing.T) {
	_, err := Encode(MethodRepetition, []byte{1}, 4)
	assert.ErrorIs(t, err, fec.ErrUnsupportedFactor)
	_, err = Encode(MethodLinearBlock, []byte{1}, 6)
	assert.ErrorIs(t, err, fec.ErrUnsupportedFactor)
	out, err := Encode(Method(2), []byte{1}, 3)
	assert.ErrorIs(t, err, fec.ErrUnsupportedParameter)
	assert.Nil(t, out)
}

func TestDecodeCorruptHeader(t *testing.T) {
	_, err := Decode(make([]byte, HeaderBits/8-1))
	assert.ErrorIs(t, err, fec.ErrHeaderCorrupt)

	frame := fec.BitsToBytes(EncodeHeader(Header{Method: 5, Factor: 3, SourceLength: 8}))
	_, err = Decode(frame)
	assert.ErrorIs(t, err, fec.ErrHeaderCorrupt)

	frame = fec.BitsToBytes(EncodeHeader(Header{Method: MethodRepetition, Factor: 4, SourceLength: 8}))
	_, err = Decode(frame)
	assert.ErrorIs(t, err, fec.ErrUnsupportedFactor)
}

func TestDecodeTruncatedTail(t *testing.T) {
	data := []byte("truncated payload")
	frame, err := Encode(MethodLinearBlock, data, 3)
	require.NoError(t, err)
	short := frame[:len(frame)-3]

	res, err := NewDecoder(Options{}).Decode(short)
	require.NoError(t, err)
	assert.True(t, res.Stats.Truncated)
	assert.Less(t, res.Stats.DecodedBits, len(data)*8)
	assert.Equal(t, data[:len(res.Data)-1], res.Data[:len(res.Data)-1])

	_, err = NewDecoder(Options{Tail: RejectIncompleteTail}).Decode(short)
	assert.ErrorIs(t, err, fec.ErrTruncatedTail)

	// a full frame passes under either policy
	res, err = NewDecoder(Options{Tail: RejectIncompleteTail}).Decode(frame)
	require.NoError(t, err)
	assert.Equal(t, data, res.Data)
}

func TestByteAlignmentIsNotDecoded(t *testing.T) {
	// 7 bytes at (7,4): 14 rows of 7 bits, 98 bits padded to 104
	data := []byte("abcdefg")
	frame, err := Encode(MethodLinearBlock, data, 3)
	require.NoError(t, err)
	res, err := Decode(frame)
	require.NoError(t, err)
	assert.Equal(t, 14, res.Stats.Blocks)
	assert.Equal(t, 98, res.Stats.PayloadBits)
	assert.False(t, res.Stats.Truncated)
}

func TestObserverNotified(t *testing.T) {
	ctrl := gomock.NewController(t)
	obs := NewMockObserver(ctrl)
	h := Header{MethodLinearBlock, 4, 16}

	// 16 bits at (15,11): two rows, 30 bits aligned to 32
	obs.EXPECT().FrameEncoded(h, HeaderBits+32)
	enc := NewEncoder(Options{Observer: obs})
	frame, err := enc.Encode(MethodLinearBlock, []byte{0xBE, 0xEF}, 4)
	require.NoError(t, err)

	obs.EXPECT().FrameDecoded(h, gomock.Any()).Do(func(_ Header, st Stats) {
		assert.Equal(t, 2, st.Blocks)
		assert.Equal(t, 16, st.DecodedBits)
	})
	res, err := NewDecoder(Options{Observer: obs}).Decode(frame)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xBE, 0xEF}, res.Data)
}

func TestDecoderNoObserverOnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	obs := NewMockObserver(ctrl)
	_, err := NewDecoder(Options{Observer: obs}).Decode([]byte{1, 2, 3})
	assert.Error(t, err)
}
