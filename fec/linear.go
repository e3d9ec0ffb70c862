package fec

// BlockStats summarizes a linear block decode.
type BlockStats struct {
	TailReport

	Corrected     int // rows with one information bit flipped back
	Uncorrectable int // rows with a nonzero syndrome left as received
	ParityOnly    int // share of Uncorrectable whose syndrome named a parity column
}

// LinearBlockCoder encodes and decodes with the codes of one catalog.
type LinearBlockCoder struct {
	catalog *Catalog
}

// NewLinearBlockCoder binds a coder to cat; nil selects DefaultCatalog.
func NewLinearBlockCoder(cat *Catalog) *LinearBlockCoder {
	if cat == nil {
		cat = DefaultCatalog()
	}
	return &LinearBlockCoder{catalog: cat}
}

// Catalog returns the catalog the coder was built with.
func (c *LinearBlockCoder) Catalog() *Catalog { return c.catalog }

func (c *LinearBlockCoder) code(op string, j int) (*Code, error) {
	code, err := c.catalog.Code(j)
	if err != nil {
		return nil, Errorf(KindUnsupportedFactor, op, "j=%d not in %v", j, c.catalog.Params())
	}
	return code, nil
}

// Encode zero-pads bits to a multiple of k, maps every k-bit row to row·G mod 2,
// and zero-pads the flattened codewords to a byte boundary. The caller keeps
// track of the unpadded length.
func (c *LinearBlockCoder) Encode(bits Bits, j int) (Bits, error) {
	code, err := c.code("linear-encode", j)
	if err != nil {
		return nil, err
	}
	padded, _ := PadToBlock(bits, code.K)
	rows := len(padded) / code.K
	out := make(Bits, rows*code.N)
	for r := 0; r < rows; r++ {
		rowMulGF2(out[r*code.N:(r+1)*code.N], padded[r*code.K:(r+1)*code.K], code.G)
	}
	out, _ = PadToBlock(out, 8)
	return out, nil
}

// Decode splits bits into n-bit rows (dropping an incomplete final row),
// corrects a single information-bit error per row via the syndrome table and
// returns the concatenated k-bit information words.
func (c *LinearBlockCoder) Decode(bits Bits, j int) (Bits, BlockStats, error) {
	code, err := c.code("linear-decode", j)
	if err != nil {
		return nil, BlockStats{}, err
	}
	rows := len(bits) / code.N
	stats := BlockStats{TailReport: TailReport{Groups: rows, TailBits: len(bits) - rows*code.N}}
	out := make(Bits, rows*code.K)
	row := make([]uint8, code.N)
	for r := 0; r < rows; r++ {
		copy(row, bits[r*code.N:(r+1)*code.N])
		if s := code.Syndrome(row); s != 0 {
			col, ok := code.Locate(s)
			switch {
			case ok && col < code.K:
				row[col] ^= 1
				stats.Corrected++
			case ok:
				stats.Uncorrectable++
				stats.ParityOnly++
			default:
				stats.Uncorrectable++
			}
		}
		copy(out[r*code.K:(r+1)*code.K], row[:code.K])
	}
	return out, stats, nil
}

// EncodedLength returns the payload bit count Encode produces for sourceBits
// input bits, including byte alignment.
func (code *Code) EncodedLength(sourceBits int) int {
	rows := (sourceBits + code.K - 1) / code.K
	n := rows * code.N
	return (n + 7) / 8 * 8
}

// CodewordBits returns the bit count of the codeword rows alone, without byte alignment.
func (code *Code) CodewordBits(sourceBits int) int {
	return (sourceBits + code.K - 1) / code.K * code.N
}
