package stats

import (
	"encoding/csv"
	"errors"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/francoispqt/gojay"
	"github.com/segmentio/ksuid"
)

// Row is one line of a transmission report.
type Row struct {
	RunID            string
	Original         string
	Encoded          string
	Decoded          string
	Method           string
	Factor           int
	BitErrorRate     float64
	RateBefore       float64
	RateAfter        float64
	CompressionRatio float64
	OriginalDigest   string
	DecodedDigest    string
}

var csvHeader = []string{
	"run id", "file before encoding", "file after encoding", "file after decoding",
	"method", "factor", "bit error rate",
	"information transfer efficiency of source", "information transfer efficiency of channel",
	"compression ratio", "original blake2b", "decoded blake2b",
}

func f64(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func (r Row) record() []string {
	return []string{
		r.RunID, r.Original, r.Encoded, r.Decoded,
		r.Method, strconv.Itoa(r.Factor), f64(r.BitErrorRate),
		f64(r.RateBefore), f64(r.RateAfter),
		f64(r.CompressionRatio), r.OriginalDigest, r.DecodedDigest,
	}
}

// AppendCSV appends row to the CSV file at path, writing the header row first
// when the file does not exist yet. An empty RunID is filled with a new KSUID.
func AppendCSV(path string, row Row) error {
	if row.RunID == "" {
		row.RunID = ksuid.New().String()
	}
	_, err := os.Stat(path)
	fresh := errors.Is(err, fs.ErrNotExist)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if fresh {
		_ = w.Write(csvHeader)
	}
	_ = w.Write(row.record())
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// MarshalJSONObject implements gojay.MarshalerJSONObject.
func (r *Row) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("run_id", r.RunID)
	enc.StringKeyOmitEmpty("original", r.Original)
	enc.StringKeyOmitEmpty("encoded", r.Encoded)
	enc.StringKeyOmitEmpty("decoded", r.Decoded)
	enc.StringKey("method", r.Method)
	enc.IntKey("factor", r.Factor)
	enc.Float64Key("ber", r.BitErrorRate)
	enc.Float64Key("rate_before", r.RateBefore)
	enc.Float64Key("rate_after", r.RateAfter)
	enc.Float64Key("compression_ratio", r.CompressionRatio)
	enc.StringKeyOmitEmpty("original_blake2b", r.OriginalDigest)
	enc.StringKeyOmitEmpty("decoded_blake2b", r.DecodedDigest)
}

// IsNil implements gojay.MarshalerJSONObject.
func (r *Row) IsNil() bool { return r == nil }

// WriteJSONLine writes obj as a single JSON line.
func WriteJSONLine(w io.Writer, obj gojay.MarshalerJSONObject) error {
	b, err := gojay.MarshalJSONObject(obj)
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}
