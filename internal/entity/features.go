package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Features is an ordered feature vector. NaN marks a slot whose raw input
// could not be parsed; on the wire and at rest it is written as JSON null.
type Features []float64

// NewFeatures returns a vector of FeatureCount NaN slots.
func NewFeatures() Features {
	f := make(Features, FeatureCount)
	for i := range f {
		f[i] = math.NaN()
	}
	return f
}

func (f Features) MarshalJSON() ([]byte, error) {
	if f == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, v := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			buf.WriteString("null")
			continue
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func (f *Features) UnmarshalJSON(data []byte) error {
	var raw []*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode features: %w", err)
	}
	if raw == nil {
		*f = nil
		return nil
	}
	out := make(Features, len(raw))
	for i, v := range raw {
		if v == nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = *v
	}
	*f = out
	return nil
}

// Equal compares two vectors treating NaN slots as equal to each other.
func (f Features) Equal(other Features) bool {
	if len(f) != len(other) {
		return false
	}
	for i := range f {
		a, b := f[i], other[i]
		if math.IsNaN(a) && math.IsNaN(b) {
			continue
		}
		if a != b {
			return false
		}
	}
	return true
}
