package meshdb

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
)

// encodeSeries packs a float64 series into a little-endian blob.
func encodeSeries(s []float64) []byte {
	buf := make([]byte, 8*len(s))
	for i, v := range s {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(v))
	}
	return buf
}

// decodeSeries unpacks a little-endian blob into a float64 series.
func decodeSeries(buf []byte) ([]float64, error) {
	if len(buf)%8 != 0 {
		return nil, fmt.Errorf("blob length %d not a multiple of 8", len(buf))
	}
	s := make([]float64, len(buf)/8)
	for i := range s {
		s[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[8*i:]))
	}
	return s, nil
}

// metaMap is the decoded meta table. Values stay strings until typed access.
type metaMap map[string]string

func (m metaMap) str(key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", fmt.Errorf("missing meta key %q", key)
	}
	return v, nil
}

func (m metaMap) intVal(key string) (int, error) {
	s, err := m.str(key)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("meta key %q: %w", key, err)
	}
	return v, nil
}

func (m metaMap) floatVal(key string) (float64, error) {
	s, err := m.str(key)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("meta key %q: %w", key, err)
	}
	return v, nil
}

func (m metaMap) boolVal(key string) (bool, error) {
	s, err := m.str(key)
	if err != nil {
		return false, err
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("meta key %q: %w", key, err)
	}
	return v, nil
}
