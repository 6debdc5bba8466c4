package payload

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// ECLevel is the QR error-correction level the renderer will use.
type ECLevel string

const (
	ECLow      ECLevel = "L"
	ECMedium   ECLevel = "M"
	ECQuartile ECLevel = "Q"
	ECHigh     ECLevel = "H"
)

const DefaultECLevel = ECMedium

// Byte-mode data capacity of a version 40 symbol.
var maxBytes = map[ECLevel]int{
	ECLow:      2953,
	ECMedium:   2331,
	ECQuartile: 1663,
	ECHigh:     1273,
}

func ParseECLevel(v string) (ECLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "":
		return DefaultECLevel, nil
	case "L", "LOW":
		return ECLow, nil
	case "M", "MEDIUM":
		return ECMedium, nil
	case "Q", "QUARTILE":
		return ECQuartile, nil
	case "H", "HIGH":
		return ECHigh, nil
	default:
		return "", fmt.Errorf("invalid error-correction level: %s", v)
	}
}

// Capacity returns the largest payload, in bytes, a symbol at level can hold.
func Capacity(level ECLevel) int {
	if n, ok := maxBytes[level]; ok {
		return n
	}
	return maxBytes[DefaultECLevel]
}

type CapacityError struct {
	Size  int
	Limit int
	Level ECLevel
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("cannot encode: payload too large (%s, level %s holds at most %s)",
		humanize.Bytes(uint64(e.Size)), e.Level, humanize.Bytes(uint64(e.Limit)))
}

// CheckCapacity reports whether payload fits in the largest QR symbol at level.
func CheckCapacity(payload string, level ECLevel) error {
	if _, ok := maxBytes[level]; !ok {
		level = DefaultECLevel
	}
	limit := Capacity(level)
	if len(payload) > limit {
		return &CapacityError{Size: len(payload), Limit: limit, Level: level}
	}
	return nil
}
