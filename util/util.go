package util

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const DefaultPrecision = 4

// NewRand returns a random source owned by a single caller.
// Seed zero picks a time based seed.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// DeriveSeed mixes a base seed with an index so that independent
// runs started from the same base seed get distinct, reproducible streams.
func DeriveSeed(base int64, index int) int64 {
	// splitmix64 finalizer.
	z := uint64(base) + uint64(index+1)*0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	z = z ^ (z >> 31)
	return int64(z & math.MaxInt64)
}

func GetUUID() string {
	return uuid.New().String()
}

func FloatRoundOffWithPrecision(value float64, precision int) (float64, error) {
	valueString := fmt.Sprintf("%0.*f", precision, value)
	roundOffValue, err := strconv.ParseFloat(valueString, 64)
	if err != nil {
		log.WithFields(log.Fields{"value": value,
			"precision": precision}).Error("error while rounding off float value")
		return roundOffValue, err
	}
	return roundOffValue, nil
}

// SafeDivide returns numerator/denominator or zero when the denominator is zero.
func SafeDivide(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

// CeilToInt rounds up and saturates at math.MaxInt.
func CeilToInt(value float64) int {
	if math.IsNaN(value) {
		return 0
	}
	c := math.Ceil(value)
	if c >= float64(math.MaxInt) {
		return math.MaxInt
	}
	if c <= 0 {
		return 0
	}
	return int(c)
}

func MinInt(a int, b int) int {
	if a < b {
		return a
	}
	return b
}

func MaxInt(a int, b int) int {
	if a > b {
		return a
	}
	return b
}

func SecondsToHMSString(totalSeconds int64) string {
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	return fmt.Sprintf("%dH %dM %dS", hours, minutes, seconds)
}
