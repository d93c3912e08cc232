package util

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// GetFloatListFromString parses a comma separated list like "0.1,0.05,0.01".
// Empty entries are skipped.
func GetFloatListFromString(floatListSepByComma string) ([]float64, error) {
	values := make([]float64, 0)
	for _, s := range strings.Split(floatListSepByComma, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid float %q in list", s)
		}
		values = append(values, v)
	}
	return values, nil
}

// GetStringListFromString splits a comma separated list and drops empty entries.
func GetStringListFromString(stringListSepByComma string) []string {
	values := make([]string, 0)
	for _, s := range strings.Split(stringListSepByComma, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		values = append(values, s)
	}
	return values
}
