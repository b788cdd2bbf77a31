package sensor

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"agrobox/internal/models"
)

var ErrBadLine = errors.New("malformed sensor line")

// ParseLine decodes one CSV line from the rig controller:
// "soil,light" or "soil,light,temperature,humidity". A field that reads
// as NaN (failed probe) is left nil.
func ParseLine(line string) (models.SensorSample, error) {
	line = strings.TrimSpace(line)
	fields := strings.Split(line, ",")
	if len(fields) != 2 && len(fields) != 4 {
		return models.SensorSample{}, fmt.Errorf("%w: %q has %d fields", ErrBadLine, line, len(fields))
	}

	vals := make([]*float64, 4)
	for i, f := range fields {
		f = strings.TrimSpace(f)
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return models.SensorSample{}, fmt.Errorf("%w: field %d %q", ErrBadLine, i+1, f)
		}
		if math.IsNaN(v) {
			continue
		}
		vals[i] = &v
	}
	return models.SensorSample{
		Moisture:    vals[0],
		Light:       vals[1],
		Temperature: vals[2],
		Humidity:    vals[3],
	}, nil
}
