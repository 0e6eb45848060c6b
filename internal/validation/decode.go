package validation

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"pantry_tracker/internal/models"
)

const (
	msgRequired   = "Missing data for required field."
	msgNotNull    = "Field may not be null."
	msgUnknown    = "Unknown field."
	msgNotString  = "Not a valid string."
	msgNotInteger = "Not a valid integer."
	msgNotDate    = "Not a valid date."
)

type fieldOpts uint8

const (
	required fieldOpts = 1 << iota
	nullable
)

// decoder turns a raw payload into tri-state typed fields, collecting type
// errors as it goes. Shape rules (lengths, ranges) are checked afterwards by
// the validator engine.
type decoder struct {
	raw  map[string]any
	errs Errors
}

func newDecoder(raw map[string]any, fields ...string) *decoder {
	d := &decoder{raw: raw, errs: Errors{}}
	known := make(map[string]bool, len(fields))
	for _, f := range fields {
		known[f] = true
	}
	for k := range raw {
		if !known[k] {
			d.errs.Add(k, msgUnknown)
		}
	}
	return d
}

// lookup handles presence and nulls. It reports whether v should be converted.
func (d *decoder) lookup(name string, opts fieldOpts) (v any, supplied, isNull bool) {
	v, ok := d.raw[name]
	if !ok {
		if opts&required != 0 {
			d.errs.Add(name, msgRequired)
		}
		return nil, false, false
	}
	if v == nil {
		if opts&nullable == 0 {
			d.errs.Add(name, msgNotNull)
			return nil, false, false
		}
		return nil, true, true
	}
	return v, true, false
}

func (d *decoder) str(name string, opts fieldOpts) models.Optional[string] {
	v, supplied, isNull := d.lookup(name, opts)
	switch {
	case !supplied:
		return models.Absent[string]()
	case isNull:
		return models.Null[string]()
	}
	s, ok := v.(string)
	if !ok {
		d.errs.Add(name, msgNotString)
		return models.Absent[string]()
	}
	return models.Some(s)
}

func (d *decoder) integer(name string, opts fieldOpts) models.Optional[int] {
	v, supplied, isNull := d.lookup(name, opts)
	switch {
	case !supplied:
		return models.Absent[int]()
	case isNull:
		return models.Null[int]()
	}
	n, ok := toInt(v)
	if !ok {
		d.errs.Add(name, msgNotInteger)
		return models.Absent[int]()
	}
	return models.Some(n)
}

func (d *decoder) date(name string, opts fieldOpts) models.Optional[models.Date] {
	v, supplied, isNull := d.lookup(name, opts)
	switch {
	case !supplied:
		return models.Absent[models.Date]()
	case isNull:
		return models.Null[models.Date]()
	}
	switch t := v.(type) {
	case models.Date:
		return models.Some(t)
	case time.Time:
		return models.Some(models.DateOf(t))
	case string:
		parsed, err := models.ParseDate(t)
		if err == nil {
			return models.Some(parsed)
		}
	}
	d.errs.Add(name, msgNotDate)
	return models.Absent[models.Date]()
}

// toInt accepts Go integers, integral floats (as produced by encoding/json),
// json.Number and decimal strings.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case float32:
		return floatToInt(float64(n))
	case float64:
		return floatToInt(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt(f)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	}
	return 0, false
}

func floatToInt(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	// -MinInt is a power of two, so the bound is exact on 32 and 64 bit.
	if f < float64(math.MinInt) || f >= -float64(math.MinInt) {
		return 0, false
	}
	return int(f), true
}
