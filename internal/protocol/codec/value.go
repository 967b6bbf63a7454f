package codec

// Encode accepts any Go integer type for integer kinds as long as the value
// fits the field; decoded records use the exact type for each kind.

func integer(v any) (i int64, u uint64, unsigned bool, ok bool) {
	switch x := v.(type) {
	case int:
		return int64(x), 0, false, true
	case int8:
		return int64(x), 0, false, true
	case int16:
		return int64(x), 0, false, true
	case int32:
		return int64(x), 0, false, true
	case int64:
		return x, 0, false, true
	case uint:
		return 0, uint64(x), true, true
	case uint8:
		return 0, uint64(x), true, true
	case uint16:
		return 0, uint64(x), true, true
	case uint32:
		return 0, uint64(x), true, true
	case uint64:
		return 0, x, true, true
	default:
		return 0, 0, false, false
	}
}

func asUnsigned(v any, max uint64) (uint64, error) {
	i, u, unsigned, ok := integer(v)
	if !ok {
		return 0, ErrValueType
	}
	if !unsigned {
		if i < 0 {
			return 0, ErrValueRange
		}
		u = uint64(i)
	}
	if u > max {
		return 0, ErrValueRange
	}
	return u, nil
}

func asSigned(v any, min, max int64) (int64, error) {
	i, u, unsigned, ok := integer(v)
	if !ok {
		return 0, ErrValueType
	}
	if unsigned {
		if u > uint64(max) {
			return 0, ErrValueRange
		}
		return int64(u), nil
	}
	if i < min || i > max {
		return 0, ErrValueRange
	}
	return i, nil
}

// maxExactFloat is the largest magnitude up to which every integer has an
// exact float64 representation.
const maxExactFloat = 1 << 53

// asFloat rejects integers that float64 cannot hold exactly.
func asFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	}
	i, u, unsigned, ok := integer(v)
	if !ok {
		return 0, ErrValueType
	}
	if unsigned {
		if u > maxExactFloat {
			return 0, ErrValueRange
		}
		return float64(u), nil
	}
	if i > maxExactFloat || i < -maxExactFloat {
		return 0, ErrValueRange
	}
	return float64(i), nil
}

// asChars returns the wire bytes for a character field.
func asChars(v any) ([]byte, error) {
	switch x := v.(type) {
	case string:
		return encodeChars(x)
	case []byte:
		return x, nil
	default:
		return nil, ErrValueType
	}
}

// asBinary accepts []byte, or a string holding raw bytes.
func asBinary(v any) ([]byte, error) {
	switch x := v.(type) {
	case []byte:
		return x, nil
	case string:
		return []byte(x), nil
	default:
		return nil, ErrValueType
	}
}
