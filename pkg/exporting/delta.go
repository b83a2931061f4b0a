package exporting

// Delta metadata keys.
const (
	KeyDeltaStart    = "delta_start"
	KeyDeltaDuration = "delta_duration_ms"
)

// DeltaRecord subtracts the numeric values of initial from final. Both
// records must be flat. Non-numeric values and keys missing from initial
// carry the final value; keys only in initial are kept as they were.
func DeltaRecord(initial, final Record, durationMs int64) Record {
	if initial == nil || final == nil {
		return final
	}

	result := make(Record, len(final)+2)

	if startTs, ok := initial[KeyTimestamp]; ok {
		result[KeyDeltaStart] = startTs
	}
	if endTs, ok := final[KeyTimestamp]; ok {
		result[KeyTimestamp] = endTs
	}
	result[KeyDeltaDuration] = durationMs

	for key, finalVal := range final {
		if key == KeyTimestamp {
			continue
		}

		initialVal, hasInitial := initial[key]
		if !hasInitial {
			result[key] = finalVal
			continue
		}

		if delta, ok := computeDelta(initialVal, finalVal); ok {
			result[key] = delta
		} else {
			result[key] = finalVal
		}
	}

	for key, initialVal := range initial {
		if _, exists := result[key]; !exists {
			result[key] = initialVal
		}
	}

	return result
}

func computeDelta(initial, final any) (any, bool) {
	if initInt, ok := ToInt64(initial); ok {
		if finalInt, ok := ToInt64(final); ok {
			return finalInt - initInt, true
		}
	}

	if initFloat, ok := ToFloat64(initial); ok {
		if finalFloat, ok := ToFloat64(final); ok {
			return finalFloat - initFloat, true
		}
	}

	return nil, false
}
