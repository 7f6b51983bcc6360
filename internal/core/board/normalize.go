package board

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Normalize produces a well-formed Document from arbitrary decoded JSON
// (typically map[string]any from local storage or a remote payload).
//
// Each collection is taken from raw when it is a JSON array and falls back to
// the canonical default otherwise. Array elements are decoded best-effort:
// objects become entities with mismatched fields left zero, anything else is
// dropped. Info is merged field by field over the default info. Normalize
// never fails and never panics.
func Normalize(raw any) Document {
	fields := asObject(raw)
	def := Default()

	return Document{
		Outbound:     decodeList(fields["outbound"], def.Outbound),
		Inbound:      decodeList(fields["inbound"], def.Inbound),
		Weekly:       decodeList(fields["weekly"], def.Weekly),
		Imports:      decodeList(fields["imports"], def.Imports),
		ProgressBars: decodeList(fields["progressBars"], def.ProgressBars),
		Info:         mergeInfo(fields["info"], def.Info),
		LastUpdated:  stringValue(fields["lastUpdated"], def.LastUpdated),
	}
}

// Decode parses JSON text and normalizes it. A syntax error is returned
// alongside the default document so callers can decide whether to fall back.
func Decode(data []byte) (Document, error) {
	raw, err := DecodeRaw(data)
	if err != nil {
		return Default(), fmt.Errorf("decode document: %w", err)
	}
	return Normalize(raw), nil
}

// Encode serializes doc as the JSON text exchanged with storage and the
// remote store.
func Encode(doc Document) ([]byte, error) {
	return json.Marshal(doc.Clone())
}

// HasUpdateMarker reports whether a decoded payload carries a usable
// lastUpdated marker. Payloads without one are not treated as documents.
func HasUpdateMarker(raw any) bool {
	obj, ok := raw.(map[string]any)
	if !ok {
		return false
	}

	switch v := obj["lastUpdated"].(type) {
	case string:
		return v != ""
	case json.Number:
		f, err := v.Float64()
		return err == nil && f != 0
	case float64:
		return v != 0
	case bool:
		return v
	case nil:
		return false
	default:
		return true
	}
}

// Equal reports whether two documents are structurally equal. Nil and empty
// collections compare equal.
func Equal(a, b Document) bool {
	return cmp.Equal(a, b, cmpopts.EquateEmpty())
}

// DecodeRaw parses JSON text into generic values, keeping numbers exact.
func DecodeRaw(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func asObject(raw any) map[string]any {
	switch v := raw.(type) {
	case map[string]any:
		return v
	case Document:
		return toObject(v)
	case *Document:
		if v == nil {
			return nil
		}
		return toObject(*v)
	default:
		return nil
	}
}

func toObject(doc Document) map[string]any {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil
	}

	raw, err := DecodeRaw(data)
	if err != nil {
		return nil
	}

	obj, _ := raw.(map[string]any)
	return obj
}

func decodeList[T any](v any, fallback []T) []T {
	items, ok := v.([]any)
	if !ok {
		return cloneSlice(fallback)
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}

		data, err := json.Marshal(obj)
		if err != nil {
			continue
		}

		// Type mismatches leave the affected field zero; the rest still decodes.
		var entity T
		_ = json.Unmarshal(data, &entity)
		out = append(out, entity)
	}

	return out
}

func mergeInfo(v any, fallback Info) Info {
	obj, ok := v.(map[string]any)
	if !ok {
		return fallback
	}

	info := fallback
	if n, err := toInt(obj["totalStock"]); err == nil {
		info.TotalStock = n
	}
	if s, ok := obj["recebimentoNote"].(string); ok {
		info.RecebimentoNote = s
	}
	if s, ok := obj["expedicaoNote"].(string); ok {
		info.ExpedicaoNote = s
	}
	return info
}

func stringValue(v any, fallback string) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fallback
	}
}

// toInt converts the numeric shapes produced by JSON decoding and by the
// editing widget (which commits strings) into an int.
func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case int32:
		return int(n), nil
	case float64:
		return floatToInt(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), nil
		}
		f, err := n.Float64()
		if err != nil {
			return 0, ErrInvalidValue
		}
		return floatToInt(f)
	case string:
		s := strings.TrimSpace(n)
		if i, err := strconv.Atoi(s); err == nil {
			return i, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, ErrInvalidValue
		}
		return floatToInt(f)
	default:
		return 0, ErrInvalidValue
	}
}

func floatToInt(f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, ErrInvalidValue
	}
	return int(f), nil
}
