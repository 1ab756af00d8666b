package google

import (
	"encoding/json"
	"math"
	"strings"
)

// record - одна запись из ответа Google; поля разбираются по отдельности,
// чтобы неверный тип одного поля не отбрасывал всю запись
type record map[string]json.RawMessage

func decodeRecord(raw json.RawMessage) (record, bool) {
	var r record
	if err := json.Unmarshal(raw, &r); err != nil || r == nil {
		return nil, false
	}
	return r, true
}

// present - поле есть и не равно null
func (r record) present(name string) bool {
	raw, ok := r[name]
	return ok && strings.TrimSpace(string(raw)) != "null"
}

func (r record) str(name string) string {
	s, _ := r.strOK(name)
	return s
}

// strOK - строковое поле; ok=false если поля нет или это не строка
func (r record) strOK(name string) (string, bool) {
	if !r.present(name) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(r[name], &s); err != nil {
		return "", false
	}
	return s, true
}

func (r record) number(name string) (float64, bool) {
	if !r.present(name) {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(r[name], &f); err != nil {
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func (r record) nested(name string) record {
	nested, _ := decodeRecord(r[name])
	return nested
}

func (r record) floatPtr(name string) *float64 {
	f, ok := r.number(name)
	if !ok {
		return nil
	}
	return &f
}

func (r record) intPtr(name string) *int {
	f, ok := r.number(name)
	if !ok {
		return nil
	}
	n := int(math.Round(f))
	return &n
}

func (r record) boolPtr(name string) *bool {
	if !r.present(name) {
		return nil
	}
	var b bool
	if err := json.Unmarshal(r[name], &b); err != nil {
		return nil
	}
	return &b
}

// location возвращает geometry.location; ok=false если координаты не числа
func (r record) location() (lat, lng float64, ok bool) {
	loc := r.nested("geometry").nested("location")
	lat, latOK := loc.number("lat")
	lng, lngOK := loc.number("lng")
	return lat, lng, latOK && lngOK
}
