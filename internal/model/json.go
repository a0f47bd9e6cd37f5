package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// rawEntry mirrors Entry with undecoded values so records written by older
// imports (numbers as strings, strings as numbers, nulls) still load.
type rawEntry struct {
	Date         json.RawMessage `json:"date"`
	Time         json.RawMessage `json:"time"`
	Intensity    json.RawMessage `json:"intensity"`
	Water        json.RawMessage `json:"water"`
	ComputerTime json.RawMessage `json:"computerTime"`
	InOffice     json.RawMessage `json:"inOffice"`
	Notes        json.RawMessage `json:"notes"`
}

// UnmarshalJSON decodes an entry record leniently. The only hard requirement
// is a string date; anything else that cannot be coerced is an error.
func (e *Entry) UnmarshalJSON(data []byte) error {
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return fmt.Errorf("entry record is not an object")
	}
	var raw rawEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var out Entry
	date, err := jsonText(raw.Date)
	if err != nil || date == "" {
		return fmt.Errorf("entry record has no date")
	}
	out.Date = date
	if out.Time, err = jsonText(raw.Time); err != nil {
		return fmt.Errorf("time: %w", err)
	}
	if out.Notes, err = jsonText(raw.Notes); err != nil {
		return fmt.Errorf("notes: %w", err)
	}
	if out.Intensity, err = jsonInt(raw.Intensity); err != nil {
		return fmt.Errorf("intensity: %w", err)
	}
	if out.Water, err = jsonInt(raw.Water); err != nil {
		return fmt.Errorf("water: %w", err)
	}
	if out.ComputerTime, err = jsonFloat(raw.ComputerTime); err != nil {
		return fmt.Errorf("computerTime: %w", err)
	}
	if out.InOffice, err = jsonBool(raw.InOffice); err != nil {
		return fmt.Errorf("inOffice: %w", err)
	}
	*e = out
	return nil
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

func jsonText(raw json.RawMessage) (string, error) {
	if isNull(raw) {
		return "", nil
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return "", err
	}
	switch x := v.(type) {
	case string:
		return x, nil
	case json.Number:
		return x.String(), nil
	case bool:
		return strconv.FormatBool(x), nil
	default:
		return "", fmt.Errorf("unexpected value %s", raw)
	}
}

func jsonFloat(raw json.RawMessage) (*float64, error) {
	s, err := jsonText(raw)
	if err != nil {
		return nil, err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%q is not a number", s)
	}
	return &f, nil
}

func jsonInt(raw json.RawMessage) (*int, error) {
	f, err := jsonFloat(raw)
	if err != nil || f == nil {
		return nil, err
	}
	v, ok := WholeNumber(*f)
	if !ok {
		return nil, fmt.Errorf("%v is not a whole number", *f)
	}
	return &v, nil
}

func jsonBool(raw json.RawMessage) (bool, error) {
	s, err := jsonText(raw)
	if err != nil {
		return false, err
	}
	switch strings.TrimSpace(s) {
	case "", "false", "0":
		return false, nil
	case "true", "1":
		return true, nil
	}
	return false, fmt.Errorf("%q is not a boolean", s)
}
