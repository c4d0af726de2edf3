package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// This file is the JSON wire codec named in the external interfaces: a
// program is {"functions": [...]}, a function is {"name", "args"?,
// "instrs"}, plus the optional "blocks"/"cfg" sections a pass may add.
// Field order in emission mirrors insertion order, per the data model note
// on ordered containers.

// MarshalJSON renders a Type as a bare string name, or {"ptr": <type>} for
// pointer types.
func (t Type) MarshalJSON() ([]byte, error) {
	if t.Ptr != nil {
		return json.Marshal(struct {
			Ptr *Type `json:"ptr"`
		}{t.Ptr})
	}
	return json.Marshal(t.Name)
}

// UnmarshalJSON accepts either a bare string or {"ptr": <type>}.
func (t *Type) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*t = Type{Name: name}
		return nil
	}
	var wrapped struct {
		Ptr *Type `json:"ptr"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return fmt.Errorf("ir: invalid type %s: %w", data, err)
	}
	*t = Type{Ptr: wrapped.Ptr}
	return nil
}

// instructionWire is the on-the-wire shape of Instruction; field order here
// is the emitted field order.
type instructionWire struct {
	Op     string          `json:"op,omitempty"`
	Label  string          `json:"label,omitempty"`
	Dest   string          `json:"dest,omitempty"`
	Type   *Type           `json:"type,omitempty"`
	Args   []string        `json:"args,omitempty"`
	Labels []string        `json:"labels,omitempty"`
	Funcs  []string        `json:"funcs,omitempty"`
	Value  json.RawMessage `json:"value,omitempty"`
}

// MarshalJSON renders the instruction, coercing a literal value to its
// natural JSON shape.
func (i Instruction) MarshalJSON() ([]byte, error) {
	w := instructionWire{
		Op:     i.Op,
		Label:  i.Label,
		Dest:   i.Dest,
		Args:   i.Args,
		Labels: i.Labels,
		Funcs:  i.Funcs,
	}
	if !i.Type.IsZero() {
		t := i.Type
		w.Type = &t
	}
	if i.Value != nil {
		raw, err := json.Marshal(i.Value)
		if err != nil {
			return nil, fmt.Errorf("ir: marshal value for %q: %w", i.Op, err)
		}
		w.Value = raw
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes an instruction, coercing a const's literal value to
// int64 or bool per its declared type so later passes can compare and fold
// values without re-parsing JSON numbers. A record with no "op" is a label
// marker.
func (i *Instruction) UnmarshalJSON(data []byte) error {
	var w instructionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*i = Instruction{
		Op:     w.Op,
		Label:  w.Label,
		Dest:   w.Dest,
		Args:   w.Args,
		Labels: w.Labels,
		Funcs:  w.Funcs,
	}
	if w.Type != nil {
		i.Type = *w.Type
	}
	if len(w.Value) == 0 {
		return nil
	}
	v, err := decodeLiteral(w.Value, i.Type)
	if err != nil {
		return fmt.Errorf("ir: decode value for %q: %w", i.Op, err)
	}
	i.Value = v
	return nil
}

// decodeLiteral interprets a raw JSON literal according to the
// instruction's declared type, so "int" consts become Go int64 and "bool"
// consts become Go bool (rather than both collapsing to float64/any, which
// would make 0 and false compare equal downstream).
func decodeLiteral(raw json.RawMessage, t Type) (any, error) {
	switch t.Name {
	case "int":
		var n int64
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		return n, nil
	case "bool":
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, err
		}
		return b, nil
	default:
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		// A bare integer with no declared type still decodes to a
		// whole number; prefer int64 over float64 so equality checks
		// in constant propagation behave as expected.
		if f, ok := v.(float64); ok && f == float64(int64(f)) {
			return int64(f), nil
		}
		return v, nil
	}
}

// paramWire is Param's wire shape.
type paramWire struct {
	Name string `json:"name"`
	Type Type   `json:"type"`
}

func (p Param) MarshalJSON() ([]byte, error) {
	return json.Marshal(paramWire{Name: p.Name, Type: p.Type})
}

func (p *Param) UnmarshalJSON(data []byte) error {
	var w paramWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*p = Param{Name: w.Name, Type: w.Type}
	return nil
}

// functionWire is Function's wire shape; Blocks/CFG are only present once
// the corresponding CLI pass has run.
type functionWire struct {
	Name   string                     `json:"name"`
	Args   []Param                    `json:"args,omitempty"`
	Instrs []Instruction              `json:"instrs,omitempty"`
	Blocks *OrderedMap[[]Instruction] `json:"blocks,omitempty"`
	CFG    *OrderedMap[[]string]      `json:"cfg,omitempty"`
}

func (f Function) MarshalJSON() ([]byte, error) {
	return json.Marshal(functionWire{
		Name:   f.Name,
		Args:   f.Args,
		Instrs: f.Instrs,
		Blocks: f.Blocks,
		CFG:    f.CFG,
	})
}

func (f *Function) UnmarshalJSON(data []byte) error {
	var w functionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*f = Function{Name: w.Name, Args: w.Args, Instrs: w.Instrs, Blocks: w.Blocks, CFG: w.CFG}
	return nil
}

// programWire is Program's wire shape: {"functions": [...]}.
type programWire struct {
	Functions []*Function `json:"functions"`
}

func (p Program) MarshalJSON() ([]byte, error) {
	fns := p.Functions
	if fns == nil {
		fns = []*Function{}
	}
	return json.Marshal(programWire{Functions: fns})
}

func (p *Program) UnmarshalJSON(data []byte) error {
	var w programWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	p.Functions = w.Functions
	return nil
}

// MarshalJSON renders the ordered map preserving insertion order, which a
// plain Go map cannot do (its key iteration is randomized).
func (m *OrderedMap[V]) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an ordered map, preserving the key order of the
// input document (json.Decoder.Token reads object keys in document order).
func (m *OrderedMap[V]) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("ir: expected JSON object, got %v", tok)
	}
	fresh := NewOrderedMap[V]()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("ir: expected object key, got %v", keyTok)
		}
		var v V
		if err := dec.Decode(&v); err != nil {
			return err
		}
		fresh.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*m = *fresh
	return nil
}
