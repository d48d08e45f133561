package steamworks

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// marshal is json.Marshal without escaping of <, > and &, descriptions
// are full of them.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(v)
	if err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// ParamSpec documents one request parameter of an endpoint.
type ParamSpec struct {
	Type string `json:"type"`
	// Required is true when the "required" cell of the parameter table
	// has any text at all, the text itself is never inspected.
	Required    bool   `json:"required"`
	Description string `json:"description"`
}

// Params maps parameter names to their specs, remembering the order the
// names were first seen in. It encodes to a JSON object in that order.
type Params struct {
	names []string
	specs map[string]ParamSpec
}

// Set stores spec under name, a name that is already present keeps its
// position and has its spec replaced.
func (p *Params) Set(name string, spec ParamSpec) {
	if p.specs == nil {
		p.specs = map[string]ParamSpec{}
	}
	if _, exists := p.specs[name]; !exists {
		p.names = append(p.names, name)
	}
	p.specs[name] = spec
}

func (p Params) Get(name string) (ParamSpec, bool) {
	spec, ok := p.specs[name]
	return spec, ok
}

func (p Params) Names() []string {
	return append([]string(nil), p.names...)
}

func (p Params) Len() int {
	return len(p.names)
}

func (p Params) Equal(other Params) bool {
	if len(p.names) != len(other.names) {
		return false
	}
	for i, name := range p.names {
		if other.names[i] != name || other.specs[name] != p.specs[name] {
			return false
		}
	}
	return true
}

func (p Params) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range p.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshal(name)
		if err != nil {
			return nil, err
		}
		value, err := marshal(p.specs[name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (p *Params) UnmarshalJSON(data []byte) error {
	*p = Params{}
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("params: expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("params: expected key, got %v", tok)
		}
		var spec ParamSpec
		err = dec.Decode(&spec)
		if err != nil {
			return fmt.Errorf("params: %s: %w", name, err)
		}
		p.Set(name, spec)
	}
	_, err = dec.Token()
	return err
}

// Endpoint is one documented HTTP operation of the Web API.
type Endpoint struct {
	Method string `json:"method"`
	Url    string `json:"url"`
	Name   string `json:"name"`
	Params Params `json:"params"`
}

// String renders the endpoint as compact JSON.
func (e Endpoint) String() string {
	out, err := marshal(e)
	if err != nil {
		return fmt.Sprintf("%s %s (%s)", e.Method, e.Url, e.Name)
	}
	return string(out)
}
