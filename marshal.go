package vecell

import (
	"fmt"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// MarshalJSON encodes the cell as a JSON array.
func (v *VecCell[T]) MarshalJSON() ([]byte, error) {
	v.observe()
	if v.buf == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(v.buf)
}

// UnmarshalJSON replaces the contents with a decoded JSON array. The cell is
// left untouched when decoding fails.
func (v *VecCell[T]) UnmarshalJSON(data []byte) error {
	var s []T
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("vecell: json unmarshal: %w", err)
	}
	v.replace(s)
	return nil
}

// MarshalYAML encodes the cell as a YAML sequence.
func (v *VecCell[T]) MarshalYAML() (any, error) {
	v.observe()
	if v.buf == nil {
		return []T{}, nil
	}
	return v.buf, nil
}

// UnmarshalYAML replaces the contents with a decoded YAML sequence. The cell
// is left untouched when decoding fails.
func (v *VecCell[T]) UnmarshalYAML(node *yaml.Node) error {
	var s []T
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("vecell: yaml unmarshal: %w", err)
	}
	v.replace(s)
	return nil
}

func (v *VecCell[T]) replace(s []T) {
	v.borrow()
	defer v.release()
	v.buf = s
}
