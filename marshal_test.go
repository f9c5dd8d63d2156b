package vecell

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type document struct {
	Name  string          `json:"name" yaml:"name"`
	Items *VecCell[int64] `json:"items" yaml:"items"`
}

func TestJSON(t *testing.T) {
	data, err := json.Marshal(New[int]())
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))

	doc := document{Name: "a", Items: Of[int64](3, 1, 2)}
	data, err = json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"a","items":[3,1,2]}`, string(data))

	var back document
	require.NoError(t, json.Unmarshal(data, &back))
	require.NotNil(t, back.Items)
	assert.Equal(t, []int64{3, 1, 2}, back.Items.UnsafeView())

	v := Of[int64](7)
	err = v.UnmarshalJSON([]byte(`{"not":"a list"}`))
	require.Error(t, err)
	assert.Equal(t, []int64{7}, v.UnsafeView())
}

func TestYAML(t *testing.T) {
	doc := document{Name: "b", Items: Of[int64](5, 6)}
	data, err := yaml.Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t, "name: b\nitems:\n    - 5\n    - 6\n", string(data))

	var back document
	require.NoError(t, yaml.Unmarshal(data, &back))
	require.NotNil(t, back.Items)
	assert.Equal(t, []int64{5, 6}, back.Items.UnsafeView())

	v := Of[int64](1)
	err = yaml.Unmarshal([]byte("items: {a: b}\n"), &struct {
		Items *VecCell[int64] `yaml:"items"`
	}{Items: v})
	require.Error(t, err)
	assert.Equal(t, []int64{1}, v.UnsafeView())
}
