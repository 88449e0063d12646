package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueAccessors(t *testing.T) {
	t.Run("absent reads as zero values", func(t *testing.T) {
		v := Absent
		assert.False(t, v.IsSet())
		assert.False(t, v.Bool())
		assert.Zero(t, v.Number())
		assert.Empty(t, v.Str())
		assert.Nil(t, v.Any())
		assert.True(t, v.Is(nil))
		assert.False(t, v.Is(false))
	})

	t.Run("numbers compare across go types", func(t *testing.T) {
		v := Int(7)
		assert.True(t, v.Is(7))
		assert.True(t, v.Is(7.0))
		assert.True(t, v.Is(int64(7)))
		assert.False(t, v.Is("7"))
		assert.Equal(t, 7, v.Int())
	})

	t.Run("strings and bools", func(t *testing.T) {
		assert.True(t, String("home").Is("home"))
		assert.False(t, String("home").Is("salon"))
		assert.True(t, Bool(true).Bool())
		assert.Equal(t, "true", Bool(true).String())
		assert.Equal(t, "2.5", Number(2.5).String())
	})

	t.Run("unsupported values never match", func(t *testing.T) {
		assert.False(t, String("x").Is([]string{"x"}))
	})
}

func TestValueOf(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Value
	}{
		{name: "nil", in: nil, want: Absent},
		{name: "bool", in: true, want: Bool(true)},
		{name: "int", in: 3, want: Int(3)},
		{name: "uint8", in: uint8(3), want: Int(3)},
		{name: "float", in: 1.5, want: Number(1.5)},
		{name: "string", in: "home", want: String("home")},
		{name: "value passthrough", in: String("x"), want: String("x")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValueOf(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("rejects maps", func(t *testing.T) {
		_, err := ValueOf(map[string]any{"a": 1})
		require.Error(t, err)
	})
}

func TestActorProperties(t *testing.T) {
	a := NewActor("Chris", "person")

	assert.False(t, a.Get("sleepiness").IsSet(), "unset property must read as absent")
	assert.Zero(t, a.Get("sleepiness").Int())

	a.SetInt("sleepiness", 3)
	a.SetString("location", "home")
	a.SetBool("sick", false)
	assert.Equal(t, 3, a.Get("sleepiness").Int())
	assert.True(t, a.Get("location").Is("home"))
	assert.True(t, a.Get("sick").IsSet())
	assert.Equal(t, []string{"location", "sick", "sleepiness"}, a.PropertyNames())

	a.Set("location", Absent)
	assert.False(t, a.Get("location").IsSet())
	a.Unset("sick")
	assert.Equal(t, []string{"sleepiness"}, a.PropertyNames())
}

func TestNewActorWith(t *testing.T) {
	a, err := NewActorWith("William", []string{"person", "sheriff"}, map[string]any{"sick": false, "age": 40})
	require.NoError(t, err)
	assert.True(t, a.HasTag("sheriff"))
	assert.False(t, a.HasTag("item"))
	assert.Equal(t, 40, a.Get("age").Int())
	assert.Equal(t, "William", a.String())

	_, err = NewActorWith("Bad", nil, map[string]any{"list": []int{1}})
	require.Error(t, err)
}

func TestActorTagsAreCopied(t *testing.T) {
	tags := []string{"person"}
	a := NewActor("Hank", tags...)
	tags[0] = "item"
	assert.True(t, a.HasTag("person"))

	got := a.Tags()
	got[0] = "room"
	assert.True(t, a.HasTag("person"))
}
