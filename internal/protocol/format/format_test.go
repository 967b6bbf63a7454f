package format

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderAppendsInOrder(t *testing.T) {
	f := New("all")
	same := f.Byte("a").Short("b").UShort("c").Int("d").UInt("e").Long("g").ULong("h").
		Float("i").Fixed("j", 4).VarString("k").VarString("l", PrefixByte).Binary("m", 2).Pad().Null()
	require.Same(t, f, same)

	want := []Spec{
		{Name: "a", Kind: KindByte},
		{Name: "b", Kind: KindShort},
		{Name: "c", Kind: KindUShort},
		{Name: "d", Kind: KindInt},
		{Name: "e", Kind: KindUInt},
		{Name: "g", Kind: KindLong},
		{Name: "h", Kind: KindULong},
		{Name: "i", Kind: KindFloat},
		{Name: "j", Kind: KindFixedChars, Size: 4},
		{Name: "k", Kind: KindVarString},
		{Name: "l", Kind: KindVarString, Prefix: PrefixByte},
		{Name: "m", Kind: KindBinary, Size: 2},
		{Kind: KindPadding},
		{Kind: KindPadding},
	}
	assert.Equal(t, want, f.Fields())
	assert.Equal(t, len(want), f.Len())
	assert.Equal(t, "all", f.Name())
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "g", "h", "i", "j", "k", "l", "m"}, f.Names())
}

func TestFieldsReturnsCopy(t *testing.T) {
	f := New("copy").Byte("a")
	specs := f.Fields()
	specs[0].Name = "changed"
	assert.Equal(t, "a", f.At(0).Name)

	g := FromSpecs("from", specs)
	specs[0].Name = "again"
	assert.Equal(t, "changed", g.At(0).Name)
}

func TestMinSize(t *testing.T) {
	f := New("min").Byte("a").Short("b").Int("c").Long("d").Float("e").
		Fixed("f", 3).Fixed("neg", -2).Binary("g", 5).VarString("h", PrefixUShort).VarString("i").Pad()
	assert.Equal(t, 1+2+4+8+8+3+0+5+2+8+1, f.MinSize())

	var nilFormat *Format
	assert.Zero(t, nilFormat.MinSize())
	assert.Zero(t, nilFormat.Len())
}

func TestMinSizeSaturates(t *testing.T) {
	f := New("wide").Fixed("a", math.MaxInt).Fixed("b", math.MaxInt)
	assert.Equal(t, math.MaxInt, f.MinSize())

	g := New("wide").Byte("a").Binary("b", math.MaxInt).VarString("c")
	assert.Equal(t, math.MaxInt, g.MinSize())
}

func TestBuilderAcceptsBadSizes(t *testing.T) {
	f := New("lazy").Binary("b", -1).Fixed("f", -1)
	assert.Equal(t, 2, f.Len())

	err := f.Validate()
	var se *SpecError
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.Equal(t, 0, se.Index)
	assert.ErrorIs(t, err, ErrBadSize)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		spec Spec
		want error
	}{
		{"ok byte", Spec{Name: "a", Kind: KindByte}, nil},
		{"ok pad", Spec{Kind: KindPadding}, nil},
		{"ok zero fixed", Spec{Name: "a", Kind: KindFixedChars}, nil},
		{"empty name", Spec{Kind: KindUInt}, ErrEmptyName},
		{"invalid kind", Spec{Name: "a"}, ErrBadKind},
		{"zero binary", Spec{Name: "a", Kind: KindBinary}, ErrBadSize},
		{"bad prefix", Spec{Name: "a", Kind: KindVarString, Prefix: 9}, ErrBadPrefix},
		{"stray size", Spec{Name: "a", Kind: KindInt, Size: 4}, ErrUnexpectedArg},
		{"stray prefix", Spec{Name: "a", Kind: KindBinary, Size: 1, Prefix: PrefixByte}, ErrUnexpectedArg},
	}
	for _, tc := range cases {
		err := FromSpecs("v", []Spec{tc.spec}).Validate()
		if tc.want == nil {
			if err != nil {
				t.Fatalf("%s: unexpected error %v", tc.name, err)
			}
			continue
		}
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestKinds(t *testing.T) {
	kinds := Kinds()
	require.Len(t, kinds, 12)
	assert.Equal(t, KindByte, kinds[0])
	assert.Equal(t, KindPadding, kinds[len(kinds)-1])
	for _, k := range kinds {
		assert.True(t, k.Valid(), k.String())
	}
	assert.False(t, KindInvalid.Valid())
	assert.Equal(t, "kind(99)", Kind(99).String())
}

func TestPrefix(t *testing.T) {
	assert.Equal(t, PrefixULong, PrefixDefault.Resolve())
	assert.Equal(t, 8, PrefixDefault.Width())
	assert.Equal(t, 1, PrefixByte.Width())
	assert.Equal(t, uint64(0xFFFF), PrefixUShort.Max())
	assert.Equal(t, 0, SizePrefix(9).Width())
}

func TestSpecString(t *testing.T) {
	assert.Equal(t, "pad", Spec{Kind: KindPadding}.String())
	assert.Equal(t, "fixed code[4]", Spec{Name: "code", Kind: KindFixedChars, Size: 4}.String())
	assert.Equal(t, "string name<ulong>", Spec{Name: "name", Kind: KindVarString}.String())
	assert.Equal(t, "ushort count", Spec{Name: "count", Kind: KindUShort}.String())
}
