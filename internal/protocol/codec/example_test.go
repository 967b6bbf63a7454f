package codec_test

import (
	"fmt"

	"github.com/danmuck/binfmt/internal/protocol/codec"
	"github.com/danmuck/binfmt/internal/protocol/format"
)

func ExampleDecode() {
	f := format.New("greeting").Byte("flag").UShort("count").VarString("name", format.PrefixByte)

	rec, err := codec.Decode([]byte{0x01, 0x00, 0x05, 0x05, 'H', 'e', 'l', 'l', 'o'}, f, false)
	if err != nil {
		panic(err)
	}
	for _, k := range rec.Keys() {
		v, _ := rec.Get(k)
		fmt.Printf("%s=%v\n", k, v)
	}
	// Output:
	// flag=1
	// count=5
	// name=Hello
}

func ExampleEncode() {
	f := format.New("padded-id").Pad().UInt("id")

	out, err := codec.Encode(codec.NewRecord().Set("id", 42), f, true)
	if err != nil {
		panic(err)
	}
	fmt.Printf("% x\n", out)
	// Output: 00 2a 00 00 00
}
