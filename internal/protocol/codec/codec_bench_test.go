package codec

import (
	"testing"

	"github.com/danmuck/binfmt/internal/protocol/format"
)

func BenchmarkDecode(b *testing.B) {
	f := everyKindFormat()
	buf, err := Encode(everyKindRecord(), f, false)
	if err != nil {
		b.Fatal(err)
	}
	c := New(false)
	b.SetBytes(int64(len(buf)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Decode(buf, f); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEncode(b *testing.B) {
	f := everyKindFormat()
	rec := everyKindRecord()
	c := New(true)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Encode(rec, f); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecodeParallel(b *testing.B) {
	f := format.New("header").UInt("magic").UShort("version").ULong("id").VarString("name", format.PrefixByte)
	buf, err := Encode(NewRecord().Set("magic", 1).Set("version", 2).Set("id", 3).Set("name", "node-1"), f, false)
	if err != nil {
		b.Fatal(err)
	}
	c := New(false)
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := c.Decode(buf, f); err != nil {
				b.Fatal(err)
			}
		}
	})
}
