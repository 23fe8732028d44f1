package textenc

import (
	"errors"
	"slices"
	"testing"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
)

func gbkBytes(t *testing.T, s string) []byte {
	t.Helper()
	out, err := simplifiedchinese.GBK.NewEncoder().String(s)
	if err != nil {
		t.Fatalf("encode gbk: %v", err)
	}
	if utf8.ValidString(out) {
		t.Fatalf("fixture %q unexpectedly valid utf-8", s)
	}
	return []byte(out)
}

func TestChainDecode(t *testing.T) {
	chain, err := NewChain("gbk")
	if err != nil {
		t.Fatalf("NewChain() error = %v", err)
	}

	tests := []struct {
		name     string
		input    []byte
		want     string
		wantUsed string
		wantErr  bool
	}{
		{
			name:     "empty",
			input:    []byte{},
			want:     "",
			wantUsed: "utf-8",
		},
		{
			name:     "ascii",
			input:    []byte("class Foo {};"),
			want:     "class Foo {};",
			wantUsed: "utf-8",
		},
		{
			name:     "utf-8 chinese",
			input:    []byte("// 日志记录"),
			want:     "// 日志记录",
			wantUsed: "utf-8",
		},
		{
			name:     "gbk fallback",
			input:    gbkBytes(t, "// 版权所有"),
			want:     "// 版权所有",
			wantUsed: "gbk",
		},
		{
			name:    "undecodable",
			input:   []byte{'a', 0xff, 0xff, 'b'},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, used, err := chain.Decode(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUndecodable) {
					t.Fatalf("Decode() error = %v, want ErrUndecodable", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Decode() = %q, want %q", got, tt.want)
			}
			if used != tt.wantUsed {
				t.Errorf("Decode() used %q, want %q", used, tt.wantUsed)
			}
		})
	}
}

func TestUTF8OnlyChainRejectsLegacyBytes(t *testing.T) {
	chain := NewChainOf(UTF8)
	if _, _, err := chain.Decode(gbkBytes(t, "版权")); !errors.Is(err, ErrUndecodable) {
		t.Errorf("Decode() error = %v, want ErrUndecodable", err)
	}
}

func TestNewChainUnknownEncoding(t *testing.T) {
	if _, err := NewChain("ebcdic"); err == nil {
		t.Error("NewChain() expected error for unknown encoding")
	}
}

func TestChainNames(t *testing.T) {
	chain, err := NewChain("GBK", " latin1 ")
	if err != nil {
		t.Fatalf("NewChain() error = %v", err)
	}
	want := []string{"utf-8", "gbk", "latin1"}
	if got := chain.Names(); !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestLatin1AcceptsAnyByte(t *testing.T) {
	chain, err := NewChain("latin1")
	if err != nil {
		t.Fatal(err)
	}
	got, used, err := chain.Decode([]byte{'c', 0xe9})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if used != "latin1" || got != "cé" {
		t.Errorf("Decode() = %q via %q, want %q via latin1", got, used, "cé")
	}
}

func TestKnown(t *testing.T) {
	want := []string{"gb18030", "gbk", "latin1"}
	if got := Known(); !slices.Equal(got, want) {
		t.Errorf("Known() = %v, want %v", got, want)
	}
}
