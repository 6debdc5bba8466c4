package payload

import "testing"

func TestPercentEncode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"abcXYZ019-_.~", "abcXYZ019-_.~"},
		{"hello world", "hello%20world"},
		{"a&b=c?d/e:f", "a%26b%3Dc%3Fd%2Fe%3Af"},
		{"100%", "100%25"},
		{"a+b", "a%2Bb"},
		{"a b+c", "a%20b%2Bc"},
		{"!'()*,;@[] \n", "%21%27%28%29%2A%2C%3B%40%5B%5D%20%0A"},
		{"é", "%C3%A9"},
		{"✓", "%E2%9C%93"},
	}
	for _, tc := range cases {
		if got := PercentEncode(tc.in); got != tc.want {
			t.Fatalf("PercentEncode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
