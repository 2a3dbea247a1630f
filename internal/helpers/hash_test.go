package helpers

import "testing"

func TestHashStringIsDeterministic(t *testing.T) {
	inputs := []string{"", "other", "react", "./a/b/c", "default", "*"}
	for _, input := range inputs {
		first := HashString(input)
		for i := 0; i < 10; i++ {
			if again := HashString(input); again != first {
				t.Fatalf("HashString(%q) = %x, then %x", input, first, again)
			}
		}
	}
}

func TestHashStringSpreads(t *testing.T) {
	seen := map[uint64]string{}
	inputs := []string{"a", "b", "ab", "ba", "foo", "foo ", " foo", "exports", "module"}
	for _, input := range inputs {
		hash := HashString(input)
		if prev, ok := seen[hash]; ok {
			t.Fatalf("collision between %q and %q", prev, input)
		}
		seen[hash] = input
	}
}
